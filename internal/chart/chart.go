// Package chart renders the QC diagnostic charts.
package chart

import (
	"fmt"
	"image/color"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Fixed chart file names.
const (
	LengthHistogramFile = "Sequence_length_distribution.png"
	GCHistogramFile     = "gc_base_proportion.png"
	RemovalPieFile      = "Sequence_removal_reason.png"
)

const (
	width  = 6.4 * vg.Inch
	height = 4.8 * vg.Inch
)

var (
	green = color.RGBA{R: 0x00, G: 0x80, B: 0x00, A: 0xff}
	blue  = color.RGBA{R: 0x00, G: 0x00, B: 0xff, A: 0xff}
)

// Bins returns the histogram bin count for n values: floor(sqrt(n)).
func Bins(n int) int {
	return int(math.Sqrt(float64(n)))
}

// LengthHistogram plots the distribution of sequence lengths.
func LengthHistogram(lengths []float64) (*plot.Plot, error) {
	h, err := histogram(lengths, green)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = "Distribution of sequence lengths"
	p.X.Label.Text = "Sequence length"
	p.Y.Label.Text = "Frequency"
	p.Add(h)
	return p, nil
}

// GCHistogram plots the distribution of GC content with a kernel density
// estimate scaled to the histogram counts.
func GCHistogram(gc []float64) (*plot.Plot, error) {
	h, err := histogram(gc, blue)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = "Proportion of G & C bases in the sequences"
	p.X.Label.Text = "Percentage"
	p.Y.Label.Text = "Number of sequences"
	p.Add(h)

	if kde := density(finite(gc), h.Width); kde != nil {
		kde.LineStyle.Color = blue
		kde.LineStyle.Width = vg.Points(1.5)
		p.Add(kde)
	}
	return p, nil
}

func histogram(values []float64, fill color.Color) (*plotter.Histogram, error) {
	values = finite(values)
	if len(values) == 0 {
		return nil, fmt.Errorf("no values to plot")
	}
	h, err := plotter.NewHist(plotter.Values(values), Bins(len(values)))
	if err != nil {
		return nil, fmt.Errorf("failed to bin values: %w", err)
	}
	h.FillColor = fill
	return h, nil
}

// density returns a Gaussian KDE with Scott's bandwidth, scaled so its area
// matches a histogram of the same values with the given bin width. It returns
// nil when the bandwidth is degenerate (fewer than two distinct values).
func density(values []float64, binWidth float64) *plotter.Function {
	n := float64(len(values))
	if len(values) < 2 {
		return nil
	}
	bw := stat.StdDev(values, nil) * math.Pow(n, -0.2)
	if bw == 0 || math.IsNaN(bw) {
		return nil
	}

	kernels := make([]distuv.Normal, len(values))
	for i, v := range values {
		kernels[i] = distuv.Normal{Mu: v, Sigma: bw}
	}
	scale := binWidth

	f := plotter.NewFunction(func(x float64) float64 {
		sum := 0.0
		for _, k := range kernels {
			sum += k.Prob(x)
		}
		return sum * scale
	})
	f.XMin = floats.Min(values) - 3*bw
	f.XMax = floats.Max(values) + 3*bw
	f.Samples = 200
	return f
}

// finite drops NaN and infinite values, which have no place on an axis.
func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// Save renders p as a PNG at the given resolution.
func Save(p *plot.Plot, path string, dpi int) error {
	c := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(dpi))
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
