package chart

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/dbsmedya/seqqc/internal/metrics"
	"github.com/dbsmedya/seqqc/internal/qc"
)

// ReasonColors maps each removal reason to its wedge color. Colors are looked
// up by reason so a missing reason never shifts the others.
var ReasonColors = map[qc.Reason]color.Color{
	qc.ReasonAmbiguous: color.RGBA{R: 0xff, G: 0xa5, B: 0x00, A: 0xff}, // orange
	qc.ReasonShort:     color.RGBA{R: 0xff, G: 0xc0, B: 0xcb, A: 0xff}, // pink
	qc.ReasonDuplicate: color.RGBA{R: 0x00, G: 0x00, B: 0xff, A: 0xff}, // blue
}

var fallbackColor = color.Gray{Y: 0x80}

// ReasonColor returns the wedge color for r.
func ReasonColor(r qc.Reason) color.Color {
	if c, ok := ReasonColors[r]; ok {
		return c
	}
	return fallbackColor
}

// RemovalPie plots the share of each removal reason. Wedges start at 12
// o'clock and run counter-clockwise; the legend carries the percentages.
func RemovalPie(counts []metrics.ReasonCount) (*plot.Plot, error) {
	pie := newPieChart(counts)
	if len(pie.wedges) == 0 {
		return nil, fmt.Errorf("no removals to plot")
	}

	p := plot.New()
	p.Title.Text = "Reason for sequence removal"
	p.HideAxes()
	for _, w := range pie.wedges {
		p.Legend.Add(w.label, w)
	}
	p.Legend.Top = true
	p.Add(pie)
	return p, nil
}

type wedge struct {
	label string
	share float64
	color color.Color
}

// Thumbnail implements plot.Thumbnailer for the legend.
func (w wedge) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(w.color, pts)
}

type pieChart struct {
	wedges []wedge
}

func newPieChart(counts []metrics.ReasonCount) *pieChart {
	total := 0
	for _, rc := range counts {
		total += rc.Count
	}

	pie := &pieChart{}
	if total == 0 {
		return pie
	}
	for _, rc := range counts {
		if rc.Count == 0 {
			continue
		}
		share := float64(rc.Count) / float64(total)
		pie.wedges = append(pie.wedges, wedge{
			label: fmt.Sprintf("%s (%.1f%%)", rc.Reason, share*100),
			share: share,
			color: ReasonColor(rc.Reason),
		})
	}
	return pie
}

// Plot implements plot.Plotter.
func (pc *pieChart) Plot(c draw.Canvas, _ *plot.Plot) {
	center := c.Center()
	radius := c.Max.X - c.Min.X
	if h := c.Max.Y - c.Min.Y; h < radius {
		radius = h
	}
	radius = radius / 2 * 0.9

	start := math.Pi / 2
	for _, w := range pc.wedges {
		sweep := w.share * 2 * math.Pi
		var path vg.Path
		path.Move(center)
		path.Arc(center, radius, start, sweep)
		path.Close()

		c.SetColor(w.color)
		c.Fill(path)
		start += sweep
	}
}
