// Package runner drives one QC run end to end: read, filter, summarize, and
// write every artifact into the output directory.
package runner

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/plot"

	"github.com/dbsmedya/seqqc/internal/chart"
	"github.com/dbsmedya/seqqc/internal/config"
	"github.com/dbsmedya/seqqc/internal/logger"
	"github.com/dbsmedya/seqqc/internal/metrics"
	"github.com/dbsmedya/seqqc/internal/qc"
	"github.com/dbsmedya/seqqc/internal/report"
	"github.com/dbsmedya/seqqc/internal/table"
)

// Outcome contains the results and statistics of a finished run.
type Outcome struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Result    *qc.Result
	Summary   *metrics.Summary
	Files     []string // final paths of every artifact written
	Skipped   []string // artifacts that were not rendered, with the reason
}

// Runner executes the QC pipeline for a validated configuration.
type Runner struct {
	config *config.Config
	logger *logger.Logger
	runID  string
}

// New creates a Runner. The configuration must already have passed Validate.
func New(cfg *config.Config, log *logger.Logger) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if cfg.Filter.MinLength == nil {
		return nil, fmt.Errorf("min_length is not set")
	}
	if log == nil {
		log = logger.NewDefault()
	}

	runID := uuid.NewString()
	return &Runner{
		config: cfg,
		logger: log.WithRun(runID),
		runID:  runID,
	}, nil
}

// RunID returns the identifier attached to every log line of this run.
func (r *Runner) RunID() string {
	return r.runID
}

// Check reads the input and runs the filters without writing anything.
// It is what the validate command uses to surface column and data errors.
func (r *Runner) Check() (*qc.Result, error) {
	t, err := r.read()
	if err != nil {
		return nil, err
	}
	return r.filter(t)
}

// Execute performs the run. Outputs are staged and moved into the output
// directory only when every artifact was written; on error nothing is left
// behind.
func (r *Runner) Execute() (out *Outcome, err error) {
	out = &Outcome{
		RunID:     r.runID,
		StartedAt: time.Now(),
	}

	r.logger.Infow("Starting QC run",
		"input", r.config.Input.Path,
		"sequence_column", r.config.Input.SequenceColumn,
		"length_column", r.config.Input.LengthColumn,
		"min_length", r.config.MinLengthValue(),
		"output_dir", r.config.Output.Dir,
	)

	t, err := r.read()
	if err != nil {
		return nil, err
	}

	res, err := r.filter(t)
	if err != nil {
		return nil, err
	}
	out.Result = res
	out.Summary = metrics.Summarize(res)
	r.warnUndefinedGC(out.Summary.GC)

	st, err := report.NewStaging(r.config.Output.Dir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if derr := st.Discard(); derr != nil {
				r.logger.Warnw("Failed to clean staging directory", "error", derr)
			}
		}
	}()

	if err = r.writeReports(st, out); err != nil {
		return nil, err
	}
	if r.config.Output.Charts {
		err = r.writeCharts(st, out)
	} else {
		for _, name := range chartFiles {
			if err = skip(st, out, name, "charts disabled"); err != nil {
				break
			}
		}
	}
	if err != nil {
		return nil, err
	}
	if r.config.Output.FastaPath != "" {
		var path string
		if path, err = st.Path(r.config.Output.FastaPath); err != nil {
			return nil, err
		}
		if err = report.WriteFASTA(path, res.Kept); err != nil {
			return nil, err
		}
	}

	if err = st.Commit(); err != nil {
		return nil, err
	}
	out.Files = st.Files()
	out.Duration = time.Since(out.StartedAt)

	r.logger.Infow("QC run completed",
		"original_rows", res.Original,
		"kept_rows", res.Kept.Len(),
		"removed_rows", res.RemovedCount(),
		"files", len(out.Files),
		"duration", out.Duration,
	)
	return out, nil
}

func (r *Runner) read() (table.Table, error) {
	t, err := table.Read(r.config.Input.Path, table.ReadOptions{
		SequenceColumn: r.config.Input.SequenceColumn,
		LengthColumn:   r.config.Input.LengthColumn,
	})
	if err != nil {
		return table.Table{}, err
	}
	r.logger.Debugw("Input loaded", "rows", t.Len(), "columns", len(t.Header))
	return t, nil
}

func (r *Runner) filter(t table.Table) (*qc.Result, error) {
	res, err := qc.Run(t, r.config.MinLengthValue(), qc.WithObserver(func(s qc.Stage, p qc.Partition) {
		r.logger.WithStage(string(s.Reason)).Infow("Filter applied",
			"kept", p.Kept.Len(),
			"removed", p.Removed.Len(),
		)
	}))
	if err != nil {
		return nil, fmt.Errorf("pipeline failed: %w", err)
	}
	return res, nil
}

// warnUndefinedGC reports kept sequences whose GC content has no value.
// Only empty sequences produce it and the reader rejects those, so this is
// a guard for tables built elsewhere.
func (r *Runner) warnUndefinedGC(gc []float64) {
	n := 0
	for _, v := range gc {
		if math.IsNaN(v) {
			n++
		}
	}
	if n > 0 {
		r.logger.Warnw("GC percentage is undefined for zero-length sequences", "records", n)
	}
}

func (r *Runner) writeReports(st *report.Staging, out *Outcome) error {
	rows := metrics.RemovalReport(out.Result.Batches)
	err := st.WriteFile(report.RemovalReportFile, func(f *os.File) error {
		return report.WriteRemovalReport(f, r.config.Input.SequenceColumn, r.config.Input.LengthColumn, rows)
	})
	if err != nil {
		return err
	}

	return st.WriteFile(report.MetricsReportFile, func(f *os.File) error {
		return report.WriteMetricsReport(f, out.Summary)
	})
}

// chartFiles lists every chart a run can produce.
var chartFiles = []string{chart.LengthHistogramFile, chart.GCHistogramFile, chart.RemovalPieFile}

func (r *Runner) writeCharts(st *report.Staging, out *Outcome) error {
	dpi := r.config.Output.DPI
	log := r.logger.WithFields(map[string]interface{}{
		"stage": "charts",
		"dpi":   dpi,
	})

	if out.Result.Kept.Len() == 0 {
		log.Warnw("No sequences retained, skipping histograms")
		for _, name := range []string{chart.LengthHistogramFile, chart.GCHistogramFile} {
			if err := skip(st, out, name, "no retained sequences"); err != nil {
				return err
			}
		}
	} else {
		p, err := chart.LengthHistogram(out.Result.Kept.Lengths())
		if err != nil {
			return fmt.Errorf("failed to build %s: %w", chart.LengthHistogramFile, err)
		}
		if err := saveChart(st, chart.LengthHistogramFile, p, dpi); err != nil {
			return err
		}

		p, err = chart.GCHistogram(out.Summary.GC)
		if err != nil {
			return fmt.Errorf("failed to build %s: %w", chart.GCHistogramFile, err)
		}
		if err := saveChart(st, chart.GCHistogramFile, p, dpi); err != nil {
			return err
		}
	}

	if out.Summary.Removed == 0 {
		log.Warnw("No sequences removed, skipping removal chart")
		return skip(st, out, chart.RemovalPieFile, "no removals")
	}
	p, err := chart.RemovalPie(out.Summary.Reasons)
	if err != nil {
		return fmt.Errorf("failed to build %s: %w", chart.RemovalPieFile, err)
	}
	if err := saveChart(st, chart.RemovalPieFile, p, dpi); err != nil {
		return err
	}

	log.Debugw("Charts rendered")
	return nil
}

func saveChart(st *report.Staging, name string, p *plot.Plot, dpi int) error {
	path, err := st.Path(name)
	if err != nil {
		return err
	}
	return chart.Save(p, path, dpi)
}

// skip records an artifact this run does not produce, so a stale copy from
// an earlier run into the same directory is removed on commit.
func skip(st *report.Staging, out *Outcome, name, why string) error {
	if err := st.Skip(name); err != nil {
		return err
	}
	out.Skipped = append(out.Skipped, name+": "+why)
	return nil
}
