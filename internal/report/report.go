// Package report writes the QC audit and metrics reports.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/dbsmedya/seqqc/internal/metrics"
)

// Fixed report file names.
const (
	RemovalReportFile = "QC_removal_report.tsv"
	MetricsReportFile = "QC_metrics_report.csv"
)

// ReasonHeader is the removal report column holding the removal reason.
const ReasonHeader = "reason_removed"

// WriteRemovalReport writes the removal audit table as TSV. The first two
// columns are named after the input's sequence and length columns.
func WriteRemovalReport(w io.Writer, sequenceColumn, lengthColumn string, rows []metrics.RemovalRow) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write([]string{sequenceColumn, lengthColumn, ReasonHeader}); err != nil {
		return fmt.Errorf("failed to write removal report header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Sequence, strconv.Itoa(r.Length), string(r.Reason)}); err != nil {
			return fmt.Errorf("failed to write removal report row %d: %w", r.Row, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteMetricsReport writes the metric/value table as CSV.
func WriteMetricsReport(w io.Writer, s *metrics.Summary) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"metric", "value"}); err != nil {
		return fmt.Errorf("failed to write metrics report header: %w", err)
	}
	for _, e := range s.Entries() {
		if err := cw.Write([]string{e.Metric, FormatValue(e.Value)}); err != nil {
			return fmt.Errorf("failed to write metric %s: %w", e.Metric, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// FormatValue renders a metric value. NaN is written as "NaN" so undefined
// statistics stay visible; integral values carry no decimal point.
func FormatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case v == math.Trunc(v) && math.Abs(v) < 1e15:
		return strconv.FormatInt(int64(v), 10)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}
