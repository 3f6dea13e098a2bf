package metrics

import (
	"sort"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/seqqc/internal/qc"
)

// Metric names that do not depend on a column.
const (
	MetricRemovedRows  = "removed_rows"
	MetricFractionRows = "fraction_rows"
)

// RemovalRow is one line of the removal audit report.
type RemovalRow struct {
	Row      int // original row index
	Sequence string
	Length   int
	Reason   qc.Reason
}

// RemovalReport flattens the removal batches into audit rows, ambiguous batch
// first, then length, then duplicate, each batch in table order.
func RemovalReport(batches []qc.Partition) []RemovalRow {
	var rows []RemovalRow
	for _, b := range batches {
		for _, r := range b.Removed.Records {
			rows = append(rows, RemovalRow{
				Row:      r.Row,
				Sequence: r.Sequence,
				Length:   r.Length,
				Reason:   b.Reason,
			})
		}
	}
	return rows
}

// ReasonCount is the number of rows removed for one reason.
type ReasonCount struct {
	Reason qc.Reason
	Count  int
}

// CountReasons returns the reasons that removed at least one row, sorted by
// count descending with ties left in filter execution order.
func CountReasons(batches []qc.Partition) []ReasonCount {
	totals := make(map[qc.Reason]int)
	var order []qc.Reason
	for _, b := range batches {
		if b.Removed.Len() == 0 {
			continue
		}
		if _, ok := totals[b.Reason]; !ok {
			order = append(order, b.Reason)
		}
		totals[b.Reason] += b.Removed.Len()
	}

	counts := make([]ReasonCount, 0, len(order))
	for _, r := range order {
		counts = append(counts, ReasonCount{Reason: r, Count: totals[r]})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return rank(counts[i].Reason) < rank(counts[j].Reason)
	})
	return counts
}

// rank orders reasons by filter execution order. Reasons outside the fixed
// pipeline rank after it and keep the order their batches arrived in.
func rank(r qc.Reason) int {
	if i := r.Order(); i >= 0 {
		return i
	}
	return len(qc.Reasons)
}

// Entry is one row of the metrics report.
type Entry struct {
	Metric string
	Value  float64
}

// Summary is the metrics report for a finished run.
type Summary struct {
	Columns  []ColumnStats
	Original int
	Removed  int
	Fraction float64 // percentage of original rows removed
	Reasons  []ReasonCount
	GC       []float64 // GC percentage per kept record, in table order

	entries *orderedmap.OrderedMap[string, float64]
}

// Summarize builds the metrics report from a pipeline result. GC content is
// derived here, from the final kept table only.
func Summarize(res *qc.Result) *Summary {
	gc := AnnotateGC(res.Kept)

	s := &Summary{
		Columns: []ColumnStats{
			Describe(res.Kept.LengthColumn, res.Kept.Lengths()),
			Describe(GCColumn, gc),
		},
		Original: res.Original,
		Removed:  res.RemovedCount(),
		Reasons:  CountReasons(res.Batches),
		GC:       gc,
		entries:  orderedmap.NewOrderedMap[string, float64](),
	}
	if s.Original > 0 {
		s.Fraction = float64(s.Removed) / float64(s.Original) * 100
	}

	for _, cs := range s.Columns {
		s.entries.Set("min_"+cs.Column, cs.Min)
		s.entries.Set("max_"+cs.Column, cs.Max)
		s.entries.Set("mean_"+cs.Column, cs.Mean)
		s.entries.Set("median_"+cs.Column, cs.Median)
		s.entries.Set("std_"+cs.Column, cs.Std)
	}
	s.entries.Set(MetricRemovedRows, float64(s.Removed))
	s.entries.Set(MetricFractionRows, s.Fraction)
	for _, rc := range s.Reasons {
		s.entries.Set(ReasonMetric(rc.Reason), float64(rc.Count))
	}

	return s
}

// ReasonMetric returns the metric name carrying the count for reason.
func ReasonMetric(reason qc.Reason) string {
	return "removed_" + string(reason)
}

// Entries returns the report rows in order.
func (s *Summary) Entries() []Entry {
	entries := make([]Entry, 0, s.entries.Len())
	for el := s.entries.Front(); el != nil; el = el.Next() {
		entries = append(entries, Entry{Metric: el.Key, Value: el.Value})
	}
	return entries
}

// Get returns the value of a metric and whether it was emitted.
func (s *Summary) Get(metric string) (float64, bool) {
	return s.entries.Get(metric)
}
