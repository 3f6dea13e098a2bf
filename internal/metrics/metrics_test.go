package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/seqqc/internal/qc"
	"github.com/dbsmedya/seqqc/internal/table"
)

func run(t *testing.T, minLength int, ps ...table.Pair) *qc.Result {
	t.Helper()
	res, err := qc.Run(table.New("sequence", "length", ps...), minLength)
	require.NoError(t, err)
	return res
}

func metricNames(s *Summary) []string {
	var names []string
	for _, e := range s.Entries() {
		names = append(names, e.Metric)
	}
	return names
}

func TestGCPercentage(t *testing.T) {
	tests := []struct {
		seq  string
		want float64
	}{
		{"GGCC", 100},
		{"GCGCGC", 100},
		{"ATAT", 0},
		{"ACGT", 50},
		{"acgt", 50},
		{"gGcA", 75},
		{"ACG", 200.0 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.seq, func(t *testing.T) {
			assert.InDelta(t, tt.want, GCPercentage(tt.seq), 1e-9)
		})
	}
}

func TestGCPercentageEmptyIsNaN(t *testing.T) {
	assert.True(t, math.IsNaN(GCPercentage("")))
}

func TestAnnotateGC(t *testing.T) {
	tbl := table.New("s", "l", table.Pair{Sequence: "GGCC", Length: 4}, table.Pair{Sequence: "ATGC", Length: 4})
	assert.Equal(t, []float64{100, 50}, AnnotateGC(tbl))
}

func TestDescribe(t *testing.T) {
	cs := Describe("length", []float64{4, 1, 3, 2})

	assert.Equal(t, "length", cs.Column)
	assert.Equal(t, 4, cs.Count)
	assert.Equal(t, 1.0, cs.Min)
	assert.Equal(t, 4.0, cs.Max)
	assert.Equal(t, 2.5, cs.Mean)
	assert.Equal(t, 2.5, cs.Median)
	assert.InDelta(t, math.Sqrt(5.0/3), cs.Std, 1e-12)
}

func TestDescribeOddMedian(t *testing.T) {
	assert.Equal(t, 5.0, Describe("x", []float64{9, 5, 1}).Median)
}

func TestDescribeDegenerate(t *testing.T) {
	single := Describe("length", []float64{7})
	assert.Equal(t, 7.0, single.Min)
	assert.Equal(t, 7.0, single.Median)
	assert.True(t, math.IsNaN(single.Std), "sample std of one value must be NaN")

	empty := Describe("length", nil)
	for _, v := range []float64{empty.Min, empty.Max, empty.Mean, empty.Median, empty.Std} {
		assert.True(t, math.IsNaN(v))
	}
}

func TestRemovalReportScenarioA(t *testing.T) {
	res := run(t, 3,
		table.Pair{Sequence: "ACGT", Length: 4},
		table.Pair{Sequence: "ACGN", Length: 4},
		table.Pair{Sequence: "AC", Length: 2},
		table.Pair{Sequence: "ACGT", Length: 4},
	)

	rows := RemovalReport(res.Batches)
	assert.Equal(t, []RemovalRow{
		{Row: 1, Sequence: "ACGN", Length: 4, Reason: qc.ReasonAmbiguous},
		{Row: 2, Sequence: "AC", Length: 2, Reason: qc.ReasonShort},
		{Row: 3, Sequence: "ACGT", Length: 4, Reason: qc.ReasonDuplicate},
	}, rows)
	assert.Equal(t, res.Original, len(rows)+res.Kept.Len())
}

func TestSummarizeScenarioA(t *testing.T) {
	res := run(t, 3,
		table.Pair{Sequence: "ACGT", Length: 4},
		table.Pair{Sequence: "ACGN", Length: 4},
		table.Pair{Sequence: "AC", Length: 2},
		table.Pair{Sequence: "ACGT", Length: 4},
	)

	s := Summarize(res)

	assert.Equal(t, []string{
		"min_length", "max_length", "mean_length", "median_length", "std_length",
		"min_GC_percentage", "max_GC_percentage", "mean_GC_percentage", "median_GC_percentage", "std_GC_percentage",
		"removed_rows", "fraction_rows",
		"removed_ambiguous_N", "removed_short_length", "removed_duplicate",
	}, metricNames(s))

	removed, _ := s.Get(MetricRemovedRows)
	assert.Equal(t, 3.0, removed)
	fraction, _ := s.Get(MetricFractionRows)
	assert.InDelta(t, 75.0, fraction, 1e-9)
	gc, _ := s.Get("mean_GC_percentage")
	assert.Equal(t, 50.0, gc)
}

func TestSummarizeScenarioBNoRemovals(t *testing.T) {
	res := run(t, 2,
		table.Pair{Sequence: "ACGT", Length: 4},
		table.Pair{Sequence: "GGCC", Length: 4},
	)

	s := Summarize(res)

	fraction, ok := s.Get(MetricFractionRows)
	require.True(t, ok)
	assert.Equal(t, 0.0, fraction)
	for _, r := range qc.Reasons {
		_, ok := s.Get(ReasonMetric(r))
		assert.False(t, ok, "no %s entry expected", r)
	}
	assert.Empty(t, s.Reasons)
	assert.Len(t, s.Entries(), 12)
}

func TestSummarizeScenarioCSingleRow(t *testing.T) {
	res := run(t, 1, table.Pair{Sequence: "ACGT", Length: 4})

	s := Summarize(res)

	std, ok := s.Get("std_length")
	require.True(t, ok)
	assert.True(t, math.IsNaN(std))
	std, ok = s.Get("std_GC_percentage")
	require.True(t, ok)
	assert.True(t, math.IsNaN(std))
}

func TestSummarizeScenarioDAllGC(t *testing.T) {
	res := run(t, 1, table.Pair{Sequence: "GCGGCC", Length: 6})

	s := Summarize(res)
	assert.Equal(t, []float64{100}, s.GC)
	maxGC, _ := s.Get("max_GC_percentage")
	assert.Equal(t, 100.0, maxGC)
}

func TestSummarizeUsesLengthColumnName(t *testing.T) {
	res, err := qc.Run(table.New("seq", "seq_len", table.Pair{Sequence: "ACGT", Length: 4}), 1)
	require.NoError(t, err)

	_, ok := Summarize(res).Get("mean_seq_len")
	assert.True(t, ok)
}

func TestSummarizeEmptyInput(t *testing.T) {
	s := Summarize(run(t, 1))

	assert.Equal(t, 0.0, s.Fraction)
	mean, _ := s.Get("mean_length")
	assert.True(t, math.IsNaN(mean))
}

func TestCountReasonsOrdering(t *testing.T) {
	res := run(t, 3,
		table.Pair{Sequence: "ACGN", Length: 4}, // ambiguous
		table.Pair{Sequence: "AC", Length: 2},   // short
		table.Pair{Sequence: "GG", Length: 2},   // short
		table.Pair{Sequence: "ACGT", Length: 4},
		table.Pair{Sequence: "ACGT", Length: 4}, // duplicate
		table.Pair{Sequence: "TTTT", Length: 4},
		table.Pair{Sequence: "TTTT", Length: 4}, // duplicate
	)

	counts := CountReasons(res.Batches)
	// short and duplicate tie at 2; filter order breaks the tie.
	assert.Equal(t, []ReasonCount{
		{Reason: qc.ReasonShort, Count: 2},
		{Reason: qc.ReasonDuplicate, Count: 2},
		{Reason: qc.ReasonAmbiguous, Count: 1},
	}, counts)

	s := Summarize(res)
	names := metricNames(s)
	assert.Equal(t, []string{"removed_short_length", "removed_duplicate", "removed_ambiguous_N"}, names[12:])

	total := 0
	for _, rc := range counts {
		total += rc.Count
	}
	assert.Equal(t, s.Removed, total)
	assert.InDelta(t, float64(s.Removed)/float64(s.Original)*100, s.Fraction, 1e-9)
}

func TestCountReasonsTieFollowsFilterOrder(t *testing.T) {
	removed := func(seq string) table.Table {
		return table.New("sequence", "length", table.Pair{Sequence: seq, Length: len(seq)})
	}
	// Batches arrive out of filter order; the tie still resolves by it.
	batches := []qc.Partition{
		{Removed: removed("ACGT"), Reason: qc.ReasonDuplicate},
		{Removed: removed("ACGN"), Reason: qc.ReasonAmbiguous},
		{Removed: removed("GG"), Reason: qc.Reason("custom")},
	}

	assert.Equal(t, []ReasonCount{
		{Reason: qc.ReasonAmbiguous, Count: 1},
		{Reason: qc.ReasonDuplicate, Count: 1},
		{Reason: qc.Reason("custom"), Count: 1},
	}, CountReasons(batches))
}

func TestCountReasonsSkipsEmptyBatches(t *testing.T) {
	res := run(t, 0,
		table.Pair{Sequence: "ACGT", Length: 4},
		table.Pair{Sequence: "ACGT", Length: 4},
	)

	assert.Equal(t, []ReasonCount{{Reason: qc.ReasonDuplicate, Count: 1}}, CountReasons(res.Batches))
}
