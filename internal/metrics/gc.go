// Package metrics derives per-sequence metrics and summarizes a QC run.
package metrics

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/dbsmedya/seqqc/internal/table"
)

// GCColumn is the name of the derived GC content column.
const GCColumn = "GC_percentage"

// GCPercentage returns the share of G and C bases in seq, case-insensitively,
// as a percentage of the sequence length in characters. An empty sequence has
// no defined GC content and yields NaN.
func GCPercentage(seq string) float64 {
	n := utf8.RuneCountInString(seq)
	if n == 0 {
		return math.NaN()
	}
	upper := strings.ToUpper(seq)
	gc := strings.Count(upper, "G") + strings.Count(upper, "C")
	return float64(gc) / float64(n) * 100
}

// AnnotateGC computes GC percentage for every record of t, in table order.
// Call it on the final retained table only.
func AnnotateGC(t table.Table) []float64 {
	values := make([]float64, t.Len())
	for i, r := range t.Records {
		values[i] = GCPercentage(r.Sequence)
	}
	return values
}
