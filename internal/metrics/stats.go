package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnStats holds the descriptive statistics reported for a numeric column.
type ColumnStats struct {
	Column string
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	Std    float64 // sample standard deviation (n-1)
}

// Describe computes ColumnStats for values. With no values every statistic is
// NaN; with a single value Std is NaN because the sample deviation is undefined.
func Describe(column string, values []float64) ColumnStats {
	cs := ColumnStats{
		Column: column,
		Count:  len(values),
		Min:    math.NaN(),
		Max:    math.NaN(),
		Mean:   math.NaN(),
		Median: math.NaN(),
		Std:    math.NaN(),
	}
	if len(values) == 0 {
		return cs
	}

	cs.Min = floats.Min(values)
	cs.Max = floats.Max(values)
	cs.Mean = stat.Mean(values, nil)
	cs.Median = median(values)
	if len(values) > 1 {
		cs.Std = stat.StdDev(values, nil)
	}
	return cs
}

// median returns the middle value, averaging the two central values for an
// even count. values is not modified.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
