// Package stats provides the descriptive statistics used to summarize disorder
// series: moments, interpolated percentiles and fixed-width histograms.
// All standard deviation calculations use population stddev (÷n, not ÷(n−1)).
package stats

import (
	"cmp"
	"math"
	"slices"

	"golang.org/x/exp/constraints"
)

// Number is the set of element types the numeric summaries accept.
type Number interface {
	constraints.Integer | constraints.Float
}

// Well-known percentile thresholds.
const (
	PercentileMedian = 0.5
	PercentileP95    = 0.95
	PercentileP99    = 0.99
)

// Mean returns the arithmetic mean of values.
// Returns 0 for an empty slice.
func Mean[T Number](values []T) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64

	for _, v := range values {
		sum += float64(v)
	}

	return sum / float64(len(values))
}

// MeanStdDev returns the arithmetic mean and population standard deviation.
// Returns (0, 0) for an empty slice.
func MeanStdDev[T Number](values []T) (mean, stddev float64) {
	if len(values) == 0 {
		return 0, 0
	}

	mean = Mean(values)

	var sumSq float64

	for _, v := range values {
		diff := float64(v) - mean
		sumSq += diff * diff
	}

	return mean, math.Sqrt(sumSq / float64(len(values)))
}

// Percentile returns the p-th percentile of values using linear interpolation.
// p must be in [0, 1]. The input slice is not modified.
// Returns 0 for an empty slice.
func Percentile[T Number](values []T, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	return SortedPercentile(sorted, p)
}

// SortedPercentile is Percentile for input that is already sorted ascending.
// It avoids the copy when several percentiles of the same data are needed.
func SortedPercentile[T Number](sorted []T, p float64) float64 {
	count := len(sorted)
	if count == 0 {
		return 0
	}

	idx := Clamp(p, 0, 1) * float64(count-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))

	if lower == upper || upper >= count {
		return float64(sorted[lower])
	}

	frac := idx - float64(lower)

	return float64(sorted[lower])*(1-frac) + float64(sorted[upper])*frac
}

// Median returns the 50th percentile of values.
// Returns 0 for an empty slice.
func Median[T Number](values []T) float64 {
	return Percentile(values, PercentileMedian)
}

// Clamp restricts val to the range [lo, hi].
func Clamp[T cmp.Ordered](val, lo, hi T) T {
	return max(lo, min(val, hi))
}

// Max returns the largest element in values.
// Returns the zero value of T for an empty slice.
func Max[T cmp.Ordered](values []T) T {
	if len(values) == 0 {
		var zero T

		return zero
	}

	return slices.Max(values)
}

// Fraction returns the share of values for which keep reports true.
// Returns 0 for an empty slice.
func Fraction[T any](values []T, keep func(T) bool) float64 {
	if len(values) == 0 {
		return 0
	}

	var hits int

	for _, v := range values {
		if keep(v) {
			hits++
		}
	}

	return float64(hits) / float64(len(values))
}
