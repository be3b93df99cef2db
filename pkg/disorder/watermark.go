package disorder

import (
	"cmp"
	"fmt"
)

// Watermarks returns the running maximum of values: entry i is the largest
// value at positions 0..i. The result is non-decreasing.
// An empty sequence has no watermark and yields ErrInvalidInput.
func Watermarks[T cmp.Ordered](values []T) ([]T, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("watermarks: %w: empty sequence", ErrInvalidInput)
	}

	marks := make([]T, len(values))
	high := values[0]

	for i, v := range values {
		high = max(high, v)
		marks[i] = high
	}

	return marks, nil
}

// WatermarkGaps returns how far each element lags behind the watermark at its
// arrival: entry i is Watermarks(values)[i] - values[i]. Gaps are never
// negative as long as that difference fits in T; signed extremes such as
// [MaxInt64, MinInt64] wrap around. An empty sequence yields ErrInvalidInput.
func WatermarkGaps[T Number](values []T) ([]T, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("watermark gaps: %w: empty sequence", ErrInvalidInput)
	}

	gaps := make([]T, len(values))
	high := values[0]

	for i, v := range values {
		high = max(high, v)
		gaps[i] = high - v
	}

	return gaps, nil
}
