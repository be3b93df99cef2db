package stats

import "slices"

// Bin is one bucket of a fixed-width histogram. It covers [Low, High),
// except the last bin of a histogram which also includes High.
type Bin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Histogram splits [min(values), max(values)] into bins equal-width buckets and
// counts the values falling in each. When every value is equal a single bin
// holds them all. Returns nil for an empty slice or a non-positive bin count.
func Histogram[T Number](values []T, bins int) []Bin {
	if len(values) == 0 || bins <= 0 {
		return nil
	}

	lo := float64(slices.Min(values))
	hi := float64(slices.Max(values))

	if lo == hi {
		return []Bin{{Low: lo, High: hi, Count: len(values)}}
	}

	width := (hi - lo) / float64(bins)
	result := make([]Bin, bins)

	for i := range result {
		result[i].Low = lo + float64(i)*width
		result[i].High = lo + float64(i+1)*width
	}

	result[bins-1].High = hi

	for _, v := range values {
		idx := int((float64(v) - lo) / width)
		result[Clamp(idx, 0, bins-1)].Count++
	}

	return result
}
