package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogram_Empty(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Histogram([]int{}, 10))
	assert.Nil(t, Histogram([]int{1, 2}, 0))
}

func TestHistogram_SingleValue(t *testing.T) {
	t.Parallel()

	bins := Histogram([]int{4, 4, 4}, 20)

	require.Len(t, bins, 1)
	assert.Equal(t, Bin{Low: 4, High: 4, Count: 3}, bins[0])
}

func TestHistogram_EqualWidth(t *testing.T) {
	t.Parallel()

	bins := Histogram([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 5)

	require.Len(t, bins, 5)

	counts := make([]int, len(bins))
	for i, b := range bins {
		counts[i] = b.Count
		assert.InDelta(t, float64(i)*2, b.Low, 1e-9)
		assert.InDelta(t, float64(i+1)*2, b.High, 1e-9)
	}

	// The maximum lands in the closed last bin.
	assert.Equal(t, []int{2, 2, 2, 2, 3}, counts)
}

func TestHistogram_CountsEveryValue(t *testing.T) {
	t.Parallel()

	values := []float64{0.1, 0.2, 5.5, 9.99, 10, 3.3, 3.3}
	bins := Histogram(values, 20)

	total := 0
	for _, b := range bins {
		total += b.Count
	}

	assert.Equal(t, len(values), total)
	assert.InDelta(t, 0.1, bins[0].Low, 1e-9)
	assert.InDelta(t, 10.0, bins[len(bins)-1].High, 1e-9)
}
