package disorder_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/disorder/pkg/disorder"
)

func TestWatermarks_Scenario(t *testing.T) {
	t.Parallel()

	marks, err := disorder.Watermarks(citiSample)
	require.NoError(t, err)

	assert.Equal(t, []int64{300, 300, 300, 300, 300, 303, 303, 303, 303}, marks)
}

func TestWatermarkGaps_Scenario(t *testing.T) {
	t.Parallel()

	gaps, err := disorder.WatermarkGaps(citiSample)
	require.NoError(t, err)

	assert.Equal(t, []int64{0, 299, 298, 175, 200, 0, 299, 294, 3}, gaps)
}

func TestWatermarks_Empty(t *testing.T) {
	t.Parallel()

	marks, err := disorder.Watermarks([]int64{})
	require.ErrorIs(t, err, disorder.ErrInvalidInput)
	assert.Nil(t, marks)

	gaps, err := disorder.WatermarkGaps[int64](nil)
	require.ErrorIs(t, err, disorder.ErrInvalidInput)
	assert.Nil(t, gaps)
}

func TestWatermarks_SingleElement(t *testing.T) {
	t.Parallel()

	marks, err := disorder.Watermarks([]int64{-7})
	require.NoError(t, err)
	assert.Equal(t, []int64{-7}, marks)

	gaps, err := disorder.WatermarkGaps([]int64{-7})
	require.NoError(t, err)
	assert.Equal(t, []int64{0}, gaps)
}

func TestWatermarks_Properties(t *testing.T) {
	t.Parallel()

	values := randomSequence(11, 5000, 1_000_000)

	marks, err := disorder.Watermarks(values)
	require.NoError(t, err)

	gaps, err := disorder.WatermarkGaps(values)
	require.NoError(t, err)

	require.Len(t, marks, len(values))
	require.Len(t, gaps, len(values))

	for i := range values {
		if i > 0 {
			assert.GreaterOrEqual(t, marks[i], marks[i-1], "watermark decreased at %d", i)
		}

		assert.GreaterOrEqual(t, marks[i], values[i])
		assert.GreaterOrEqual(t, gaps[i], int64(0))
		assert.Equal(t, marks[i]-values[i], gaps[i])
	}
}

func TestWatermarkGaps_Unsigned(t *testing.T) {
	t.Parallel()

	gaps, err := disorder.WatermarkGaps([]uint32{10, 3, 12, 11})
	require.NoError(t, err)

	assert.Equal(t, []uint32{0, 7, 0, 1}, gaps)
}

func TestWatermarkGaps_Floats(t *testing.T) {
	t.Parallel()

	gaps, err := disorder.WatermarkGaps([]float64{1.5, 1.0, 2.0})
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{0, 0.5, 0}, gaps, 1e-12)
}

func TestWatermarkGaps_SignedExtremesWrap(t *testing.T) {
	t.Parallel()

	gaps, err := disorder.WatermarkGaps([]int64{math.MaxInt64, math.MinInt64, 0})
	require.NoError(t, err)

	// MaxInt64 - MinInt64 does not fit in int64.
	assert.Equal(t, []int64{0, -1, math.MaxInt64}, gaps)
}
