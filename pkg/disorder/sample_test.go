package disorder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/disorder/pkg/disorder"
)

// fixedSource always returns the same draw and counts how often it was asked.
type fixedSource struct {
	value float64
	draws int
}

func (f *fixedSource) Float64() float64 {
	f.draws++

	return f.value
}

func TestSample_ZeroThresholdAdmitsEverything(t *testing.T) {
	t.Parallel()

	// The draw never passes the random test, so only the threshold admits.
	src := &fixedSource{value: 0.999999}
	sampler := disorder.NewSampler(0, 0, 0, src)

	values := []int64{1, 2, 125, 100, 303, 4, 9, 300}
	points := disorder.Sample(sampler, values)

	require.Len(t, points, len(values))

	for i, p := range points {
		assert.Equal(t, i, p.Index)
		assert.Equal(t, values[i], p.Value)
	}

	assert.Equal(t, len(values), src.draws)
}

func TestSample_ThresholdIsStrict(t *testing.T) {
	t.Parallel()

	sampler := disorder.NewSampler(0, 0, 100, &fixedSource{value: 0.5})

	points := disorder.Sample(sampler, []int64{100, 101, 99, 500})

	assert.Equal(t, []disorder.Point[int64]{
		{Index: 1, Value: 101},
		{Index: 3, Value: 500},
	}, points)
}

func TestSample_ProbabilityIsNotClamped(t *testing.T) {
	t.Parallel()

	sampler := disorder.NewSampler(0.6, 1, 1e9, &fixedSource{value: 0.999})

	// 0.6 * (1 + log10(10)) = 1.2 > 1 so the random test always passes.
	assert.InDelta(t, 1.2, sampler.Probability(9), 1e-12)
	assert.True(t, sampler.Admit(9))

	// 0.6 * (1 + log10(1)) = 0.6 < 0.999.
	assert.InDelta(t, 0.6, sampler.Probability(0), 1e-12)
	assert.False(t, sampler.Admit(0))
}

func TestSample_RandomAdmission(t *testing.T) {
	t.Parallel()

	sampler := disorder.NewSampler(0.3, 0, 1e9, &fixedSource{value: 0.25})
	points := disorder.Sample(sampler, []int64{0, 5, 10})
	assert.Len(t, points, 3)

	sampler = disorder.NewSampler(0.2, 0, 1e9, &fixedSource{value: 0.25})
	points = disorder.Sample(sampler, []int64{0, 5, 10})
	assert.Empty(t, points)
}

func TestSample_Empty(t *testing.T) {
	t.Parallel()

	points := disorder.Sample(disorder.NewSeededSampler(0.5, 1, 10, 1), []int64{})

	require.NotNil(t, points)
	assert.Empty(t, points)
}

func TestSample_SeededIsReproducible(t *testing.T) {
	t.Parallel()

	values := randomSequence(5, 10_000, 1000)

	first := disorder.Sample(disorder.NewSeededSampler(0.01, 0.5, 990, 1234), values)
	second := disorder.Sample(disorder.NewSeededSampler(0.01, 0.5, 990, 1234), values)

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
	assert.Less(t, len(first), len(values))
}

func TestSample_PreservesOrderAndValues(t *testing.T) {
	t.Parallel()

	values := randomSequence(8, 5000, 1000)
	points := disorder.Sample(disorder.NewSeededSampler(0.05, 2, 900, 77), values)

	for i, p := range points {
		assert.Equal(t, values[p.Index], p.Value)

		if i > 0 {
			assert.Greater(t, p.Index, points[i-1].Index)
		}
	}

	// Every value above the threshold must be present.
	admitted := make(map[int]bool, len(points))
	for _, p := range points {
		admitted[p.Index] = true
	}

	for i, v := range values {
		if v > 900 {
			assert.True(t, admitted[i], "index %d above threshold not admitted", i)
		}
	}
}

func TestSample_NilSourceStillSamples(t *testing.T) {
	t.Parallel()

	sampler := disorder.NewSampler(1, 0, 1e9, nil)

	// P = 1 admits everything because every draw is below 1.
	points := disorder.Sample(sampler, []float64{0, 1, 2})
	assert.Len(t, points, 3)
}
