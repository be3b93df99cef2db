package disorder_test

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/disorder/pkg/disorder"
)

// citiSample is a short excerpt with ties, late arrivals and a new high-water mark.
var citiSample = []int64{300, 1, 2, 125, 100, 303, 4, 9, 300}

// bruteDegrees is the quadratic reference definition.
func bruteDegrees[T int64 | float64](values []T) []int {
	ood := make([]int, len(values))

	for i := range values {
		for j := range i {
			if values[j] > values[i] {
				ood[i]++
			}
		}
	}

	return ood
}

func randomSequence(seed uint64, n int, maxValue int64) []int64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	values := make([]int64, n)
	for i := range values {
		values[i] = rng.Int64N(maxValue)
	}

	return values
}

// splitFirst peels a single element off the front, the most unbalanced split possible.
func splitFirst(int) int {
	return 1
}

// splitOutOfRange asks for impossible split points to exercise clamping.
func splitOutOfRange(n int) int {
	if n%2 == 0 {
		return 0
	}

	return n + 5
}

func TestDegrees_Scenario(t *testing.T) {
	t.Parallel()

	ood := disorder.Degrees(citiSample)

	assert.Equal(t, []int{0, 1, 1, 1, 2, 0, 4, 4, 1}, ood)
	assert.Equal(t, int64(14), disorder.Inversions(ood))
}

func TestDegrees_Empty(t *testing.T) {
	t.Parallel()

	ood := disorder.Degrees([]int64{})
	require.NotNil(t, ood)
	assert.Empty(t, ood)

	assert.Empty(t, disorder.Degrees[int64](nil))
}

func TestDegrees_Single(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []int{0}, disorder.Degrees([]int64{42}))
}

func TestDegrees_Ascending(t *testing.T) {
	t.Parallel()

	values := make([]int64, 1000)
	for i := range values {
		values[i] = int64(i * 3)
	}

	ood := disorder.Degrees(values)
	for i, d := range ood {
		assert.Zero(t, d, "position %d", i)
	}
}

func TestDegrees_Descending(t *testing.T) {
	t.Parallel()

	values := make([]int64, 1000)
	for i := range values {
		values[i] = int64(len(values) - i)
	}

	ood := disorder.Degrees(values)
	for i, d := range ood {
		assert.Equal(t, i, d, "position %d", i)
	}
}

func TestDegrees_EqualValuesAreInOrder(t *testing.T) {
	t.Parallel()

	ood := disorder.Degrees([]int64{5, 5, 5, 5})
	assert.Equal(t, []int{0, 0, 0, 0}, ood)

	ood = disorder.Degrees([]int64{5, 7, 5, 7, 5})
	assert.Equal(t, []int{0, 0, 1, 0, 2}, ood)
}

func TestDegrees_DoesNotModifyInput(t *testing.T) {
	t.Parallel()

	values := slices.Clone(citiSample)
	disorder.Degrees(values, disorder.WithWorkers(4), disorder.WithParallelCutoff(2))

	assert.Equal(t, citiSample, values)
}

func TestDegrees_MatchesBruteForce(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		n        int
		maxValue int64
	}{
		{name: "tiny", n: 2, maxValue: 3},
		{name: "small_many_ties", n: 37, maxValue: 4},
		{name: "medium", n: 513, maxValue: 1000},
		{name: "wide_range", n: 1024, maxValue: 1 << 40},
	}

	for seed, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			values := randomSequence(uint64(seed+1), tt.n, tt.maxValue)
			want := bruteDegrees(values)
			got := disorder.Degrees(values)

			assert.Equal(t, want, got)

			var wantSum int64
			for _, d := range want {
				wantSum += int64(d)
			}

			assert.Equal(t, wantSum, disorder.Inversions(got))
		})
	}
}

func TestDegrees_Bounds(t *testing.T) {
	t.Parallel()

	values := randomSequence(7, 2000, 50)
	ood := disorder.Degrees(values)

	assert.Zero(t, ood[0])

	for i, d := range ood {
		assert.GreaterOrEqual(t, d, 0)
		assert.LessOrEqual(t, d, i)
	}
}

func TestDegrees_IndependentOfSplitStrategy(t *testing.T) {
	t.Parallel()

	values := randomSequence(42, 777, 300)
	reference := disorder.Degrees(values, disorder.WithSplitter(disorder.SplitMidpoint))

	splitters := map[string]disorder.Splitter{
		"power_of_two": disorder.SplitPowerOfTwo,
		"first":        splitFirst,
		"out_of_range": splitOutOfRange,
		"nil_default":  nil,
	}

	for name, split := range splitters {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := disorder.Degrees(values, disorder.WithSplitter(split))
			assert.Equal(t, reference, got)
		})
	}
}

func TestDegrees_ParallelMatchesSequential(t *testing.T) {
	t.Parallel()

	values := randomSequence(99, 50_000, 10_000)
	sequential := disorder.Degrees(values)

	for _, workers := range []int{2, 4, 16} {
		got := disorder.Degrees(values,
			disorder.WithWorkers(workers),
			disorder.WithParallelCutoff(64),
			disorder.WithSplitter(disorder.SplitPowerOfTwo),
		)

		assert.Equal(t, sequential, got, "workers=%d", workers)
	}
}

func TestDegrees_Floats(t *testing.T) {
	t.Parallel()

	values := []float64{1.5, 0.25, 3, -1, 0.25}

	assert.Equal(t, bruteDegrees(values), disorder.Degrees(values))
}

func TestDegrees_Strings(t *testing.T) {
	t.Parallel()

	ood := disorder.Degrees([]string{"b", "a", "c", "a"})
	assert.Equal(t, []int{0, 1, 0, 2}, ood)
}

func TestSplitPowerOfTwo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int
		want int
	}{
		{n: 2, want: 1},
		{n: 3, want: 2},
		{n: 4, want: 2},
		{n: 5, want: 4},
		{n: 9, want: 8},
		{n: 1024, want: 512},
		{n: 1025, want: 1024},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, disorder.SplitPowerOfTwo(tt.n), "n=%d", tt.n)
	}
}

func TestInversions_Empty(t *testing.T) {
	t.Parallel()

	assert.Zero(t, disorder.Inversions(nil))
}
