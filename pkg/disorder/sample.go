package disorder

import (
	"math"
	"math/rand/v2"
)

// Source supplies uniform draws on [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Point is an admitted element together with its original position.
type Point[T Number] struct {
	Index int `json:"index"`
	Value T   `json:"value"`
}

// Sampler admits elements of a disorder series with a probability that grows
// logarithmically with the element's value, and admits every element above
// Threshold unconditionally.
//
// The admission probability P*(1+A*log10(d+1)) is not clamped: once it
// reaches 1 the random test always passes.
type Sampler struct {
	// P is the base admission probability for a zero value.
	P float64
	// A scales the logarithmic boost of larger values.
	A float64
	// Threshold admits every value strictly above it.
	Threshold float64

	src Source
}

// NewSampler creates a Sampler drawing from src.
// A nil src draws from an unseeded PCG generator.
func NewSampler(p, a, threshold float64, src Source) *Sampler {
	if src == nil {
		src = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // sampling for plots, not security.
	}

	return &Sampler{P: p, A: a, Threshold: threshold, src: src}
}

// NewSeededSampler creates a Sampler whose draws are reproducible for a given seed.
func NewSeededSampler(p, a, threshold float64, seed uint64) *Sampler {
	return NewSampler(p, a, threshold, rand.New(rand.NewPCG(seed, seed))) //nolint:gosec // reproducible sampling.
}

// Probability returns the unclamped random-admission probability for value d.
func (s *Sampler) Probability(d float64) float64 {
	return s.P * (1 + s.A*math.Log10(d+1))
}

// Admit consumes exactly one draw and reports whether value d is admitted.
// Draws stay aligned with positions: a seed admits the same below-threshold
// elements whatever the threshold.
func (s *Sampler) Admit(d float64) bool {
	r := s.src.Float64()

	return d > s.Threshold || r < s.Probability(d)
}

// Sample returns the admitted elements of values in their original order.
func Sample[T Number](s *Sampler, values []T) []Point[T] {
	points := make([]Point[T], 0)

	for i, v := range values {
		if s.Admit(float64(v)) {
			points = append(points, Point[T]{Index: i, Value: v})
		}
	}

	return points
}
