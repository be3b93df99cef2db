package disorder

import (
	"cmp"
	"math/bits"

	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/disorder/pkg/alg/stats"
)

// defaultParallelCutoff is the smallest range that is handed to its own goroutine.
// Below it the goroutine overhead outweighs the merge work.
const defaultParallelCutoff = 1 << 14

// Splitter returns the length of the left (earlier) half when a positional
// range of n > 1 elements is divided in two. Results outside [1, n-1] are clamped.
type Splitter func(n int) int

// SplitMidpoint halves the range.
func SplitMidpoint(n int) int {
	return n / 2
}

// SplitPowerOfTwo gives the left half the largest power of two below n,
// so every left subtree covers a perfectly balanced chunk.
func SplitPowerOfTwo(n int) int {
	if n < 2 {
		return 1
	}

	return 1 << (bits.Len(uint(n-1)) - 1)
}

type degreeConfig struct {
	split   Splitter
	workers int
	cutoff  int
}

// Option configures Degrees.
type Option func(*degreeConfig)

// WithSplitter sets the recursion split strategy. Nil keeps SplitMidpoint.
func WithSplitter(split Splitter) Option {
	return func(c *degreeConfig) {
		if split != nil {
			c.split = split
		}
	}
}

// WithWorkers bounds the number of goroutines evaluating independent subtrees.
// Values below 2 keep the computation on the calling goroutine.
func WithWorkers(n int) Option {
	return func(c *degreeConfig) {
		c.workers = n
	}
}

// WithParallelCutoff sets the minimum range length evaluated on its own goroutine.
func WithParallelCutoff(n int) Option {
	return func(c *degreeConfig) {
		if n > 1 {
			c.cutoff = n
		}
	}
}

// entry pairs a value with its arrival position.
type entry[T cmp.Ordered] struct {
	pos int
	val T
}

// degreeCounter owns the flat output and scratch buffers shared by the whole recursion.
// Concurrent subtrees touch disjoint position sets and disjoint scratch windows.
type degreeCounter[T cmp.Ordered] struct {
	ood    []int
	split  Splitter
	cutoff int
	tokens chan struct{}
}

// Degrees returns, for every position i, how many earlier positions hold a
// strictly greater value. Equal values are not out of order.
//
// The count is computed by a positional divide and conquer: each range is split
// into an earlier and a later half, both halves are sorted by value recursively,
// and every later element then learns how many earlier elements exceed it while
// the halves are merged. Each inverted pair is counted exactly once, at the
// range where it straddles the split, so the result does not depend on the
// Splitter or on the number of workers.
func Degrees[T cmp.Ordered](values []T, opts ...Option) []int {
	cfg := degreeConfig{
		split:  SplitMidpoint,
		cutoff: defaultParallelCutoff,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	ood := make([]int, len(values))
	if len(values) < 2 {
		return ood
	}

	items := make([]entry[T], len(values))
	for i, v := range values {
		items[i] = entry[T]{pos: i, val: v}
	}

	dc := &degreeCounter[T]{
		ood:    ood,
		split:  cfg.split,
		cutoff: cfg.cutoff,
	}

	if cfg.workers > 1 {
		dc.tokens = make(chan struct{}, cfg.workers-1)
	}

	dc.count(items, make([]entry[T], len(values)))

	return ood
}

// Inversions returns the total number of inverted pairs described by a degree array.
func Inversions(ood []int) int64 {
	var total int64

	for _, d := range ood {
		total += int64(d)
	}

	return total
}

// count sorts items by value and accumulates the degrees of every pair inside the range.
// scratch has the same length as items.
func (dc *degreeCounter[T]) count(items, scratch []entry[T]) {
	n := len(items)
	if n < 2 {
		return
	}

	m := stats.Clamp(dc.split(n), 1, n-1)
	left, right := items[:m], items[m:]

	if dc.acquire(n) {
		var g errgroup.Group

		g.Go(func() error {
			defer dc.release()

			dc.count(left, scratch[:m])

			return nil
		})

		dc.count(right, scratch[m:])

		_ = g.Wait()
	} else {
		dc.count(left, scratch[:m])
		dc.count(right, scratch[m:])
	}

	dc.merge(left, right, scratch)
	copy(items, scratch)
}

// merge writes the stable value-order merge of left and right into out and adds,
// for every right element, the number of left elements with a greater value.
// Both halves are sorted, so the count of left elements <= the current right
// element only grows as the right half is walked.
func (dc *degreeCounter[T]) merge(left, right, out []entry[T]) {
	i, k := 0, 0

	for _, r := range right {
		for i < len(left) && left[i].val <= r.val {
			out[k] = left[i]
			i++
			k++
		}

		dc.ood[r.pos] += len(left) - i
		out[k] = r
		k++
	}

	copy(out[k:], left[i:])
}

func (dc *degreeCounter[T]) acquire(n int) bool {
	if dc.tokens == nil || n < dc.cutoff {
		return false
	}

	select {
	case dc.tokens <- struct{}{}:
		return true
	default:
		return false
	}
}

func (dc *degreeCounter[T]) release() {
	<-dc.tokens
}
