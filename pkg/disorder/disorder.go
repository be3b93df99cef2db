// Package disorder measures how far a finite arrival sequence departs from
// sorted order: per-element out-of-order degrees, running watermarks and the
// gap of every element behind them, and an adaptive sampler that thins large
// disorder series before they are plotted.
//
// All functions are pure over their input slice and never modify it. Elements
// must be mutually comparable under a total order. Floating-point NaN breaks
// that precondition and yields unspecified (but memory-safe) results.
package disorder

import (
	"errors"

	"golang.org/x/exp/constraints"
)

// ErrInvalidInput indicates an input for which the operation has no defined result.
var ErrInvalidInput = errors.New("invalid input")

// Number is the set of element types that support subtraction and logarithms,
// required by the gap and sampling operations.
type Number interface {
	constraints.Integer | constraints.Float
}
