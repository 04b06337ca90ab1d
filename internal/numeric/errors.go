package numeric

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch indicates vectors or matrices of inconsistent dimension.
	ErrDimensionMismatch = errors.New("numeric: dimension mismatch")

	// ErrInvalidPoint indicates a point holding NaN or Inf components.
	ErrInvalidPoint = errors.New("numeric: invalid point (NaN or Inf detected)")
)

// DimensionError reports the operation that received a value of the wrong
// dimension.
type DimensionError struct {
	Op   string
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("numeric: %s: dimension mismatch: want %d, got %d", e.Op, e.Want, e.Got)
}

func (e *DimensionError) Unwrap() error {
	return ErrDimensionMismatch
}

// MustMatch panics with a *DimensionError when got differs from want.
func MustMatch(op string, want, got int) {
	if want != got {
		panic(&DimensionError{Op: op, Want: want, Got: got})
	}
}
