// Package approx compares vectors and matrices within an absolute plus
// relative tolerance.
//
// Two values a and b are close when |a − b| ≤ Atol + Rtol·|b|. The test is not
// symmetric: b is the reference value.
package approx

import (
	"math"

	"github.com/san-kum/newton/internal/numeric"
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultAtol = 1e-8
	DefaultRtol = 1e-5
)

type Tolerance struct {
	Atol float64 `yaml:"atol" json:"atol"`
	Rtol float64 `yaml:"rtol" json:"rtol"`
}

func Default() Tolerance {
	return Tolerance{Atol: DefaultAtol, Rtol: DefaultRtol}
}

// Close reports whether a matches the reference b.
func (t Tolerance) Close(a, b float64) bool {
	return math.Abs(a-b) <= t.Atol+t.Rtol*math.Abs(b)
}

// Equal reports whether every component of v1 matches v2. Vectors of
// different dimension are never equal.
func (t Tolerance) Equal(v1, v2 numeric.Point) bool {
	if len(v1) != len(v2) {
		return false
	}
	for i := range v1 {
		if !t.Close(v1[i], v2[i]) {
			return false
		}
	}
	return true
}

// EqualMatrix is Equal applied element-wise to matrices.
func (t Tolerance) EqualMatrix(a, b mat.Matrix) bool {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return false
	}
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			if !t.Close(a.At(i, j), b.At(i, j)) {
				return false
			}
		}
	}
	return true
}

// Zero reports whether v matches the zero vector of its dimension.
func (t Tolerance) Zero(v numeric.Point) bool {
	return t.Equal(v, make(numeric.Point, len(v)))
}

// Equal compares with the default tolerance.
func Equal(v1, v2 numeric.Point) bool {
	return Default().Equal(v1, v2)
}
