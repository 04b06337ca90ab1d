package numeric

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Epsilon is the float64 machine epsilon, the gap between 1 and the next
// representable value.
const Epsilon = 0x1p-52

// Point is a vector of real numbers.
type Point []float64

func (p Point) Dim() int { return len(p) }

func (p Point) Clone() Point {
	c := make(Point, len(p))
	copy(c, p)
	return c
}

func (p Point) IsValid() bool {
	for _, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Norm returns the euclidean norm of p.
func (p Point) Norm() float64 {
	if len(p) == 0 {
		return 0
	}
	return floats.Norm(p, 2)
}

func (p Point) Add(other Point) Point {
	MustMatch("Add", len(p), len(other))
	result := p.Clone()
	floats.Add(result, other)
	return result
}

func (p Point) Sub(other Point) Point {
	MustMatch("Sub", len(p), len(other))
	result := p.Clone()
	floats.Sub(result, other)
	return result
}

func (p Point) Scale(factor float64) Point {
	result := p.Clone()
	floats.Scale(factor, result)
	return result
}

// Vec returns a column vector view sharing the backing data of p.
func (p Point) Vec() *mat.VecDense {
	return mat.NewVecDense(len(p), p)
}

func (p Point) String() string {
	return fmt.Sprintf("%v", []float64(p))
}

// FromVec copies v into a new Point.
func FromVec(v mat.Vector) Point {
	p := make(Point, v.Len())
	for i := range p {
		p[i] = v.AtVec(i)
	}
	return p
}

// Objective is a pure scalar function of a point. It may be evaluated any
// number of times and must not retain or modify its argument.
type Objective func(x Point) float64

// GradientFunc maps a point to the gradient of some objective at that point.
type GradientFunc func(x Point) Point

// HessianFunc maps a point to the n×n Hessian of some objective at that point.
type HessianFunc func(x Point) *mat.Dense
