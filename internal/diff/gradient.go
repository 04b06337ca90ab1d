package diff

import (
	"fmt"

	"github.com/san-kum/newton/internal/numeric"
)

// Partial approximates the i-th partial derivative of f at v with a central
// difference. It evaluates f twice and leaves v untouched.
func Partial(f numeric.Objective, v numeric.Point, i int, s Settings) float64 {
	if i < 0 || i >= len(v) {
		panic(fmt.Sprintf("diff: component %d out of range for dimension %d", i, len(v)))
	}
	h := Step(v[i], s.scale())

	x := v.Clone()
	x[i] = v[i] + h
	fPlus := f(x)
	x[i] = v[i] - h
	fMinus := f(x)

	return (fPlus - fMinus) / (2 * h)
}

// GradientAt approximates the gradient of f at v using 2n evaluations of f.
func GradientAt(f numeric.Objective, v numeric.Point, s Settings) numeric.Point {
	g := make(numeric.Point, len(v))
	if s.Concurrent {
		numeric.ParallelFor(len(v), 1, func(start, end int) {
			for i := start; i < end; i++ {
				g[i] = Partial(f, v, i, s)
			}
		})
		return g
	}
	for i := range v {
		g[i] = Partial(f, v, i, s)
	}
	return g
}

// Gradient is a finite difference gradient bound to one objective.
type Gradient struct {
	f        numeric.Objective
	settings Settings
}

func NewGradient(f numeric.Objective, s Settings) Gradient {
	if f == nil {
		panic("diff: nil objective")
	}
	return Gradient{f: f, settings: s}
}

// At approximates the gradient at x.
func (g Gradient) At(x numeric.Point) numeric.Point {
	return GradientAt(g.f, x, g.settings)
}

// Func returns g as a plain gradient function.
func (g Gradient) Func() numeric.GradientFunc {
	return g.At
}
