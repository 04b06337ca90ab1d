package diff

import (
	"github.com/san-kum/newton/internal/numeric"
	"gonum.org/v1/gonum/mat"
)

// HessianAt approximates the Hessian of f at v using 4n² evaluations of f.
//
// Row i is the finite difference gradient of v ↦ Partial(f, v, i). The result
// is not guaranteed to be symmetric.
func HessianAt(f numeric.Objective, v numeric.Point, s Settings) *mat.Dense {
	n := len(v)
	if n == 0 {
		return &mat.Dense{}
	}
	hess := mat.NewDense(n, n, nil)

	inner := s
	inner.Concurrent = false
	row := func(i int) {
		gi := func(w numeric.Point) float64 {
			return Partial(f, w, i, inner)
		}
		hess.SetRow(i, GradientAt(gi, v, inner))
	}

	if s.Concurrent {
		numeric.ParallelFor(n, 1, func(start, end int) {
			for i := start; i < end; i++ {
				row(i)
			}
		})
		return hess
	}
	for i := 0; i < n; i++ {
		row(i)
	}
	return hess
}

// Hessian is a finite difference Hessian bound to one objective.
type Hessian struct {
	f        numeric.Objective
	settings Settings
}

func NewHessian(f numeric.Objective, s Settings) Hessian {
	if f == nil {
		panic("diff: nil objective")
	}
	return Hessian{f: f, settings: s}
}

// At approximates the Hessian at x.
func (h Hessian) At(x numeric.Point) *mat.Dense {
	return HessianAt(h.f, x, h.settings)
}

// Func returns h as a plain Hessian function.
func (h Hessian) Func() numeric.HessianFunc {
	return h.At
}
