package newton

import (
	"github.com/san-kum/newton/internal/diff"
	"github.com/san-kum/newton/internal/numeric"
	"gonum.org/v1/gonum/mat"
)

// Derivatives supplies the first and second derivatives of an objective.
type Derivatives interface {
	Gradient(x numeric.Point) numeric.Point
	Hessian(x numeric.Point) *mat.Dense
}

type finiteDifference struct {
	grad diff.Gradient
	hess diff.Hessian
}

// FiniteDifference approximates the derivatives of f by central differences.
func FiniteDifference(f numeric.Objective, s diff.Settings) Derivatives {
	return finiteDifference{
		grad: diff.NewGradient(f, s),
		hess: diff.NewHessian(f, s),
	}
}

func (d finiteDifference) Gradient(x numeric.Point) numeric.Point { return d.grad.At(x) }
func (d finiteDifference) Hessian(x numeric.Point) *mat.Dense     { return d.hess.At(x) }

// Analytic uses closed form derivatives.
type Analytic struct {
	Grad numeric.GradientFunc
	Hess numeric.HessianFunc
}

func (a Analytic) Gradient(x numeric.Point) numeric.Point { return a.Grad(x) }
func (a Analytic) Hessian(x numeric.Point) *mat.Dense     { return a.Hess(x) }
