package newton

import (
	"math"

	"github.com/san-kum/newton/internal/linsolve"
	"github.com/san-kum/newton/internal/numeric"
	"gonum.org/v1/gonum/mat"
)

// Iterator takes Newton steps one at a time, updating the caller's point in
// place.
//
//	it := newton.NewIterator(x, d, linsolve.Default(), cfg)
//	for it.Next() {
//		fmt.Println(it.Iterations(), x)
//	}
type Iterator struct {
	d      Derivatives
	solver linsolve.Solver
	x      numeric.Point
	grad   numeric.Point

	iterations int
	maxIt      int
	tol        float64
	status     Status
	err        error
}

// NewIterator evaluates the gradient at x and prepares to iterate from it.
// A nil solver selects linsolve.Default. It panics with a
// *numeric.DimensionError if the gradient length differs from len(x).
func NewIterator(x numeric.Point, d Derivatives, solver linsolve.Solver, cfg Config) *Iterator {
	if d == nil {
		panic("newton: nil derivatives")
	}
	if solver == nil {
		solver = linsolve.Default()
	}
	it := &Iterator{
		d:      d,
		solver: solver,
		x:      x,
		maxIt:  cfg.maxIterations(),
		tol:    cfg.gradientTol(),
	}
	it.updateGradient()
	return it
}

// Next performs one step and reports whether it did. It returns false once
// the iteration has ended; Status tells why.
func (it *Iterator) Next() bool {
	if it.status != Running {
		return false
	}
	if it.iterations >= it.maxIt {
		it.status = IterationLimit
		return false
	}

	n := len(it.x)
	a := it.d.Hessian(it.x)
	r, c := a.Dims()
	numeric.MustMatch("hessian rows", n, r)
	numeric.MustMatch("hessian columns", n, c)

	// A·x_new = A·x − ∇f(x)
	var b mat.VecDense
	b.MulVec(a, it.x.Vec())
	b.SubVec(&b, it.grad.Vec())

	next, err := it.solver.Solve(a, &b)
	if err != nil {
		it.status = SolveFailed
		it.err = err
		return false
	}
	copy(it.x, numeric.FromVec(next))
	it.iterations++

	it.updateGradient()
	if it.status == Running && it.iterations >= it.maxIt {
		it.status = IterationLimit
	}
	return true
}

func (it *Iterator) updateGradient() {
	if !it.x.IsValid() {
		it.grad = make(numeric.Point, len(it.x))
		for i := range it.grad {
			it.grad[i] = math.NaN()
		}
		it.status = Diverged
		return
	}
	it.grad = it.d.Gradient(it.x)
	numeric.MustMatch("gradient", len(it.x), len(it.grad))

	switch {
	case !it.grad.IsValid():
		it.status = Diverged
	case it.grad.Norm() <= it.tol:
		it.status = Converged
	}
}

// X returns the current iterate. It is the slice passed to NewIterator.
func (it *Iterator) X() numeric.Point { return it.x }

// Gradient returns the gradient at the current iterate.
func (it *Iterator) Gradient() numeric.Point { return it.grad }

func (it *Iterator) GradientNorm() float64 { return it.grad.Norm() }

func (it *Iterator) Iterations() int { return it.iterations }

func (it *Iterator) Status() Status { return it.status }

// Done reports whether the iteration has ended.
func (it *Iterator) Done() bool { return it.status != Running }

// Err returns the linear solver error that stopped the iteration, if any.
func (it *Iterator) Err() error { return it.err }
