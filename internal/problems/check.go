package problems

import (
	"context"
	"fmt"

	"github.com/san-kum/newton/internal/approx"
	"github.com/san-kum/newton/internal/diff"
	"github.com/san-kum/newton/internal/linsolve"
	"github.com/san-kum/newton/internal/newton"
	"github.com/san-kum/newton/internal/numeric"
)

// CheckConfig tunes Check. The zero value checks with finite differences at
// the default scale, the default tolerance and the SVD solver.
type CheckConfig struct {
	Diff      diff.Settings
	Tolerance approx.Tolerance
	Solver    linsolve.Solver
	// Analytic uses the bundle's closed form derivatives when it has them.
	Analytic bool
	// GradientTol stops the iteration. Zero means Tolerance.Atol, the same
	// bound the zero gradient assertion uses.
	GradientTol float64
	// Observers are attached to the solve.
	Observers []newton.Observer
}

// Outcome is the result of checking one bundle.
type Outcome struct {
	Bundle     string
	Iterations int
	Cap        int
	Status     newton.Status
	X          numeric.Point
	// Gradient is the gradient at X from the derivatives the solve used.
	Gradient numeric.Point
	Failures []string
}

func (o Outcome) Passed() bool { return len(o.Failures) == 0 }

// Cap is the iteration ceiling a check runs under. It exceeds MaxIt so that
// overrunning the budget is observed rather than truncated.
func Cap(b Bundle) int {
	return max(b.MaxIt+10, 1000)
}

// Check runs Newton's method on b from its start point and verifies that it
// stays within MaxIt iterations, lands on Target, and leaves a zero gradient
// behind. Bundles without a target must not report convergence.
func Check(ctx context.Context, b Bundle, cfg CheckConfig) (Outcome, error) {
	tol := cfg.Tolerance
	if tol == (approx.Tolerance{}) {
		tol = approx.Default()
	}
	gradTol := cfg.GradientTol
	if gradTol == 0 {
		gradTol = tol.Atol
	}

	var d newton.Derivatives
	if cfg.Analytic && b.HasAnalytic() {
		d = newton.Analytic{Grad: b.Grad, Hess: b.Hess}
	} else {
		d = newton.FiniteDifference(b.Func, cfg.Diff)
	}

	s := newton.New(d, cfg.Solver)
	for _, o := range cfg.Observers {
		s.AddObserver(o)
	}

	x := b.StartPoint()
	out := Outcome{Bundle: b.Name, Cap: Cap(b), X: x}
	res, err := s.Run(ctx, x, newton.Config{MaxIterations: out.Cap, GradientTol: gradTol})
	if err != nil {
		return out, err
	}
	out.Iterations = res.Iterations
	out.Status = res.Status
	out.Gradient = d.Gradient(x)

	if b.Target == nil {
		if res.Converged() {
			out.fail("converged to %v although no stationary point exists", x)
		}
		return out, nil
	}

	if res.Iterations > b.MaxIt {
		out.fail("took %d iterations, budget is %d", res.Iterations, b.MaxIt)
	}
	if !tol.Equal(x, b.Target) {
		out.fail("result %v differs from target %v", x, b.Target)
	}
	if !tol.Zero(out.Gradient) {
		out.fail("gradient %v at result is not zero", out.Gradient)
	}
	return out, nil
}

func (o *Outcome) fail(format string, args ...any) {
	o.Failures = append(o.Failures, fmt.Sprintf(format, args...))
}
