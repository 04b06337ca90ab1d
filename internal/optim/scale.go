package optim

import (
	"context"
	"math"

	"github.com/san-kum/newton/internal/diff"
	"github.com/san-kum/newton/internal/linsolve"
	"github.com/san-kum/newton/internal/newton"
	"github.com/san-kum/newton/internal/problems"
)

// ScaleExp is the parameter ScaleObjective reads: the step scale is
// 2^ScaleExp.
const ScaleExp = "scale_exp"

// ScaleObjective scores a finite difference step scale by the gradient norm
// at the point Newton's method reaches on b within its budget. The analytic
// gradient is used for scoring when b has one. Runs that fail to solve or
// diverge score +Inf.
func ScaleObjective(b problems.Bundle, linear linsolve.Solver) Objective {
	return func(ctx context.Context, params map[string]float64) (float64, error) {
		s := diff.Settings{Scale: math.Exp2(params[ScaleExp])}
		solver := newton.New(newton.FiniteDifference(b.Func, s), linear)

		res, err := solver.Run(ctx, b.StartPoint(), newton.Config{MaxIterations: b.MaxIt})
		if err != nil {
			return 0, err
		}
		switch res.Status {
		case newton.SolveFailed, newton.Diverged:
			return math.Inf(1), nil
		}

		if b.Grad == nil {
			return res.GradientNorm, nil
		}
		g := b.Grad(res.X)
		if !g.IsValid() {
			return math.Inf(1), nil
		}
		return g.Norm(), nil
	}
}
