package main

import (
	"context"
	"fmt"

	"github.com/san-kum/newton/internal/config"
	"github.com/san-kum/newton/internal/diff"
	"github.com/san-kum/newton/internal/linsolve"
	"github.com/san-kum/newton/internal/numeric"
	"github.com/san-kum/newton/internal/problems"
	"github.com/san-kum/newton/internal/viz"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

func runCheck(cmd *cobra.Command, args []string) error {
	bundles := problems.All()
	if len(args) > 0 {
		bundles = bundles[:0]
		for _, name := range args {
			b, err := problems.Get(name)
			if err != nil {
				return err
			}
			bundles = append(bundles, b)
		}
	}

	linear, err := linsolve.Get(solverName)
	if err != nil {
		return err
	}
	cfg := config.DefaultConfig()
	cfg.Diff.Scale = scale
	cfg.Diff.Concurrent = concurrent
	if analytic {
		cfg.Derivatives = config.Analytic
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	failed := 0
	for _, b := range bundles {
		if verbose > 0 {
			fmt.Printf("running %q\n", b.Name)
			fmt.Printf("\tstart x = %s\n", viz.FormatPoint(b.Start))
			fmt.Printf("\tf(x) = %.10g\n", b.Func(b.Start))
		}
		if verbose > 1 {
			printDerivatives(cfg, b, b.Start)
		}

		out, err := problems.Check(ctx, b, problems.CheckConfig{
			Diff:      cfg.DiffSettings(),
			Tolerance: cfg.Tolerance,
			Solver:    linear,
			Analytic:  analytic,
		})
		if err != nil {
			return fmt.Errorf("%s: %w", b.Name, err)
		}

		if verbose > 0 {
			fmt.Printf("\ttook %d iterations (%s)\n", out.Iterations, out.Status)
			fmt.Printf("\tnewton result = %s\n", viz.FormatPoint(out.X))
			fmt.Printf("\tf(x) = %.10g\n", b.Func(out.X))
		}
		if verbose > 1 {
			printDerivatives(cfg, b, out.X)
		}

		fmt.Printf("%s %s\n", viz.PassFail(out.Passed()), b.Name)
		for _, f := range out.Failures {
			fmt.Printf("\t%s\n", f)
		}
		if !out.Passed() {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d problems failed", failed, len(bundles))
	}
	return nil
}

// printDerivatives prints the gradient and Hessian of b at x using the
// configured derivative source.
func printDerivatives(cfg *config.Config, b problems.Bundle, x numeric.Point) {
	var (
		g numeric.Point
		h *mat.Dense
	)
	if cfg.Derivatives == config.Analytic && b.HasAnalytic() {
		g, h = b.Grad(x), b.Hess(x)
	} else {
		s := cfg.DiffSettings()
		g, h = diff.GradientAt(b.Func, x, s), diff.HessianAt(b.Func, x, s)
	}
	fmt.Printf("\tgrad f(x) = %s\n", viz.FormatPoint(g))
	fmt.Printf("\thess f(x) = %v\n", mat.Formatted(h, mat.Prefix("\t            "), mat.Squeeze()))
}
