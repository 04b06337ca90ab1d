package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/san-kum/newton/internal/config"
	"github.com/san-kum/newton/internal/linsolve"
	"github.com/san-kum/newton/internal/viz"
	"github.com/spf13/cobra"
)

// runCompare solves one problem with every requested linear solver, once with
// finite differences and once with analytic derivatives when available.
func runCompare(cmd *cobra.Command, args []string) error {
	problem := args[0]
	solvers := args[1:]
	if len(solvers) == 0 {
		solvers = linsolve.Names()
	}

	base := config.DefaultConfig()
	base.Problem = problem
	if cmd.Flags().Changed("max-it") {
		base.MaxIterations = maxIt
	}
	if cmd.Flags().Changed("scale") {
		base.Diff.Scale = scale
	}
	if err := base.Validate(); err != nil {
		return err
	}
	b, err := base.Bundle()
	if err != nil {
		return err
	}

	sources := []string{config.FiniteDifference}
	if b.HasAnalytic() {
		sources = append(sources, config.Analytic)
	}

	fmt.Printf("comparing solvers on %s from %s\n\n", b.Name, viz.FormatPoint(b.Start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOLVER\tDERIV\tITER\tSTATUS\tGRAD_NORM\tEVALS\tTIME\tRESULT")

	for _, name := range solvers {
		for _, src := range sources {
			cfg := *base
			cfg.Solver = name
			cfg.Derivatives = src
			if err := cfg.Validate(); err != nil {
				return err
			}
			st, err := buildSetup(&cfg)
			if err != nil {
				return err
			}

			began := time.Now()
			res, err := st.solver.Run(context.Background(), st.start.Clone(), cfg.NewtonConfig(b))
			if err != nil {
				return err
			}
			elapsed := time.Since(began)

			evals := "-"
			if src == config.FiniteDifference {
				evals = fmt.Sprintf("%d", st.counter.Count())
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%.3e\t%s\t%s\t%s\n",
				name,
				src,
				res.Iterations,
				res.Status,
				res.GradientNorm,
				evals,
				elapsed.Round(time.Microsecond),
				viz.FormatPoint(res.X),
			)
		}
	}

	return w.Flush()
}
