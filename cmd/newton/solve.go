package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/san-kum/newton/internal/config"
	"github.com/san-kum/newton/internal/metrics"
	"github.com/san-kum/newton/internal/newton"
	"github.com/san-kum/newton/internal/numeric"
	"github.com/san-kum/newton/internal/problems"
	"github.com/san-kum/newton/internal/storage"
	"github.com/san-kum/newton/internal/viz"
	"github.com/spf13/cobra"
)

// setup is everything a solve needs once the config has been resolved.
type setup struct {
	cfg     *config.Config
	bundle  problems.Bundle
	start   numeric.Point
	solver  *newton.Solver
	counter *metrics.Counter
	trace   *metrics.Trace
}

func buildSetup(cfg *config.Config) (*setup, error) {
	b, err := cfg.Bundle()
	if err != nil {
		return nil, err
	}
	x0, err := cfg.StartPoint(b)
	if err != nil {
		return nil, err
	}
	linear, err := cfg.LinearSolver()
	if err != nil {
		return nil, err
	}

	counter := metrics.NewCounter()
	counted := b
	counted.Func = counter.Wrap(b.Func)
	d, err := cfg.DerivativesFor(counted)
	if err != nil {
		return nil, err
	}

	s := newton.New(d, linear)
	s.AddMetric(metrics.NewGradientNorm())
	s.AddMetric(metrics.NewStepNorm())
	s.AddMetric(metrics.NewConvergenceOrder())
	if cfg.Derivatives == config.FiniteDifference {
		s.AddMetric(counter)
	}

	tr := metrics.NewTrace(b.Func)
	s.AddObserver(tr)

	return &setup{
		cfg:     cfg,
		bundle:  b,
		start:   x0,
		solver:  s,
		counter: counter,
		trace:   tr,
	}, nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	st, err := buildSetup(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if verbose > 0 {
		fmt.Printf("solving %s from %s (%s, %s)\n", st.bundle.Name, viz.FormatPoint(st.start), cfg.Derivatives, cfg.Solver)
	}
	if verbose > 1 {
		printDerivatives(cfg, st.bundle, st.start)
	}

	began := time.Now()
	res, err := st.solver.Run(ctx, st.start.Clone(), cfg.NewtonConfig(st.bundle))
	elapsed := time.Since(began)
	if err != nil && res == nil {
		return err
	}

	if verbose > 1 {
		printDerivatives(cfg, st.bundle, res.X)
	}

	maxIt := cfg.MaxIterationsFor(st.bundle)
	if err := viz.Report(os.Stdout, viz.Summary{
		Problem:       st.bundle.Name,
		Derivatives:   cfg.Derivatives,
		Solver:        cfg.Solver,
		Start:         st.start,
		MaxIterations: maxIt,
		Result:        res,
		F:             st.bundle.Func(res.X),
		Elapsed:       elapsed,
	}); err != nil {
		return err
	}

	if showPlot {
		if g := viz.Convergence(st.trace, 60, 12); g != "" {
			fmt.Println()
			fmt.Println(g)
		}
	}

	if !noSave {
		store := storage.New(dataDir)
		if err := store.Init(); err != nil {
			return fmt.Errorf("failed to init storage: %w", err)
		}
		runID, err := store.Save(storage.Record{
			Problem:       st.bundle.Name,
			Derivatives:   cfg.Derivatives,
			Solver:        cfg.Solver,
			Scale:         cfg.Diff.Scale,
			MaxIterations: maxIt,
			Start:         st.start,
			Result:        res,
			Trace:         st.trace,
		})
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		fmt.Printf("\nsaved run: %s\n", runID)
	}

	if err != nil {
		return err
	}
	if res.Status == newton.SolveFailed {
		return res.Err
	}
	return nil
}
