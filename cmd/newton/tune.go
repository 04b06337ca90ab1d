package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/san-kum/newton/internal/linsolve"
	"github.com/san-kum/newton/internal/optim"
	"github.com/san-kum/newton/internal/problems"
	"github.com/spf13/cobra"
)

var (
	expFrom float64
	expTo   float64
	expStep float64
)

// runTune grid searches the finite difference step scale 2^k for one problem.
func runTune(cmd *cobra.Command, args []string) error {
	b, err := problems.Get(args[0])
	if err != nil {
		return err
	}
	linear, err := linsolve.Get(solverName)
	if err != nil {
		return err
	}

	exps := optim.Range(expFrom, expTo, expStep)
	if len(exps) == 0 {
		return fmt.Errorf("empty exponent range [%v, %v] step %v", expFrom, expTo, expStep)
	}

	g := optim.NewGridSearch([]string{optim.ScaleExp}, [][]float64{exps})
	best, score, err := g.Search(context.Background(), optim.ScaleObjective(b, linear))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tEXP\tSCALE\tGRAD_NORM")
	for i, t := range g.Ranked() {
		k := t.Params[optim.ScaleExp]
		fmt.Fprintf(w, "%d\t%g\t%g\t%.3e\n", i+1, k, math.Exp2(k), t.Score)
	}
	for _, t := range g.Trials() {
		if t.Err != nil {
			k := t.Params[optim.ScaleExp]
			fmt.Fprintf(w, "-\t%g\t%g\terror: %v\n", k, math.Exp2(k), t.Err)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	k := best[optim.ScaleExp]
	fmt.Printf("\nbest scale for %s: 2^%g = %g (‖∇f‖ = %.3e)\n", b.Name, k, math.Exp2(k), score)
	return nil
}
