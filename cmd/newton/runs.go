package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/san-kum/newton/internal/config"
	"github.com/san-kum/newton/internal/problems"
	"github.com/san-kum/newton/internal/storage"
	"github.com/san-kum/newton/internal/viz"
	"github.com/spf13/cobra"
)

func listProblems(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDIM\tMAX_IT\tSTART\tTARGET\tANALYTIC\tDESCRIPTION")

	for _, b := range problems.All() {
		target := "-"
		if b.Target != nil {
			target = viz.FormatPoint(b.Target)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%t\t%s\n",
			b.Name,
			b.Dim(),
			b.MaxIt,
			viz.FormatPoint(b.Start),
			target,
			b.HasAnalytic(),
			b.Description,
		)
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := problems.Names()
	if len(args) > 0 {
		if _, err := problems.Get(args[0]); err != nil {
			return err
		}
		names = args[:1]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROBLEM\tPRESET\tDERIVATIVES\tSOLVER\tMAX_IT\tSTART")

	for _, problem := range names {
		for _, name := range config.ListPresets(problem) {
			p := config.GetPreset(problem, name)
			start := "-"
			if len(p.Start) > 0 {
				start = viz.FormatPoint(p.Start)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
				problem, name, p.Derivatives, p.Solver, p.MaxIterations, start)
		}
	}

	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROBLEM\tTIME\tDERIV\tSOLVER\tITER\tSTATUS\tGRAD_NORM")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%s\t%.3e\n",
			run.ID,
			run.Problem,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Derivatives,
			run.Solver,
			run.Iterations,
			run.Status,
			float64(run.GradientNorm),
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	tr, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	if tr.Len() < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("problem: %s\n", meta.Problem)
	fmt.Printf("iterates: %d\n\n", tr.Len())

	fmt.Println(viz.Convergence(tr, 80, 10))
	fmt.Println()

	dim := len(meta.X)
	for i := 0; i < min(dim, 6); i++ {
		fmt.Println(viz.Component(tr, i, 80, 10))
		fmt.Println()
	}

	fmt.Println(viz.Path(tr, 40, 12))

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	if outFile != "" {
		if err := st.ExportFile(outFile, runID); err != nil {
			return err
		}
		fmt.Printf("exported %s to %s\n", runID, outFile)
		return nil
	}
	return st.ExportJSON(os.Stdout, runID)
}
