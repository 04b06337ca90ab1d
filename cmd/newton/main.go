package main

import (
	"fmt"
	"os"

	"github.com/san-kum/newton/internal/config"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	verbose    int
	configFile string
	preset     string

	derivatives string
	solverName  string
	rcond       float64
	maxIt       int
	gradTol     float64
	scale       float64
	concurrent  bool
	start       []float64

	showPlot bool
	noSave   bool
	outFile  string
	analytic bool
)

// main registers the newton commands and exits with status 1 when the
// selected command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:           "newton",
		Short:         "stationary points by Newton's method",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".newton", "data directory")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "verbosity (-v progress, -vv derivatives)")

	solveCmd := &cobra.Command{
		Use:   "solve [problem]",
		Short: "find a stationary point of a sample problem",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSolve,
	}
	addSolveFlags(solveCmd)
	solveCmd.Flags().BoolVar(&showPlot, "plot", false, "plot convergence after solving")
	solveCmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist the run")

	checkCmd := &cobra.Command{
		Use:   "check [problem...]",
		Short: "verify every sample problem reaches its known stationary point",
		RunE:  runCheck,
	}
	checkCmd.Flags().BoolVar(&analytic, "analytic", false, "use analytic derivatives")
	checkCmd.Flags().BoolVar(&concurrent, "concurrent", false, "evaluate finite differences concurrently")
	checkCmd.Flags().Float64Var(&scale, "scale", 0, "finite difference step scale (0 = default)")
	checkCmd.Flags().StringVar(&solverName, "solver", config.DefaultSolver, "linear solver (svd, qr, lu)")

	problemsCmd := &cobra.Command{
		Use:   "problems",
		Short: "list sample problems",
		RunE:  listProblems,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [problem]",
		Short: "list presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	liveCmd := &cobra.Command{
		Use:   "live [problem]",
		Short: "step through a solve interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSolveFlags(liveCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [problem] [solver...]",
		Short: "compare linear solvers and derivative sources on one problem",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCompare,
	}
	compareCmd.Flags().IntVar(&maxIt, "max-it", 0, "iteration cap (0 = problem budget, <0 = unbounded)")
	compareCmd.Flags().Float64Var(&scale, "scale", 0, "finite difference step scale (0 = default)")

	tuneCmd := &cobra.Command{
		Use:   "tune [problem]",
		Short: "grid search the finite difference step scale",
		Args:  cobra.ExactArgs(1),
		RunE:  runTune,
	}
	tuneCmd.Flags().Float64Var(&expFrom, "from", 0, "smallest scale exponent")
	tuneCmd.Flags().Float64Var(&expTo, "to", 30, "largest scale exponent")
	tuneCmd.Flags().Float64Var(&expStep, "step", 2, "exponent increment")
	tuneCmd.Flags().StringVar(&solverName, "solver", config.DefaultSolver, "linear solver (svd, qr, lu)")

	rootCmd.AddCommand(solveCmd, checkCmd, problemsCmd, presetsCmd, listCmd, plotCmd, exportCmd, liveCmd, compareCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSolveFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&derivatives, "derivatives", config.DefaultDerivatives, "finite_difference or analytic")
	cmd.Flags().StringVar(&solverName, "solver", config.DefaultSolver, "linear solver (svd, qr, lu)")
	cmd.Flags().Float64Var(&rcond, "rcond", 0, "svd singular value cutoff (0 = n·eps)")
	cmd.Flags().IntVar(&maxIt, "max-it", 0, "iteration cap (0 = problem budget, <0 = unbounded)")
	cmd.Flags().Float64Var(&gradTol, "tol", 0, "gradient norm threshold (0 = machine epsilon)")
	cmd.Flags().Float64Var(&scale, "scale", 0, "finite difference step scale (0 = default)")
	cmd.Flags().BoolVar(&concurrent, "concurrent", false, "evaluate finite differences concurrently")
	cmd.Flags().Float64SliceVar(&start, "start", nil, "starting point, comma separated")
}

// resolveConfig layers a preset, a config file, the problem argument and
// explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	problem := cfg.Problem
	if len(args) > 0 {
		problem = args[0]
	}

	if preset != "" {
		p := config.GetPreset(problem, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(problem))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Problem = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("derivatives") {
		cfg.Derivatives = derivatives
	}
	if flags.Changed("solver") {
		cfg.Solver = solverName
	}
	if flags.Changed("rcond") {
		cfg.Rcond = rcond
	}
	if flags.Changed("max-it") {
		cfg.MaxIterations = maxIt
	}
	if flags.Changed("tol") {
		cfg.GradientTol = gradTol
	}
	if flags.Changed("scale") {
		cfg.Diff.Scale = scale
	}
	if flags.Changed("concurrent") {
		cfg.Diff.Concurrent = concurrent
	}
	if flags.Changed("start") {
		cfg.Start = start
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
