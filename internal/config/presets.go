package config

import (
	"sort"

	"github.com/san-kum/newton/internal/approx"
)

var Presets = map[string]map[string]*Config{
	"square": {
		"far": {
			Problem: "square", Derivatives: FiniteDifference, Solver: "svd",
			Start: []float64{1e6, -1e6},
		},
		"analytic": {
			Problem: "square", Derivatives: Analytic, Solver: "svd",
		},
		"lu": {
			Problem: "square", Derivatives: FiniteDifference, Solver: "lu",
		},
	},
	"cos_1d_eq": {
		"near": {
			Problem: "cos_1d_eq", Derivatives: FiniteDifference, Solver: "svd",
			Start: []float64{1},
		},
		"loose": {
			Problem: "cos_1d_eq", Derivatives: FiniteDifference, Solver: "svd",
			GradientTol: 1e-8,
		},
	},
	"cos_2d_eq": {
		"origin": {
			Problem: "cos_2d_eq", Derivatives: FiniteDifference, Solver: "svd",
			Start: []float64{0.5, -2},
		},
		"concurrent": {
			Problem: "cos_2d_eq", Derivatives: FiniteDifference, Solver: "svd",
			Diff: DiffConfig{Concurrent: true},
		},
		// A step scale of 18 instead of 2^18 sends the iteration to the
		// stationary point at the origin.
		"small_scale": {
			Problem: "cos_2d_eq", Derivatives: FiniteDifference, Solver: "svd",
			Diff: DiffConfig{Scale: 18},
		},
	},
	"saddle": {
		"qr": {
			Problem: "saddle", Derivatives: FiniteDifference, Solver: "qr",
		},
	},
	"rosenbrock": {
		"exhaust": {
			Problem: "rosenbrock", Derivatives: Analytic, Solver: "svd",
			MaxIterations: 100,
		},
		"singular": {
			Problem: "rosenbrock", Derivatives: Analytic, Solver: "lu",
		},
	},
}

// GetPreset returns a copy of the named preset with unset fields filled from
// DefaultConfig.
func GetPreset(problem, preset string) *Config {
	problemPresets, ok := Presets[problem]
	if !ok {
		return nil
	}
	p, ok := problemPresets[preset]
	if !ok {
		return nil
	}
	return p.withDefaults()
}

func ListPresets(problem string) []string {
	problemPresets, ok := Presets[problem]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(problemPresets))
	for name := range problemPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Config) withDefaults() *Config {
	out := *c
	def := DefaultConfig()
	if out.GradientTol == 0 {
		out.GradientTol = def.GradientTol
	}
	if out.Diff.Scale == 0 {
		out.Diff.Scale = def.Diff.Scale
	}
	if out.Tolerance == (approx.Tolerance{}) {
		out.Tolerance = def.Tolerance
	}
	if out.Start != nil {
		out.Start = append([]float64(nil), out.Start...)
	}
	return &out
}
