package config

import (
	"fmt"
	"math"
	"os"

	"github.com/san-kum/newton/internal/approx"
	"github.com/san-kum/newton/internal/diff"
	"github.com/san-kum/newton/internal/linsolve"
	"github.com/san-kum/newton/internal/newton"
	"github.com/san-kum/newton/internal/numeric"
	"github.com/san-kum/newton/internal/problems"
	"gopkg.in/yaml.v3"
)

const (
	DefaultProblem     = "square"
	DefaultDerivatives = FiniteDifference
	DefaultSolver      = "svd"

	FiniteDifference = "finite_difference"
	Analytic         = "analytic"
)

type Config struct {
	Problem     string `yaml:"problem"`
	Derivatives string `yaml:"derivatives"`
	Solver      string `yaml:"solver"`
	// Rcond is the SVD cutoff; zero selects n·ε.
	Rcond float64 `yaml:"rcond,omitempty"`
	// MaxIterations of zero uses the problem's own budget, negative is
	// unbounded.
	MaxIterations int     `yaml:"max_iterations"`
	GradientTol   float64 `yaml:"gradient_tol,omitempty"`
	// Start overrides the problem's starting point.
	Start     []float64        `yaml:"start,omitempty"`
	Diff      DiffConfig       `yaml:"diff"`
	Tolerance approx.Tolerance `yaml:"tolerance"`
}

type DiffConfig struct {
	Scale      float64 `yaml:"scale"`
	Concurrent bool    `yaml:"concurrent"`
}

func DefaultConfig() *Config {
	return &Config{
		Problem:     DefaultProblem,
		Derivatives: DefaultDerivatives,
		Solver:      DefaultSolver,
		GradientTol: numeric.Epsilon,
		Diff: DiffConfig{
			Scale: diff.DefaultScale,
		},
		Tolerance: approx.Default(),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if _, err := problems.Get(c.Problem); err != nil {
		return err
	}
	if c.Derivatives != FiniteDifference && c.Derivatives != Analytic {
		return fmt.Errorf("derivatives must be %s or %s, got %q", FiniteDifference, Analytic, c.Derivatives)
	}
	if _, err := linsolve.Get(c.Solver); err != nil {
		return err
	}
	if c.Rcond < 0 || math.IsNaN(c.Rcond) {
		return fmt.Errorf("rcond must be non-negative, got %v", c.Rcond)
	}
	if c.GradientTol < 0 || math.IsNaN(c.GradientTol) {
		return fmt.Errorf("gradient tolerance must be non-negative, got %v", c.GradientTol)
	}
	if c.Diff.Scale < 0 || math.IsNaN(c.Diff.Scale) || math.IsInf(c.Diff.Scale, 0) {
		return fmt.Errorf("diff scale must be finite and non-negative, got %v", c.Diff.Scale)
	}
	if c.Tolerance.Atol < 0 || c.Tolerance.Rtol < 0 {
		return fmt.Errorf("tolerances must be non-negative")
	}
	if !numeric.Point(c.Start).IsValid() {
		return fmt.Errorf("start: %w", numeric.ErrInvalidPoint)
	}
	return nil
}

func (c *Config) DiffSettings() diff.Settings {
	return diff.Settings{Scale: c.Diff.Scale, Concurrent: c.Diff.Concurrent}
}

// Bundle returns the configured problem.
func (c *Config) Bundle() (problems.Bundle, error) {
	return problems.Get(c.Problem)
}

// StartPoint returns the override start point, or the bundle's own.
func (c *Config) StartPoint(b problems.Bundle) (numeric.Point, error) {
	if len(c.Start) == 0 {
		return b.StartPoint(), nil
	}
	if len(c.Start) != b.Dim() {
		return nil, &numeric.DimensionError{Op: "start", Want: b.Dim(), Got: len(c.Start)}
	}
	return numeric.Point(c.Start).Clone(), nil
}

// MaxIterationsFor resolves the iteration budget for b.
func (c *Config) MaxIterationsFor(b problems.Bundle) int {
	if c.MaxIterations == 0 {
		return b.MaxIt
	}
	return c.MaxIterations
}

func (c *Config) NewtonConfig(b problems.Bundle) newton.Config {
	return newton.Config{
		MaxIterations: c.MaxIterationsFor(b),
		GradientTol:   c.GradientTol,
	}
}

func (c *Config) LinearSolver() (linsolve.Solver, error) {
	s, err := linsolve.Get(c.Solver)
	if err != nil {
		return nil, err
	}
	if _, ok := s.(linsolve.SVD); ok {
		return linsolve.SVD{Rcond: c.Rcond}, nil
	}
	return s, nil
}

// DerivativesFor selects finite difference or analytic derivatives of b.
func (c *Config) DerivativesFor(b problems.Bundle) (newton.Derivatives, error) {
	switch c.Derivatives {
	case Analytic:
		if !b.HasAnalytic() {
			return nil, fmt.Errorf("problem %s has no analytic derivatives", b.Name)
		}
		return newton.Analytic{Grad: b.Grad, Hess: b.Hess}, nil
	case FiniteDifference, "":
		return newton.FiniteDifference(b.Func, c.DiffSettings()), nil
	default:
		return nil, fmt.Errorf("unknown derivatives: %s", c.Derivatives)
	}
}
