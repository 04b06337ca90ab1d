package newton

import (
	"fmt"
	"math"

	"github.com/san-kum/newton/internal/numeric"
)

// Status describes how an iteration ended.
type Status int

const (
	Running Status = iota
	Converged
	IterationLimit
	Diverged
	SolveFailed
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Converged:
		return "converged"
	case IterationLimit:
		return "iteration limit"
	case Diverged:
		return "diverged"
	case SolveFailed:
		return "solve failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Config bounds a solve.
type Config struct {
	// MaxIterations caps the number of steps. Zero or negative means
	// unbounded.
	MaxIterations int `yaml:"max_iterations" json:"max_iterations"`
	// GradientTol is the gradient norm at or below which the point counts as
	// stationary. Zero means machine epsilon.
	GradientTol float64 `yaml:"gradient_tol" json:"gradient_tol"`
}

func DefaultConfig() Config {
	return Config{GradientTol: numeric.Epsilon}
}

func (c Config) maxIterations() int {
	if c.MaxIterations <= 0 {
		return math.MaxInt
	}
	return c.MaxIterations
}

func (c Config) gradientTol() float64 {
	if c.GradientTol == 0 {
		return numeric.Epsilon
	}
	return c.GradientTol
}

// Metric accumulates a summary value over the iterates of one solve.
type Metric interface {
	Name() string
	Observe(iteration int, x, grad numeric.Point)
	Value() float64
	Reset()
}

// Observer is notified of the starting point (iteration 0) and of every
// iterate. Implementations must copy x and grad if they keep them.
type Observer interface {
	OnIteration(iteration int, x, grad numeric.Point)
}

type Result struct {
	Iterations   int
	Status       Status
	X            numeric.Point
	GradientNorm float64
	Metrics      map[string]float64
	// Err holds the linear solver failure when Status is SolveFailed.
	Err error
}

func (r *Result) Converged() bool { return r.Status == Converged }
