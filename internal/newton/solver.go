package newton

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/newton/internal/diff"
	"github.com/san-kum/newton/internal/linsolve"
	"github.com/san-kum/newton/internal/numeric"
)

type Solver struct {
	d         Derivatives
	linear    linsolve.Solver
	metrics   []Metric
	observers []Observer
}

// New returns a Solver drawing derivatives from d. A nil linear solver
// selects linsolve.Default.
func New(d Derivatives, linear linsolve.Solver) *Solver {
	if linear == nil {
		linear = linsolve.Default()
	}
	return &Solver{
		d:         d,
		linear:    linear,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Solver) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Solver) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Iterator returns a step-by-step iteration from x without metrics or
// observers.
func (s *Solver) Iterator(x numeric.Point, cfg Config) *Iterator {
	return NewIterator(x, s.d, s.linear, cfg)
}

// Run iterates from x until the gradient vanishes, the iteration budget is
// spent or ctx is cancelled. x is updated in place and holds the last iterate
// on return.
func (s *Solver) Run(ctx context.Context, x numeric.Point, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	it := NewIterator(x, s.d, s.linear, cfg)
	s.notify(it)

	var ctxErr error
	for {
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break
		}
		if !it.Next() {
			break
		}
		s.notify(it)
	}

	result := &Result{
		Iterations:   it.Iterations(),
		Status:       it.Status(),
		X:            x,
		GradientNorm: it.GradientNorm(),
		Metrics:      make(map[string]float64, len(s.metrics)),
		Err:          it.Err(),
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, ctxErr
}

func (s *Solver) notify(it *Iterator) {
	for _, m := range s.metrics {
		m.Observe(it.Iterations(), it.X(), it.Gradient())
	}
	for _, o := range s.observers {
		o.OnIteration(it.Iterations(), it.X(), it.Gradient())
	}
}

func (s *Solver) validateConfig(cfg Config) error {
	if s.d == nil {
		return fmt.Errorf("derivatives must be set")
	}
	if cfg.GradientTol < 0 || math.IsNaN(cfg.GradientTol) {
		return fmt.Errorf("gradient tolerance must be non-negative, got %v", cfg.GradientTol)
	}
	return nil
}

// Find moves x toward a stationary point of f using finite difference
// derivatives with the default step scale and returns the number of
// iterations performed. maxIt ≤ 0 means no iteration cap.
func Find(x numeric.Point, f numeric.Objective, maxIt int) int {
	return run(x, FiniteDifference(f, diff.DefaultSettings()), maxIt)
}

// FindAnalytic is Find with caller supplied derivatives.
func FindAnalytic(x numeric.Point, grad numeric.GradientFunc, hess numeric.HessianFunc, maxIt int) int {
	return run(x, Analytic{Grad: grad, Hess: hess}, maxIt)
}

func run(x numeric.Point, d Derivatives, maxIt int) int {
	res, err := New(d, nil).Run(context.Background(), x, Config{MaxIterations: maxIt})
	if err != nil {
		panic(err)
	}
	return res.Iterations
}
