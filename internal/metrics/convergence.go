package metrics

import (
	"math"

	"github.com/san-kum/newton/internal/numeric"
)

// GradientNorm reports the gradient norm at the last observed iterate.
type GradientNorm struct {
	name string
	last float64
}

func NewGradientNorm() *GradientNorm {
	return &GradientNorm{name: "gradient_norm"}
}

func (g *GradientNorm) Name() string { return g.name }

func (g *GradientNorm) Observe(iteration int, x, grad numeric.Point) {
	g.last = grad.Norm()
}

func (g *GradientNorm) Value() float64 { return g.last }

func (g *GradientNorm) Reset() { g.last = 0 }

// StepNorm reports the length of the last Newton step ‖x_k − x_{k−1}‖.
type StepNorm struct {
	name string
	prev numeric.Point
	last float64
}

func NewStepNorm() *StepNorm {
	return &StepNorm{name: "step_norm"}
}

func (s *StepNorm) Name() string { return s.name }

func (s *StepNorm) Observe(iteration int, x, grad numeric.Point) {
	if s.prev != nil && len(s.prev) == len(x) {
		s.last = x.Sub(s.prev).Norm()
	}
	s.prev = x.Clone()
}

func (s *StepNorm) Value() float64 { return s.last }

func (s *StepNorm) Reset() {
	s.prev = nil
	s.last = 0
}

// ConvergenceOrder estimates the order q of convergence from the last three
// step lengths s₁, s₂, s₃:
//
//	q ≈ log(s₃/s₂) / log(s₂/s₁)
//
// Newton's method is quadratic (q ≈ 2) near a nondegenerate stationary point.
// The value is 0 until three nonzero steps have been observed or when the
// estimate is undefined.
type ConvergenceOrder struct {
	name  string
	prev  numeric.Point
	steps [3]float64
	count int
}

func NewConvergenceOrder() *ConvergenceOrder {
	return &ConvergenceOrder{name: "convergence_order"}
}

func (c *ConvergenceOrder) Name() string { return c.name }

func (c *ConvergenceOrder) Observe(iteration int, x, grad numeric.Point) {
	if c.prev != nil && len(c.prev) == len(x) {
		step := x.Sub(c.prev).Norm()
		// a zero step carries no rate information
		if step > 0 {
			c.steps[0], c.steps[1], c.steps[2] = c.steps[1], c.steps[2], step
			c.count++
		}
	}
	c.prev = x.Clone()
}

func (c *ConvergenceOrder) Value() float64 {
	if c.count < 3 {
		return 0
	}
	den := math.Log(c.steps[1] / c.steps[0])
	if den == 0 {
		return 0
	}
	q := math.Log(c.steps[2]/c.steps[1]) / den
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 0
	}
	return q
}

func (c *ConvergenceOrder) Reset() {
	c.prev = nil
	c.steps = [3]float64{}
	c.count = 0
}
