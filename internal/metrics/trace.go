package metrics

import (
	"math"

	"github.com/san-kum/newton/internal/numeric"
)

// Trace records every iterate of a solve.
type Trace struct {
	f numeric.Objective

	Iterations []int
	Points     []numeric.Point
	GradNorms  []float64
	// Values holds f at each iterate, or NaN when no objective was given.
	Values []float64
}

// NewTrace returns a Trace that also evaluates f at every iterate. f may be
// nil.
func NewTrace(f numeric.Objective) *Trace {
	return &Trace{f: f}
}

func (t *Trace) OnIteration(iteration int, x, grad numeric.Point) {
	value := math.NaN()
	if t.f != nil {
		value = t.f(x)
	}
	t.Iterations = append(t.Iterations, iteration)
	t.Points = append(t.Points, x.Clone())
	t.GradNorms = append(t.GradNorms, grad.Norm())
	t.Values = append(t.Values, value)
}

func (t *Trace) Len() int { return len(t.Iterations) }

// LogFloor stands in for log10 of a zero gradient norm.
const LogFloor = -20.0

// LogGradNorms returns log10 of the recorded gradient norms, clamped below at
// LogFloor.
func (t *Trace) LogGradNorms() []float64 {
	out := make([]float64, len(t.GradNorms))
	for i, g := range t.GradNorms {
		out[i] = LogFloor
		if g > 0 {
			out[i] = math.Max(math.Log10(g), LogFloor)
		}
	}
	return out
}

func (t *Trace) Reset() {
	t.Iterations = nil
	t.Points = nil
	t.GradNorms = nil
	t.Values = nil
}
