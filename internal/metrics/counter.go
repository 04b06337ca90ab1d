package metrics

import (
	"sync/atomic"

	"github.com/san-kum/newton/internal/numeric"
)

// Counter counts evaluations of an objective. It is safe to use with
// concurrent finite differences.
type Counter struct {
	name string
	n    atomic.Int64
}

func NewCounter() *Counter {
	return &Counter{name: "evaluations"}
}

// Wrap returns f instrumented to increment c on every call.
func (c *Counter) Wrap(f numeric.Objective) numeric.Objective {
	return func(x numeric.Point) float64 {
		c.n.Add(1)
		return f(x)
	}
}

func (c *Counter) Count() int64 { return c.n.Load() }

func (c *Counter) Name() string { return c.name }

func (c *Counter) Observe(iteration int, x, grad numeric.Point) {}

func (c *Counter) Value() float64 { return float64(c.n.Load()) }

func (c *Counter) Reset() { c.n.Store(0) }
