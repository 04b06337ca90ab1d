package metrics

import (
	"math"
	"sync"
	"testing"

	"github.com/san-kum/newton/internal/diff"
	"github.com/san-kum/newton/internal/numeric"
)

func TestGradientNorm(t *testing.T) {
	m := NewGradientNorm()
	if m.Name() != "gradient_norm" {
		t.Errorf("expected gradient_norm, got %s", m.Name())
	}

	m.Observe(0, numeric.Point{1, 1}, numeric.Point{3, 4})
	if m.Value() != 5 {
		t.Errorf("expected 5, got %f", m.Value())
	}

	m.Observe(1, numeric.Point{0, 0}, numeric.Point{0, 0})
	if m.Value() != 0 {
		t.Errorf("expected 0 at last iterate, got %f", m.Value())
	}

	m.Observe(2, numeric.Point{0, 0}, numeric.Point{1, 0})
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestStepNorm(t *testing.T) {
	m := NewStepNorm()

	m.Observe(0, numeric.Point{0, 0}, nil)
	if m.Value() != 0 {
		t.Errorf("expected 0 before any step, got %f", m.Value())
	}

	m.Observe(1, numeric.Point{3, 4}, nil)
	if m.Value() != 5 {
		t.Errorf("expected 5, got %f", m.Value())
	}

	m.Observe(2, numeric.Point{3, 5}, nil)
	if m.Value() != 1 {
		t.Errorf("expected 1, got %f", m.Value())
	}

	m.Reset()
	m.Observe(0, numeric.Point{100, 100}, nil)
	if m.Value() != 0 {
		t.Errorf("expected reset to forget previous point, got %f", m.Value())
	}
}

func TestStepNorm_DoesNotAliasPoint(t *testing.T) {
	m := NewStepNorm()
	x := numeric.Point{0}
	m.Observe(0, x, nil)
	x[0] = 2
	m.Observe(1, x, nil)
	if m.Value() != 2 {
		t.Errorf("expected 2, got %f", m.Value())
	}
}

func TestConvergenceOrder(t *testing.T) {
	tests := []struct {
		name   string
		xs     []float64
		expect float64
	}{
		{"quadratic", []float64{0, 1, 1.1, 1.101, 1.1010001}, 2},
		{"linear", []float64{0, 1, 1.5, 1.75, 1.875}, 1},
		{"too few steps", []float64{0, 1, 1.5}, 0},
		{"constant steps", []float64{0, 1, 2, 3}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewConvergenceOrder()
			for i, x := range tt.xs {
				m.Observe(i, numeric.Point{x}, nil)
			}
			if math.Abs(m.Value()-tt.expect) > 1e-3 {
				t.Errorf("expected order %f, got %f", tt.expect, m.Value())
			}
		})
	}
}

func TestConvergenceOrder_IgnoresZeroSteps(t *testing.T) {
	m := NewConvergenceOrder()
	for i, x := range []float64{0, 1, 1.5, 1.5, 1.75, 1.875, 1.875} {
		m.Observe(i, numeric.Point{x}, nil)
	}
	if math.Abs(m.Value()-1) > 1e-9 {
		t.Errorf("expected order 1, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestCounter_FiniteDifferenceCost(t *testing.T) {
	f := func(x numeric.Point) float64 { return x[0]*x[0] + x[1]*x[1] + x[2] }
	x := numeric.Point{1, 2, 3}

	for _, concurrent := range []bool{false, true} {
		c := NewCounter()
		wrapped := c.Wrap(f)
		s := diff.Settings{Concurrent: concurrent}

		diff.GradientAt(wrapped, x, s)
		if c.Count() != 6 {
			t.Errorf("concurrent=%v: expected 6 evaluations for the gradient, got %d", concurrent, c.Count())
		}

		c.Reset()
		diff.HessianAt(wrapped, x, s)
		if c.Value() != 36 {
			t.Errorf("concurrent=%v: expected 36 evaluations for the Hessian, got %f", concurrent, c.Value())
		}
	}
}

func TestCounter_ConcurrentWrap(t *testing.T) {
	c := NewCounter()
	f := c.Wrap(func(x numeric.Point) float64 { return 0 })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				f(nil)
			}
		}()
	}
	wg.Wait()

	if c.Count() != 800 {
		t.Errorf("expected 800, got %d", c.Count())
	}
}

func TestTrace(t *testing.T) {
	tr := NewTrace(func(x numeric.Point) float64 { return x[0] * x[0] })

	x := numeric.Point{2}
	tr.OnIteration(0, x, numeric.Point{4})
	x[0] = 0
	tr.OnIteration(1, x, numeric.Point{0})

	if tr.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", tr.Len())
	}
	if tr.Points[0][0] != 2 {
		t.Errorf("expected recorded point to be a copy, got %v", tr.Points[0])
	}
	if tr.Values[0] != 4 || tr.Values[1] != 0 {
		t.Errorf("unexpected values %v", tr.Values)
	}

	logs := tr.LogGradNorms()
	if math.Abs(logs[0]-math.Log10(4)) > 1e-12 {
		t.Errorf("expected log10(4), got %f", logs[0])
	}
	if logs[1] != LogFloor {
		t.Errorf("expected floor for zero norm, got %f", logs[1])
	}

	tr.Reset()
	if tr.Len() != 0 {
		t.Error("expected empty trace after reset")
	}
}

func TestTrace_NilObjective(t *testing.T) {
	tr := NewTrace(nil)
	tr.OnIteration(0, numeric.Point{1}, numeric.Point{1})
	if !math.IsNaN(tr.Values[0]) {
		t.Errorf("expected NaN value, got %f", tr.Values[0])
	}
}
