package newton

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/newton/internal/approx"
	"github.com/san-kum/newton/internal/diff"
	"github.com/san-kum/newton/internal/linsolve"
	"github.com/san-kum/newton/internal/numeric"
	"gonum.org/v1/gonum/mat"
)

func square(x numeric.Point) float64 { return x[0]*x[0] + x[1]*x[1] }

var squareAnalytic = Analytic{
	Grad: func(x numeric.Point) numeric.Point { return numeric.Point{2 * x[0], 2 * x[1]} },
	Hess: func(x numeric.Point) *mat.Dense { return mat.NewDense(2, 2, []float64{2, 0, 0, 2}) },
}

func cos1(x numeric.Point) float64 { return math.Sin(x[0]) - math.Pow(x[0], 4)/4 }

var cos1Analytic = Analytic{
	Grad: func(x numeric.Point) numeric.Point {
		return numeric.Point{math.Cos(x[0]) - x[0]*x[0]*x[0]}
	},
	Hess: func(x numeric.Point) *mat.Dense {
		return mat.NewDense(1, 1, []float64{-math.Sin(x[0]) - 3*x[0]*x[0]})
	},
}

func saddle(x numeric.Point) float64 { return x[0]*x[0] - x[1]*x[1] }

// Linear in z, so no stationary point exists and the Hessian is singular.
var rosenbrockAnalytic = Analytic{
	Grad: func(x numeric.Point) numeric.Point {
		return numeric.Point{-198*x[0] - 2, 98 - 198*x[1], 100}
	},
	Hess: func(x numeric.Point) *mat.Dense {
		return mat.NewDense(3, 3, []float64{-198, 0, 0, 0, -198, 0, 0, 0, 0})
	},
}

func TestFind_Square(t *testing.T) {
	x := numeric.Point{1000, 1000}
	it := Find(x, square, 10)

	if it > 10 {
		t.Errorf("expected at most 10 iterations, got %d", it)
	}
	if !approx.Equal(x, numeric.Point{0, 0}) {
		t.Errorf("expected (0, 0), got %v", x)
	}
}

func TestFindAnalytic_SquareOneStep(t *testing.T) {
	x := numeric.Point{1000, 1000}
	it := FindAnalytic(x, squareAnalytic.Grad, squareAnalytic.Hess, 10)

	if it != 1 {
		t.Errorf("expected 1 iteration, got %d", it)
	}
	if !approx.Equal(x, numeric.Point{0, 0}) {
		t.Errorf("expected (0, 0), got %v", x)
	}
}

func TestFind_Transcendental(t *testing.T) {
	tests := []struct {
		name string
		find func(x numeric.Point) int
	}{
		{"finite difference", func(x numeric.Point) int { return Find(x, cos1, 20) }},
		{"analytic", func(x numeric.Point) int {
			return FindAnalytic(x, cos1Analytic.Grad, cos1Analytic.Hess, 20)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := numeric.Point{3}
			it := tt.find(x)
			if it > 20 {
				t.Errorf("expected at most 20 iterations, got %d", it)
			}
			if !approx.Equal(x, numeric.Point{0.865474}) {
				t.Errorf("expected 0.865474, got %v", x)
			}
		})
	}
}

func TestFind_Saddle(t *testing.T) {
	x := numeric.Point{3, -4}
	it := Find(x, saddle, 10)

	if it > 10 {
		t.Errorf("expected at most 10 iterations, got %d", it)
	}
	if !approx.Equal(x, numeric.Point{0, 0}) {
		t.Errorf("expected (0, 0), got %v", x)
	}
}

func TestRun_IterationCapRespected(t *testing.T) {
	s := New(rosenbrockAnalytic, nil)

	for k := 1; k <= 5; k++ {
		x := numeric.Point{-1, 2, 3}
		res, err := s.Run(context.Background(), x, Config{MaxIterations: k})
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
		if res.Iterations != k {
			t.Errorf("max %d: expected %d iterations, got %d", k, k, res.Iterations)
		}
		if res.Status != IterationLimit {
			t.Errorf("max %d: expected iteration limit, got %s", k, res.Status)
		}
	}
}

func TestFind_CapNeverExceeded(t *testing.T) {
	cos2 := func(x numeric.Point) float64 { return x[1] * (math.Sin(x[0]) - math.Pow(x[0], 4)/4) }
	for k := 1; k <= 5; k++ {
		x := numeric.Point{0.87, 10}
		if it := Find(x, cos2, k); it > k {
			t.Errorf("max %d: got %d iterations", k, it)
		}
	}
}

func TestRun_SingularHessianLeastSquares(t *testing.T) {
	x := numeric.Point{5, 5, 5}
	res, err := New(rosenbrockAnalytic, linsolve.SVD{}).Run(context.Background(), x, Config{MaxIterations: 3})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	want := numeric.Point{-2.0 / 198, 98.0 / 198, 0}
	if !approx.Equal(x, want) {
		t.Errorf("expected %v, got %v", want, x)
	}
	if math.Abs(res.GradientNorm-100) > 1e-9 {
		t.Errorf("expected gradient norm 100, got %v", res.GradientNorm)
	}
	if res.Converged() {
		t.Error("expected no convergence without a stationary point")
	}
}

func TestRun_SolveFailed(t *testing.T) {
	x := numeric.Point{5, 5, 5}
	res, err := New(rosenbrockAnalytic, linsolve.LU{}).Run(context.Background(), x, Config{MaxIterations: 3})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Status != SolveFailed {
		t.Errorf("expected solve failed, got %s", res.Status)
	}
	if !errors.Is(res.Err, linsolve.ErrSingular) {
		t.Errorf("expected ErrSingular, got %v", res.Err)
	}
	if res.Iterations != 0 {
		t.Errorf("expected 0 iterations, got %d", res.Iterations)
	}
	if !approx.Equal(x, numeric.Point{5, 5, 5}) {
		t.Errorf("expected untouched point, got %v", x)
	}
}

func TestRun_Unbounded(t *testing.T) {
	t.Run("machine epsilon", func(t *testing.T) {
		x := numeric.Point{-7, 12}
		res, err := New(squareAnalytic, nil).Run(context.Background(), x, Config{})
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
		if res.Status != Converged {
			t.Errorf("expected converged, got %s", res.Status)
		}
		if res.Iterations != 1 {
			t.Errorf("expected 1 iteration, got %d", res.Iterations)
		}
	})

	t.Run("custom tolerance", func(t *testing.T) {
		x := numeric.Point{3}
		res, err := New(cos1Analytic, nil).Run(context.Background(), x, Config{MaxIterations: -1, GradientTol: 1e-10})
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
		if res.Status != Converged {
			t.Errorf("expected converged, got %s", res.Status)
		}
		if res.Iterations > 20 {
			t.Errorf("expected quick convergence, got %d iterations", res.Iterations)
		}
		if res.GradientNorm > 1e-10 {
			t.Errorf("expected gradient norm below 1e-10, got %v", res.GradientNorm)
		}
	})
}

func TestFind_Stationarity(t *testing.T) {
	tests := []struct {
		name  string
		f     numeric.Objective
		start numeric.Point
		maxIt int
	}{
		{"square", square, numeric.Point{1000, 1000}, 10},
		{"cos_1d_eq", cos1, numeric.Point{3}, 20},
		{"saddle", saddle, numeric.Point{3, -4}, 10},
	}

	tol := approx.Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := tt.start.Clone()
			Find(x, tt.f, tt.maxIt)
			g := diff.GradientAt(tt.f, x, diff.DefaultSettings())
			if !tol.Zero(g) {
				t.Errorf("expected zero gradient at %v, got %v", x, g)
			}
		})
	}
}

func TestRun_AlreadyStationary(t *testing.T) {
	x := numeric.Point{0, 0}
	res, err := New(squareAnalytic, nil).Run(context.Background(), x, DefaultConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Iterations != 0 || res.Status != Converged {
		t.Errorf("expected 0 iterations and converged, got %d and %s", res.Iterations, res.Status)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	s := New(squareAnalytic, nil)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative tolerance", Config{GradientTol: -1}},
		{"nan tolerance", Config{GradientTol: math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Run(context.Background(), numeric.Point{1, 1}, tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	x := numeric.Point{1, 2, 3}
	res, err := New(rosenbrockAnalytic, nil).Run(ctx, x, Config{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if res == nil || res.Iterations != 0 {
		t.Errorf("expected partial result with 0 iterations, got %+v", res)
	}
}

func TestRun_Diverged(t *testing.T) {
	d := Analytic{
		Grad: func(x numeric.Point) numeric.Point { return numeric.Point{math.NaN()} },
		Hess: func(x numeric.Point) *mat.Dense { return mat.NewDense(1, 1, []float64{1}) },
	}
	res, err := New(d, nil).Run(context.Background(), numeric.Point{1}, Config{MaxIterations: 5})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.Status != Diverged {
		t.Errorf("expected diverged, got %s", res.Status)
	}
	if res.Iterations != 0 {
		t.Errorf("expected 0 iterations, got %d", res.Iterations)
	}
}

func TestIterator_DimensionMismatchPanics(t *testing.T) {
	tests := []struct {
		name string
		d    Derivatives
	}{
		{"gradient", Analytic{
			Grad: func(x numeric.Point) numeric.Point { return numeric.Point{1} },
			Hess: squareAnalytic.Hess,
		}},
		{"hessian", Analytic{
			Grad: squareAnalytic.Grad,
			Hess: func(x numeric.Point) *mat.Dense { return mat.NewDense(3, 3, nil) },
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				err, ok := r.(error)
				if !ok {
					t.Fatalf("expected error panic, got %v", r)
				}
				var dimErr *numeric.DimensionError
				if !errors.As(err, &dimErr) {
					t.Errorf("expected DimensionError, got %v", err)
				}
			}()
			it := NewIterator(numeric.Point{1, 1}, tt.d, nil, Config{MaxIterations: 3})
			it.Next()
		})
	}
}

func TestIterator_MatchesRun(t *testing.T) {
	a := numeric.Point{3}
	res, err := New(cos1Analytic, nil).Run(context.Background(), a, Config{MaxIterations: 4})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	b := numeric.Point{3}
	it := NewIterator(b, cos1Analytic, nil, Config{MaxIterations: 4})
	steps := 0
	for it.Next() {
		steps++
	}

	if steps != res.Iterations || it.Iterations() != res.Iterations {
		t.Errorf("expected %d steps, got %d", res.Iterations, steps)
	}
	if a[0] != b[0] {
		t.Errorf("expected identical iterates, got %v and %v", a, b)
	}
	if it.Status() != res.Status {
		t.Errorf("expected status %s, got %s", res.Status, it.Status())
	}
	if !it.Done() {
		t.Error("expected iterator to be done")
	}
	if it.Next() {
		t.Error("expected Next to stay false once done")
	}
}

type recorder struct {
	iterations []int
	points     []numeric.Point
}

func (r *recorder) OnIteration(it int, x, grad numeric.Point) {
	r.iterations = append(r.iterations, it)
	r.points = append(r.points, x.Clone())
}

type countMetric struct{ n int }

func (c *countMetric) Name() string { return "count" }

func (c *countMetric) Observe(int, numeric.Point, numeric.Point) {
	c.n++
}

func (c *countMetric) Value() float64 { return float64(c.n) }

func (c *countMetric) Reset() { c.n = 0 }

func TestRun_ObserversAndMetrics(t *testing.T) {
	s := New(rosenbrockAnalytic, nil)
	rec := &recorder{}
	s.AddObserver(rec)
	s.AddMetric(&countMetric{})

	for run := 0; run < 2; run++ {
		rec.iterations = nil
		rec.points = nil
		res, err := s.Run(context.Background(), numeric.Point{1, 1, 1}, Config{MaxIterations: 3})
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if len(rec.iterations) != 4 {
			t.Fatalf("expected 4 notifications, got %d", len(rec.iterations))
		}
		for i, it := range rec.iterations {
			if it != i {
				t.Errorf("expected iteration %d, got %d", i, it)
			}
		}
		if !approx.Equal(rec.points[0], numeric.Point{1, 1, 1}) {
			t.Errorf("expected start point first, got %v", rec.points[0])
		}
		if res.Metrics["count"] != 4 {
			t.Errorf("expected metric reset between runs and 4 observations, got %v", res.Metrics["count"])
		}
	}
}

func TestStatusString(t *testing.T) {
	tests := map[Status]string{
		Running:        "running",
		Converged:      "converged",
		IterationLimit: "iteration limit",
		Diverged:       "diverged",
		SolveFailed:    "solve failed",
		Status(42):     "status(42)",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("expected %q, got %q", want, s.String())
		}
	}
}

func BenchmarkFind_Square(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Find(numeric.Point{1000, 1000}, square, 10)
	}
}

func BenchmarkFind_Transcendental(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Find(numeric.Point{3}, cos1, 20)
	}
}
