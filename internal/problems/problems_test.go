package problems_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/newton/internal/approx"
	"github.com/san-kum/newton/internal/diff"
	"github.com/san-kum/newton/internal/newton"
	"github.com/san-kum/newton/internal/numeric"
	"github.com/san-kum/newton/internal/problems"
)

var _ = Describe("Registry", func() {
	It("lists every bundle in sorted order", func() {
		Expect(problems.Names()).To(Equal([]string{"cos_1d_eq", "cos_2d_eq", "rosenbrock", "saddle", "square"}))
	})

	It("returns bundles by name", func() {
		b, err := problems.Get("square")
		Expect(err).NotTo(HaveOccurred())
		Expect(b.Name).To(Equal("square"))
		Expect(b.Dim()).To(Equal(2))
	})

	It("rejects unknown names", func() {
		_, err := problems.Get("himmelblau")
		Expect(err).To(MatchError(ContainSubstring("unknown problem")))
	})

	It("hands out independent start points", func() {
		b, _ := problems.Get("square")
		x := b.StartPoint()
		x[0] = 0
		Expect(b.Start[0]).To(Equal(1000.0))
	})

	It("keeps analytic derivatives consistent with the objective", func() {
		tol := approx.Tolerance{Atol: 1e-3, Rtol: 1e-3}
		for _, b := range problems.All() {
			Expect(b.HasAnalytic()).To(BeTrue(), b.Name)
			x := b.StartPoint()
			Expect(tol.Equal(diff.GradientAt(b.Func, x, diff.DefaultSettings()), b.Grad(x))).To(BeTrue(), b.Name)
		}
	})

	It("caps checks well above the budget", func() {
		b, _ := problems.Get("cos_2d_eq")
		Expect(problems.Cap(b)).To(Equal(1000))
		Expect(problems.Cap(problems.Bundle{MaxIt: 2000})).To(Equal(2010))
	})
})

var _ = Describe("Check", func() {
	for _, name := range []string{"square", "cos_1d_eq", "cos_2d_eq", "saddle"} {
		name := name
		Describe(name, func() {
			var b problems.Bundle

			BeforeEach(func() {
				var err error
				b, err = problems.Get(name)
				Expect(err).NotTo(HaveOccurred())
			})

			DescribeTable("reaches the stationary point",
				func(cfg problems.CheckConfig) {
					out, err := problems.Check(context.Background(), b, cfg)
					Expect(err).NotTo(HaveOccurred())

					Expect(out.Iterations).To(BeNumerically("<=", b.MaxIt))
					Expect(approx.Equal(out.X, b.Target)).To(BeTrue(), "x = %v", out.X)
					Expect(approx.Default().Zero(out.Gradient)).To(BeTrue(), "grad = %v", out.Gradient)
					Expect(out.Status).To(Equal(newton.Converged))
					Expect(out.Passed()).To(BeTrue(), "%v", out.Failures)
				},
				Entry("with finite differences", problems.CheckConfig{}),
				Entry("with concurrent finite differences", problems.CheckConfig{Diff: diff.Settings{Concurrent: true}}),
				Entry("with analytic derivatives", problems.CheckConfig{Analytic: true}),
			)
		})
	}

	Describe("rosenbrock", func() {
		It("exhausts the iteration cap without a stationary point", func() {
			b, _ := problems.Get("rosenbrock")
			out, err := problems.Check(context.Background(), b, problems.CheckConfig{Analytic: true})
			Expect(err).NotTo(HaveOccurred())

			Expect(out.Status).To(Equal(newton.IterationLimit))
			Expect(out.Iterations).To(Equal(problems.Cap(b)))
			Expect(out.Passed()).To(BeTrue())
		})
	})

	It("measures the residual gradient with the derivatives the solve used", func() {
		b, _ := problems.Get("cos_1d_eq")
		out, err := problems.Check(context.Background(), b, problems.CheckConfig{Analytic: true})
		Expect(err).NotTo(HaveOccurred())

		Expect(out.Gradient).To(Equal(b.Grad(out.X)))
		Expect(math.Abs(out.Gradient[0])).To(BeNumerically("<=", approx.DefaultAtol))
		Expect(out.Passed()).To(BeTrue(), "failures: %v", out.Failures)
	})

	It("reports every failed assertion", func() {
		b := problems.Bundle{
			Name:   "shifted",
			Func:   func(v numeric.Point) float64 { return (v[0] - 1) * (v[0] - 1) },
			MaxIt:  10,
			Start:  numeric.Point{5},
			Target: numeric.Point{2},
		}
		out, err := problems.Check(context.Background(), b, problems.CheckConfig{})
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Passed()).To(BeFalse())
		Expect(out.Failures).To(HaveLen(1))
		Expect(out.Failures[0]).To(ContainSubstring("differs from target"))
	})

	It("notifies observers", func() {
		b, _ := problems.Get("square")
		var calls int
		obs := observerFunc(func(int, numeric.Point, numeric.Point) { calls++ })
		out, err := problems.Check(context.Background(), b, problems.CheckConfig{Observers: []newton.Observer{obs}})
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal(out.Iterations + 1))
	})
})

type observerFunc func(int, numeric.Point, numeric.Point)

func (f observerFunc) OnIteration(it int, x, grad numeric.Point) { f(it, x, grad) }
