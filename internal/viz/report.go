package viz

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/newton/internal/metrics"
	"github.com/san-kum/newton/internal/newton"
	"github.com/san-kum/newton/internal/numeric"
)

// Summary describes a finished solve for Report.
type Summary struct {
	Problem       string
	Derivatives   string
	Solver        string
	Start         numeric.Point
	MaxIterations int
	Result        *newton.Result
	// F is the objective at the result, NaN when unknown.
	F       float64
	Elapsed time.Duration
}

// Report writes a styled summary of s.
func Report(w io.Writer, s Summary) error {
	res := s.Result
	fmt.Fprintln(w, HeaderStyle.Render(s.Problem))
	fmt.Fprintln(w, StatusBadge(res.Status))
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row := func(label, value string) {
		fmt.Fprintf(tw, "%s\t%s\n", MetricLabel.Render(label), MetricValue.Render(value))
	}

	row("derivatives", s.Derivatives)
	row("solver", s.Solver)
	row("start", FormatPoint(s.Start))
	row("result", FormatPoint(res.X))
	if !math.IsNaN(s.F) {
		row("f(x)", fmt.Sprintf("%.10g", s.F))
	}
	row("‖∇f‖", fmt.Sprintf("%.3e", res.GradientNorm))
	if s.MaxIterations > 0 {
		row("iterations", fmt.Sprintf("%d / %d %s", res.Iterations, s.MaxIterations,
			ProgressBar(res.Iterations, s.MaxIterations, 20)))
	} else {
		row("iterations", fmt.Sprintf("%d (unbounded)", res.Iterations))
	}
	if s.Elapsed > 0 {
		row("elapsed", s.Elapsed.String())
	}

	keys := make([]string, 0, len(res.Metrics))
	for k := range res.Metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		row(k, fmt.Sprintf("%.6g", res.Metrics[k]))
	}
	if res.Err != nil {
		row("error", res.Err.Error())
	}

	return tw.Flush()
}

// FormatPoint prints p with ten significant digits per component.
func FormatPoint(p numeric.Point) string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = fmt.Sprintf("%.10g", v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Convergence plots log10 of the gradient norm per iteration. It returns an
// empty string for fewer than two iterates.
func Convergence(tr *metrics.Trace, width, height int) string {
	if tr == nil || tr.Len() < 2 {
		return ""
	}
	return asciigraph.Plot(tr.LogGradNorms(),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(1),
		asciigraph.Caption("log10 ‖∇f‖ per iteration"),
	)
}

// Component plots coordinate i of the iterates.
func Component(tr *metrics.Trace, i, width, height int) string {
	if tr == nil || tr.Len() < 2 || i >= len(tr.Points[0]) {
		return ""
	}
	data := make([]float64, tr.Len())
	for k, p := range tr.Points {
		data[k] = p[i]
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("x%d per iteration", i)),
	)
}

// Path draws the iterates on a braille canvas: (x0, x1) for two or more
// dimensions, (iteration, x0) for one.
func Path(tr *metrics.Trace, width, height int) string {
	c := NewCanvas(width, height)
	if tr == nil || tr.Len() == 0 || len(tr.Points[0]) == 0 {
		return c.String()
	}
	xs := make([]float64, tr.Len())
	ys := make([]float64, tr.Len())
	for k, p := range tr.Points {
		if len(p) == 1 {
			xs[k], ys[k] = float64(tr.Iterations[k]), p[0]
			continue
		}
		xs[k], ys[k] = p[0], p[1]
	}
	c.DrawPath(xs, ys)
	return c.String()
}
