package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/newton/internal/metrics"
	"github.com/san-kum/newton/internal/newton"
	"github.com/san-kum/newton/internal/numeric"
)

const (
	canvasWidth  = 40
	canvasHeight = 12
	tickInterval = 300 * time.Millisecond
)

type TickMsg time.Time

// Model steps a Newton iteration interactively.
type Model struct {
	problem string
	f       numeric.Objective
	solver  *newton.Solver
	cfg     newton.Config
	start   numeric.Point

	x       numeric.Point
	iter    *newton.Iterator
	trace   *metrics.Trace
	running bool
}

// NewModel prepares an iteration of solver from start. f may be nil, in which
// case objective values are not shown.
func NewModel(problem string, f numeric.Objective, solver *newton.Solver, start numeric.Point, cfg newton.Config) Model {
	m := Model{
		problem: problem,
		f:       f,
		solver:  solver,
		cfg:     cfg,
		start:   start.Clone(),
	}
	m.reset()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running && !m.iter.Done()
		case "n", "right":
			m.step()
		case "r":
			m.reset()
		}
	case TickMsg:
		if m.running {
			m.step()
			if m.iter.Done() {
				m.running = false
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	if m.iter.Next() {
		m.trace.OnIteration(m.iter.Iterations(), m.x, m.iter.Gradient())
	}
}

func (m *Model) reset() {
	m.x = m.start.Clone()
	m.iter = m.solver.Iterator(m.x, m.cfg)
	m.trace = metrics.NewTrace(m.f)
	m.trace.OnIteration(0, m.x, m.iter.Gradient())
	m.running = false
}

// Iterations returns the number of steps taken so far.
func (m Model) Iterations() int { return m.iter.Iterations() }

// Status returns the state of the underlying iteration.
func (m Model) Status() newton.Status { return m.iter.Status() }

// Point returns the current iterate.
func (m Model) Point() numeric.Point { return m.x }

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(TitleStyle.Render(strings.ToUpper(m.problem)) + "  ")
	status := StatusBadge(m.iter.Status())
	if m.running {
		status += Subtle.Render(" (auto)")
	}
	s.WriteString(status + "\n\n")

	field := func(label, value string) {
		s.WriteString(MetricLabel.Render(fmt.Sprintf("%-11s", label)) + MetricValue.Render(value) + "\n")
	}
	field("iteration", fmt.Sprintf("%d", m.iter.Iterations()))
	field("x", FormatPoint(m.x))
	field("‖∇f‖", fmt.Sprintf("%.3e", m.iter.GradientNorm()))
	if n := m.trace.Len(); n > 0 && !math.IsNaN(m.trace.Values[n-1]) {
		field("f(x)", fmt.Sprintf("%.10g", m.trace.Values[n-1]))
	}
	if err := m.iter.Err(); err != nil {
		field("error", err.Error())
	}

	stats := s.String()
	path := Panel.Render(Path(m.trace, canvasWidth, canvasHeight))
	view := lipgloss.JoinVertical(lipgloss.Left, stats, path)

	if chart := Convergence(m.trace, 40, 6); chart != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, view, GraphStyle.Render(chart))
	}
	return view + "\n" + KeyHint.Render("n:Step  SP:Run/Pause  R:Restart  Q:Quit")
}
