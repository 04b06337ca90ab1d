package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/newton/internal/newton"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff"))

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	GraphStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("49")).
			Padding(1, 0)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)

	statusOK   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff88"))
	statusWarn = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffaa00"))
	statusFail = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff4444"))
)

// StatusBadge renders s colored by outcome.
func StatusBadge(s newton.Status) string {
	label := strings.ToUpper(s.String())
	switch s {
	case newton.Converged:
		return statusOK.Render(label)
	case newton.Running, newton.IterationLimit:
		return statusWarn.Render(label)
	default:
		return statusFail.Render(label)
	}
}

// PassFail renders a check verdict.
func PassFail(ok bool) string {
	if ok {
		return statusOK.Render("PASS")
	}
	return statusFail.Render("FAIL")
}

// ProgressBar renders the share of the iteration budget used.
func ProgressBar(used, budget, width int) string {
	if budget <= 0 || width <= 0 {
		return ""
	}
	filled := used * width / budget
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case used >= budget:
		return statusFail.Render(bar)
	case filled > width/2:
		return statusWarn.Render(bar)
	default:
		return statusOK.Render(bar)
	}
}
