package components

import (
	"strings"

	"github.com/coder-muller/calculadora-bacen/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Status is what the bottom bar shows.
type Status struct {
	Hints   string // key hints on the left
	Notice  string // transient message, replaces the hints when set
	Margin  string // current margin, on the right
	Pending string // spinner frame while a lookup is in flight
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active

	base := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	left := base.Render(" " + s.Hints)
	if s.Notice != "" {
		left = lipgloss.NewStyle().
			Foreground(t.Warn).
			Background(t.Surface).
			Bold(true).
			Render(" ! " + s.Notice)
	}

	var right string
	if s.Pending != "" {
		right += lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Render(s.Pending + " Consultando... ")
	}
	if s.Margin != "" {
		right += base.Render("Margem: ") +
			lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Render(s.Margin) +
			base.Render(" ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	return left + base.Render(strings.Repeat(" ", padding)) + right
}
