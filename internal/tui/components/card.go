// Package components provides reusable TUI widgets for the calcbacen forms.
package components

import (
	"github.com/coder-muller/calculadora-bacen/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// LayoutRow distributes totalWidth into n widths that sum to exactly totalWidth.
// First items absorb the remainder from integer division.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	base := totalWidth / n
	remainder := totalWidth % n
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
		if i < remainder {
			widths[i]++
		}
	}
	return widths
}

// Metric is one labelled value of the result card.
type Metric struct {
	Label string
	Value string
	Note  string // e.g. "(+12,50%)"
}

// MetricCard renders a small card with label, value and an optional note.
// outerWidth is the total rendered width including border.
func MetricCard(m Metric, outerWidth int) string {
	t := theme.Active

	contentWidth := outerWidth - 2 // subtract border
	if contentWidth < 10 {
		contentWidth = 10
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		BorderBackground(t.Background).
		Background(t.Surface).
		Width(contentWidth).
		Padding(0, 1)

	labelStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	valueStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.Surface).
		Bold(true)

	noteStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	content := labelStyle.Render(m.Label) + "\n" + valueStyle.Render(m.Value)
	if m.Note != "" {
		content += noteStyle.Render(" " + m.Note)
	}

	return cardStyle.Render(content)
}

// MetricCardRow renders metric cards side by side, summing to totalWidth.
func MetricCardRow(metrics []Metric, totalWidth int) string {
	if len(metrics) == 0 {
		return ""
	}

	widths := LayoutRow(totalWidth, len(metrics))
	rendered := make([]string, len(metrics))
	for i, m := range metrics {
		rendered[i] = MetricCard(m, widths[i])
	}
	return CardRow(rendered)
}

// ContentCard renders a bordered content card with an optional title.
// outerWidth controls the total rendered width including border.
func ContentCard(title, body string, outerWidth int) string {
	return card(title, body, outerWidth, false)
}

// FocusedCard is a ContentCard with an accent border.
func FocusedCard(title, body string, outerWidth int) string {
	return card(title, body, outerWidth, true)
}

func card(title, body string, outerWidth int, focused bool) string {
	t := theme.Active

	contentWidth := outerWidth - 2 // subtract border chars
	if contentWidth < 10 {
		contentWidth = 10
	}

	border := t.Border
	if focused {
		border = t.BorderAccent
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		BorderBackground(t.Background).
		Background(t.Surface).
		Width(contentWidth).
		Padding(0, 1)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Bold(true)

	content := ""
	if title != "" {
		content = titleStyle.Render(title) + "\n"
	}
	content += body

	return cardStyle.Render(content)
}

// VerdictBanner renders the claim outcome in the within or above color.
func VerdictBanner(headline, detail string, above bool, outerWidth int) string {
	t := theme.Active

	fg, bg, mark := t.Within, t.WithinDim, "✓"
	if above {
		fg, bg, mark = t.Above, t.AboveDim, "✗"
	}

	contentWidth := outerWidth - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(fg).
		BorderBackground(t.Background).
		Background(bg).
		Foreground(fg).
		Width(contentWidth).
		Align(lipgloss.Center)

	head := lipgloss.NewStyle().Bold(true).Foreground(fg).Background(bg).Render(mark + " " + headline)
	sub := lipgloss.NewStyle().Foreground(fg).Background(bg).Render(detail)
	return style.Render(head + "\n" + sub)
}

// CardRow joins pre-rendered card strings horizontally.
func CardRow(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// CardInnerWidth returns the usable text width inside a ContentCard
// given its outer width (subtracts border + padding).
func CardInnerWidth(outerWidth int) int {
	w := outerWidth - 4 // 2 border + 2 padding
	if w < 10 {
		w = 10
	}
	return w
}
