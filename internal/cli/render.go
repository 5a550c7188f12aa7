package cli

import (
	"fmt"
	"strings"

	"github.com/coder-muller/calculadora-bacen/internal/calculator"
	"github.com/coder-muller/calculadora-bacen/internal/rate"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
	ColorRed       = lipgloss.Color("#D14D41")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	withinStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorGreen)

	aboveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorRed)
)

const cardWidth = 55

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional column widths, auto-calculated if nil
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(cardWidth).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a bordered table with headers and rows.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			widths[i] = max(widths[i], lipgloss.Width(h))
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols {
					widths[i] = max(widths[i], lipgloss.Width(cell))
				}
			}
		}
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	rule := func(left, mid, right string) {
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right))
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(" " + padRight(h, widths[i]) + " "))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
		rule("├", "┼", "┤")
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			rule("├", "┼", "┤")
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}

			// Right-align numeric columns (all except first)
			var padded string
			if i == 0 {
				padded = " " + padRight(cell, widths[i]) + " "
			} else {
				padded = " " + padLeft(cell, widths[i]) + " "
			}
			b.WriteString(valueStyle.Render(padded))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render("│"))
			}
		}
		b.WriteString(dimStyle.Render("│"))
		b.WriteString("\n")
	}

	rule("╰", "┴", "╯")
	return b.String()
}

// RenderOutcome renders the result card: base, charged and ceiling in a
// table, followed by the verdict in green (within) or red (above).
func RenderOutcome(out calculator.Outcome) string {
	res := out.Result

	charged := rate.Percent(res.Charged)
	if label := res.ExcessLabel(); label != "" {
		charged += " (" + label + ")"
	}

	var b strings.Builder
	if out.Series != nil {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			headerStyle.Render(fmt.Sprintf("%d", out.Series.Code)),
			mutedStyle.Render(Truncate(out.Series.Description, cardWidth)),
		))
	}
	if out.Period != "" {
		b.WriteString("  " + dimStyle.Render(out.Period) + "\n")
	}

	b.WriteString(RenderTable(Table{
		Headers: []string{out.BaseLabel, calculator.LabelCharged, res.CeilingLabel()},
		Rows: [][]string{{
			rate.Percent(res.Base),
			charged,
			rate.Percent(res.Ceiling),
		}},
	}))

	b.WriteString(RenderVerdict(out))
	return b.String()
}

// RenderVerdict renders the claim headline and its detail line.
func RenderVerdict(out calculator.Outcome) string {
	style, mark := withinStyle, "✓"
	if out.Result.Exceeds {
		style, mark = aboveStyle, "✗"
	}
	return fmt.Sprintf("  %s %s\n  %s\n",
		style.Render(mark),
		style.Render(out.Verdict.Headline),
		mutedStyle.Render(out.Verdict.Detail),
	)
}

// RenderNotice renders a transient user-facing message.
func RenderNotice(msg string) string {
	return "  " + warnStyle.Render("! "+msg) + "\n"
}

func padRight(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func padLeft(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return strings.Repeat(" ", gap) + s
	}
	return s
}
