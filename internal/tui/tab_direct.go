package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/coder-muller/calculadora-bacen/internal/calculator"
	"github.com/coder-muller/calculadora-bacen/internal/rate"
	"github.com/coder-muller/calculadora-bacen/internal/tui/components"
	"github.com/coder-muller/calculadora-bacen/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	directFieldBase = iota
	directFieldCharged
	directFieldCount // sentinel
)

// directForm is the "Calcular com a Taxa" tab.
type directForm struct {
	focus   int
	base    rateInput
	charged rateInput
	errs    map[string]string
	result  *calculator.Outcome
}

func newDirectForm() directForm {
	return directForm{
		base:    newRateInput(calculator.LabelDirectBase),
		charged: newRateInput(calculator.LabelCharged),
	}
}

func (a App) updateDirect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &a.direct

	switch msg.String() {
	case "tab", "down":
		f.focus = (f.focus + 1) % directFieldCount
		return a, nil
	case "shift+tab", "up":
		f.focus = (f.focus - 1 + directFieldCount) % directFieldCount
		return a, nil
	case "enter":
		a.submitDirect()
		return a, nil
	}

	switch f.focus {
	case directFieldBase:
		if f.base.update(msg) {
			delete(f.errs, calculator.FieldBase)
		}
	case directFieldCharged:
		if f.charged.update(msg) {
			delete(f.errs, calculator.FieldCharged)
		}
	}
	return a, nil
}

// submitDirect evaluates synchronously; there is nothing to look up.
func (a *App) submitDirect() {
	f := &a.direct
	out, err := a.svc.Direct(context.Background(), calculator.DirectInput{
		Base:    f.base.value(),
		Charged: f.charged.value(),
	})

	var verr *calculator.ValidationError
	switch {
	case errors.As(err, &verr):
		f.errs = make(map[string]string, len(verr.Fields))
		for _, fe := range verr.Fields {
			f.errs[fe.Field] = fe.Message
		}
		f.result = nil
	case err != nil:
		a.notice = calculator.Notice(err)
		f.result = nil
	default:
		f.errs = nil
		f.result = &out
	}
}

func (a App) renderDirectTab(cw int) string {
	t := theme.Active
	f := a.direct

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	focusStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	errStyle := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface)

	row := func(i int, in rateInput, field string) string {
		text := padLabel(in.label)
		var s string
		if f.focus == i {
			s = focusStyle.Render("▸ "+text) + focusStyle.Render(in.view()+"%")
		} else {
			s = labelStyle.Render("  "+text) + valueStyle.Render(in.view()+"%")
		}
		if msg, ok := f.errs[field]; ok {
			s += "\n" + errStyle.Render("    "+msg)
		}
		return s
	}

	var b strings.Builder
	b.WriteString(row(directFieldBase, f.base, calculator.FieldBase))
	b.WriteString("\n")
	b.WriteString(row(directFieldCharged, f.charged, calculator.FieldCharged))

	var out strings.Builder
	out.WriteString(components.FocusedCard("Calcular com a Taxa", b.String(), cw))
	if f.result != nil {
		out.WriteString("\n")
		out.WriteString(renderOutcome(*f.result, cw))
	}
	return out.String()
}

// renderOutcome draws the three result metrics and the verdict banner.
func renderOutcome(out calculator.Outcome, cw int) string {
	res := out.Result
	note := ""
	if label := res.ExcessLabel(); label != "" {
		note = "(" + label + ")"
	}

	metrics := components.MetricCardRow([]components.Metric{
		{Label: out.BaseLabel, Value: rate.Percent(res.Base)},
		{Label: calculator.LabelCharged, Value: rate.Percent(res.Charged), Note: note},
		{Label: res.CeilingLabel(), Value: rate.Percent(res.Ceiling)},
	}, cw)

	banner := components.VerdictBanner(out.Verdict.Headline, out.Verdict.Detail, res.Exceeds, cw)
	return metrics + "\n" + banner
}

func padLabel(s string) string {
	const w = 14
	if gap := w - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s + " "
}
