package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/coder-muller/calculadora-bacen/internal/calculator"
	"github.com/coder-muller/calculadora-bacen/internal/catalog"
	"github.com/coder-muller/calculadora-bacen/internal/cli"
	"github.com/coder-muller/calculadora-bacen/internal/sgs"
	"github.com/coder-muller/calculadora-bacen/internal/tui/components"
	"github.com/coder-muller/calculadora-bacen/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

const (
	seriesFieldSearch = iota
	seriesFieldFrom
	seriesFieldTo
	seriesFieldCharged
	seriesFieldCount // sentinel
)

const maxVisibleMatches = 6

// seriesResultMsg carries a finished lookup back to the form that started it.
type seriesResultMsg struct {
	token   string
	outcome calculator.Outcome
	err     error
}

// seriesForm is the "Calcular com a Série" tab.
type seriesForm struct {
	focus int

	search      textinput.Model
	matches     []catalog.Series
	pick        int
	code        int
	description string

	from    textinput.Model
	to      textinput.Model
	charged rateInput

	errs   map[string]string
	result *calculator.Outcome

	// token identifies the lookup in flight; empty when idle. Results
	// carrying any other token are stale and dropped.
	token string
}

func newDateInput(placeholder string, now time.Time) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 10
	ti.Width = 12
	ti.Prompt = ""
	ti.SetValue(now.Format(sgs.DateLayout))
	return ti
}

func newSeriesForm(cat *catalog.Catalog, now time.Time) seriesForm {
	search := textinput.New()
	search.Placeholder = "código ou descrição"
	search.CharLimit = 80
	search.Width = 40
	search.Prompt = ""
	search.Focus()

	f := seriesForm{
		search:  search,
		from:    newDateInput("dd/mm/aaaa", now),
		to:      newDateInput("dd/mm/aaaa", now),
		charged: newRateInput(calculator.LabelCharged),
	}
	f.matches = cat.Search("")
	return f
}

func (f seriesForm) pending() bool {
	return f.token != ""
}

// clear resets every field and drops the result and any lookup in flight.
func (f *seriesForm) clear(cat *catalog.Catalog, now time.Time) {
	*f = newSeriesForm(cat, now)
}

func (f *seriesForm) setFocus(i int) tea.Cmd {
	f.focus = (i + seriesFieldCount) % seriesFieldCount
	f.search.Blur()
	f.from.Blur()
	f.to.Blur()

	switch f.focus {
	case seriesFieldSearch:
		return f.search.Focus()
	case seriesFieldFrom:
		return f.from.Focus()
	case seriesFieldTo:
		return f.to.Focus()
	}
	return nil
}

// refreshSearch re-filters the catalog and re-derives code and description
// from the search text. A numeric query is taken as a code.
func (f *seriesForm) refreshSearch(svc serviceAPI) {
	q := strings.TrimSpace(f.search.Value())
	f.matches = svc.Catalog().Search(q)
	f.pick = 0

	code, err := strconv.Atoi(q)
	if err != nil || code < 0 {
		code = 0
	}
	in := svc.FillDescription(calculator.SeriesInput{Code: code})
	f.code = code
	f.description = in.Description
}

func (f *seriesForm) choose(s catalog.Series) {
	f.code = s.Code
	f.description = s.Description
	f.search.SetValue(strconv.Itoa(s.Code))
	f.search.CursorEnd()
	f.matches = []catalog.Series{s}
	f.pick = 0
}

// input collects the form values. Dates that do not parse are reported
// as field errors alongside the rest of the validation.
func (f seriesForm) input() (calculator.SeriesInput, []calculator.FieldError) {
	var bad []calculator.FieldError

	from, ferr := calculator.ParseFormDate(calculator.FieldFrom, f.from.Value())
	if ferr != nil {
		bad = append(bad, *ferr)
	}
	to, ferr := calculator.ParseFormDate(calculator.FieldTo, f.to.Value())
	if ferr != nil {
		bad = append(bad, *ferr)
	}

	return calculator.SeriesInput{
		Code:        f.code,
		Description: f.description,
		From:        from,
		To:          to,
		Charged:     f.charged.value(),
	}, bad
}

func (a App) updateSeries(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &a.series

	switch msg.String() {
	case "tab":
		cmd := f.setFocus(f.focus + 1)
		return a, cmd
	case "shift+tab":
		cmd := f.setFocus(f.focus - 1)
		return a, cmd
	case "enter":
		if f.focus == seriesFieldSearch && len(f.matches) > 0 && f.code != f.matches[f.pick].Code {
			f.choose(f.matches[f.pick])
			cmd := f.setFocus(seriesFieldFrom)
			return a, cmd
		}
		return a.submitSeries()
	}

	switch f.focus {
	case seriesFieldSearch:
		switch msg.String() {
		case "up":
			if f.pick > 0 {
				f.pick--
			}
			return a, nil
		case "down":
			if f.pick < min(len(f.matches), maxVisibleMatches)-1 {
				f.pick++
			}
			return a, nil
		}
		before := f.search.Value()
		var cmd tea.Cmd
		f.search, cmd = f.search.Update(msg)
		if f.search.Value() != before {
			f.refreshSearch(a.svc)
		}
		return a, cmd

	case seriesFieldFrom:
		var cmd tea.Cmd
		f.from, cmd = f.from.Update(msg)
		return a, cmd

	case seriesFieldTo:
		var cmd tea.Cmd
		f.to, cmd = f.to.Update(msg)
		return a, cmd

	case seriesFieldCharged:
		if f.charged.update(msg) {
			delete(f.errs, calculator.FieldCharged)
		}
	}
	return a, nil
}

// submitSeries validates the form and starts the lookup. A new submission
// replaces the token, so a slower earlier lookup can no longer land.
func (a App) submitSeries() (tea.Model, tea.Cmd) {
	f := &a.series
	in, bad := f.input()
	in = a.svc.FillDescription(in)
	f.description = in.Description

	fields := bad
	if err := calculator.ValidateSeries(in); err != nil {
		if verr, ok := err.(*calculator.ValidationError); ok {
			fields = append(fields, verr.Fields...)
		}
	}
	if len(fields) > 0 {
		f.errs = make(map[string]string, len(fields))
		for _, fe := range fields {
			if _, seen := f.errs[fe.Field]; !seen {
				f.errs[fe.Field] = fe.Message
			}
		}
		f.result = nil
		return a, nil
	}

	f.errs = nil
	f.result = nil
	f.token = uuid.NewString()
	return a, tea.Batch(lookupSeriesCmd(a.svc, f.token, in, a.lookupTimeout), a.spinner.Tick)
}

func lookupSeriesCmd(svc serviceAPI, token string, in calculator.SeriesInput, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		out, err := svc.Series(ctx, in)
		return seriesResultMsg{token: token, outcome: out, err: err}
	}
}

// applySeriesResult stores a lookup result if it belongs to the current
// submission. It reports whether the message was accepted.
func (a *App) applySeriesResult(msg seriesResultMsg) bool {
	if msg.token == "" || msg.token != a.series.token {
		return false
	}
	a.series.token = ""
	if msg.err != nil {
		a.notice = calculator.Notice(msg.err)
		a.series.result = nil
		return true
	}
	out := msg.outcome
	a.series.result = &out
	return true
}

func (a App) renderSeriesTab(cw int) string {
	t := theme.Active
	f := a.series

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	focusStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	errStyle := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface)
	pickStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover)

	inner := components.CardInnerWidth(cw)

	label := func(i int, text string) string {
		if f.focus == i {
			return focusStyle.Render("▸ " + text)
		}
		return labelStyle.Render("  " + text)
	}
	fieldErr := func(field string) string {
		if msg, ok := f.errs[field]; ok {
			return "\n" + errStyle.Render("    "+msg)
		}
		return ""
	}

	var b strings.Builder

	b.WriteString(label(seriesFieldSearch, "Série BACEN "))
	b.WriteString(f.search.View())
	b.WriteString(fieldErr(calculator.FieldCode))
	b.WriteString("\n")
	if f.description != "" {
		b.WriteString(valueStyle.Render("    " + cli.Truncate(f.description, inner-4)))
	} else {
		b.WriteString(dimStyle.Render("    (sem descrição)"))
	}
	b.WriteString(fieldErr(calculator.FieldDescription))
	b.WriteString("\n")

	if f.focus == seriesFieldSearch {
		shown := f.matches
		if len(shown) > maxVisibleMatches {
			shown = shown[:maxVisibleMatches]
		}
		for i, s := range shown {
			line := cli.Truncate(cli.FormatSeries(s), inner-6)
			if i == f.pick {
				b.WriteString(pickStyle.Render("    › " + line))
			} else {
				b.WriteString(dimStyle.Render("      " + line))
			}
			b.WriteString("\n")
		}
		if len(f.matches) == 0 {
			b.WriteString(dimStyle.Render("      nenhuma série encontrada"))
			b.WriteString("\n")
		} else if more := len(f.matches) - len(shown); more > 0 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("      … mais %d", more)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(label(seriesFieldFrom, "Data inicial "))
	b.WriteString(f.from.View())
	b.WriteString(fieldErr(calculator.FieldFrom))
	b.WriteString("\n")
	b.WriteString(label(seriesFieldTo, "Data final   "))
	b.WriteString(f.to.View())
	b.WriteString(fieldErr(calculator.FieldTo))
	b.WriteString("\n\n")
	b.WriteString(label(seriesFieldCharged, calculator.LabelCharged+" "))
	b.WriteString(valueStyle.Render(f.charged.view() + "%"))
	b.WriteString(fieldErr(calculator.FieldCharged))

	var out strings.Builder
	out.WriteString(components.FocusedCard("Calcular com a Série", b.String(), cw))
	if f.result != nil {
		out.WriteString("\n")
		out.WriteString(renderOutcome(*f.result, cw))
	}
	return out.String()
}
