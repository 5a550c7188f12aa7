package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/coder-muller/calculadora-bacen/internal/cli"
	"github.com/coder-muller/calculadora-bacen/internal/config"
	"github.com/coder-muller/calculadora-bacen/internal/margin"
	"github.com/coder-muller/calculadora-bacen/internal/rate"
	"github.com/coder-muller/calculadora-bacen/internal/tui/components"
	"github.com/coder-muller/calculadora-bacen/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldMargin = iota
	settingsFieldTheme
	settingsFieldReset
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   string // flash message after a successful save
	saveErr error  // non-nil if last save failed
}

func newMarginInput(current rate.Rate) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "30"
	ti.CharLimit = 12
	ti.Width = 12
	ti.Prompt = ""
	ti.SetValue(strings.TrimSuffix(cli.FormatMargin(current), "%"))
	ti.CursorEnd()
	return ti
}

func (a App) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	switch msg.String() {
	case "j", "down", "tab":
		if a.settings.cursor < settingsFieldCount-1 {
			a.settings.cursor++
		}
	case "k", "up", "shift+tab":
		if a.settings.cursor > 0 {
			a.settings.cursor--
		}
	case "enter":
		a.settings.saved = ""
		a.settings.saveErr = nil
		switch a.settings.cursor {
		case settingsFieldMargin:
			a.settings.editing = true
			a.settings.input = newMarginInput(a.margin)
			cmd := a.settings.input.Focus()
			return a, cmd
		case settingsFieldTheme:
			a.cycleTheme()
		case settingsFieldReset:
			a.resetMargin()
		}
	}
	return a, nil
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.saveMargin(a.settings.input.Value())
		if a.settings.saveErr == nil {
			a.settings.editing = false
		}
		return a, nil
	case "esc":
		a.settings.editing = false
		a.settings.saveErr = nil
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// saveMargin persists the margin typed on the settings tab. Only this
// explicit save writes the preference.
func (a *App) saveMargin(raw string) {
	m, err := rate.ParsePercent(raw)
	if err != nil {
		a.settings.saveErr = fmt.Errorf("margem inválida: %q", strings.TrimSpace(raw))
		return
	}
	if err := a.svc.SaveMargin(context.Background(), m); err != nil {
		a.settings.saveErr = err
		return
	}
	a.margin = a.svc.Margin(context.Background())
	a.settings.saveErr = nil
	a.settings.saved = "Margem salva: " + cli.FormatMargin(a.margin)
}

func (a *App) resetMargin() {
	if err := a.svc.ResetMargin(context.Background()); err != nil {
		a.settings.saveErr = err
		return
	}
	a.margin = a.svc.Margin(context.Background())
	a.settings.saved = "Margem restaurada: " + cli.FormatMargin(a.margin)
}

func (a *App) cycleTheme() {
	next := theme.Next(a.cfg.Appearance.Theme)
	a.cfg.Appearance.Theme = next.Name
	theme.SetActive(next.Name)
	if err := a.saveConfig(a.cfg); err != nil {
		a.settings.saveErr = err
		return
	}
	a.settings.saved = "Theme: " + next.Name
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceHover).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.Within).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Warn).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover)

	type field struct {
		label string
		value string
	}
	fields := []field{
		{"Margem", cli.FormatMargin(a.margin)},
		{"Theme", a.cfg.Appearance.Theme},
		{"Restaurar margem", "padrão " + cli.FormatMargin(margin.DefaultMargin)},
	}

	innerW := components.CardInnerWidth(cw)

	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString(accentStyle.Render(" %"))
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker + label + value)
			usedWidth := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if padLen := innerW - usedWidth; padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceHover).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved != "" {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render(a.settings.saved))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit/apply  [Esc] cancel"))

	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Config file:  ") + valueStyle.Render(config.ConfigPath()) + "\n")
	infoBody.WriteString(labelStyle.Render("Preferences:  ") + valueStyle.Render(a.cfg.PrefsPath()) + "\n")
	infoBody.WriteString(labelStyle.Render("Series:       ") + valueStyle.Render(fmt.Sprintf("%d no catálogo", a.svc.Catalog().Len())))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))
	return b.String()
}
