package tui

import (
	"context"
	"strings"

	"github.com/coder-muller/calculadora-bacen/internal/cli"
	"github.com/coder-muller/calculadora-bacen/internal/rate"
	"github.com/coder-muller/calculadora-bacen/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues holds the first-run wizard answers.
type setupValues struct {
	margin string
	theme  string
}

func newSetupForm(current rate.Rate, themeName string, vals *setupValues) *huh.Form {
	vals.margin = strings.TrimSuffix(cli.FormatMargin(current), "%")
	vals.theme = themeName
	if !theme.Valid(vals.theme) {
		vals.theme = theme.FlexokiDark.Name
	}

	themeOpts := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		themeOpts[i] = huh.NewOption(t.Name, t.Name)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to calcbacen").
				Description("Compara a taxa contratada com a taxa de referência do BACEN.\nAjuste a margem permitida e o tema. Dá para mudar depois em Settings."),
			huh.NewInput().
				Title("Margem permitida (%)").
				Description("Quanto a taxa contratada pode superar a taxa de referência.").
				Value(&vals.margin).
				Validate(func(s string) error {
					_, err := rate.ParsePercent(s)
					return err
				}),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.theme),
		),
	).WithShowHelp(true)
}

// saveSetup applies the wizard answers: the margin goes to the preference
// store, the theme to the config file.
func (a *App) saveSetup() error {
	m, err := rate.ParsePercent(a.setupVals.margin)
	if err != nil {
		return err
	}
	if err := a.svc.SaveMargin(context.Background(), m); err != nil {
		return err
	}
	a.margin = a.svc.Margin(context.Background())

	if theme.Valid(a.setupVals.theme) {
		a.cfg.Appearance.Theme = a.setupVals.theme
		theme.SetActive(a.setupVals.theme)
	}
	return a.saveConfig(a.cfg)
}
