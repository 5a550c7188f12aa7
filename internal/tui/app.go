// Package tui provides the interactive Bubble Tea calculator for calcbacen.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coder-muller/calculadora-bacen/internal/calculator"
	"github.com/coder-muller/calculadora-bacen/internal/catalog"
	"github.com/coder-muller/calculadora-bacen/internal/cli"
	"github.com/coder-muller/calculadora-bacen/internal/config"
	"github.com/coder-muller/calculadora-bacen/internal/rate"
	"github.com/coder-muller/calculadora-bacen/internal/tui/components"
	"github.com/coder-muller/calculadora-bacen/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// serviceAPI is the part of calculator.Service the TUI drives.
type serviceAPI interface {
	Catalog() *catalog.Catalog
	FillDescription(in calculator.SeriesInput) calculator.SeriesInput
	Series(ctx context.Context, in calculator.SeriesInput) (calculator.Outcome, error)
	Direct(ctx context.Context, in calculator.DirectInput) (calculator.Outcome, error)
	Margin(ctx context.Context) rate.Rate
	SaveMargin(ctx context.Context, m rate.Rate) error
	ResetMargin(ctx context.Context) error
}

const (
	tabSeries = iota
	tabDirect
	tabSettings
)

const (
	minTerminalWidth = 60
	maxContentWidth  = 100
	minContentHeight = 5
)

// Options configures NewApp.
type Options struct {
	Config     config.Config
	NeedSetup  bool                      // show the first-run wizard
	SaveConfig func(config.Config) error // defaults to config.Save
	Logger     *zap.Logger
	Now        func() time.Time
}

// App is the root Bubble Tea model.
type App struct {
	svc           serviceAPI
	cfg           config.Config
	saveConfig    func(config.Config) error
	logger        *zap.Logger
	now           func() time.Time
	lookupTimeout time.Duration

	// UI state
	width     int
	height    int
	activeTab int
	notice    string // transient, cleared by the next key press
	margin    rate.Rate

	series   seriesForm
	direct   directForm
	settings settingsState

	spinner spinner.Model

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool
}

// NewApp creates a new TUI app model.
func NewApp(svc serviceAPI, opts Options) App {
	if opts.SaveConfig == nil {
		opts.SaveConfig = config.Save
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	theme.SetActive(opts.Config.Appearance.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		svc:           svc,
		cfg:           opts.Config,
		saveConfig:    opts.SaveConfig,
		logger:        opts.Logger,
		now:           opts.Now,
		lookupTimeout: opts.Config.SGSTimeout(),
		margin:        svc.Margin(context.Background()),
		series:        newSeriesForm(svc.Catalog(), opts.Now()),
		direct:        newDirectForm(),
		spinner:       sp,
		needSetup:     opts.NeedSetup,
	}
	if a.needSetup {
		a.setupVals = &setupValues{}
		a.setupForm = newSetupForm(a.margin, a.cfg.Appearance.Theme, a.setupVals)
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnableMouseCellMotion, textinput.Blink}
	if a.setupForm != nil {
		cmds = append(cmds, a.setupForm.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if a.needSetup {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				cmd := a.switchTab(tab)
				return a, cmd
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// First-run setup wizard intercepts all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		a.notice = ""

		if idx := components.TabIdxByKey(key); idx >= 0 {
			cmd := a.switchTab(idx)
			return a, cmd
		}

		switch key {
		case "esc":
			if !(a.activeTab == tabSettings && a.settings.editing) {
				return a, tea.Quit
			}
		case "ctrl+l":
			a.clearActive()
			return a, nil
		case "ctrl+right":
			cmd := a.switchTab((a.activeTab + 1) % len(components.Tabs))
			return a, cmd
		case "ctrl+left":
			cmd := a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
			return a, cmd
		}

		switch a.activeTab {
		case tabSeries:
			return a.updateSeries(msg)
		case tabDirect:
			return a.updateDirect(msg)
		case tabSettings:
			return a.updateSettings(msg)
		}
		return a, nil

	case seriesResultMsg:
		if !a.applySeriesResult(msg) {
			a.logger.Debug("discarding stale lookup result", zap.String("token", msg.token))
		}
		return a, nil

	case spinner.TickMsg:
		if a.series.pending() {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	// Cursor blink for the focused text input.
	if a.activeTab == tabSeries {
		var cmd tea.Cmd
		switch a.series.focus {
		case seriesFieldSearch:
			a.series.search, cmd = a.series.search.Update(msg)
		case seriesFieldFrom:
			a.series.from, cmd = a.series.from.Update(msg)
		case seriesFieldTo:
			a.series.to, cmd = a.series.to.Update(msg)
		}
		return a, cmd
	}
	if a.activeTab == tabSettings && a.settings.editing {
		var cmd tea.Cmd
		a.settings.input, cmd = a.settings.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		if err := a.saveSetup(); err != nil {
			a.notice = fmt.Sprintf("Could not save settings: %s", err)
			a.logger.Warn("setup save failed", zap.Error(err))
		}
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a *App) switchTab(idx int) tea.Cmd {
	a.activeTab = idx
	if idx == tabSeries {
		return a.series.setFocus(a.series.focus)
	}
	return nil
}

// clearActive resets the visible form. On the series tab this also
// invalidates a lookup in flight.
func (a *App) clearActive() {
	switch a.activeTab {
	case tabSeries:
		a.series.clear(a.svc.Catalog(), a.now())
	case tabDirect:
		a.direct = newDirectForm()
	}
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  calcbacen needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) statusHints() string {
	switch a.activeTab {
	case tabSeries:
		return "[tab] campo  [↑↓] série  [enter] calcular  [^l] limpar  [esc] sair"
	case tabDirect:
		return "[tab] campo  [0-9] taxa  [enter] calcular  [^l] limpar  [esc] sair"
	default:
		return "[j/k] navegar  [enter] editar  [esc] sair"
	}
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	status := components.Status{
		Hints:  a.statusHints(),
		Notice: a.notice,
		Margin: cli.FormatMargin(a.margin),
	}
	if a.series.pending() {
		status.Pending = a.spinner.View()
	}
	statusBar := components.RenderStatusBar(w, status)

	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabSeries:
		content = a.renderSeriesTab(cw)
	case tabDirect:
		content = a.renderDirectTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}

// Run starts the TUI program and blocks until it exits.
func Run(svc serviceAPI, opts Options) error {
	p := tea.NewProgram(NewApp(svc, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
