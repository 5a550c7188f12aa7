// Package theme defines color themes for the calcbacen TUI.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name         string
	Background   lipgloss.Color // Main app background
	Surface      lipgloss.Color // Card/panel backgrounds
	SurfaceHover lipgloss.Color // Focused field, selected row
	Border       lipgloss.Color // Subtle borders
	BorderAccent lipgloss.Color // Focused card borders
	TextDim      lipgloss.Color // Hints, placeholders
	TextMuted    lipgloss.Color // Labels
	TextPrimary  lipgloss.Color // Values
	Accent       lipgloss.Color // Active tab, cursor
	AccentBright lipgloss.Color
	Within       lipgloss.Color // Verdict: rate within the margin
	WithinDim    lipgloss.Color
	Above        lipgloss.Color // Verdict: rate above the margin
	AboveDim     lipgloss.Color
	Warn         lipgloss.Color // Notices and validation messages
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme - warm, paper-inspired dark theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Within:       lipgloss.Color("#A3B859"),
	WithinDim:    lipgloss.Color("#1F2A12"),
	Above:        lipgloss.Color("#D14D41"),
	AboveDim:     lipgloss.Color("#2E1412"),
	Warn:         lipgloss.Color("#DA702C"),
}

// TokyoNight is a cool blue/purple theme inspired by Tokyo city lights.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Background:   lipgloss.Color("#1A1B26"),
	Surface:      lipgloss.Color("#24283B"),
	SurfaceHover: lipgloss.Color("#343A52"),
	Border:       lipgloss.Color("#565F89"),
	BorderAccent: lipgloss.Color("#7AA2F7"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentBright: lipgloss.Color("#A9C1FF"),
	Within:       lipgloss.Color("#9ECE6A"),
	WithinDim:    lipgloss.Color("#1F2B1A"),
	Above:        lipgloss.Color("#F7768E"),
	AboveDim:     lipgloss.Color("#33202A"),
	Warn:         lipgloss.Color("#FF9E64"),
}

// Terminal uses ANSI 16 colors only - maximum compatibility.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Within:       lipgloss.Color("10"),
	WithinDim:    lipgloss.Color("0"),
	Above:        lipgloss.Color("9"),
	AboveDim:     lipgloss.Color("0"),
	Warn:         lipgloss.Color("3"),
}

// All available themes.
var All = []Theme{FlexokiDark, TokyoNight, Terminal}

// Names lists the theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// Valid reports whether name is a known theme.
func Valid(name string) bool {
	for _, t := range All {
		if t.Name == name {
			return true
		}
	}
	return false
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Next returns the theme after name, wrapping around.
func Next(name string) Theme {
	for i, t := range All {
		if t.Name == name {
			return All[(i+1)%len(All)]
		}
	}
	return All[0]
}
