package components

import (
	"strings"

	"github.com/coder-muller/calculadora-bacen/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name string
	Key  string // shortcut shown after the name, e.g. "F1"
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Calcular com a Série", Key: "F1"},
	{Name: "Calcular com a Taxa", Key: "F2"},
	{Name: "Settings", Key: "F3"},
}

// tabLabel is the text of a tab before styling; inactive tabs show their key.
func tabLabel(tab Tab, active bool) string {
	if active {
		return " " + tab.Name + " "
	}
	return " " + tab.Name + " [" + tab.Key + "] "
}

// TabVisualWidth returns the rendered width of a tab. Mouse hit-testing
// relies on this matching RenderTabBar.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(tabLabel(tab, active))
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.Background).
		Background(t.Accent).
		Bold(true)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	sepStyle := lipgloss.NewStyle().
		Background(t.Surface)

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts[i] = activeStyle.Render(tabLabel(tab, true))
		} else {
			parts[i] = inactiveStyle.Render(tabLabel(tab, false))
		}
	}

	row := strings.Join(parts, sepStyle.Render(" "))
	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(row)
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key string) int {
	for i, tab := range Tabs {
		if strings.EqualFold(tab.Key, key) {
			return i
		}
	}
	return -1
}
