package tui

import (
	"testing"

	"github.com/coder-muller/calculadora-bacen/internal/tui/components"

	"github.com/stretchr/testify/require"
)

func TestTabAtXMatchesTabWidths(t *testing.T) {
	n := len(components.Tabs)
	for active := 0; active < n; active++ {
		a := App{activeTab: active}
		pos := 0

		for i := 0; i < n; i++ {
			w := components.TabVisualWidth(components.Tabs[i], i == active)
			x := pos + w/2 // midpoint inside this tab
			require.Equalf(t, i, a.tabAtX(x), "active=%d x=%d", active, x)
			pos += w
			if i < n-1 {
				pos++ // separator
			}
		}

		require.Equalf(t, -1, a.tabAtX(pos+5), "active=%d x past last tab", active)
	}
}
