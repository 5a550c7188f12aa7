package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withPeriodFlags(t *testing.T, from, to, month string) {
	t.Helper()
	flagFrom, flagTo, flagMonth = from, to, month
	t.Cleanup(func() { flagFrom, flagTo, flagMonth = "", "", "" })
}

func TestPeriodFromFlags(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 30, 0, 0, time.Local)
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name         string
		from, to, mo string
		wantFrom     time.Time
		wantTo       time.Time
		wantErr      bool
	}{
		{"defaults to today", "", "", "", day(2024, 3, 15), day(2024, 3, 15), false},
		{"explicit range", "01/03/2024", "31/03/2024", "", day(2024, 3, 1), day(2024, 3, 31), false},
		{"iso dates", "2024-03-01", "", "", day(2024, 3, 1), day(2024, 3, 15), false},
		{"month", "", "", "02/2024", day(2024, 2, 1), day(2024, 2, 29), false},
		{"bad month", "", "", "2/24", time.Time{}, time.Time{}, true},
		{"bad date", "31/02/2024", "", "", time.Time{}, time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withPeriodFlags(t, tt.from, tt.to, tt.mo)
			from, to, err := periodFromFlags(now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.wantFrom.Equal(from), "from = %s", from)
			assert.True(t, tt.wantTo.Equal(to), "to = %s", to)
		})
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"check", "series", "margin", "config", "setup", "tui", "serve"} {
		c, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
	}

	c, _, err := rootCmd.Find([]string{"series", "search"})
	require.NoError(t, err)
	assert.Equal(t, "search", c.Name())
}
