// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/coder-muller/calculadora-bacen/internal/catalog"
	"github.com/coder-muller/calculadora-bacen/internal/rate"
	"github.com/coder-muller/calculadora-bacen/internal/sgs"
)

// FormatDate renders t as dd/mm/yyyy.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "--/--/----"
	}
	return t.Format(sgs.DateLayout)
}

// FormatMargin renders a margin percentage, e.g. "30%" or "27,50%".
func FormatMargin(m rate.Rate) string {
	return rate.Compact(m) + "%"
}

// FormatSeries renders a series as "25471 - Aquisição de veículos".
func FormatSeries(s catalog.Series) string {
	return fmt.Sprintf("%d - %s", s.Code, s.Description)
}

// Truncate shortens s to at most n runes, marking the cut with "…".
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return strings.TrimRight(string(r[:n-1]), " ") + "…"
}
