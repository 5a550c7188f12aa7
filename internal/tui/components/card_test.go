package components

import (
	"strings"
	"testing"

	"github.com/coder-muller/calculadora-bacen/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, total := range []int{10, 61, 99, 120} {
		for n := 1; n <= 4; n++ {
			sum := 0
			for _, w := range LayoutRow(total, n) {
				sum += w
			}
			if sum != total {
				t.Fatalf("LayoutRow(%d, %d) sums to %d", total, n, sum)
			}
		}
	}
	if got := LayoutRow(10, 0); got != nil {
		t.Fatalf("LayoutRow(10, 0) = %v, want nil", got)
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	row := MetricCardRow([]Metric{
		{Label: "Taxa BACEN", Value: "5,47%"},
		{Label: "Taxa Análise", Value: "8,00%", Note: "(+12,50%)"},
		{Label: "Limite (30%)", Value: "7,11%"},
	}, 90)

	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Errorf("line %d width = %d, want 90", i, w)
		}
	}
	if !strings.Contains(row, "(+12,50%)") {
		t.Error("note missing from metric card")
	}
}

func TestCardRowMatchesTallestCard(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	tallLines := len(strings.Split(tallCard, "\n"))
	joined := CardRow([]string{tallCard, shortCard})
	if got := len(strings.Split(joined, "\n")); got != tallLines {
		t.Errorf("joined height = %d, want %d", got, tallLines)
	}
}

func TestVerdictBannerColors(t *testing.T) {
	theme.SetActive("terminal")
	defer theme.SetActive("flexoki-dark")

	within := VerdictBanner("Revisional improcedente", "Dentro do limite permitido", false, 40)
	above := VerdictBanner("Revisional procedente", "Acima do limite de 30%", true, 40)

	if !strings.Contains(within, "✓") || strings.Contains(within, "✗") {
		t.Errorf("within banner has wrong mark: %q", within)
	}
	if !strings.Contains(above, "✗") {
		t.Errorf("above banner has wrong mark: %q", above)
	}
	if within == above {
		t.Error("banners should differ")
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey("f2"); got != 1 {
		t.Fatalf("TabIdxByKey(f2) = %d, want 1", got)
	}
	if got := TabIdxByKey("f9"); got != -1 {
		t.Fatalf("TabIdxByKey(f9) = %d, want -1", got)
	}
}

func TestStatusBarFillsWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	bar := RenderStatusBar(80, Status{Hints: "[enter] calcular", Margin: "30%"})
	if w := lipgloss.Width(bar); w != 80 {
		t.Fatalf("status bar width = %d, want 80", w)
	}

	bar = RenderStatusBar(80, Status{Notice: "Taxa não encontrada", Margin: "30%"})
	if !strings.Contains(bar, "Taxa não encontrada") {
		t.Fatal("notice not rendered")
	}
}
