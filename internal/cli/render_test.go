package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/coder-muller/calculadora-bacen/internal/calculator"
	"github.com/coder-muller/calculadora-bacen/internal/catalog"
	"github.com/coder-muller/calculadora-bacen/internal/margin"
	"github.com/coder-muller/calculadora-bacen/internal/rate"

	"github.com/stretchr/testify/assert"
)

func outcome(base, charged string) calculator.Outcome {
	b, _ := rate.FromString(base)
	c, _ := rate.FromString(charged)
	res := margin.Evaluate(b, c, margin.DefaultMargin)
	return calculator.Outcome{
		Mode:      calculator.ModeDirect,
		BaseLabel: calculator.LabelDirectBase,
		Result:    res,
		Verdict:   res.Verdict(),
	}
}

func TestRenderOutcome_Within(t *testing.T) {
	got := RenderOutcome(outcome("5.47", "7"))

	assert.Contains(t, got, "Taxa Base")
	assert.Contains(t, got, "Taxa Análise")
	assert.Contains(t, got, "Limite (30%)")
	assert.Contains(t, got, "5,47%")
	assert.Contains(t, got, "7,11%")
	assert.Contains(t, got, "Revisional improcedente")
	assert.Contains(t, got, "Dentro do limite permitido")
	assert.NotContains(t, got, "(+")
}

func TestRenderOutcome_AboveWithSeries(t *testing.T) {
	out := outcome("5.47", "8")
	out.BaseLabel = calculator.LabelSeriesBase
	out.Series = &catalog.Series{Code: 25471, Description: "Aquisição de veículos"}
	out.Period = "01/03/2024 a 31/03/2024"

	got := RenderOutcome(out)
	assert.Contains(t, got, "Taxa BACEN")
	assert.Contains(t, got, "25471")
	assert.Contains(t, got, "01/03/2024 a 31/03/2024")
	assert.Contains(t, got, "8,00% (+12,50%)")
	assert.Contains(t, got, "Revisional procedente")
	assert.Contains(t, got, "Acima do limite de 30%")
}

func TestRenderTable_AlignsAccentedText(t *testing.T) {
	got := RenderTable(Table{
		Headers: []string{"Código", "Descrição"},
		Rows:    [][]string{{"1", "á"}, {"22", "bb"}},
	})
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	assert.Len(t, lines, 6)
}

func TestRenderTable_Empty(t *testing.T) {
	assert.Empty(t, RenderTable(Table{}))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "30%", FormatMargin(rate.FromInt(30)))
	assert.Equal(t, "27,50%", FormatMargin(rate.FromFloat(27.5)))
	assert.Equal(t, "15/03/2024", FormatDate(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "--/--/----", FormatDate(time.Time{}))
	assert.Equal(t, "432 - Meta Selic", FormatSeries(catalog.Series{Code: 432, Description: "Meta Selic"}))
	assert.Equal(t, "Aquis…", Truncate("Aquisição", 6))
	assert.Equal(t, "curto", Truncate("curto", 10))
}
