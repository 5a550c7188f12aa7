// Package margin decides whether a charged rate exceeds a reference rate by
// more than the allowed margin.
package margin

import (
	"fmt"

	"github.com/coder-muller/calculadora-bacen/internal/rate"

	"github.com/shopspring/decimal"
)

// DefaultMargin is the allowed relative excess, in percent, when the user
// has never saved a preference.
var DefaultMargin = rate.FromInt(30)

var hundred = decimal.NewFromInt(100)

// Result is one comparison. It is created per submission and never stored.
type Result struct {
	Base    rate.Rate `json:"base"`
	Charged rate.Rate `json:"charged"`
	Margin  rate.Rate `json:"margin"`
	Ceiling rate.Rate `json:"ceiling"`
	Exceeds bool      `json:"exceeds"`

	// Excess is how far Charged sits above Ceiling, in percent of Ceiling.
	// Nil unless Exceeds is set and Ceiling is positive.
	Excess *rate.Rate `json:"excess,omitempty"`

	// ExcessUnbounded marks a positive charged rate against a zero ceiling.
	ExcessUnbounded bool `json:"excess_unbounded,omitempty"`
}

// Evaluate compares charged against base * (1 + marginPercent/100).
// Equality is within the limit. Inputs are expected to be non-negative.
func Evaluate(base, charged, marginPercent rate.Rate) Result {
	factor := decimal.NewFromInt(1).Add(rate.HundredthsOf(marginPercent))
	ceiling := rate.New(base.Mul(factor))

	res := Result{
		Base:    base,
		Charged: charged,
		Margin:  marginPercent,
		Ceiling: ceiling,
		Exceeds: charged.GreaterThan(ceiling),
	}
	if !res.Exceeds {
		return res
	}

	if ceiling.IsZero() {
		res.ExcessUnbounded = true
		return res
	}

	excess := rate.New(charged.Sub(ceiling.Decimal).Div(ceiling.Decimal).Mul(hundred))
	res.Excess = &excess
	return res
}

// ExcessLabel renders the excess as "+12,50%", "N/A" when unbounded, or ""
// when the charged rate is within the limit.
func (r Result) ExcessLabel() string {
	switch {
	case !r.Exceeds:
		return ""
	case r.ExcessUnbounded || r.Excess == nil:
		return "N/A"
	default:
		return "+" + rate.Percent(*r.Excess)
	}
}

// CeilingLabel names the ceiling column with its margin, e.g. "Limite (30%)".
func (r Result) CeilingLabel() string {
	return fmt.Sprintf("Limite (%s%%)", rate.Compact(r.Margin))
}
