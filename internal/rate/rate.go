// Package rate parses keypad-style rate input and renders rates in pt-BR notation.
package rate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Rate is a percentage value: 5.47 means 5.47%.
type Rate struct {
	decimal.Decimal
}

// Zero is the empty rate, displayed as "0,00".
var Zero = Rate{decimal.Zero}

// MinPositive is the smallest rate a form accepts where a positive rate is required.
var MinPositive = Rate{decimal.New(1, -2)}

var hundred = decimal.NewFromInt(100)

// ErrInvalid is returned when free-form rate text cannot be read as a number.
var ErrInvalid = errors.New("rate: invalid number")

// ErrNegative is returned when a rate or margin is below zero.
var ErrNegative = errors.New("rate: negative value")

// New wraps a decimal value.
func New(d decimal.Decimal) Rate {
	return Rate{d}
}

// FromInt returns a whole-number rate.
func FromInt(v int64) Rate {
	return Rate{decimal.NewFromInt(v)}
}

// FromFloat converts a float64 percentage.
func FromFloat(v float64) Rate {
	return Rate{decimal.NewFromFloat(v)}
}

// FromString parses a dot-decimal string such as the SGS API returns ("5.47").
func FromString(s string) (Rate, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	return Rate{d}, nil
}

// ParseDigits keeps only the ASCII digits of raw and reads them as
// hundredths of a percent, so "547" is 5.47. Input without digits is 0.
func ParseDigits(raw string) Rate {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if digits == "" {
		return Zero
	}

	d, err := decimal.NewFromString(digits)
	if err != nil {
		return Zero
	}
	return Rate{d.Shift(-2)}
}

// Parse reads a rate typed on the command line. Text containing a comma is
// read as pt-BR ("1.234,56"), text containing only a dot as a plain decimal
// ("5.47"), and bare digits follow the keypad convention of ParseDigits.
func Parse(s string) (Rate, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return Zero, fmt.Errorf("%w: empty", ErrInvalid)
	}

	var r Rate
	switch {
	case strings.Contains(s, ","):
		d, err := decimal.NewFromString(strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", "."))
		if err != nil {
			return Zero, fmt.Errorf("%w: %q", ErrInvalid, s)
		}
		r = Rate{d}
	case strings.Contains(s, "."):
		parsed, err := FromString(s)
		if err != nil {
			return Zero, err
		}
		r = parsed
	default:
		if strings.Trim(s, "0123456789") != "" {
			return Zero, fmt.Errorf("%w: %q", ErrInvalid, s)
		}
		r = ParseDigits(s)
	}

	if r.IsNegative() {
		return Zero, ErrNegative
	}
	return r, nil
}

// ParsePercent reads a plain percentage such as a margin ("30", "27,5", "27.5").
// Unlike Parse, bare digits are whole percentages.
func ParsePercent(s string) (Rate, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	if d.IsNegative() {
		return Zero, ErrNegative
	}
	return Rate{d}, nil
}

// Format renders r with "." as thousands separator, "," as decimal
// separator and exactly two fraction digits. The digits come straight from
// the decimal, so long values print exactly as stored.
func Format(r Rate) string {
	s := r.Decimal.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	return sign + groupThousands(whole) + "," + frac
}

// Compact renders whole numbers bare ("30") and anything else with Format
// ("27,50"). Margins are shown this way.
func Compact(r Rate) string {
	if r.Decimal.Equal(r.Truncate(0)) {
		return r.Truncate(0).String()
	}
	return Format(r)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Percent is Format followed by a percent sign.
func Percent(r Rate) string {
	return Format(r) + "%"
}

// Equal reports whether two rates hold the same numeric value.
func (r Rate) Equal(other Rate) bool {
	return r.Decimal.Equal(other.Decimal)
}

// GreaterThan reports whether r is strictly greater than other.
func (r Rate) GreaterThan(other Rate) bool {
	return r.Decimal.GreaterThan(other.Decimal)
}

// LessThan reports whether r is strictly less than other.
func (r Rate) LessThan(other Rate) bool {
	return r.Decimal.LessThan(other.Decimal)
}

// MarshalText encodes the canonical dot-decimal value, e.g. "5.47".
func (r Rate) MarshalText() ([]byte, error) {
	return []byte(r.Decimal.String()), nil
}

// UnmarshalText accepts the canonical dot-decimal value.
func (r *Rate) UnmarshalText(b []byte) error {
	parsed, err := FromString(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalJSON encodes the rate as a JSON number.
func (r Rate) MarshalJSON() ([]byte, error) {
	return []byte(r.Decimal.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (r *Rate) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		*r = Zero
		return nil
	}
	parsed, err := FromString(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// HundredthsOf returns r / 100, the fraction a percentage represents.
func HundredthsOf(r Rate) decimal.Decimal {
	return r.Decimal.Div(hundred)
}

// Field holds one keypad-driven form input. The numeric value is the only
// state; the display string is always derived from it.
type Field struct {
	value Rate
}

// Input replaces the value with whatever the raw keystroke text parses to.
func (f *Field) Input(raw string) {
	f.value = ParseDigits(raw)
}

// Set stores a value directly.
func (f *Field) Set(r Rate) {
	f.value = r
}

// Reset clears the field back to zero.
func (f *Field) Reset() {
	f.value = Zero
}

// Value returns the numeric rate.
func (f Field) Value() Rate {
	return f.value
}

// Display returns the pt-BR rendering of the current value.
func (f Field) Display() string {
	return Format(f.value)
}
