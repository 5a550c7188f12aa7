package rate

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDigits(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"547", "5.47"},
		{"5,47", "5.47"},
		{"5,471", "54.71"},
		{"0,5", "0.05"},
		{"", "0"},
		{"abc", "0"},
		{"-12", "0.12"},
		{"00130", "1.3"},
		{"1.234,56", "1234.56"},
		{"99999999999999999999999", "999999999999999999999.99"},
	}

	for _, tc := range cases {
		got := ParseDigits(tc.raw)
		assert.Truef(t, got.Equal(mustRate(t, tc.want)), "ParseDigits(%q) = %s, want %s", tc.raw, got, tc.want)
		assert.False(t, got.IsNegative(), "ParseDigits(%q) must not be negative", tc.raw)
	}
}

func TestParseDigits_IgnoresNonASCIIDigits(t *testing.T) {
	// Arabic-Indic three is a unicode digit but not a keypad digit.
	assert.True(t, ParseDigits("1٣2").Equal(mustRate(t, "0.12")))
}

func TestFormat(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0,00"},
		{"5.47", "5,47"},
		{"7.111", "7,11"},
		{"7.115", "7,12"},
		{"130", "130,00"},
		{"1234.5", "1.234,50"},
		{"1234567.891", "1.234.567,89"},
		{"-1234.5", "-1.234,50"},
		{"999.999", "1.000,00"},
	}

	for _, tc := range cases {
		assert.Equalf(t, tc.want, Format(mustRate(t, tc.in)), "Format(%s)", tc.in)
	}
}

func TestFormat_LongDigitsExact(t *testing.T) {
	cases := []struct {
		digits string
		want   string
	}{
		{"99999999999999999", "999.999.999.999.999,99"},
		{"123456789012345678901234", "1.234.567.890.123.456.789.012,34"},
	}
	for _, tc := range cases {
		r := ParseDigits(tc.digits)
		got := Format(r)
		assert.Equalf(t, tc.want, got, "Format(ParseDigits(%q))", tc.digits)

		back, err := Parse(got)
		require.NoError(t, err)
		assert.Truef(t, back.Equal(r), "Parse(%q) = %s, want %s", got, back, r)
	}
}

func TestCompact(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"30", "30"},
		{"30.00", "30"},
		{"0", "0"},
		{"27.5", "27,50"},
		{"1500", "1500"},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, Compact(mustRate(t, tc.in)), "Compact(%s)", tc.in)
	}
}

func TestFormatParseDigits_OneDecimalComma(t *testing.T) {
	inputs := []string{"", "1", "12", "123", "1234", "123456789", "007", "x9y8z7"}
	for _, in := range inputs {
		out := Format(ParseDigits(in))
		require.Equalf(t, 1, strings.Count(out, ","), "Format(ParseDigits(%q)) = %q", in, out)
		idx := strings.Index(out, ",")
		assert.Lenf(t, out[idx+1:], 2, "Format(ParseDigits(%q)) = %q", in, out)
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "12,50%", Percent(mustRate(t, "12.5")))
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"547", "5.47"},
		{"5,47", "5.47"},
		{"5.47", "5.47"},
		{"1.234,56", "1234.56"},
		{"8,00%", "8"},
		{" 130 ", "1.3"},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		require.NoErrorf(t, err, "Parse(%q)", tc.in)
		assert.Truef(t, got.Equal(mustRate(t, tc.want)), "Parse(%q) = %s, want %s", tc.in, got, tc.want)
	}

	_, err := Parse("")
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = Parse("abc")
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = Parse("-5.47")
	assert.ErrorIs(t, err, ErrNegative)
}

func TestParsePercent(t *testing.T) {
	got, err := ParsePercent("30")
	require.NoError(t, err)
	assert.True(t, got.Equal(FromInt(30)))

	got, err = ParsePercent("27,5%")
	require.NoError(t, err)
	assert.True(t, got.Equal(mustRate(t, "27.5")))

	_, err = ParsePercent("-1")
	assert.ErrorIs(t, err, ErrNegative)
	_, err = ParsePercent("trinta")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestField_DisplayDerivedFromValue(t *testing.T) {
	var f Field
	assert.Equal(t, "0,00", f.Display())

	f.Input("5")
	f.Input(f.Display() + "4")
	f.Input(f.Display() + "7")
	assert.Equal(t, "5,47", f.Display())
	assert.True(t, f.Value().Equal(mustRate(t, "5.47")))

	// Backspace removes the last digit of the displayed text.
	d := f.Display()
	f.Input(d[:len(d)-1])
	assert.Equal(t, "0,54", f.Display())

	f.Reset()
	assert.Equal(t, "0,00", f.Display())
	assert.True(t, f.Value().IsZero())
}

func TestRateJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		R Rate `json:"r"`
	}{mustRate(t, "5.47")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"r":5.47}`, string(b))

	var v struct {
		R Rate `json:"r"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"r":"7.00"}`), &v))
	assert.True(t, v.R.Equal(FromInt(7)))
}

func mustRate(t *testing.T, s string) Rate {
	t.Helper()
	r, err := FromString(s)
	require.NoError(t, err)
	return r
}
