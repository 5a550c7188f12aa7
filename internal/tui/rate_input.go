package tui

import (
	"github.com/coder-muller/calculadora-bacen/internal/rate"

	tea "github.com/charmbracelet/bubbletea"
)

// rateInput is a keypad-style rate field: typed digits shift in from the
// right, so "5", "4", "7" reads 0,05 then 0,54 then 5,47. The display is
// re-derived from the value after every keystroke.
type rateInput struct {
	label string
	field rate.Field
}

func newRateInput(label string) rateInput {
	return rateInput{label: label}
}

// update applies a key press and reports whether it changed the field.
func (ri *rateInput) update(msg tea.KeyMsg) bool {
	before := ri.field.Display()

	switch msg.Type {
	case tea.KeyBackspace:
		shown := []rune(before)
		if len(shown) > 0 {
			ri.field.Input(string(shown[:len(shown)-1]))
		}
	case tea.KeyRunes:
		ri.field.Input(before + string(msg.Runes))
	case tea.KeyDelete:
		ri.field.Reset()
	default:
		return false
	}
	return ri.field.Display() != before
}

func (ri *rateInput) reset() {
	ri.field.Reset()
}

func (ri rateInput) value() rate.Rate {
	return ri.field.Value()
}

func (ri rateInput) view() string {
	return ri.field.Display()
}
