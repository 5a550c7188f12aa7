package calculator

import (
	"strings"
	"time"

	"github.com/coder-muller/calculadora-bacen/internal/rate"
	"github.com/coder-muller/calculadora-bacen/internal/sgs"
)

// Form field names, shared by the TUI and the web form.
const (
	FieldCode        = "code"
	FieldDescription = "description"
	FieldFrom        = "from"
	FieldTo          = "to"
	FieldBase        = "base"
	FieldCharged     = "charged"
)

// Validation messages.
const (
	MsgCodeRequired        = "Código é obrigatório"
	MsgDescriptionRequired = "Descrição é obrigatória"
	MsgFromRequired        = "Data inicial é obrigatória"
	MsgToRequired          = "Data final é obrigatória"
	MsgInvertedPeriod      = "Data inicial deve ser anterior ou igual à data final"
	MsgFromInvalid         = "Data inicial inválida"
	MsgToInvalid           = "Data final inválida"
	MsgMonthInvalid        = "Mês deve estar no formato MM/AAAA"
	MsgBaseTooLow          = "Taxa base deve ser maior que 0,01%"
	MsgChargedTooLow       = "Taxa de análise deve ser maior que 0,01%"
)

// FieldError is a validation failure on one form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every failed field of a submission.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// For returns the message recorded for field, if any.
func (e *ValidationError) For(field string) (string, bool) {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message, true
		}
	}
	return "", false
}

type checker struct {
	fields []FieldError
}

func (c *checker) fail(field, msg string) {
	c.fields = append(c.fields, FieldError{Field: field, Message: msg})
}

func (c *checker) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: c.fields}
}

// ValidateDirect requires both rates to be at least 0,01.
func ValidateDirect(in DirectInput) error {
	var c checker
	if in.Base.LessThan(rate.MinPositive) {
		c.fail(FieldBase, MsgBaseTooLow)
	}
	if in.Charged.LessThan(rate.MinPositive) {
		c.fail(FieldCharged, MsgChargedTooLow)
	}
	return c.err()
}

// ValidateSeries checks the series form: a code, a description, both dates
// in order, and a charged rate of at least 0,01.
func ValidateSeries(in SeriesInput) error {
	var c checker
	if in.Code < 1 {
		c.fail(FieldCode, MsgCodeRequired)
	}
	if strings.TrimSpace(in.Description) == "" {
		c.fail(FieldDescription, MsgDescriptionRequired)
	}
	if in.From.IsZero() {
		c.fail(FieldFrom, MsgFromRequired)
	}
	if in.To.IsZero() {
		c.fail(FieldTo, MsgToRequired)
	}
	if !in.From.IsZero() && !in.To.IsZero() && in.From.After(in.To) {
		c.fail(FieldTo, MsgInvertedPeriod)
	}
	if in.Charged.LessThan(rate.MinPositive) {
		c.fail(FieldCharged, MsgChargedTooLow)
	}
	return c.err()
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: msg}}}
}

// ParseFormDate reads a date typed into a form field. Blank text is the
// zero time so ValidateSeries reports it as missing; unreadable text is a
// field error.
func ParseFormDate(field, raw string) (time.Time, *FieldError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := sgs.ParseDate(raw)
	if err != nil {
		msg := MsgToInvalid
		if field == FieldFrom {
			msg = MsgFromInvalid
		}
		return time.Time{}, &FieldError{Field: field, Message: msg}
	}
	return t, nil
}
