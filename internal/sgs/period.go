package sgs

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the dd/MM/yyyy layout the SGS API speaks.
const DateLayout = "02/01/2006"

var (
	// ErrInvalidMonth is returned for month text not shaped like MM/YYYY.
	ErrInvalidMonth = errors.New("sgs: month must be MM/AAAA")
	// ErrInvalidDate is returned for unparseable dates.
	ErrInvalidDate = errors.New("sgs: invalid date")
	// ErrInvertedPeriod is returned when the start date is after the end date.
	ErrInvertedPeriod = errors.New("sgs: start date after end date")
)

var monthPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/(\d{4})$`)

// Period is an inclusive date range.
type Period struct {
	From time.Time
	To   time.Time
}

// NewPeriod returns the range from..to, requiring from <= to.
func NewPeriod(from, to time.Time) (Period, error) {
	from, to = truncateDay(from), truncateDay(to)
	if from.After(to) {
		return Period{}, ErrInvertedPeriod
	}
	return Period{From: from, To: to}, nil
}

// Month returns the period covering the month written as "MM/YYYY".
func Month(s string) (Period, error) {
	m := monthPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return Period{From: from, To: to}, nil
}

// ParseDate reads "dd/MM/yyyy" or ISO "yyyy-MM-dd".
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateLayout, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func (p Period) String() string {
	return p.From.Format(DateLayout) + " a " + p.To.Format(DateLayout)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
