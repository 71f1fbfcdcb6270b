package model

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the DD/MM/YYYY layout used by bill exports and the CLI.
const DateLayout = "02/01/2006"

// ErrInvalidDate is returned for a year/month/day triple that is not a real calendar date.
var ErrInvalidDate = errors.New("invalid calendar date")

// Date returns the calendar date at UTC midnight. Out-of-range values normalize.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NewDate validates a year/month/day triple and returns the calendar date.
func NewDate(year, month, day int) (time.Time, error) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, fmt.Errorf("%04d-%02d-%02d: %w", year, month, day, ErrInvalidDate)
	}
	d := Date(year, time.Month(month), day)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, fmt.Errorf("%04d-%02d-%02d: %w", year, month, day, ErrInvalidDate)
	}
	return d, nil
}

// ParseDate parses a DD/MM/YYYY string.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return d, nil
}

// FormatDate renders d as DD/MM/YYYY.
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}
