// Package codec converts dates and reminder times between their model values
// and the canonical wire formats YYYY-MM-DD and HH:mm:ss.
package codec

import (
	"errors"
	"fmt"
	"time"

	"github.com/tartampluch/birthdays/internal/config"
	"github.com/tartampluch/birthdays/internal/model"
)

var (
	// ErrInvalidDate is returned when a date triple is outside its nominal range.
	ErrInvalidDate = errors.New(config.ErrInvalidDate)
	// ErrInvalidTime is returned when a clock value is outside its range.
	ErrInvalidTime = errors.New(config.ErrInvalidTime)
	// ErrParse is returned when a wire string is malformed.
	ErrParse = errors.New(config.ErrParse)
)

// EncodeDate formats d as zero-padded YYYY-MM-DD. Only nominal ranges are
// checked, so Feb 30 passes through as-is.
func EncodeDate(d model.Date) (string, error) {
	if !d.InRange() || d.Year < 0 || d.Year > 9999 {
		return "", fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, d.Year, int(d.Month), d.Day)
	}
	return fmt.Sprintf(config.FormatDate, d.Year, int(d.Month), d.Day), nil
}

// EncodeTime formats t as HH:mm:00. Seconds are always zero.
func EncodeTime(t model.TimeOfDay) (string, error) {
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return "", fmt.Errorf("%w: %02d:%02d", ErrInvalidTime, t.Hour, t.Minute)
	}
	return fmt.Sprintf(config.FormatTime, t.Hour, t.Minute), nil
}

// DecodeDate parses a canonical YYYY-MM-DD string.
func DecodeDate(s string) (model.Date, error) {
	if len(s) != len(config.DateLayout) || s[4] != '-' || s[7] != '-' {
		return model.Date{}, parseError(config.DateLayout, s)
	}
	y, ok1 := digits(s[0:4])
	m, ok2 := digits(s[5:7])
	d, ok3 := digits(s[8:10])
	if !ok1 || !ok2 || !ok3 {
		return model.Date{}, parseError(config.DateLayout, s)
	}
	date := model.Date{Year: y, Month: time.Month(m), Day: d}
	if !date.InRange() {
		return model.Date{}, parseError(config.DateLayout, s)
	}
	return date, nil
}

// DecodeTime parses HH:mm:ss. The short form HH:mm is accepted with zero seconds.
func DecodeTime(s string) (model.TimeOfDay, error) {
	var t model.TimeOfDay
	switch len(s) {
	case len(config.TimeLayout):
		if s[2] != ':' || s[5] != ':' {
			return t, parseError(config.TimeLayout, s)
		}
		sec, ok := digits(s[6:8])
		if !ok {
			return t, parseError(config.TimeLayout, s)
		}
		t.Second = sec
	case len("HH:mm"):
		if s[2] != ':' {
			return t, parseError(config.TimeLayout, s)
		}
	default:
		return t, parseError(config.TimeLayout, s)
	}
	h, ok1 := digits(s[0:2])
	m, ok2 := digits(s[3:5])
	if !ok1 || !ok2 {
		return model.TimeOfDay{}, parseError(config.TimeLayout, s)
	}
	t.Hour, t.Minute = h, m
	if !t.InRange() {
		return model.TimeOfDay{}, parseError(config.TimeLayout, s)
	}
	return t, nil
}

func parseError(layout, s string) error {
	return fmt.Errorf("%w: want %s, got %q", ErrParse, layout, s)
}

// digits parses an unsigned decimal made only of ASCII digits.
func digits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
