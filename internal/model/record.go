// Package model defines the birthday record and the draft submitted for
// create/update, together with their field-level validity rules.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/birthdays/internal/config"
)

// Date is a calendar date. Year is informational; recurring lookups use
// Month and Day only.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the wall-clock date of t in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Key returns the year-agnostic "MM-DD" key of the date.
func (d Date) Key() string {
	return fmt.Sprintf(config.FormatDateKey, int(d.Month), d.Day)
}

// HasYear is false for birthdays recorded without a birth year.
func (d Date) HasYear() bool {
	return d.Year != config.UnknownBirthYear
}

// InRange reports whether month and day are within their nominal ranges.
// Day-of-month is not checked against the month length.
func (d Date) InRange() bool {
	return d.Month >= time.January && d.Month <= time.December && d.Day >= 1 && d.Day <= 31
}

// Time converts the date to midnight in loc. Out-of-month days are
// normalized by time.Date (Feb 30 becomes Mar 2).
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// TimeOfDay is a wall-clock time.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// InRange reports whether hour, minute and second are valid clock values.
func (t TimeOfDay) InRange() bool {
	return t.Hour >= 0 && t.Hour <= 23 &&
		t.Minute >= 0 && t.Minute <= 59 &&
		t.Second >= 0 && t.Second <= 59
}

// Offset is the duration since midnight.
func (t TimeOfDay) Offset() time.Duration {
	return time.Duration(t.Hour)*time.Hour +
		time.Duration(t.Minute)*time.Minute +
		time.Duration(t.Second)*time.Second
}

// Record is one tracked person's birthday as confirmed by the remote store.
// ID is assigned by the store and never changes.
type Record struct {
	ID              string
	Name            string
	BirthdayDate    Date
	Relationship    string
	Phone           string
	Email           string
	Notes           string
	ReminderEnabled bool
	ReminderTime    *TimeOfDay
	Photo           string
}

// Normalize enforces the reminder invariant on data coming from the store:
// a disabled reminder carries no time.
func (r Record) Normalize() Record {
	if !r.ReminderEnabled {
		r.ReminderTime = nil
	}
	return r
}

// Clone returns a copy that shares no memory with r.
func (r Record) Clone() Record {
	if r.ReminderTime != nil {
		t := *r.ReminderTime
		r.ReminderTime = &t
	}
	return r
}

// PhotoOrDefault returns the photo reference or the placeholder when absent.
func (r Record) PhotoOrDefault() string {
	if r.Photo == "" {
		return config.DefaultPhotoPlaceholder
	}
	return r.Photo
}

// Draft returns the editable field set of the record.
func (r Record) Draft() Draft {
	date := r.BirthdayDate
	d := Draft{
		Name:            r.Name,
		BirthdayDate:    &date,
		Relationship:    r.Relationship,
		Phone:           r.Phone,
		Email:           r.Email,
		Notes:           r.Notes,
		ReminderEnabled: r.ReminderEnabled,
		Photo:           r.Photo,
	}
	if r.ReminderTime != nil {
		rt := *r.ReminderTime
		d.ReminderTime = &rt
	}
	return d
}

// Draft is the field set submitted on create or update. BirthdayDate is nil
// until the user picks a date.
type Draft struct {
	Name            string
	BirthdayDate    *Date
	Relationship    string
	Phone           string
	Email           string
	Notes           string
	ReminderEnabled bool
	ReminderTime    *TimeOfDay
	Photo           string
}

// Field names reported by ValidationError, matching the wire names.
const (
	FieldID           = "id"
	FieldName         = "name"
	FieldBirthdayDate = "birthday_date"
	FieldReminderTime = "reminder_time"
)

// ErrValidation matches every *ValidationError through errors.Is.
var ErrValidation = errors.New(config.ErrValidation)

// ValidationError reports a required or malformed field caught before any
// network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = config.ErrFieldRequired
	}
	return fmt.Sprintf("%s: %s: %s", config.ErrValidation, e.Field, reason)
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validate checks the fields a persisted record must carry.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return &ValidationError{Field: FieldName}
	}
	if d.BirthdayDate == nil {
		return &ValidationError{Field: FieldBirthdayDate}
	}
	if !d.BirthdayDate.InRange() || d.BirthdayDate.Year < 0 || d.BirthdayDate.Year > 9999 {
		return &ValidationError{Field: FieldBirthdayDate, Reason: config.ErrInvalidDate}
	}
	if d.ReminderEnabled {
		if d.ReminderTime == nil {
			return &ValidationError{Field: FieldReminderTime}
		}
		if !d.ReminderTime.InRange() {
			return &ValidationError{Field: FieldReminderTime, Reason: config.ErrInvalidTime}
		}
	}
	return nil
}

// Normalize returns the draft as it is transmitted: the reminder time is
// dropped when the reminder is disabled, and seconds are always zero.
func (d Draft) Normalize() Draft {
	if !d.ReminderEnabled {
		d.ReminderTime = nil
		return d
	}
	if d.ReminderTime != nil {
		rt := *d.ReminderTime
		rt.Second = 0
		d.ReminderTime = &rt
	}
	return d
}
