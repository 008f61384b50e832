package calendar

import (
	"sort"
	"strings"
	"time"

	"github.com/tartampluch/birthdays/internal/model"
)

// Occurrence is the next celebration of a record relative to a reference day.
type Occurrence struct {
	Record model.Record
	// Next is midnight of the next birthday, today included.
	Next time.Time
	// AgeNext is the age turned on Next; 0 when the birth year is unknown or
	// after Next.
	AgeNext int
	// DaysUntil counts whole days from the reference day to Next.
	DaysUntil int
}

// Upcoming returns the next occurrence of every indexed record, soonest
// first (ties broken by name). limit <= 0 means no limit.
func (ix *Index) Upcoming(now time.Time, limit int) []Occurrence {
	if ix == nil {
		return []Occurrence{}
	}
	loc := now.Location()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	out := make([]Occurrence, 0, len(ix.records))
	for _, r := range ix.records {
		next, age := nextOccurrence(now, r.BirthdayDate)
		out = append(out, Occurrence{
			Record:    r.Clone(),
			Next:      next,
			AgeNext:   age,
			DaysUntil: daysBetween(todayStart, next),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Next.Equal(b.Next) {
			return strings.ToLower(a.Record.Name) < strings.ToLower(b.Record.Name)
		}
		return a.Next.Before(b.Next)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// nextOccurrence determines the next birthday relative to now. time.Date
// normalizes Feb 29 to Mar 1 when the target year is not a leap year.
func nextOccurrence(now time.Time, birth model.Date) (time.Time, int) {
	loc := now.Location()
	currentYear := now.Year()

	candidate := time.Date(currentYear, birth.Month, birth.Day, 0, 0, 0, 0, loc)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	if candidate.Before(todayStart) {
		candidate = time.Date(currentYear+1, birth.Month, birth.Day, 0, 0, 0, 0, loc)
	}

	age := candidate.Year() - birth.Year
	if age < 0 || !birth.HasYear() {
		age = 0
	}
	return candidate, age
}

// daysBetween counts calendar days, immune to DST-length days.
func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
