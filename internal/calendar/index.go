// Package calendar answers year-agnostic questions over a birthday
// collection: what falls on a given day, what falls in a month, what comes
// next. It also converts collections to and from iCalendar and vCard.
package calendar

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tartampluch/birthdays/internal/codec"
	"github.com/tartampluch/birthdays/internal/config"
	"github.com/tartampluch/birthdays/internal/model"
)

// ErrMonthRange is returned, together with codec.ErrInvalidDate, for a month
// outside 1-12.
var ErrMonthRange = errors.New(config.ErrMonthRange)

// Index maps "MM-DD" to the records born on that month and day, whatever
// the year. It is derived from a record collection and never mutated after
// Rebuild; a changed collection gets a new Index. Records going in and out
// are cloned.
type Index struct {
	records []model.Record
	days    map[string][]int
	months  [13][]int
}

// Rebuild indexes records in one pass. Bucket order is the order of records.
func Rebuild(records []model.Record) *Index {
	ix := &Index{
		records: make([]model.Record, len(records)),
		days:    make(map[string][]int, len(records)),
	}
	for i, r := range records {
		ix.records[i] = r.Clone()
	}

	for i, r := range ix.records {
		key := r.BirthdayDate.Key()
		ix.days[key] = append(ix.days[key], i)
		if m := r.BirthdayDate.Month; m >= time.January && m <= time.December {
			ix.months[m] = append(ix.months[m], i)
		}
	}
	return ix
}

// Len is the number of indexed records.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.records)
}

// OnDate returns the records sharing d's month and day. d.Year is ignored.
func (ix *Index) OnDate(d model.Date) []model.Record {
	if ix == nil {
		return []model.Record{}
	}
	return ix.pick(ix.days[d.Key()])
}

// OnISODate decodes a YYYY-MM-DD date of any year and returns OnDate.
func (ix *Index) OnISODate(s string) ([]model.Record, error) {
	d, err := codec.DecodeDate(s)
	if err != nil {
		return nil, err
	}
	return ix.OnDate(d), nil
}

// InMonth returns every record born in month (1-12), in collection order.
func (ix *Index) InMonth(month int) ([]model.Record, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: %w: %d", codec.ErrInvalidDate, ErrMonthRange, month)
	}
	if ix == nil {
		return []model.Record{}, nil
	}
	return ix.pick(ix.months[month]), nil
}

// Keys returns the occupied "MM-DD" keys in calendar order.
func (ix *Index) Keys() []string {
	if ix == nil {
		return nil
	}
	keys := make([]string, 0, len(ix.days))
	for k := range ix.days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Marked projects every occupied month/day onto year, one date per key.
// The dates are not normalized, so Feb 29 stays Feb 29 in a common year.
func (ix *Index) Marked(year int) []model.Date {
	keys := ix.Keys()
	out := make([]model.Date, 0, len(keys))
	for _, k := range keys {
		r := ix.records[ix.days[k][0]]
		out = append(out, model.Date{Year: year, Month: r.BirthdayDate.Month, Day: r.BirthdayDate.Day})
	}
	return out
}

// Records returns a copy of the indexed collection.
func (ix *Index) Records() []model.Record {
	if ix == nil {
		return []model.Record{}
	}
	out := make([]model.Record, len(ix.records))
	for i, r := range ix.records {
		out[i] = r.Clone()
	}
	return out
}

func (ix *Index) pick(positions []int) []model.Record {
	out := make([]model.Record, 0, len(positions))
	for _, p := range positions {
		out = append(out, ix.records[p].Clone())
	}
	return out
}
