package calendar

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/teambition/rrule-go"
	"github.com/tartampluch/birthdays/internal/config"
	"github.com/tartampluch/birthdays/internal/model"
)

// Exporter renders a birthday collection as an iCalendar feed with one
// yearly recurring all-day event per record.
type Exporter struct {
	Clock Clock

	// FormatSummary lets the caller inject localized event titles.
	FormatSummary func(r model.Record) string
}

// NewExporter returns an Exporter using the real clock and default titles.
func NewExporter() *Exporter {
	return &Exporter{Clock: RealClock{}}
}

// Export encodes records. Records whose date does not exist in its own year
// (Feb 30, Feb 29 of a common year) cannot anchor a recurrence and are skipped.
func (e *Exporter) Export(ctx context.Context, records []model.Record) ([]byte, error) {
	start := time.Now()
	log := slog.With(config.LogKeyComponent, config.CompCalendar)

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(e.now().UTC())

	skipped := 0
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		first := r.BirthdayDate.Time(time.UTC)
		if model.DateOf(first) != r.BirthdayDate {
			skipped++
			log.Debug(config.MsgSkippedDate,
				config.LogKeyID, r.ID,
				config.LogKeyValue, r.BirthdayDate.Key())
			continue
		}

		event := e.createEvent(r, first)
		event.Props.Set(dtStampProp)
		cal.Children = append(cal.Children, event.Component)
	}

	if len(cal.Children) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	log.Info(config.MsgExportDone,
		config.LogKeyCount, len(cal.Children),
		config.LogKeySkipped, skipped,
		config.LogKeyDuration, time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

func (e *Exporter) now() time.Time {
	if e.Clock == nil {
		return time.Now()
	}
	return e.Clock.Now()
}

func (e *Exporter) createEvent(r model.Record, first time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, r.ID, config.ICalDomain))

	summary := defaultSummary(r)
	if e.FormatSummary != nil {
		summary = e.FormatSummary(r)
	}
	event.Props.SetText(config.PropSummary, summary)
	if r.Notes != "" {
		event.Props.SetText(config.PropDescription, r.Notes)
	}
	if r.Relationship != "" {
		event.Props.SetText(config.PropCategories, r.Relationship)
	}

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(first)
	event.Props.Set(dtStartProp)

	event.Props.SetRecurrenceRule(&rrule.ROption{Freq: rrule.YEARLY})

	if r.ReminderEnabled && r.ReminderTime != nil {
		addAlarm(event, formatTrigger(*r.ReminderTime), summary)
	}
	return event
}

func defaultSummary(r model.Record) string {
	if r.Relationship != "" {
		return fmt.Sprintf(config.FallbackSummaryRel, r.Name, r.Relationship)
	}
	return fmt.Sprintf(config.FallbackSummary, r.Name)
}

// addAlarm appends a DISPLAY alarm fired at the reminder time of the day.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

// formatTrigger renders the offset from the start of the all-day event as
// an RFC 5545 duration, e.g. PT9H30M.
func formatTrigger(t model.TimeOfDay) string {
	var b strings.Builder
	b.WriteString("PT")
	if t.Hour > 0 {
		fmt.Fprintf(&b, "%dH", t.Hour)
	}
	if t.Minute > 0 || t.Hour == 0 {
		fmt.Fprintf(&b, "%dM", t.Minute)
	}
	return b.String()
}
