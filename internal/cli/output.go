package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/tartampluch/birthdays/internal/calendar"
	"github.com/tartampluch/birthdays/internal/codec"
	"github.com/tartampluch/birthdays/internal/config"
	"github.com/tartampluch/birthdays/internal/model"
	"github.com/tartampluch/birthdays/internal/prefs"
)

func (a *App) table(header []string, rows [][]string) error {
	w := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func (a *App) col(key string) string {
	return a.env.tr.Msg(key)
}

func (a *App) printRecords(records []model.Record) error {
	if len(records) == 0 {
		a.say(config.TKeyMsgNone)
		return nil
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.ID, r.Name, formatDate(r.BirthdayDate), r.Relationship, a.formatReminder(r.ReminderEnabled, r.ReminderTime)})
	}
	return a.table([]string{
		a.col(config.TKeyColID),
		a.col(config.TKeyColName),
		a.col(config.TKeyColDate),
		a.col(config.TKeyColRelationship),
		a.col(config.TKeyColReminder),
	}, rows)
}

func (a *App) printRecord(r model.Record) error {
	return a.table([]string{a.col(config.TKeyColID), r.ID}, [][]string{
		{a.col(config.TKeyColName), r.Name},
		{a.col(config.TKeyColDate), formatDate(r.BirthdayDate)},
		{a.col(config.TKeyColRelationship), r.Relationship},
		{a.col(config.TKeyColPhone), r.Phone},
		{a.col(config.TKeyColEmail), r.Email},
		{a.col(config.TKeyColNotes), r.Notes},
		{a.col(config.TKeyColReminder), a.formatReminder(r.ReminderEnabled, r.ReminderTime)},
		{a.col(config.TKeyColPhoto), r.PhotoOrDefault()},
	})
}

func (a *App) printDrafts(drafts []model.Draft) error {
	if len(drafts) == 0 {
		a.say(config.TKeyMsgNone)
		return nil
	}
	rows := make([][]string, 0, len(drafts))
	for _, d := range drafts {
		date := ""
		if d.BirthdayDate != nil {
			date = formatDate(*d.BirthdayDate)
		}
		rows = append(rows, []string{d.Name, date, d.Phone, d.Email})
	}
	return a.table([]string{
		a.col(config.TKeyColName),
		a.col(config.TKeyColDate),
		a.col(config.TKeyColPhone),
		a.col(config.TKeyColEmail),
	}, rows)
}

func (a *App) printUpcoming(items []calendar.Occurrence) error {
	if len(items) == 0 {
		a.say(config.TKeyMsgNone)
		return nil
	}
	rows := make([][]string, 0, len(items))
	for _, o := range items {
		in := strconv.Itoa(o.DaysUntil)
		if o.DaysUntil == 0 {
			in = a.col(config.TKeyLblToday)
		}
		age := ""
		if o.AgeNext > 0 {
			age = strconv.Itoa(o.AgeNext)
		}
		rows = append(rows, []string{o.Record.Name, formatDate(model.DateOf(o.Next)), in, age})
	}
	return a.table([]string{
		a.col(config.TKeyColName),
		a.col(config.TKeyColDate),
		a.col(config.TKeyColInDays),
		a.col(config.TKeyColAge),
	}, rows)
}

func (a *App) printSettings(p *prefs.Preferences) error {
	return a.table([]string{config.PrefFont, p.Font}, [][]string{
		{config.PrefTheme, p.Theme},
		{config.PrefLanguage, p.Language},
	})
}

// formatDate falls back to the raw fields for dates the codec rejects.
func formatDate(d model.Date) string {
	if s, err := codec.EncodeDate(d); err == nil {
		return s
	}
	return fmt.Sprintf(config.FormatDate, d.Year, int(d.Month), d.Day)
}

func (a *App) formatReminder(enabled bool, t *model.TimeOfDay) string {
	if !enabled || t == nil {
		return a.col(config.TKeyLblOff)
	}
	return fmt.Sprintf(config.FormatClock, t.Hour, t.Minute)
}
