package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tartampluch/birthdays/internal/codec"
	"github.com/tartampluch/birthdays/internal/config"
	"github.com/tartampluch/birthdays/internal/model"
)

// wireDraft is the request body of create and update.
type wireDraft struct {
	Name         string  `json:"name"`
	BirthdayDate string  `json:"birthday_date"`
	Relationship string  `json:"relationship"`
	Phone        string  `json:"phone"`
	Email        string  `json:"email"`
	Notes        string  `json:"notes"`
	Reminder     bool    `json:"reminder"`
	ReminderTime *string `json:"reminder_time"`
	Photo        *string `json:"photo"`
}

// wireRecord is a record as returned by the server.
type wireRecord struct {
	ID           wireID   `json:"id"`
	Name         string   `json:"name"`
	BirthdayDate string   `json:"birthday_date"`
	Relationship string   `json:"relationship"`
	Phone        string   `json:"phone"`
	Email        string   `json:"email"`
	Notes        string   `json:"notes"`
	Reminder     wireBool `json:"reminder"`
	ReminderTime *string  `json:"reminder_time"`
	Photo        *string  `json:"photo"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// wireID accepts numeric and string identifiers.
type wireID string

func (id *wireID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = wireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = wireID(n.String())
	return nil
}

// wireBool accepts JSON booleans as well as 0/1 flags.
type wireBool bool

func (b *wireBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	switch s {
	case "", "null":
		*b = false
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("reminder flag %q: %w", s, err)
	}
	*b = wireBool(v)
	return nil
}

// encodeDraft serializes a validated draft. The reminder time is sent only
// when the reminder is enabled, and null otherwise.
func encodeDraft(d model.Draft) (wireDraft, error) {
	d = d.Normalize()

	date, err := codec.EncodeDate(*d.BirthdayDate)
	if err != nil {
		return wireDraft{}, err
	}
	w := wireDraft{
		Name:         strings.TrimSpace(d.Name),
		BirthdayDate: date,
		Relationship: d.Relationship,
		Phone:        d.Phone,
		Email:        d.Email,
		Notes:        d.Notes,
		Reminder:     d.ReminderEnabled,
	}
	if d.ReminderEnabled && d.ReminderTime != nil {
		t, err := codec.EncodeTime(*d.ReminderTime)
		if err != nil {
			return wireDraft{}, err
		}
		w.ReminderTime = &t
	}
	if d.Photo != "" {
		photo := d.Photo
		w.Photo = &photo
	}
	return w, nil
}

// decodeRecord converts a server record. Records without id are rejected
// since ids are only ever assigned by the server.
func decodeRecord(w wireRecord) (model.Record, error) {
	if w.ID == "" {
		return model.Record{}, fmt.Errorf("%w: %s: %s", ErrBadResponse, model.FieldID, config.ErrFieldRequired)
	}

	date, err := codec.DecodeDate(dateOnly(w.BirthdayDate))
	if err != nil {
		return model.Record{}, fmt.Errorf("%w: record %s: %w", ErrBadResponse, w.ID, err)
	}

	r := model.Record{
		ID:              string(w.ID),
		Name:            w.Name,
		BirthdayDate:    date,
		Relationship:    w.Relationship,
		Phone:           w.Phone,
		Email:           w.Email,
		Notes:           w.Notes,
		ReminderEnabled: bool(w.Reminder),
	}
	if w.ReminderTime != nil && *w.ReminderTime != "" {
		t, err := codec.DecodeTime(*w.ReminderTime)
		if err != nil {
			return model.Record{}, fmt.Errorf("%w: record %s: %w", ErrBadResponse, w.ID, err)
		}
		r.ReminderTime = &t
	}
	if w.Photo != nil {
		r.Photo = *w.Photo
	}
	return r.Normalize(), nil
}

// dateOnly strips a time suffix some backends append to date columns
// ("1990-05-10T00:00:00.000000Z", "1990-05-10 00:00:00").
func dateOnly(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 10 && (s[10] == 'T' || s[10] == ' ') {
		return s[:10]
	}
	return s
}

// unwrap returns the payload of a {"data": ...} envelope, or body itself.
func unwrap(body []byte) []byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil || len(env.Data) == 0 {
		return trimmed
	}
	if d := bytes.TrimSpace(env.Data); len(d) > 0 && (d[0] == '{' || d[0] == '[') {
		return d
	}
	return trimmed
}

func decodeJSON(body []byte, v any) error {
	if err := json.Unmarshal(unwrap(body), v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	return nil
}

// serverMessage extracts the "message" field of an error body, if any.
func serverMessage(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	return e.Message
}
