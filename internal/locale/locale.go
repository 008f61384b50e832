// Package locale turns message keys and core errors into user-facing text.
package locale

import (
	"embed"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/birthdays/internal/api"
	"github.com/tartampluch/birthdays/internal/auth"
	"github.com/tartampluch/birthdays/internal/calendar"
	"github.com/tartampluch/birthdays/internal/codec"
	"github.com/tartampluch/birthdays/internal/config"
	"github.com/tartampluch/birthdays/internal/model"
	"github.com/tartampluch/birthdays/internal/prefs"
	"github.com/tartampluch/birthdays/internal/session"
	"github.com/tartampluch/birthdays/internal/store"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator localizes messages for one language.
type Translator struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	languages []string
}

// New loads the embedded catalogs and selects lang, falling back to English.
func New(lang string) *Translator {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	t := &Translator{bundle: bundle}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		t.languages = append(t.languages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
		)
	}

	t.SetLanguage(lang)
	return t
}

// Languages lists the loaded catalogs.
func (t *Translator) Languages() []string {
	return append([]string(nil), t.languages...)
}

// SetLanguage switches the active language.
func (t *Translator) SetLanguage(lang string) {
	if lang == "" {
		lang = config.DefaultLanguage
	}
	t.localizer = i18n.NewLocalizer(t.bundle, lang, config.DefaultLanguage)
}

// Msg translates key; the key itself is returned when it is unknown.
func (t *Translator) Msg(key string) string {
	return t.Format(key, nil)
}

// Format translates key with template data.
func (t *Translator) Format(key string, data map[string]any) string {
	if t == nil || t.localizer == nil {
		return key
	}
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}

// Summary is the localized calendar event title of r.
func (t *Translator) Summary(r model.Record) string {
	if r.Relationship != "" {
		return t.Format(config.TKeyEvtSummaryRel, map[string]any{"Name": r.Name, "Relationship": r.Relationship})
	}
	return t.Format(config.TKeyEvtSummary, map[string]any{"Name": r.Name})
}

// Describe maps an error of the core taxonomy to a user-facing message.
func (t *Translator) Describe(err error) string {
	if err == nil {
		return ""
	}
	return t.Msg(describeKey(err))
}

func describeKey(err error) string {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return validationKey(ve)
	}

	switch {
	case errors.Is(err, auth.ErrPasswordMismatch):
		return config.TKeyErrPasswordMatch
	case errors.Is(err, auth.ErrLogin):
		return config.TKeyErrLogin
	case errors.Is(err, auth.ErrRegister):
		return config.TKeyErrRegister
	case errors.Is(err, auth.ErrNoToken):
		return config.TKeyErrNoToken
	case errors.Is(err, session.ErrNoCredential):
		return config.TKeyErrNotLoggedIn
	case errors.Is(err, api.ErrUnauthorized):
		return config.TKeyErrUnauthorized
	case errors.Is(err, store.ErrNotFound), errors.Is(err, api.ErrNotFound):
		return config.TKeyErrNotFound
	case errors.Is(err, store.ErrFetch):
		return config.TKeyErrFetch
	case errors.Is(err, store.ErrCreate):
		return config.TKeyErrCreate
	case errors.Is(err, store.ErrUpdate):
		return config.TKeyErrUpdate
	case errors.Is(err, store.ErrDelete):
		return config.TKeyErrDelete
	case errors.Is(err, api.ErrUnavailable):
		return config.TKeyErrUnavailable
	case errors.Is(err, calendar.ErrMonthRange):
		return config.TKeyErrMonthRange
	case errors.Is(err, codec.ErrParse), errors.Is(err, codec.ErrInvalidDate), errors.Is(err, codec.ErrInvalidTime):
		return config.TKeyErrParse
	case errors.Is(err, prefs.ErrInvalid):
		return config.TKeyErrPrefs
	}
	return config.TKeyErrUnexpected
}

func validationKey(ve *model.ValidationError) string {
	switch ve.Field {
	case model.FieldName:
		return config.TKeyErrNameRequired
	case model.FieldBirthdayDate:
		if ve.Reason != "" {
			return config.TKeyErrDateInvalid
		}
		return config.TKeyErrDateRequired
	case model.FieldReminderTime:
		if ve.Reason != "" {
			return config.TKeyErrTimeInvalid
		}
		return config.TKeyErrTimeRequired
	case model.FieldID:
		return config.TKeyErrIDRequired
	}
	return config.TKeyErrUnexpected
}

// ServerMessage returns the server supplied explanation carried by err, if
// any, for callers that show it next to Describe.
func ServerMessage(err error) string {
	var se *api.StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}
