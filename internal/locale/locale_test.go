package locale_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/birthdays/internal/api"
	"github.com/tartampluch/birthdays/internal/auth"
	"github.com/tartampluch/birthdays/internal/calendar"
	"github.com/tartampluch/birthdays/internal/codec"
	"github.com/tartampluch/birthdays/internal/config"
	"github.com/tartampluch/birthdays/internal/locale"
	"github.com/tartampluch/birthdays/internal/model"
	"github.com/tartampluch/birthdays/internal/session"
	"github.com/tartampluch/birthdays/internal/store"
)

var translationKeys = []string{
	config.TKeyErrNameRequired,
	config.TKeyErrDateRequired,
	config.TKeyErrDateInvalid,
	config.TKeyErrTimeRequired,
	config.TKeyErrTimeInvalid,
	config.TKeyErrIDRequired,
	config.TKeyErrFetch,
	config.TKeyErrCreate,
	config.TKeyErrUpdate,
	config.TKeyErrDelete,
	config.TKeyErrNotFound,
	config.TKeyErrUnauthorized,
	config.TKeyErrUnavailable,
	config.TKeyErrLogin,
	config.TKeyErrRegister,
	config.TKeyErrNoToken,
	config.TKeyErrPasswordMatch,
	config.TKeyErrParse,
	config.TKeyErrPrefs,
	config.TKeyErrMonthRange,
	config.TKeyErrUnexpected,
	config.TKeyErrNotLoggedIn,
	config.TKeyMsgSaved,
	config.TKeyMsgUpdated,
	config.TKeyMsgDeleted,
	config.TKeyMsgLoggedIn,
	config.TKeyMsgRegistered,
	config.TKeyMsgLoggedOut,
	config.TKeyMsgNone,
	config.TKeyMsgImported,
	config.TKeyMsgExported,
	config.TKeyMsgServing,
	config.TKeyEvtSummary,
	config.TKeyEvtSummaryRel,
	config.TKeyColID,
	config.TKeyColName,
	config.TKeyColDate,
	config.TKeyColRelationship,
	config.TKeyColPhone,
	config.TKeyColEmail,
	config.TKeyColNotes,
	config.TKeyColReminder,
	config.TKeyColPhoto,
	config.TKeyColInDays,
	config.TKeyColAge,
	config.TKeyLblToday,
	config.TKeyLblOff,
}

// TestI18nIntegrity ensures that every translation key defined in config.go
// exists in each locale file, and that no locale carries orphan keys.
func TestI18nIntegrity(t *testing.T) {
	defined := make(map[string]bool, len(translationKeys))
	for _, k := range translationKeys {
		defined[k] = true
	}

	for _, lang := range config.SupportedLanguages {
		t.Run(lang, func(t *testing.T) {
			content, err := os.ReadFile(filepath.Join("locales", "active."+lang+".json"))
			require.NoError(t, err)

			var jsonMap map[string]any
			require.NoError(t, json.Unmarshal(content, &jsonMap), "JSON must be valid")

			for key := range defined {
				_, exists := jsonMap[key]
				assert.Truef(t, exists, "Key '%s' is missing in active.%s.json", key, lang)
			}
			for jsonKey := range jsonMap {
				if strings.HasPrefix(jsonKey, "_") {
					continue
				}
				assert.Truef(t, defined[jsonKey], "Key '%s' in active.%s.json is not defined in config.go", jsonKey, lang)
			}
		})
	}
}

func TestTranslator_Languages(t *testing.T) {
	tr := locale.New("en")
	assert.ElementsMatch(t, config.SupportedLanguages, tr.Languages())
}

func TestTranslator_Msg(t *testing.T) {
	tr := locale.New("es")
	assert.Equal(t, "Cumpleaños guardado", tr.Msg(config.TKeyMsgSaved))

	tr.SetLanguage("en")
	assert.Equal(t, "Birthday saved", tr.Msg(config.TKeyMsgSaved))

	assert.Equal(t, "no_such_key", tr.Msg("no_such_key"), "Unknown keys fall back to the key")

	fallback := locale.New("fr")
	assert.Equal(t, "Birthday saved", fallback.Msg(config.TKeyMsgSaved), "Unsupported languages fall back to English")
}

func TestTranslator_Format(t *testing.T) {
	tr := locale.New("es")
	got := tr.Format(config.TKeyMsgImported, map[string]any{"Count": 2, "Total": 3})
	assert.Equal(t, "2 de 3 contactos importados", got)
}

func TestTranslator_Summary(t *testing.T) {
	tr := locale.New("en")
	r := model.Record{Name: "Ana", BirthdayDate: model.Date{Year: 1990, Month: time.May, Day: 10}}
	assert.Equal(t, "🎂 Ana", tr.Summary(r))

	r.Relationship = "Sister"
	assert.Equal(t, "🎂 Ana (Sister)", tr.Summary(r))
}

func TestTranslator_Describe(t *testing.T) {
	tr := locale.New("es")
	unauthorized := fmt.Errorf("%w: %w", api.ErrUnauthorized, &api.StatusError{Code: 401})

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"Nil", nil, ""},
		{"Missing name", &model.ValidationError{Field: model.FieldName}, "El nombre es obligatorio"},
		{"Missing date", &model.ValidationError{Field: model.FieldBirthdayDate}, "La fecha de cumpleaños es obligatoria"},
		{"Invalid time", &model.ValidationError{Field: model.FieldReminderTime, Reason: config.ErrInvalidTime}, "La hora del recordatorio no es válida"},
		{"Password mismatch", auth.ErrPasswordMismatch, "Las contraseñas no coinciden"},
		{"Bad credentials", fmt.Errorf("%w: %w", auth.ErrLogin, unauthorized), "Credenciales incorrectas"},
		{"Expired session", fmt.Errorf("%w: %w", store.ErrFetch, unauthorized), "Tu sesión ha expirado, inicia sesión de nuevo"},
		{"Fetch", fmt.Errorf("%w: %w", store.ErrFetch, api.ErrUnavailable), "No se pudo obtener la lista de cumpleaños"},
		{"Create", fmt.Errorf("%w: boom", store.ErrCreate), "No se pudo guardar el cumpleaños"},
		{"Delete", fmt.Errorf("%w: %w", store.ErrDelete, &api.StatusError{Code: 500}), "No se pudo eliminar el cumpleaños"},
		{"Not found", fmt.Errorf("%w: %w", store.ErrNotFound, api.ErrNotFound), "No se pudo cargar el cumpleaños"},
		{"Parse", fmt.Errorf("%w: x", codec.ErrParse), "Usa AAAA-MM-DD para fechas y HH:mm para horas"},
		{"Month", fmt.Errorf("%w: %w", codec.ErrInvalidDate, calendar.ErrMonthRange), "El mes debe estar entre 1 y 12"},
		{"No session", session.ErrNoCredential, "No has iniciado sesión"},
		{"Unknown", errors.New("disk on fire"), "Error inesperado"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Describe(tt.err))
		})
	}
}

func TestServerMessage(t *testing.T) {
	err := fmt.Errorf("%w: %w", auth.ErrRegister, &api.StatusError{Code: 422, Message: "The email has already been taken."})
	assert.Equal(t, "The email has already been taken.", locale.ServerMessage(err))
	assert.Empty(t, locale.ServerMessage(errors.New("plain")))
}
