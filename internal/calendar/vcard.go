package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/birthdays/internal/config"
	"github.com/tartampluch/birthdays/internal/model"
)

// maxDecodeErrors bounds consecutive decoder failures, so a broken stream
// cannot keep the import loop spinning.
const maxDecodeErrors = 16

// ImportVCards decodes a vCard stream into drafts ready for creation.
// Cards without a parsable BDAY are skipped; malformed cards are logged and
// skipped. The returned count is the number of cards read.
func ImportVCards(ctx context.Context, r io.Reader) ([]model.Draft, int, error) {
	log := slog.With(config.LogKeyComponent, config.CompCalendar)
	decoder := vcard.NewDecoder(r)

	var drafts []model.Draft
	processed, failures := 0, 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, processed, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			failures++
			if failures >= maxDecodeErrors {
				return nil, processed, fmt.Errorf("%s: %w", config.ErrVCardDecode, err)
			}
			log.Warn(config.MsgSkippedCard, config.LogKeyError, err)
			continue
		}
		failures = 0
		processed++

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}
		date, err := parseDate(bday.Value)
		if err != nil {
			log.Debug(config.MsgSkippedDate, config.LogKeyValue, bday.Value)
			continue
		}

		drafts = append(drafts, draftFromCard(card, date))
	}

	log.Info(config.MsgImportDone,
		config.LogKeyCount, len(drafts),
		config.LogKeySkipped, processed-len(drafts))
	return drafts, processed, nil
}

func draftFromCard(card vcard.Card, date model.Date) model.Draft {
	d := model.Draft{
		Name:         cardName(card),
		BirthdayDate: &date,
		Phone:        card.PreferredValue(config.VCardTEL),
		Email:        card.PreferredValue(config.VCardEMAIL),
		Notes:        card.Value(config.VCardNOTE),
	}
	// Inline base64 photos are not references; only URIs are kept.
	if photo := card.Value(config.VCardPHOTO); strings.HasPrefix(photo, config.SchemeHTTP) {
		d.Photo = photo
	}
	return d
}

// cardName prefers FN, then the structured N, then a fallback.
func cardName(card vcard.Card) string {
	if fn := strings.TrimSpace(card.Value(config.VCardFN)); fn != "" {
		return fn
	}
	if n := card.Name(); n != nil {
		full := strings.TrimSpace(strings.Join([]string{n.GivenName, n.FamilyName}, " "))
		if full != "" {
			return full
		}
	}
	return config.FallbackName
}

// parseDate handles the vCard BDAY formats. Yearless dates (--MM-DD) get
// config.UnknownBirthYear.
func parseDate(value string) (model.Date, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return model.DateOf(t), nil
		}
	}

	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			return model.Date{Year: config.UnknownBirthYear, Month: t.Month(), Day: t.Day()}, nil
		}
	}

	return model.Date{}, errors.New(config.ErrDateParse)
}
