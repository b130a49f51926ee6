package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/google/uuid"
	"github.com/tartampluch/go-phonebook/internal/book"
	"github.com/tartampluch/go-phonebook/internal/config"
)

// uidNamespace scopes the name-based UUIDs written to the UID field.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte(config.UIDNamespaceSeed))

// Contact is the raw, unvalidated content of one vCard.
type Contact struct {
	Name     string
	Phones   []string
	Birthday string // DD.MM.YYYY, empty when absent or year unknown
}

// MergeStats summarizes what Merge did.
type MergeStats struct {
	Contacts         int
	Created          int
	PhonesSkipped    int
	BirthdaysSkipped int
}

// ContactUID returns the stable UID written for a contact name.
func ContactUID(name string) string {
	return config.VCardUIDPrefix + uuid.NewSHA1(uidNamespace, []byte(name)).String()
}

// EncodeRecords writes one VERSION 4.0 vCard per record, in order.
func EncodeRecords(w io.Writer, records []*book.Record) error {
	enc := vcard.NewEncoder(w)
	for _, r := range records {
		card := make(vcard.Card)
		card.SetValue(vcard.FieldUID, ContactUID(r.Name().String()))
		card.SetValue(vcard.FieldFormattedName, r.Name().String())
		for _, p := range r.PhoneValues() {
			card.AddValue(vcard.FieldTelephone, p)
		}
		if b := r.Birthday(); b != nil {
			card.SetValue(vcard.FieldBirthday, b.Date().Format(config.DateFormatFullDash))
		}
		vcard.ToV4(card)

		if err := enc.Encode(card); err != nil {
			return fmt.Errorf("%s: %w", config.ErrVCardEncode, err)
		}
	}
	return nil
}

// DecodeContacts reads every card from r. Cards without a usable name are skipped;
// a syntax error in the stream aborts the decode.
func DecodeContacts(ctx context.Context, r io.Reader) ([]Contact, error) {
	dec := vcard.NewDecoder(r)
	var out []Contact

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
		}

		// Name Strategy: FN (Formatted) > N (Structured)
		name := card.Value(vcard.FieldFormattedName)
		if name == "" {
			if n := card.Name(); n != nil {
				name = joinNonEmpty(n.GivenName, n.FamilyName)
			}
		}
		if name == "" {
			slog.Debug(config.MsgSkippedName, config.LogKeyComponent, config.CompStorage)
			continue
		}

		c := Contact{Name: name, Phones: card.Values(vcard.FieldTelephone)}
		if bday := card.Value(vcard.FieldBirthday); bday != "" {
			if t, yearKnown, err := parseVCardDate(bday); err == nil && yearKnown {
				c.Birthday = t.Format(config.DateFormatBirthday)
			} else {
				slog.Debug(config.MsgSkippedDate,
					config.LogKeyComponent, config.CompStorage,
					config.LogKeyName, name,
					config.LogKeyValue, bday)
			}
		}
		out = append(out, c)
	}
	return out, nil
}

// Merge folds contacts into dir by name: unknown names create a record, known
// names gain the new phones, and a valid birthday replaces the stored one.
// Invalid phones and birthdays are skipped and counted.
func Merge(dir *book.Directory, contacts []Contact) MergeStats {
	var stats MergeStats
	for _, c := range contacts {
		stats.Contacts++

		rec, ok := dir.Find(c.Name)
		if !ok {
			rec = book.NewRecord(c.Name)
			dir.AddRecord(rec)
			stats.Created++
		}

		for _, p := range c.Phones {
			if err := rec.AddPhone(p); err != nil {
				stats.PhonesSkipped++
				slog.Warn(config.MsgSkippedPhone,
					config.LogKeyComponent, config.CompStorage,
					config.LogKeyName, c.Name,
					config.LogKeyValue, p)
			}
		}

		if c.Birthday != "" {
			if err := rec.AddBirthday(c.Birthday); err != nil {
				stats.BirthdaysSkipped++
			}
		}
	}
	return stats
}

// parseVCardDate handles the BDAY forms found in the wild.
// The boolean reports whether the year was present.
func parseVCardDate(value string) (time.Time, bool, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, true, nil
		}
	}

	// Truncated dates (Year unknown), normalized onto a leap year.
	for _, f := range []string{config.DateFormatNoYearD, config.DateFormatNoYearB} {
		if t, err := time.Parse(f, value); err == nil {
			return time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), false, nil
		}
	}

	return time.Time{}, false, errors.New(config.ErrDateParse)
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	return out
}
