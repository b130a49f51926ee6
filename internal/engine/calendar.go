package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-phonebook/internal/book"
	"github.com/tartampluch/go-phonebook/internal/config"
	"github.com/tartampluch/go-phonebook/internal/storage"
)

// Generator turns the address book into an iCalendar birthday feed.
type Generator struct {
	Clock Clock // Interface for time mocking.

	// FormatSummary allows callers to inject localized event titles.
	FormatSummary func(name string, age int) string

	// ReminderTrigger is an ISO8601 duration ("-P1D"); empty disables alarms.
	ReminderTrigger string
}

// Entries lists contacts with a birthday, soonest first. Ties keep directory order.
func (g *Generator) Entries(dir *book.Directory) []BirthdayEntry {
	now := g.Clock.Now()

	var entries []BirthdayEntry
	for _, r := range dir.Records() {
		b := r.Birthday()
		if b == nil {
			continue
		}
		dob := b.Date()
		next := book.NextOccurrence(now, dob)
		entries = append(entries, BirthdayEntry{
			UID:            strings.TrimPrefix(storage.ContactUID(r.Name().String()), config.VCardUIDPrefix),
			Name:           r.Name().String(),
			DateOfBirth:    dob,
			NextOccurrence: next,
			AgeNext:        next.Year() - dob.Year(),
		})
	}

	slices.SortStableFunc(entries, func(a, b BirthdayEntry) int {
		return a.NextOccurrence.Compare(b.NextOccurrence)
	})
	return entries
}

// BuildCalendar renders one event per contact for the previous, current and
// next year. It returns the ICS data and the number of birthdays today.
func (g *Generator) BuildCalendar(ctx context.Context, dir *book.Directory) ([]byte, int, error) {
	start := time.Now()

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986: Suggest a refresh interval
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// Local time decides "today"; only the stamp is UTC.
	now := g.Clock.Now()
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	entries := g.Entries(dir)
	today := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		events, isToday := g.createEvents(e, now)
		if isToday {
			today++
			slog.Info("Birthday found today",
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, e.Name)
		}
		for _, ev := range events {
			ev.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, ev.Component)
		}
	}

	// An empty VCALENDAR is still served so clients don't flag the feed as invalid.
	if len(cal.Children) == 0 {
		g.logSuccess(len(entries), 0, start)
		return []byte(config.StubVCalendar), 0, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	g.logSuccess(len(entries), len(cal.Children), start)
	return buf.Bytes(), today, nil
}

func (g *Generator) logSuccess(contacts, events int, start time.Time) {
	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyContacts, contacts),
			slog.Int(config.LogKeyEvents, events),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
}

// createEvents builds events for CurrentYear-1..CurrentYear+1, never before birth.
func (g *Generator) createEvents(e BirthdayEntry, now time.Time) ([]*ical.Event, bool) {
	currentYear := now.Year()
	loc := now.Location()
	todayYear, todayMonth, todayDay := now.Date()

	var events []*ical.Event
	isToday := false

	for _, y := range []int{currentYear - 1, currentYear, currentYear + 1} {
		if y < e.DateOfBirth.Year() {
			continue
		}

		age := y - e.DateOfBirth.Year()
		summary := fmt.Sprintf(config.FallbackSummaryAge, e.Name, age)
		if g.FormatSummary != nil {
			summary = g.FormatSummary(e.Name, age)
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, e.UID, y, config.ICalDomain))
		event.Props.SetText(config.PropSummary, summary)

		// time.Date normalizes Feb 29 to March 1 in non-leap years.
		eventDate := time.Date(y, e.DateOfBirth.Month(), e.DateOfBirth.Day(), 0, 0, 0, 0, loc)
		if y == todayYear && eventDate.Month() == todayMonth && eventDate.Day() == todayDay {
			isToday = true
		}

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(eventDate)
		event.Props.Set(dtStartProp)

		if g.ReminderTrigger != "" {
			addAlarm(event, g.ReminderTrigger, summary)
		}
		events = append(events, event)
	}
	return events, isToday
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
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
