package book

import (
	"time"

	"github.com/tartampluch/go-phonebook/internal/config"
)

// Upcoming is one entry of the "birthdays" report.
type Upcoming struct {
	Name Name

	// CongratulationDate is the next occurrence of the birthday, moved to the
	// following Monday when it falls on a weekend.
	CongratulationDate time.Time
}

// FormattedDate renders CongratulationDate as DD.MM.YYYY.
func (u Upcoming) FormattedDate() string {
	return u.CongratulationDate.Format(config.DateFormatBirthday)
}

// UpcomingBirthdays lists contacts whose next birthday is between today and
// today+7 days inclusive, in directory order. Time of day in now is ignored.
func (d *Directory) UpcomingBirthdays(now time.Time) []Upcoming {
	today := startOfDay(now)
	limit := today.AddDate(0, 0, config.UpcomingWindowDays)

	var out []Upcoming
	for _, r := range d.Records() {
		if r.birthday == nil {
			continue
		}
		next := NextOccurrence(now, r.birthday.Date())
		if next.After(limit) {
			continue
		}
		out = append(out, Upcoming{
			Name:               r.name,
			CongratulationDate: shiftWeekend(next),
		})
	}
	return out
}

// NextOccurrence returns the first date on or after the calendar day of now
// that has birthDate's month and day, in now's location.
// time.Date normalizes Feb 29 to March 1 in non-leap years.
func NextOccurrence(now time.Time, birthDate time.Time) time.Time {
	loc := now.Location()
	today := startOfDay(now)

	candidate := time.Date(now.Year(), birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)
	if candidate.Before(today) {
		candidate = time.Date(now.Year()+1, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)
	}
	return candidate
}

// shiftWeekend moves Saturday and Sunday to the next Monday.
func shiftWeekend(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, 2)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
