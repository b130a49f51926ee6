package engine_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-phonebook/internal/book"
	"github.com/tartampluch/go-phonebook/internal/config"
	"github.com/tartampluch/go-phonebook/internal/engine"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockFetcher simulates the network layer for unit tests using `testify/mock`.
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, src engine.Remote) (io.ReadCloser, error) {
	args := m.Called(ctx, src)
	if r := args.Get(0); r != nil {
		return r.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

func newDirectory(t *testing.T, people map[string]string) *book.Directory {
	t.Helper()
	dir := book.NewDirectory()
	for name, bday := range people {
		rec := book.NewRecord(name)
		if bday != "" {
			require.NoError(t, rec.AddBirthday(bday))
		}
		dir.AddRecord(rec)
	}
	return dir
}

// -----------------------------------------------------------------------------
// Calendar
// -----------------------------------------------------------------------------

func TestBuildCalendar_BirthdayToday(t *testing.T) {
	dir := newDirectory(t, map[string]string{"John Doe": "01.01.2000"})
	gen := &engine.Generator{
		Clock: MockClock{CurrentTime: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)},
	}

	ics, today, err := gen.BuildCalendar(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, today)

	out := string(ics)
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "SUMMARY:Birthday: John Doe (25)")
	assert.Contains(t, out, "SUMMARY:Birthday: John Doe (24)")
	assert.Contains(t, out, "SUMMARY:Birthday: John Doe (26)")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20250101")
	assert.NotContains(t, out, "BEGIN:VALARM", "no trigger, no alarm")
}

func TestBuildCalendar_SkipsYearsBeforeBirth(t *testing.T) {
	dir := newDirectory(t, map[string]string{"Baby": "15.03.2025"})
	gen := &engine.Generator{
		Clock:         MockClock{CurrentTime: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		FormatSummary: func(name string, age int) string { return fmt.Sprintf("%s#%d", name, age) },
	}

	ics, _, err := gen.BuildCalendar(context.Background(), dir)
	require.NoError(t, err)

	out := string(ics)
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"), "2024 must be skipped")
	assert.Contains(t, out, "SUMMARY:Baby#0")
	assert.Contains(t, out, "SUMMARY:Baby#1")
}

func TestBuildCalendar_Reminder(t *testing.T) {
	dir := newDirectory(t, map[string]string{"Jane": "10.10.1990"})
	gen := &engine.Generator{
		Clock:           MockClock{CurrentTime: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		ReminderTrigger: "-P1D",
	}

	ics, today, err := gen.BuildCalendar(context.Background(), dir)
	require.NoError(t, err)
	assert.Zero(t, today)

	out := string(ics)
	assert.Equal(t, 3, strings.Count(out, "BEGIN:VALARM"))
	assert.Contains(t, out, "TRIGGER:-P1D")
	assert.Contains(t, out, "ACTION:DISPLAY")
}

func TestBuildCalendar_EmptyDirectoryReturnsStub(t *testing.T) {
	dir := newDirectory(t, map[string]string{"No Birthday": ""})
	gen := &engine.Generator{Clock: MockClock{CurrentTime: time.Now()}}

	ics, today, err := gen.BuildCalendar(context.Background(), dir)
	require.NoError(t, err)
	assert.Zero(t, today)
	assert.Equal(t, config.StubVCalendar, string(ics))
}

func TestBuildCalendar_LeapYear(t *testing.T) {
	dir := newDirectory(t, map[string]string{"Leap Baby": "29.02.2000"})
	// 2025 is NOT a leap year. Feb 29 -> March 1 in Go's time.Date normalization.
	gen := &engine.Generator{Clock: MockClock{CurrentTime: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}}

	_, today, err := gen.BuildCalendar(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, today, "Leapling should have birthday on March 1st in non-leap year")
}

func TestBuildCalendar_Cancelled(t *testing.T) {
	dir := newDirectory(t, map[string]string{"John": "01.01.2000"})
	gen := &engine.Generator{Clock: MockClock{CurrentTime: time.Now()}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := gen.BuildCalendar(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEntries_SortedByNextOccurrence(t *testing.T) {
	dir := newDirectory(t, map[string]string{
		"Past Birthday":   "01.01.1990",
		"Future Birthday": "01.12.1990",
		"Today Birthday":  "01.06.1990",
		"No Birthday":     "",
	})
	gen := &engine.Generator{Clock: MockClock{CurrentTime: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}}

	entries := gen.Entries(dir)
	require.Len(t, entries, 3)

	assert.Equal(t, "Today Birthday", entries[0].Name)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), entries[0].NextOccurrence)
	assert.Equal(t, 35, entries[0].AgeNext)

	assert.Equal(t, "Future Birthday", entries[1].Name)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), entries[1].NextOccurrence)

	assert.Equal(t, "Past Birthday", entries[2].Name)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), entries[2].NextOccurrence)
	assert.Equal(t, 36, entries[2].AgeNext)

	assert.NotEmpty(t, entries[0].UID)
	assert.NotContains(t, entries[0].UID, config.VCardUIDPrefix)
}
