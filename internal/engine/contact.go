package engine

import "time"

// BirthdayEntry is the calendar view of one contact with a birthday.
type BirthdayEntry struct {
	// UID is the contact's stable vCard UID, reused as the event UID prefix.
	UID string

	Name string

	// DateOfBirth is the parsed stored birthday.
	DateOfBirth time.Time

	// NextOccurrence is the birthday in the current or next year.
	NextOccurrence time.Time

	// AgeNext is the age the person will turn at NextOccurrence.
	AgeNext int
}
