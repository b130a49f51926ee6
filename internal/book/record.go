package book

import (
	"slices"
	"strings"

	"github.com/tartampluch/go-phonebook/internal/config"
)

// Record is one contact: an immutable name, distinct phones in insertion order
// and an optional birthday.
type Record struct {
	name     Name
	phones   []Phone
	birthday *Birthday
}

// NewRecord creates a contact with no phones and no birthday.
func NewRecord(name string) *Record {
	return &Record{name: Name(name)}
}

// Name returns the contact's name.
func (r *Record) Name() Name { return r.name }

// Phones returns a copy of the phone list.
func (r *Record) Phones() []Phone { return slices.Clone(r.phones) }

// Birthday returns the birthday or nil when unset.
func (r *Record) Birthday() *Birthday {
	if r.birthday == nil {
		return nil
	}
	b := *r.birthday
	return &b
}

// FindPhone scans the phone list for an exact value match.
func (r *Record) FindPhone(value string) (Phone, bool) {
	for _, p := range r.phones {
		if p.value == value {
			return p, true
		}
	}
	return Phone{}, false
}

// AddPhone validates value and appends it unless already present.
func (r *Record) AddPhone(value string) error {
	p, err := NewPhone(value)
	if err != nil {
		return err
	}
	if _, ok := r.FindPhone(value); !ok {
		r.phones = append(r.phones, p)
	}
	return nil
}

// RemovePhone drops value from the list. Absent values are ignored.
func (r *Record) RemovePhone(value string) {
	r.phones = slices.DeleteFunc(r.phones, func(p Phone) bool { return p.value == value })
}

// EditPhone replaces oldValue with newValue.
// The new phone is added before the old one is removed, so an invalid newValue
// leaves the record untouched.
func (r *Record) EditPhone(oldValue, newValue string) error {
	if _, ok := r.FindPhone(oldValue); !ok {
		return &Error{Kind: KindMissingPhone, Op: "record.edit_phone", Arg: oldValue, Err: ErrPhoneAbsent}
	}
	if err := r.AddPhone(newValue); err != nil {
		return err
	}
	// Editing a phone into itself must not delete it.
	if oldValue != newValue {
		r.RemovePhone(oldValue)
	}
	return nil
}

// AddBirthday validates value and sets it, replacing any previous birthday.
func (r *Record) AddBirthday(value string) error {
	b, err := NewBirthday(value)
	if err != nil {
		return err
	}
	r.birthday = &b
	return nil
}

// PhoneValues returns the raw phone strings in order.
func (r *Record) PhoneValues() []string {
	out := make([]string, len(r.phones))
	for i, p := range r.phones {
		out[i] = p.value
	}
	return out
}

func (r *Record) String() string {
	var sb strings.Builder
	sb.WriteString("Contact name: ")
	sb.WriteString(string(r.name))
	sb.WriteString("; phone(s): ")
	sb.WriteString(strings.Join(r.PhoneValues(), config.PhoneSeparator))
	if r.birthday != nil {
		sb.WriteString("; birthday: ")
		sb.WriteString(r.birthday.value)
	}
	return sb.String()
}
