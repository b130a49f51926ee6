package book

import (
	"time"

	"github.com/tartampluch/go-phonebook/internal/config"
)

// Name identifies a contact. It is stored verbatim and never validated.
type Name string

func (n Name) String() string { return string(n) }

// Phone is a validated 10-digit phone number.
type Phone struct {
	value string
}

// NewPhone validates value and wraps it.
func NewPhone(value string) (Phone, error) {
	if len(value) != config.PhoneLength {
		return Phone{}, &Error{Kind: KindPhoneValidation, Op: "phone.new", Arg: value, Err: ErrPhoneLength}
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return Phone{}, &Error{Kind: KindPhoneValidation, Op: "phone.new", Arg: value, Err: ErrPhoneDigits}
		}
	}
	return Phone{value: value}, nil
}

// Value returns the digits.
func (p Phone) Value() string { return p.value }

func (p Phone) String() string { return p.value }

// Birthday is a validated DD.MM.YYYY date. The original string is kept as entered.
type Birthday struct {
	value string
}

// NewBirthday accepts only real calendar dates in DD.MM.YYYY form (29.02.2023 fails).
func NewBirthday(value string) (Birthday, error) {
	if _, err := parseBirthday(value); err != nil {
		return Birthday{}, &Error{Kind: KindDateValidation, Op: "birthday.new", Arg: value, Err: ErrDateFormat}
	}
	return Birthday{value: value}, nil
}

// Value returns the DD.MM.YYYY string.
func (b Birthday) Value() string { return b.value }

func (b Birthday) String() string { return b.value }

// Date re-parses the stored string. It cannot fail for a Birthday built by NewBirthday.
func (b Birthday) Date() time.Time {
	t, _ := parseBirthday(b.value)
	return t
}

// parseBirthday is strict: zero-padded day and month, 4-digit year, and the
// day must exist in that month (31.02 fails).
func parseBirthday(value string) (time.Time, error) {
	return time.Parse(config.DateFormatBirthday, value)
}
