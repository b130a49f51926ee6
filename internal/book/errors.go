package book

import (
	"errors"
	"fmt"
)

// ErrorKind is the coarse classification the command layer switches on.
type ErrorKind string

const (
	KindPhoneValidation  ErrorKind = "phone_validation"
	KindDateValidation   ErrorKind = "date_validation"
	KindMissingPhone     ErrorKind = "missing_phone"
	KindMissingArguments ErrorKind = "missing_arguments"
	KindUnknownContact   ErrorKind = "unknown_contact"
	KindUnknownCommand   ErrorKind = "unknown_command"
	KindStorage          ErrorKind = "storage"
)

// Reasons carried in Error.Err so callers can pick a precise message.
var (
	ErrPhoneLength = errors.New("phone number must be 10 digits long")
	ErrPhoneDigits = errors.New("phone number must contain digits only")
	ErrDateFormat  = errors.New("invalid date, expected DD.MM.YYYY")
	ErrPhoneAbsent = errors.New("phone number to be edited is missing from the list")
	ErrNoContact   = errors.New("contact does not exist")
	ErrTooFewArgs  = errors.New("not enough arguments")
)

// Error is the single error type raised by the phone book and its adapters.
type Error struct {
	Kind ErrorKind
	Op   string // e.g. "record.edit_phone"
	Arg  string // offending value: the phone, date, contact name or file path
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Arg != "" {
		base += fmt.Sprintf(" (%q)", e.Arg)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
