// Package assistant turns one line of user input into a result value.
// It never prints; the shell package owns the terminal.
package assistant

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/tartampluch/go-phonebook/internal/book"
	"github.com/tartampluch/go-phonebook/internal/config"
	"github.com/tartampluch/go-phonebook/internal/engine"
	"github.com/tartampluch/go-phonebook/internal/locale"
)

// Status tells the shell how to render a Result.
type Status int

const (
	StatusOK Status = iota
	StatusInfo
	StatusError
)

// Result is the outcome of one command.
type Result struct {
	Text   string
	Status Status
	Exit   bool // exit or close was requested
}

type handler struct {
	minArgs int
	usage   string
	run     func(a *Assistant, args []string) (Result, error)
}

var handlers = map[string]handler{
	config.CmdHello:        {run: (*Assistant).hello},
	config.CmdHelp:         {run: (*Assistant).help},
	config.CmdAdd:          {minArgs: 2, usage: config.UsageAdd, run: (*Assistant).addContact},
	config.CmdChange:       {minArgs: 3, usage: config.UsageChange, run: (*Assistant).changeContact},
	config.CmdPhone:        {minArgs: 1, usage: config.UsagePhone, run: (*Assistant).showPhone},
	config.CmdRemovePhone:  {minArgs: 2, usage: config.UsageRemovePhone, run: (*Assistant).removePhone},
	config.CmdDelete:       {minArgs: 1, usage: config.UsageDelete, run: (*Assistant).deleteContact},
	config.CmdAddBirthday:  {minArgs: 2, usage: config.UsageAddBirthday, run: (*Assistant).addBirthday},
	config.CmdShowBirthday: {minArgs: 1, usage: config.UsageShowBirthday, run: (*Assistant).showBirthday},
	config.CmdBirthdays:    {run: (*Assistant).birthdays},
	config.CmdAll:          {run: (*Assistant).all},
	config.CmdExit:         {run: (*Assistant).exit},
	config.CmdClose:        {run: (*Assistant).exit},
}

// Assistant dispatches commands against a Directory.
type Assistant struct {
	Book  *book.Directory
	Clock engine.Clock
	Tr    *locale.Translator
}

// New returns an assistant working on dir.
func New(dir *book.Directory, clock engine.Clock, tr *locale.Translator) *Assistant {
	return &Assistant{Book: dir, Clock: clock, Tr: tr}
}

// ParseInput splits a line on whitespace. The command word is lower-cased;
// arguments are kept verbatim. An empty line yields an empty command.
func ParseInput(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

// Handle runs one line. Every error is converted into a StatusError result.
// Extra trailing arguments are ignored.
func (a *Assistant) Handle(line string) Result {
	cmd, args := ParseInput(line)
	if cmd == "" {
		return Result{Status: StatusInfo}
	}

	h, ok := handlers[cmd]
	if !ok {
		return a.fail(cmd, &book.Error{Kind: book.KindUnknownCommand, Op: "assistant.dispatch", Arg: cmd})
	}
	if len(args) < h.minArgs {
		return a.fail(cmd, &book.Error{
			Kind: book.KindMissingArguments,
			Op:   "assistant." + cmd,
			Arg:  h.usage,
			Err:  book.ErrTooFewArgs,
		})
	}

	res, err := h.run(a, args)
	if err != nil {
		return a.fail(cmd, err)
	}
	slog.Debug(config.MsgCommand,
		config.LogKeyComponent, config.CompAssistant,
		config.LogKeyCommand, cmd,
	)
	return res
}

func (a *Assistant) fail(cmd string, err error) Result {
	slog.Debug(config.MsgCommand,
		config.LogKeyComponent, config.CompAssistant,
		config.LogKeyCommand, cmd,
		config.LogKeyKind, string(book.KindOf(err)),
		config.LogKeyError, err,
	)
	return Result{Text: a.message(err), Status: StatusError}
}

// message maps an error to its localized text.
func (a *Assistant) message(err error) string {
	var be *book.Error
	if !errors.As(err, &be) {
		return a.Tr.T(config.TKeyErrInternal, map[string]any{"Error": err.Error()})
	}

	switch be.Kind {
	case book.KindPhoneValidation:
		key := config.TKeyErrPhoneLength
		if errors.Is(be, book.ErrPhoneDigits) {
			key = config.TKeyErrPhoneDigits
		}
		return a.Tr.T(key, map[string]any{"Value": be.Arg})
	case book.KindDateValidation:
		return a.Tr.T(config.TKeyErrDate, map[string]any{"Value": be.Arg})
	case book.KindMissingPhone:
		return a.Tr.T(config.TKeyErrMissingPhone, map[string]any{"Value": be.Arg})
	case book.KindMissingArguments:
		return a.Tr.T(config.TKeyErrArgs, map[string]any{"Usage": be.Arg})
	case book.KindUnknownContact:
		return a.Tr.T(config.TKeyErrUnknownContact, map[string]any{"Name": be.Arg})
	case book.KindUnknownCommand:
		return a.Tr.T(config.TKeyErrUnknownCommand, nil)
	case book.KindStorage:
		return a.Tr.T(config.TKeyErrStorage, map[string]any{"Error": be.Unwrap()})
	}
	return a.Tr.T(config.TKeyErrInternal, map[string]any{"Error": err.Error()})
}

func (a *Assistant) find(op, name string) (*book.Record, error) {
	rec, ok := a.Book.Find(name)
	if !ok {
		return nil, &book.Error{Kind: book.KindUnknownContact, Op: op, Arg: name, Err: book.ErrNoContact}
	}
	return rec, nil
}

func (a *Assistant) ok(key string, data map[string]any) Result {
	return Result{Text: a.Tr.T(key, data), Status: StatusOK}
}

func (a *Assistant) info(key string, data map[string]any) Result {
	return Result{Text: a.Tr.T(key, data), Status: StatusInfo}
}
