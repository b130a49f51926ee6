package assistant

import (
	"strings"

	"github.com/tartampluch/go-phonebook/internal/book"
	"github.com/tartampluch/go-phonebook/internal/config"
)

func (a *Assistant) hello([]string) (Result, error) {
	return a.info(config.TKeyHello, nil), nil
}

func (a *Assistant) help([]string) (Result, error) {
	return a.info(config.TKeyHelp, nil), nil
}

func (a *Assistant) exit([]string) (Result, error) {
	return Result{Status: StatusOK, Exit: true}, nil
}

// addContact creates the contact or, when the name exists, adds the phone to it.
// A new contact is only stored once its first phone is valid.
func (a *Assistant) addContact(args []string) (Result, error) {
	name, phone := args[0], args[1]

	rec, exists := a.Book.Find(name)
	if !exists {
		rec = book.NewRecord(name)
	}
	if err := rec.AddPhone(phone); err != nil {
		return Result{}, err
	}
	if !exists {
		a.Book.AddRecord(rec)
	}
	return a.ok(config.TKeyContactAdded, map[string]any{"Name": name, "Phone": phone}), nil
}

func (a *Assistant) changeContact(args []string) (Result, error) {
	name, oldPhone, newPhone := args[0], args[1], args[2]

	rec, err := a.find("assistant.change", name)
	if err != nil {
		return Result{}, err
	}
	if err := rec.EditPhone(oldPhone, newPhone); err != nil {
		return Result{}, err
	}
	return a.ok(config.TKeyPhoneChanged, map[string]any{"Name": name, "Old": oldPhone, "New": newPhone}), nil
}

func (a *Assistant) showPhone(args []string) (Result, error) {
	rec, err := a.find("assistant.phone", args[0])
	if err != nil {
		return Result{}, err
	}
	return a.ok(config.TKeyPhoneList, map[string]any{
		"Name":   args[0],
		"Phones": strings.Join(rec.PhoneValues(), config.PhoneSeparator),
	}), nil
}

func (a *Assistant) removePhone(args []string) (Result, error) {
	name, phone := args[0], args[1]

	rec, err := a.find("assistant.remove_phone", name)
	if err != nil {
		return Result{}, err
	}
	if _, ok := rec.FindPhone(phone); !ok {
		return Result{}, &book.Error{Kind: book.KindMissingPhone, Op: "assistant.remove_phone", Arg: phone, Err: book.ErrPhoneAbsent}
	}
	rec.RemovePhone(phone)
	return a.ok(config.TKeyPhoneRemoved, map[string]any{"Name": name, "Phone": phone}), nil
}

func (a *Assistant) deleteContact(args []string) (Result, error) {
	if _, err := a.find("assistant.delete", args[0]); err != nil {
		return Result{}, err
	}
	a.Book.Delete(args[0])
	return a.ok(config.TKeyContactDeleted, map[string]any{"Name": args[0]}), nil
}

func (a *Assistant) addBirthday(args []string) (Result, error) {
	name, birthday := args[0], args[1]

	rec, err := a.find("assistant.add_birthday", name)
	if err != nil {
		return Result{}, err
	}
	if err := rec.AddBirthday(birthday); err != nil {
		return Result{}, err
	}
	return a.ok(config.TKeyBirthdayAdded, map[string]any{"Name": name, "Birthday": birthday}), nil
}

func (a *Assistant) showBirthday(args []string) (Result, error) {
	name := args[0]

	rec, err := a.find("assistant.show_birthday", name)
	if err != nil {
		return Result{}, err
	}
	b := rec.Birthday()
	if b == nil {
		return a.info(config.TKeyBirthdayNone, map[string]any{"Name": name}), nil
	}
	return a.ok(config.TKeyBirthdayShow, map[string]any{"Name": name, "Birthday": b.Value()}), nil
}

func (a *Assistant) birthdays([]string) (Result, error) {
	upcoming := a.Book.UpcomingBirthdays(a.Clock.Now())
	if len(upcoming) == 0 {
		return a.info(config.TKeyUpcomingEmpty, nil), nil
	}

	lines := make([]string, 0, len(upcoming))
	for _, u := range upcoming {
		lines = append(lines, a.Tr.T(config.TKeyUpcomingLine, map[string]any{
			"Name": u.Name.String(),
			"Date": u.FormattedDate(),
		}))
	}
	return Result{
		Text:   a.Tr.T(config.TKeyUpcomingHeader, nil) + "\n\n" + strings.Join(lines, "\n"),
		Status: StatusOK,
	}, nil
}

func (a *Assistant) all([]string) (Result, error) {
	if a.Book.Len() == 0 {
		return a.info(config.TKeyContactsEmpty, nil), nil
	}

	lines := make([]string, 0, a.Book.Len())
	for _, rec := range a.Book.Records() {
		data := map[string]any{
			"Name":   rec.Name().String(),
			"Phones": strings.Join(rec.PhoneValues(), config.PhoneSeparator),
		}
		key := config.TKeyContactLine
		if b := rec.Birthday(); b != nil {
			key = config.TKeyContactLineBD
			data["Birthday"] = b.Value()
		}
		lines = append(lines, a.Tr.T(key, data))
	}
	return Result{Text: strings.Join(lines, "\n"), Status: StatusOK}, nil
}
