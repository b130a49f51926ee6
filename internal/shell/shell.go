// Package shell is the interactive front end: it reads lines, hands them to
// the assistant and prints the results.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/tartampluch/go-phonebook/internal/assistant"
	"github.com/tartampluch/go-phonebook/internal/config"
	"github.com/tartampluch/go-phonebook/internal/locale"
	"github.com/tartampluch/go-phonebook/internal/storage"
)

const banner = `   ___  _                       ___            _
  / _ \| |__   ___  _ __   ___  | _ ) ___  ___| | __
 | |_) | '_ \ / _ \| '_ \ / _ \ | _ \/ _ \/ _ \ |/ /
 |  __/| | | | (_) | | | |  __/ |___/\___/\___/_|\_\
 |_|   |_| |_|\___/|_| |_|\___|`

// Shell runs the read-eval-print loop.
type Shell struct {
	Assistant *assistant.Assistant
	Store     storage.Store
	Tr        *locale.Translator
	In        io.Reader
	Out       io.Writer
	Theme     Theme
}

// New wires a shell with the default theme for out.
func New(a *assistant.Assistant, store storage.Store, tr *locale.Translator, in io.Reader, out io.Writer) *Shell {
	return &Shell{Assistant: a, Store: store, Tr: tr, In: in, Out: out, Theme: NewTheme(out)}
}

// Run loops until exit/close or end of input, then saves the book.
// Cancelling ctx stops the loop without saving and returns ctx.Err().
func (s *Shell) Run(ctx context.Context) error {
	s.printf("%s\n\n%s\n", paint(s.Theme.Banner, banner), paint(s.Theme.Welcome, s.Tr.T(config.TKeyWelcome, nil)))

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	lines := s.readLines(readCtx)
	for {
		s.printf("\n%s", s.Theme.Prompt.Render(s.Tr.T(config.TKeyPrompt, nil)))

		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			slog.Warn(config.MsgCtxCancel, config.LogKeyComponent, config.CompShell)
			s.printf("\n")
			return ctx.Err()
		case line, ok = <-lines:
		}

		// End of input behaves like "close".
		if !ok {
			s.printf("\n")
			return s.finish()
		}

		res := s.Assistant.Handle(line)
		if res.Text != "" {
			s.printf("%s\n", paint(s.Theme.For(res.Status), res.Text))
		}
		if res.Exit {
			return s.finish()
		}
	}
}

func (s *Shell) finish() error {
	if err := s.Store.Save(s.Assistant.Book); err != nil {
		slog.Error(config.ErrStorageWrite,
			config.LogKeyComponent, config.CompShell,
			config.LogKeyError, err,
		)
		s.printf("%s\n", paint(s.Theme.Error, s.Tr.T(config.TKeyErrStorage, map[string]any{"Error": err})))
		return err
	}
	s.printf("%s\n", paint(s.Theme.Welcome, s.Tr.T(config.TKeyGoodbye, nil)))
	return nil
}

// readLines feeds In line by line, whatever the line length. The channel is
// closed on EOF or on a read error.
func (s *Shell) readLines(ctx context.Context) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		r := bufio.NewReader(s.In)
		for {
			line, err := r.ReadString('\n')
			if line != "" {
				select {
				case out <- strings.TrimRight(line, "\r\n"):
				case <-ctx.Done():
					return
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				slog.Error(config.ErrInputRead,
					config.LogKeyComponent, config.CompShell,
					config.LogKeyError, err,
				)
				return
			}
		}
	}()
	return out
}

func (s *Shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.Out, format, args...)
}
