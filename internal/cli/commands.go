package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"
	"golang.org/x/term"

	"github.com/tartampluch/go-phonebook/internal/assistant"
	"github.com/tartampluch/go-phonebook/internal/book"
	"github.com/tartampluch/go-phonebook/internal/config"
	"github.com/tartampluch/go-phonebook/internal/engine"
	"github.com/tartampluch/go-phonebook/internal/storage"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: config.CmdShortVersion,
		Args:  cobra.NoArgs,
		// No settings needed; a broken settings file must not hide the version.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), config.MsgVersionOutput,
				config.AppName,
				config.Version,
				config.Commit,
				config.Date,
				runtime.GOOS,
				runtime.GOARCH,
			)
		},
	}
}

func newBirthdaysCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   config.CmdBirthdays,
		Short: config.CmdShortBirthdays,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := a.store.Load(cmd.Context())
			if err != nil {
				return err
			}
			if all {
				return a.listBirthdays(cmd.OutOrStdout(), dir)
			}
			res := assistant.New(dir, a.clock, a.tr).Handle(config.CmdBirthdays)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			return err
		},
	}

	cmd.Flags().BoolVar(&all, config.FlagAll, false, config.FlagDescAll)
	return cmd
}

// listBirthdays prints every known birthday by next occurrence, with the age reached that day.
func (a *app) listBirthdays(w io.Writer, dir *book.Directory) error {
	entries := a.generator().Entries(dir)
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, a.tr.T(config.TKeyUpcomingEmpty, nil))
		return err
	}
	for _, e := range entries {
		line := a.tr.T(config.TKeyCalendarLine, map[string]any{
			"Name": e.Name,
			"Date": e.NextOccurrence.Format(config.DateFormatBirthday),
			"Age":  e.AgeNext,
		})
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func newExportCmd(a *app) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   config.CmdUseExport,
		Short: config.CmdShortExport,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := a.store.Load(cmd.Context())
			if err != nil {
				return err
			}

			data, err := a.render(cmd.Context(), dir, format)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(output, data, config.FilePermUserRW)
		},
	}

	cmd.Flags().StringVar(&format, config.FlagFormat, config.FormatVCF, config.FlagDescFormat)
	cmd.Flags().StringVarP(&output, config.FlagOutput, config.FlagShortOut, "", config.FlagDescOutput)
	return cmd
}

// render encodes dir as a vCard collection or an iCalendar feed.
func (a *app) render(ctx context.Context, dir *book.Directory, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case config.FormatVCF:
		var buf bytes.Buffer
		if err := storage.EncodeRecords(&buf, dir.Records()); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case config.FormatICS:
		data, _, err := a.generator().BuildCalendar(ctx, dir)
		return data, err
	}
	return nil, fmt.Errorf("%s: %q", config.ErrExportFormat, format)
}

func (a *app) generator() *engine.Generator {
	return &engine.Generator{
		Clock:           a.clock,
		FormatSummary:   a.tr.EventSummary,
		ReminderTrigger: a.settings.ReminderTrigger(),
	}
}

func newImportCmd(a *app) *cobra.Command {
	var url, user string

	cmd := &cobra.Command{
		Use:   config.CmdUseImport,
		Short: config.CmdShortImport,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			src := engine.ImportSource{}
			if len(args) == 1 {
				src.Path = args[0]
			} else {
				src.URL = firstNonEmpty(url, a.settings.RemoteURL)
				src.User = firstNonEmpty(user, a.settings.RemoteUser)
				src.Pass = a.password(src.User)
			}

			dir, err := a.store.Load(ctx)
			if err != nil {
				return err
			}

			im := &engine.Importer{Fetcher: a.fetcher}
			stats, err := im.Import(ctx, src, dir)
			if err != nil {
				return err
			}
			if err := a.store.Save(dir); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), config.MsgImportOutput, stats.Contacts, stats.Created, stats.PhonesSkipped)
			return err
		},
	}

	cmd.Flags().StringVar(&url, config.FlagURL, "", config.FlagDescURL)
	cmd.Flags().StringVar(&user, config.FlagUser, "", config.FlagDescUser)
	return cmd
}

// password reads the stored secret for user. A missing entry means no password.
func (a *app) password(user string) string {
	if user == "" {
		return ""
	}
	p, err := keyring.Get(config.KeyringService, user)
	if err != nil {
		slog.Debug(config.MsgPassFail,
			config.LogKeyComponent, config.CompCLI,
			config.LogKeyUser, user,
			config.LogKeyError, err,
		)
		return ""
	}
	return p
}

func newLoginCmd(a *app) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   config.CmdUseLogin,
		Short: config.CmdShortLogin,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				user = args[0]
			}
			user = firstNonEmpty(user, a.settings.RemoteUser)
			if user == "" {
				return errors.New(config.ErrUserMissing)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), config.MsgLoginPrompt, user)
			pass, err := readPassword(cmd.InOrStdin())
			_, _ = fmt.Fprintln(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if pass == "" {
				return errors.New(config.ErrPasswordMissing)
			}

			if err := keyring.Set(config.KeyringService, user, pass); err != nil {
				return fmt.Errorf("%s: %w", config.ErrKeyringSet, err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), config.MsgLoginDone)
			return err
		},
	}

	cmd.Flags().StringVar(&user, config.FlagUser, "", config.FlagDescUser)
	return cmd
}

// readPassword disables echo on a terminal and falls back to a plain line read.
func readPassword(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", fmt.Errorf("%s: %w", config.ErrInputRead, err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%s: %w", config.ErrInputRead, err)
	}
	return strings.TrimSpace(line), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
