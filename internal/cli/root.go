// Package cli wires settings, storage and the front ends behind a cobra command tree.
package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/tartampluch/go-phonebook/internal/assistant"
	"github.com/tartampluch/go-phonebook/internal/config"
	"github.com/tartampluch/go-phonebook/internal/engine"
	"github.com/tartampluch/go-phonebook/internal/locale"
	"github.com/tartampluch/go-phonebook/internal/shell"
	"github.com/tartampluch/go-phonebook/internal/storage"
)

type options struct {
	debug      bool
	configPath string
	dataPath   string
	lang       string
}

// app carries what every command needs once flags are parsed.
type app struct {
	opts    options
	clock   engine.Clock
	fetcher engine.Fetcher

	// logging replaces setupLogging in tests.
	logging func(debug bool, stderr io.Writer) io.Closer
	closers []io.Closer

	settings config.Settings
	tr       *locale.Translator
	store    *storage.VCardStore
}

func newApp() *app {
	return &app{
		clock:   engine.RealClock{},
		fetcher: engine.NewHTTPFetcher(),
		logging: setupLogging,
	}
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	a := newApp()
	defer a.close()

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:          config.AppCommand,
		Short:        config.CmdShortRoot,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		RunE: a.runShell,
	}

	f := cmd.PersistentFlags()
	f.BoolVar(&a.opts.debug, config.FlagDebug, false, config.FlagDescDebug)
	f.StringVar(&a.opts.configPath, config.FlagConfig, "", config.FlagDescConfig)
	f.StringVar(&a.opts.dataPath, config.FlagData, "", config.FlagDescData)
	f.StringVar(&a.opts.lang, config.FlagLang, "", config.FlagDescLang)

	cmd.AddCommand(
		newVersionCmd(),
		newBirthdaysCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newServeCmd(a),
		newLoginCmd(a),
	)
	return cmd
}

// init sets up logging, then resolves settings with flags taking precedence.
func (a *app) init(cmd *cobra.Command) error {
	if c := a.logging(a.opts.debug, cmd.ErrOrStderr()); c != nil {
		a.closers = append(a.closers, c)
	}
	logStartupInfo()

	path := a.opts.configPath
	if path == "" {
		p, err := config.DefaultSettingsPath()
		if err != nil {
			return err
		}
		path = p
	}

	s, err := config.LoadSettings(path)
	if err != nil {
		return err
	}
	if a.opts.lang != "" {
		s.Language = a.opts.lang
	}
	if a.opts.dataPath != "" {
		s.DataFile = a.opts.dataPath
	}
	if s.DataFile == "" {
		p, err := config.DefaultDataPath()
		if err != nil {
			return err
		}
		s.DataFile = p
	}
	if err := s.Validate(); err != nil {
		return err
	}

	a.settings = s
	a.tr = locale.New(s.Language)
	a.store = storage.NewVCardStore(s.DataFile)
	return nil
}

func (a *app) close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
	a.closers = nil
}

func (a *app) runShell(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	dir, err := a.store.Load(ctx)
	if err != nil {
		return err
	}

	sh := shell.New(assistant.New(dir, a.clock, a.tr), a.store, a.tr, cmd.InOrStdin(), cmd.OutOrStdout())
	err = sh.Run(ctx)
	if errors.Is(err, context.Canceled) {
		// Interrupted: the session's changes are dropped.
		return nil
	}
	return err
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompCLI,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}
