package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tartampluch/go-phonebook/internal/config"
	"github.com/tartampluch/go-phonebook/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   config.CmdUseServe,
		Short: config.CmdShortServe,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			port = firstNonEmpty(port, a.settings.ServerPort)
			if err := config.ValidatePort(port); err != nil {
				return err
			}

			ctx := cmd.Context()
			srv := server.NewFeedServer(port)

			// The first refresh must succeed; later failures keep the last good feeds.
			if err := a.refreshFeeds(ctx, srv); err != nil {
				return err
			}

			addr := config.LocalhostBindAddr + config.AddrSeparator + port
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), config.MsgServeOutput,
				addr, config.RouteCalendar, addr, config.RouteContacts)
			return a.serve(ctx, srv, config.FeedReloadInterval)
		},
	}

	cmd.Flags().StringVar(&port, config.FlagPort, "", config.FlagDescPort)
	return cmd
}

// refreshFeeds re-reads the address book and republishes both documents.
func (a *app) refreshFeeds(ctx context.Context, srv *server.FeedServer) error {
	dir, err := a.store.Load(ctx)
	if err != nil {
		return err
	}

	vcf, err := a.render(ctx, dir, config.FormatVCF)
	if err != nil {
		return err
	}
	ics, err := a.render(ctx, dir, config.FormatICS)
	if err != nil {
		return err
	}

	if err := srv.Update(config.RouteContacts, vcf); err != nil {
		return err
	}
	if err := srv.Update(config.RouteCalendar, ics); err != nil {
		return err
	}

	slog.Info(config.MsgFeedRefresh,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyContacts, dir.Len(),
	)
	return nil
}

// serve runs the HTTP server and the reload worker until ctx is done or the
// server fails. Both are joined before it returns.
func (a *app) serve(ctx context.Context, srv *server.FeedServer, interval time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)
	workerCtx, stopWorker := context.WithCancel(gctx)

	g.Go(func() error {
		return a.feedWorker(workerCtx, srv, interval)
	})
	g.Go(func() error {
		defer stopWorker()
		return srv.Start(gctx)
	})
	return g.Wait()
}

// feedWorker picks up edits made by other processes to the address book file.
func (a *app) feedWorker(ctx context.Context, srv *server.FeedServer, interval time.Duration) error {
	log := slog.With(config.LogKeyComponent, config.CompServer)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, interval)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return nil
		case <-ticker.C:
			if err := a.refreshFeeds(ctx, srv); err != nil {
				log.Error(config.MsgFeedFailed, config.LogKeyError, err)
			}
		}
	}
}
