package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/tartampluch/go-phonebook/internal/book"
	"github.com/tartampluch/go-phonebook/internal/config"
	"github.com/tartampluch/go-phonebook/internal/storage"
)

// ImportSource selects where vCards come from. Path wins over Remote.URL.
type ImportSource struct {
	Path string
	Remote
}

// Importer merges external vCard collections into a directory.
type Importer struct {
	Fetcher Fetcher // Only needed for remote sources.
}

// Import decodes the whole source first, so a malformed stream leaves dir untouched.
func (im *Importer) Import(ctx context.Context, src ImportSource, dir *book.Directory) (storage.MergeStats, error) {
	start := time.Now()

	stream, err := im.acquireStream(ctx, src)
	if err != nil {
		return storage.MergeStats{}, err
	}
	defer func() { _ = stream.Close() }()

	contacts, err := storage.DecodeContacts(ctx, stream)
	if err != nil {
		return storage.MergeStats{}, err
	}

	stats := storage.Merge(dir, contacts)
	slog.Info(config.MsgImportDone,
		config.LogKeyComponent, config.CompImport,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyContacts, stats.Contacts),
			slog.Int(config.LogKeyCreated, stats.Created),
			slog.Int(config.LogKeySkipped, stats.PhonesSkipped+stats.BirthdaysSkipped),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return stats, nil
}

func (im *Importer) acquireStream(ctx context.Context, src ImportSource) (io.ReadCloser, error) {
	switch {
	case src.Path != "":
		f, err := os.Open(src.Path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrStorageRead, err)
		}
		return f, nil
	case src.URL != "":
		if im.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return im.Fetcher.Fetch(ctx, src.Remote)
	}
	return nil, errors.New(config.ErrImportSource)
}
