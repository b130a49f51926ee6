package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tartampluch/go-phonebook/internal/book"
	"github.com/tartampluch/go-phonebook/internal/config"
)

// Store persists a whole Directory.
type Store interface {
	// Load returns the saved directory, or an empty one if nothing was saved yet.
	Load(ctx context.Context) (*book.Directory, error)
	// Save replaces the persisted state with d.
	Save(d *book.Directory) error
}

// VCardStore keeps the address book as a single .vcf file.
type VCardStore struct {
	path string
}

var _ Store = (*VCardStore)(nil)

// NewVCardStore returns a store backed by the file at path.
func NewVCardStore(path string) *VCardStore {
	return &VCardStore{path: path}
}

// Path returns the backing file.
func (s *VCardStore) Path() string { return s.path }

// Load reads the file. A missing file yields an empty directory.
func (s *VCardStore) Load(ctx context.Context) (*book.Directory, error) {
	log := slog.With(config.LogKeyComponent, config.CompStorage, config.LogKeyFile, s.path)

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info(config.MsgBookMissing)
		return book.NewDirectory(), nil
	}
	if err != nil {
		return nil, s.fail("storage.open", config.ErrStorageRead, err)
	}
	defer func() { _ = f.Close() }()

	contacts, err := DecodeContacts(ctx, f)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, s.fail("storage.decode", config.ErrStorageRead, err)
	}

	dir := book.NewDirectory()
	stats := Merge(dir, contacts)
	log.Info(config.MsgBookLoaded,
		config.LogKeyContacts, dir.Len(),
		config.LogKeySkipped, stats.PhonesSkipped+stats.BirthdaysSkipped)
	return dir, nil
}

// Save writes the directory to a temporary file, syncs it to disk and renames
// it over the previous one, so a failed write never truncates the existing book.
func (s *VCardStore) Save(d *book.Directory) error {
	if err := os.MkdirAll(filepath.Dir(s.path), config.DirPermUserRWX); err != nil {
		return s.fail("storage.mkdir", config.ErrStorageWrite, err)
	}

	var buf bytes.Buffer
	if err := EncodeRecords(&buf, d.Records()); err != nil {
		return s.fail("storage.encode", config.ErrStorageWrite, err)
	}

	tmp := s.path + config.TempFileSuffix
	if err := writeSynced(tmp, buf.Bytes()); err != nil {
		_ = os.Remove(tmp)
		return s.fail("storage.write", config.ErrStorageWrite, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return s.fail("storage.rename", config.ErrStorageWrite, err)
	}

	slog.Info(config.MsgBookSaved,
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyFile, s.path,
		config.LogKeyContacts, d.Len(),
		config.LogKeySizeBytes, buf.Len())
	return nil
}

// writeSynced writes data to path and flushes it to stable storage before closing.
func writeSynced(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, config.FilePermUserRW)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (s *VCardStore) fail(op, msg string, err error) error {
	return &book.Error{
		Kind: book.KindStorage,
		Op:   op,
		Arg:  s.path,
		Err:  fmt.Errorf("%s: %w", msg, err),
	}
}
