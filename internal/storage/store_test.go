package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-phonebook/internal/book"
	"github.com/tartampluch/go-phonebook/internal/config"
	"github.com/tartampluch/go-phonebook/internal/storage"
)

func sampleDirectory(t *testing.T) *book.Directory {
	t.Helper()
	d := book.NewDirectory()

	john := book.NewRecord("John")
	require.NoError(t, john.AddPhone("1234567890"))
	require.NoError(t, john.AddPhone("5555555555"))
	require.NoError(t, john.AddBirthday("24.12.1990"))
	d.AddRecord(john)

	jane := book.NewRecord("Jane Doe")
	require.NoError(t, jane.AddPhone("0987654321"))
	d.AddRecord(jane)

	leap := book.NewRecord("Leap")
	require.NoError(t, leap.AddBirthday("29.02.2000"))
	d.AddRecord(leap)

	return d
}

// assertEquivalent compares names, phone order and birthday strings.
func assertEquivalent(t *testing.T, want, got *book.Directory) {
	t.Helper()
	require.Equal(t, want.Names(), got.Names())
	for _, w := range want.Records() {
		g, ok := got.Find(w.Name().String())
		require.True(t, ok, "missing %s", w.Name())
		assert.Equal(t, w.PhoneValues(), g.PhoneValues(), "phones of %s", w.Name())
		if w.Birthday() == nil {
			assert.Nil(t, g.Birthday(), "birthday of %s", w.Name())
			continue
		}
		require.NotNil(t, g.Birthday(), "birthday of %s", w.Name())
		assert.Equal(t, w.Birthday().Value(), g.Birthday().Value())
	}
}

func TestVCardStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DataFileName)
	store := storage.NewVCardStore(path)
	want := sampleDirectory(t)

	require.NoError(t, store.Save(want))
	got, err := store.Load(context.Background())

	require.NoError(t, err)
	assertEquivalent(t, want, got)
}

func TestVCardStore_RoundTripEmpty(t *testing.T) {
	store := storage.NewVCardStore(filepath.Join(t.TempDir(), "empty.vcf"))

	require.NoError(t, store.Save(book.NewDirectory()))
	got, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestVCardStore_LoadMissingFile(t *testing.T) {
	store := storage.NewVCardStore(filepath.Join(t.TempDir(), "nope", "book.vcf"))

	d, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())
}

func TestVCardStore_SaveCreatesDirectoryAndPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "book.vcf")
	store := storage.NewVCardStore(path)

	require.NoError(t, store.Save(sampleDirectory(t)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, config.FilePermUserRW, info.Mode().Perm())

	_, err = os.Stat(path + config.TempFileSuffix)
	assert.True(t, os.IsNotExist(err), "temporary file must be renamed away")
}

func TestVCardStore_SaveOverwrites(t *testing.T) {
	store := storage.NewVCardStore(filepath.Join(t.TempDir(), "book.vcf"))
	require.NoError(t, store.Save(sampleDirectory(t)))

	smaller := book.NewDirectory()
	smaller.AddRecord(book.NewRecord("Only"))
	require.NoError(t, store.Save(smaller))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Only"}, got.Names())
}

func TestVCardStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.vcf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a vcard\n"), config.FilePermUserRW))

	_, err := storage.NewVCardStore(path).Load(context.Background())

	require.Error(t, err)
	assert.True(t, book.IsKind(err, book.KindStorage))
	assert.Contains(t, err.Error(), config.ErrStorageRead)
}

func TestVCardStore_LoadCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.vcf")
	store := storage.NewVCardStore(path)
	require.NoError(t, store.Save(sampleDirectory(t)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVCardStore_SaveIntoUnwritableLocation(t *testing.T) {
	// A regular file where a directory is expected.
	base := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(base, nil, config.FilePermUserRW))

	err := storage.NewVCardStore(filepath.Join(base, "book.vcf")).Save(book.NewDirectory())

	require.Error(t, err)
	assert.Equal(t, book.KindStorage, book.KindOf(err))
}

func TestVCardStore_SaveReplacesStaleTempFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.vcf")
	stale := make([]byte, 4096)
	for i := range stale {
		stale[i] = 'x'
	}
	require.NoError(t, os.WriteFile(path+config.TempFileSuffix, stale, config.FilePermUserRW))

	store := storage.NewVCardStore(path)
	require.NoError(t, store.Save(sampleDirectory(t)))

	got, err := store.Load(context.Background())
	require.NoError(t, err, "leftover bytes must be truncated")
	assertEquivalent(t, sampleDirectory(t), got)
}

func TestVCardStore_FailedSaveKeepsPreviousBook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.vcf")
	store := storage.NewVCardStore(path)
	require.NoError(t, store.Save(sampleDirectory(t)))

	// A directory in place of the temporary file makes the write fail.
	require.NoError(t, os.Mkdir(path+config.TempFileSuffix, config.DirPermUserRWX))

	err := store.Save(book.NewDirectory())
	require.Error(t, err)
	assert.True(t, book.IsKind(err, book.KindStorage))
	assert.Contains(t, err.Error(), config.ErrStorageWrite)

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assertEquivalent(t, sampleDirectory(t), got)
}
