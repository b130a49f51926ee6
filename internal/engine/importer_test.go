package engine_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-phonebook/internal/book"
	"github.com/tartampluch/go-phonebook/internal/config"
	"github.com/tartampluch/go-phonebook/internal/engine"
)

const importCards = `BEGIN:VCARD
VERSION:3.0
FN:John Doe
TEL:1234567890
TEL:+1 555 0100
BDAY:1990-05-17
END:VCARD
BEGIN:VCARD
VERSION:4.0
N:Smith;Jane;;;
TEL:0987654321
END:VCARD
`

func TestImport_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.vcf")
	require.NoError(t, os.WriteFile(path, []byte(importCards), 0o600))

	dir := book.NewDirectory()
	existing := book.NewRecord("John Doe")
	require.NoError(t, existing.AddPhone("1111111111"))
	dir.AddRecord(existing)

	im := &engine.Importer{}
	stats, err := im.Import(context.Background(), engine.ImportSource{Path: path}, dir)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Contacts)
	assert.Equal(t, 1, stats.Created)
	assert.Equal(t, 1, stats.PhonesSkipped, "the formatted number is not 10 digits")

	john, ok := dir.Find("John Doe")
	require.True(t, ok)
	assert.Equal(t, []string{"1111111111", "1234567890"}, john.PhoneValues())
	require.NotNil(t, john.Birthday())
	assert.Equal(t, "17.05.1990", john.Birthday().Value())

	jane, ok := dir.Find("Jane Smith")
	require.True(t, ok)
	assert.Equal(t, []string{"0987654321"}, jane.PhoneValues())
}

func TestImport_Remote(t *testing.T) {
	remote := engine.Remote{URL: "https://dav.example.com/book", User: "me", Pass: "secret"}

	mockFetcher := new(MockFetcher)
	mockFetcher.On("Fetch", mock.Anything, remote).
		Return(io.NopCloser(strings.NewReader(importCards)), nil)

	dir := book.NewDirectory()
	im := &engine.Importer{Fetcher: mockFetcher}
	stats, err := im.Import(context.Background(), engine.ImportSource{Remote: remote}, dir)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Created)
	assert.Equal(t, []string{"John Doe", "Jane Smith"}, dir.Names())
	mockFetcher.AssertExpectations(t)
}

func TestImport_RemoteFailure(t *testing.T) {
	mockFetcher := new(MockFetcher)
	mockFetcher.On("Fetch", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	dir := book.NewDirectory()
	im := &engine.Importer{Fetcher: mockFetcher}
	_, err := im.Import(context.Background(), engine.ImportSource{Remote: engine.Remote{URL: "http://x"}}, dir)

	require.EqualError(t, err, "boom")
	assert.Zero(t, dir.Len())
}

func TestImport_MalformedStreamLeavesDirectoryUntouched(t *testing.T) {
	mockFetcher := new(MockFetcher)
	mockFetcher.On("Fetch", mock.Anything, mock.Anything).
		Return(io.NopCloser(strings.NewReader(importCards+"this is not a vcard\n")), nil)

	dir := book.NewDirectory()
	im := &engine.Importer{Fetcher: mockFetcher}
	_, err := im.Import(context.Background(), engine.ImportSource{Remote: engine.Remote{URL: "http://x"}}, dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrVCardParse)
	assert.Zero(t, dir.Len())
}

func TestImport_SourceErrors(t *testing.T) {
	tests := []struct {
		name    string
		im      *engine.Importer
		src     engine.ImportSource
		wantErr string
	}{
		{"NoSource", &engine.Importer{}, engine.ImportSource{}, config.ErrImportSource},
		{"NoFetcher", &engine.Importer{}, engine.ImportSource{Remote: engine.Remote{URL: "http://x"}}, config.ErrFetcherMissing},
		{"MissingFile", &engine.Importer{}, engine.ImportSource{Path: filepath.Join(t.TempDir(), "nope.vcf")}, config.ErrStorageRead},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.im.Import(context.Background(), tt.src, book.NewDirectory())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
