package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-phonebook/internal/config"
)

// -----------------------------------------------------------------------------
// Handler Tests
// -----------------------------------------------------------------------------

func serve(srv *FeedServer, method, route string, headers map[string]string) *http.Response {
	req := httptest.NewRequest(method, route, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w.Result()
}

func TestHandler_ServingContent(t *testing.T) {
	tests := []struct {
		route string
		mime  string
		data  []byte
	}{
		{config.RouteCalendar, config.MimeTextCalendar, []byte("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR")},
		{config.RouteContacts, config.MimeTextVCard, []byte("BEGIN:VCARD\r\nVERSION:4.0\r\nEND:VCARD")},
	}

	for _, tt := range tests {
		t.Run(tt.route, func(t *testing.T) {
			srv := NewFeedServer("0")
			require.NoError(t, srv.Update(tt.route, tt.data))

			resp := serve(srv, http.MethodGet, tt.route, nil)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.mime, resp.Header.Get(config.HeaderContentType))
			assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
			assert.Contains(t, resp.Header.Get(config.HeaderCacheControl), "no-cache")
			assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))

			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.data, body)
		})
	}
}

func TestHandler_FeedsAreIndependent(t *testing.T) {
	srv := NewFeedServer("0")
	require.NoError(t, srv.Update(config.RouteContacts, []byte("cards")))

	resp := serve(srv, http.MethodGet, config.RouteCalendar, nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp = serve(srv, http.MethodGet, config.RouteContacts, nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandler_Head(t *testing.T) {
	srv := NewFeedServer("0")
	require.NoError(t, srv.Update(config.RouteCalendar, []byte("DATA")))

	resp := serve(srv, http.MethodHead, config.RouteCalendar, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body)
}

func TestHandler_Caching(t *testing.T) {
	srv := NewFeedServer("0")
	require.NoError(t, srv.Update(config.RouteCalendar, []byte("DATA_VERSION_1")))

	first := serve(srv, http.MethodGet, config.RouteCalendar, nil)
	_ = first.Body.Close()
	etag := first.Header.Get(config.HeaderETag)
	lastMod := first.Header.Get(config.HeaderLastModified)
	require.NotEmpty(t, etag, "Server must provide an ETag")
	require.NotEmpty(t, lastMod)

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"MatchingETag", map[string]string{config.HeaderIfNoneMatch: etag}, http.StatusNotModified},
		{"StaleETag", map[string]string{config.HeaderIfNoneMatch: `"other"`}, http.StatusOK},
		{"ETagWinsOverDate", map[string]string{config.HeaderIfNoneMatch: `"other"`, config.HeaderIfModifiedSince: lastMod}, http.StatusOK},
		{"NotModifiedSince", map[string]string{config.HeaderIfModifiedSince: lastMod}, http.StatusNotModified},
		{"ModifiedSince", map[string]string{config.HeaderIfModifiedSince: "Mon, 02 Jan 2006 15:04:05 GMT"}, http.StatusOK},
		{"GarbageDate", map[string]string{config.HeaderIfModifiedSince: "yesterday"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := serve(srv, http.MethodGet, config.RouteCalendar, tt.headers)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.want, resp.StatusCode)
			if tt.want == http.StatusNotModified {
				body, _ := io.ReadAll(resp.Body)
				assert.Empty(t, body, "Body must be empty on 304 Not Modified")
			}
		})
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	srv := NewFeedServer("0")

	resp := serve(srv, http.MethodPost, config.RouteCalendar, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, config.AllowedMethods, resp.Header.Get(config.HeaderAllow))
}

func TestHandler_Initializing(t *testing.T) {
	srv := NewFeedServer("0")

	resp := serve(srv, http.MethodGet, config.RouteCalendar, nil)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, config.RetryAfterSeconds, resp.Header.Get(config.HeaderRetryAfter))
}

func TestHandler_UnknownRoute(t *testing.T) {
	srv := NewFeedServer("0")

	resp := serve(srv, http.MethodGet, "/secrets", nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	assert.Error(t, srv.Update("/secrets", []byte("x")))
}

// -----------------------------------------------------------------------------
// Concurrency Tests (Race Detection)
// -----------------------------------------------------------------------------

// TestServer_RaceCondition runs writers and readers concurrently. Run with `go test -race`.
func TestServer_RaceCondition(t *testing.T) {
	srv := NewFeedServer("0")
	handler := srv.Handler()
	var wg sync.WaitGroup

	end := time.Now().Add(300 * time.Millisecond)

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; time.Now().Before(end); i++ {
				_ = srv.Update(config.RouteCalendar, []byte(fmt.Sprintf("VERSION:%d-%d", id, i)))
				time.Sleep(time.Microsecond)
			}
		}(w)
	}

	for r := 0; r < 16; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				w := httptest.NewRecorder()
				handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, config.RouteCalendar, nil))
				if w.Code != http.StatusOK && w.Code != http.StatusServiceUnavailable {
					t.Errorf("Unexpected status code during race test: %d", w.Code)
				}
			}
		}()
	}

	wg.Wait()
}

// -----------------------------------------------------------------------------
// Integration Tests (Real TCP Lifecycle)
// -----------------------------------------------------------------------------

func TestServer_Lifecycle(t *testing.T) {
	srv := NewFeedServer("0") // let the kernel pick a free port
	ctx, cancel := context.WithCancel(context.Background())
	errChan := make(chan error, 1)

	go func() {
		errChan <- srv.Start(ctx)
	}()

	require.Eventually(t, func() bool { return srv.Addr() != "" },
		2*time.Second, 10*time.Millisecond, "Server failed to bind/listen in time")

	url := "http://" + srv.Addr() + config.RouteCalendar

	resp, err := http.Get(url)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()

	require.NoError(t, srv.Update(config.RouteCalendar, []byte("BEGIN:VCALENDAR\nEND:VCALENDAR")))

	resp, err = http.Get(url)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "BEGIN:VCALENDAR")

	cancel()

	select {
	case err := <-errChan:
		assert.NoError(t, err, "Server should shutdown gracefully without error")
	case <-time.After(5 * time.Second):
		t.Fatal("Server shutdown timed out")
	}
}

func TestServer_Start_Errors(t *testing.T) {
	assert.EqualError(t, NewFeedServer("").Start(context.Background()), config.ErrPortRequired)

	err := NewFeedServer("99999").Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrServerStartup)
}
