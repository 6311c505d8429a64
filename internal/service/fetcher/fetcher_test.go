package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/rhasspy/releasekit/internal/domain/release"
)

// newTestFetcher builds a fetcher pointed at a test server.
func newTestFetcher(url, destination, checksum string) *fetcher {
	return &fetcher{
		url:         url,
		destination: destination,
		checksum:    checksum,
		client:      &http.Client{Timeout: 5 * time.Second},
	}
}

// TestFetch_Downloads stores the body at the destination.
func TestFetch_Downloads(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("archive-bytes"))
	}))
	defer server.Close()

	destination := filepath.Join(t.TempDir(), "download", "snowboy.tar.gz")
	f := newTestFetcher(server.URL, destination, "")

	require.NoError(t, f.Fetch(context.Background()))

	contents, err := os.ReadFile(destination)
	require.NoError(t, err)
	require.Equal(t, "archive-bytes", string(contents))
}

// TestFetch_SkipsWhenPresent performs no network access for a cached file.
func TestFetch_SkipsWhenPresent(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("fresh"))
	}))
	defer server.Close()

	destination := filepath.Join(t.TempDir(), "snowboy.tar.gz")
	require.NoError(t, os.WriteFile(destination, []byte("cached"), 0o644))

	f := newTestFetcher(server.URL, destination, "")
	require.NoError(t, f.Fetch(context.Background()))

	require.Zero(t, hits.Load())

	contents, err := os.ReadFile(destination)
	require.NoError(t, err)
	require.Equal(t, "cached", string(contents))
}

// TestFetch_BadStatus fails on a non-200 response and leaves no file behind.
func TestFetch_BadStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	destination := filepath.Join(t.TempDir(), "snowboy.tar.gz")
	f := newTestFetcher(server.URL, destination, "")

	err := f.Fetch(context.Background())
	require.Error(t, err)

	_, err = os.Stat(destination)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestFetch_ChecksumMismatch refuses to install a corrupted download.
func TestFetch_ChecksumMismatch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("tampered"))
	}))
	defer server.Close()

	expected, err := domain.Checksum([]byte("original"))
	require.NoError(t, err)

	destination := filepath.Join(t.TempDir(), "snowboy.tar.gz")
	f := newTestFetcher(server.URL, destination, expected)

	err = f.Fetch(context.Background())
	require.Error(t, err)

	_, err = os.Stat(destination)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestFetch_ChecksumMatch installs a verified download.
func TestFetch_ChecksumMatch(t *testing.T) {
	t.Parallel()

	payload := []byte("verified-archive")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	expected, err := domain.Checksum(payload)
	require.NoError(t, err)

	destination := filepath.Join(t.TempDir(), "snowboy.tar.gz")
	f := newTestFetcher(server.URL, destination, expected)

	require.NoError(t, f.Fetch(context.Background()))

	contents, err := os.ReadFile(destination)
	require.NoError(t, err)
	require.Equal(t, payload, contents)
}
