package fetcher

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/rhasspy/releasekit/internal/config"
	domain "github.com/rhasspy/releasekit/internal/domain/release"
	"github.com/rhasspy/releasekit/internal/logger"
)

var (
	errBadHTTPStatus = errors.New("unexpected http status")
	errEmptyURL      = errors.New("resource URL is empty")
)

// downloadedFileMode is used for the cached archive.
const downloadedFileMode os.FileMode = 0o644

// Options are inputs accepted by the fetcher entry point.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// URL overrides the configured resource URL when non-empty.
	URL string
	// Destination overrides the configured cache filename when non-empty.
	Destination string
	// Checksum overrides the configured base64 SHA-512 checksum when non-empty.
	Checksum string
}

// fetcher downloads the resource archive once and keeps it cached by presence.
type fetcher struct {
	url         string
	destination string
	checksum    string
	client      *http.Client
}

// Run executes the fetch-if-absent workflow and is the public entry point.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "release-fetch")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	f := &fetcher{
		url:         cfg.ResourceURL,
		destination: cfg.ResourceArchive,
		checksum:    cfg.ResourceChecksum,
		client:      &http.Client{Timeout: cfg.Timeout},
	}

	if opts.URL != "" {
		f.url = opts.URL
	}

	if opts.Destination != "" {
		f.destination = opts.Destination
	}

	if opts.Checksum != "" {
		f.checksum = opts.Checksum
	}

	if err = f.Fetch(ctx); err != nil {
		return fmt.Errorf("fetch resource archive: %w", err)
	}

	return nil
}

// Fetch downloads the URL to the destination only when the destination does
// not already exist. Presence is the cache key; no network access happens
// for a cached file.
func (f *fetcher) Fetch(ctx context.Context) error {
	if f.url == "" {
		return errEmptyURL
	}

	if _, err := os.Stat(f.destination); err == nil {
		logger.InfoKV(ctx, "Resource archive already cached", "path", f.destination)
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.destination), 0o755); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Downloading resource archive", "url", f.url, "path", f.destination)

	data, err := f.download(ctx)
	if err != nil {
		return err
	}

	return f.install(ctx, data)
}

// download performs a single GET with no retries; failure is fatal.
func (f *fetcher) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, http.NoBody)
	if err != nil {
		return nil, err
	}

	response, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s, %s: %w", f.url, response.Status, errBadHTTPStatus)
	}

	return io.ReadAll(response.Body)
}

// install writes the downloaded bytes to the destination atomically.
// When a checksum is configured, the write is refused on mismatch, so a
// corrupted download never lands at the cache path.
func (f *fetcher) install(ctx context.Context, data []byte) error {
	options := goupdate.Options{
		TargetPath: f.destination,
		TargetMode: downloadedFileMode,
	}

	if f.checksum != "" {
		expected, err := base64.StdEncoding.DecodeString(f.checksum)
		if err != nil {
			return fmt.Errorf("decode configured checksum: %w", err)
		}

		options.Checksum = expected
		options.Hash = domain.ChecksumFunction
	}

	if err := goupdate.Apply(bytes.NewReader(data), options); err != nil {
		return err
	}

	oldFileName := f.destination + ".old"
	if _, err := os.Stat(oldFileName); err == nil {
		_ = os.Remove(oldFileName)
	}

	logger.InfoKV(ctx, "Resource archive cached", "path", f.destination, "bytes", len(data))

	return nil
}
