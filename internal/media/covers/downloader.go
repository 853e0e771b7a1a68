// Package covers downloads book cover artwork into local image storage.
package covers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shioriapp/shiori-server/internal/media/images"
)

const (
	// maxCoverSize limits download size to prevent memory exhaustion.
	maxCoverSize = 10 * 1024 * 1024 // 10MB

	// downloadTimeout is the maximum time for a cover download.
	downloadTimeout = 30 * time.Second
)

// ErrNotRemote is returned for cover URIs that are not http(s) URLs,
// such as the bundled file names of the seed catalogue.
var ErrNotRemote = errors.New("cover is not a remote URL")

// DownloadResult contains the result of a cover download operation.
type DownloadResult struct {
	Success  bool   // Whether the download and storage succeeded
	Cached   bool   // The cover was already stored; nothing was fetched
	Width    int    // Decoded image width
	Height   int    // Decoded image height
	Size     int64  // File size in bytes
	BlurHash string // Placeholder computed from the stored image
	Error    error  // Error if Success is false
}

// Downloader fetches covers, validates that they decode, and stores them.
type Downloader struct {
	httpClient *http.Client
	storage    *images.Storage
	logger     *slog.Logger
}

// NewDownloader creates a new cover downloader.
func NewDownloader(storage *images.Storage, logger *slog.Logger) *Downloader {
	return &Downloader{
		httpClient: &http.Client{
			Timeout: downloadTimeout,
		},
		storage: storage,
		logger:  logger,
	}
}

// IsRemote reports whether uri can be downloaded.
func IsRemote(uri string) bool {
	return strings.HasPrefix(uri, "https://") || strings.HasPrefix(uri, "http://")
}

// Download fetches the cover at url and stores it under bookID.
// A cover that is already stored is not fetched again; its BlurHash is recomputed.
func (d *Downloader) Download(ctx context.Context, bookID, url string) *DownloadResult {
	result := &DownloadResult{}

	if url == "" {
		result.Error = errors.New("empty cover URL")
		return result
	}
	if !IsRemote(url) {
		result.Error = fmt.Errorf("%w: %s", ErrNotRemote, url)
		return result
	}
	if !images.ValidID(bookID) {
		result.Error = fmt.Errorf("%w: %q", images.ErrInvalidID, bookID)
		return result
	}

	if d.storage.Exists(bookID) {
		data, err := d.storage.Get(bookID)
		if err == nil {
			result.Cached = true
			return d.finish(bookID, data, result)
		}
	}

	downloadCtx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(downloadCtx, http.MethodGet, url, nil)
	if err != nil {
		result.Error = fmt.Errorf("create request: %w", err)
		return result
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		result.Error = fmt.Errorf("download: %w", err)
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		result.Error = fmt.Errorf("download failed: status %d", resp.StatusCode)
		return result
	}

	// Read one byte past the limit so oversized covers are detected.
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverSize+1))
	if err != nil {
		result.Error = fmt.Errorf("read data: %w", err)
		return result
	}
	if len(data) > maxCoverSize {
		result.Error = fmt.Errorf("cover exceeds %d bytes", maxCoverSize)
		return result
	}

	return d.finish(bookID, data, result)
}

// finish decodes data, stores it if it was freshly downloaded, and fills in the placeholder.
func (d *Downloader) finish(bookID string, data []byte, result *DownloadResult) *DownloadResult {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		result.Error = fmt.Errorf("not an image: %w", err)
		return result
	}
	result.Width = cfg.Width
	result.Height = cfg.Height
	result.Size = int64(len(data))

	if !result.Cached {
		if err := d.storage.Save(bookID, data); err != nil {
			result.Error = fmt.Errorf("store: %w", err)
			return result
		}
	}

	hash, err := images.ComputeBlurHashBytes(data)
	if err != nil {
		// The cover is still usable without a placeholder.
		d.logger.Warn("failed to compute blurhash",
			"book_id", bookID,
			"error", err,
		)
	}
	result.BlurHash = hash
	result.Success = true

	d.logger.Info("stored cover",
		"book_id", bookID,
		"format", format,
		"cached", result.Cached,
		"size", result.Size,
		"width", result.Width,
		"height", result.Height,
	)

	return result
}
