// package media retrieves decodable audio payloads for remote source locators.
package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/lrstanley/go-ytdlp"

	"github.com/tabify/tabify/internal/shared"
)

// Asset is a scoped handle to fetched audio bytes on disk.
//
// The request that created an Asset owns it exclusively and must release it
// at end of request regardless of downstream outcome.
type Asset struct {
	path string
}

// NewAsset wraps an existing file path in an Asset.
func NewAsset(path string) *Asset {
	return &Asset{path: path}
}

// Path returns the filesystem location of the audio payload.
func (a *Asset) Path() string {
	return a.path
}

// Release deletes the underlying file. Safe to call more than once; a file
// that is already gone is not an error.
func (a *Asset) Release() error {
	if a == nil || a.path == "" {
		return nil
	}

	if err := os.Remove(a.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to release audio asset: %w", err)
	}

	return nil
}

// Fetcher retrieves a decodable audio payload for a source locator.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) (*Asset, error)
}

// YTDLPFetcher implements [Fetcher] on top of yt-dlp.
//
// Each fetch selects the best available audio-only encoding and writes it to
// a uniquely named file, so concurrent in-flight requests cannot collide.
type YTDLPFetcher struct {
	dir    string
	logger *log.Logger
}

// NewYTDLPFetcher creates a fetcher writing into dir, or the system temp
// directory when dir is empty.
func NewYTDLPFetcher(dir string, logger *log.Logger) *YTDLPFetcher {
	if dir == "" {
		dir = os.TempDir()
	}

	return &YTDLPFetcher{
		dir:    dir,
		logger: logger,
	}
}

// Fetch downloads the best audio encoding for the locator to a temp file.
//
// All failure modes (unreachable locator, unsupported source, no audio
// stream) surface as [shared.ErrFetchFailed]; any partially written file is
// cleaned up before returning.
func (f *YTDLPFetcher) Fetch(ctx context.Context, locator string) (*Asset, error) {
	if locator == "" {
		return nil, fmt.Errorf("%w: source locator is empty", shared.ErrInvalidInput)
	}

	dest := filepath.Join(f.dir, shared.GenerateID()+".mp3")

	dl := ytdlp.New().
		Format("bestaudio/best").
		NoPlaylist().
		Output(dest)

	if _, err := dl.Run(ctx, locator); err != nil {
		if rmErr := os.Remove(dest); rmErr != nil && !os.IsNotExist(rmErr) {
			f.logger.Warn("failed to clean up partial download", "path", dest, "error", rmErr)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrFetchFailed, err)
	}

	if _, err := os.Stat(dest); err != nil {
		return nil, fmt.Errorf("%w: source yielded no audio stream", shared.ErrFetchFailed)
	}

	f.logger.Debug("fetched audio", "locator", locator, "path", dest)

	return &Asset{path: dest}, nil
}
