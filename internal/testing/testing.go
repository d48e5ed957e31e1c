// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tabify/tabify/internal/media"
	"github.com/tabify/tabify/internal/services"
)

// MockFetcher is a test double for [media.Fetcher].
//
// It writes a real throwaway file per fetch so asset release semantics stay
// observable in tests.
type MockFetcher struct {
	Err     error
	Dir     string
	Fetched []string
}

func (m *MockFetcher) Fetch(ctx context.Context, locator string) (*media.Asset, error) {
	m.Fetched = append(m.Fetched, locator)
	if m.Err != nil {
		return nil, m.Err
	}

	dir := m.Dir
	if dir == "" {
		dir = os.TempDir()
	}

	path := filepath.Join(dir, "mock-audio.mp3")
	if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
		return nil, err
	}

	return media.NewAsset(path), nil
}

// MockRecognizer is a test double for [services.Recognizer]
type MockRecognizer struct {
	Identity *services.TrackIdentity
	Err      error
	Paths    []string
}

func (m *MockRecognizer) Identify(ctx context.Context, audioPath string) (*services.TrackIdentity, error) {
	m.Paths = append(m.Paths, audioPath)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Identity, nil
}

// MockCatalog is a test double for [services.Catalog]
type MockCatalog struct {
	Match services.CatalogMatch
	Calls int
}

func (m *MockCatalog) Lookup(ctx context.Context, title, artist string) services.CatalogMatch {
	m.Calls++
	return m.Match
}

// MockTabResolver is a test double for [services.TabResolver].
//
// Degrade simulates an internal resolver fault, which resolves to the search
// URL the same way the real resolver does.
type MockTabResolver struct {
	URL     string
	Degrade bool
	Calls   int
}

func (m *MockTabResolver) ResolveTab(ctx context.Context, title, artist string) string {
	m.Calls++
	if m.Degrade || m.URL == "" {
		return services.TabSearchURL(title, artist)
	}
	return m.URL
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertFileGone(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("File still exists: %s", path)
	}
}
