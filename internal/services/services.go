// package services defines interfaces for the third-party lookups behind the identification pipeline
//
// Recognition (fingerprint identification), Spotify (catalog), ultimate-guitar (tabs)
package services

import (
	"bytes"
	"context"
	"encoding/json"
)

// TrackIdentity is the canonical (title, artist) candidate produced by fingerprint identification.
// Immutable once produced; every enrichment stage consumes it verbatim.
type TrackIdentity struct {
	Title  string
	Artist string
}

// CatalogMatch is the best-effort result of a catalog lookup.
//
// Either the match fields or Err is populated, never both. A non-empty Err
// never aborts the pipeline; it is embedded in the response as data.
type CatalogMatch struct {
	Song     string
	Artist   string
	AlbumArt string
	Err      string
}

// MarshalJSON renders either the match or its error, matching the response contract:
// {"song","artist","album_art"} on success, {"error"} on degradation.
func (m CatalogMatch) MarshalJSON() ([]byte, error) {
	if m.Err != "" {
		return marshalNoEscape(struct {
			Error string `json:"error"`
		}{m.Err})
	}
	return marshalNoEscape(struct {
		Song     string `json:"song"`
		Artist   string `json:"artist"`
		AlbumArt string `json:"album_art"`
	}{m.Song, m.Artist, m.AlbumArt})
}

// marshalNoEscape marshals v without HTML escaping so URL query separators
// survive as literal '&'.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Recognizer identifies a song from an audio payload on disk.
//
// Returns [shared.ErrUnidentified] when the service finds no match and
// [shared.ErrRecognitionFailed] on transport or protocol errors.
type Recognizer interface {
	Identify(ctx context.Context, audioPath string) (*TrackIdentity, error)
}

// Catalog looks up track metadata by title and artist.
//
// Lookup never returns an error: all failure modes resolve to a
// CatalogMatch with Err populated, isolating callers from provider outages.
type Catalog interface {
	Lookup(ctx context.Context, title, artist string) CatalogMatch
}

// TabResolver turns a song query into a guitar-tab page reference.
//
// ResolveTab has no distinct "not found" signal: when resolution cannot be
// confirmed it returns the search URL itself. Internal faults degrade the
// same way rather than failing the request.
type TabResolver interface {
	ResolveTab(ctx context.Context, title, artist string) string
}
