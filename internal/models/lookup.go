package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Lookup is a persisted record of a successful song identification.
//
// One row is written per pipeline run that resolved a track identity; enrichment
// fields (album art, tabs, lessons) may be empty when the respective sub-lookup degraded.
type Lookup struct {
	id        string
	sequence  int
	sourceURL string
	song      string
	artist    string
	albumArt  string
	tabs      string
	lessons   string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewLookup creates a Lookup for the given source URL and identification result.
func NewLookup(sequence int, sourceURL, song, artist, albumArt, tabs, lessons string) *Lookup {
	now := time.Now()
	return &Lookup{
		sequence:  sequence,
		sourceURL: sourceURL,
		song:      song,
		artist:    artist,
		albumArt:  albumArt,
		tabs:      tabs,
		lessons:   lessons,
		createdAt: now,
		updatedAt: now,
	}
}

func (l *Lookup) ID() string { return l.id }

func (l *Lookup) Sequence() int { return l.sequence }

func (l *Lookup) SourceURL() string { return l.sourceURL }

func (l *Lookup) Song() string { return l.song }

func (l *Lookup) Artist() string { return l.artist }

func (l *Lookup) AlbumArt() string { return l.albumArt }

func (l *Lookup) Tabs() string { return l.tabs }

func (l *Lookup) Lessons() string { return l.lessons }

func (l *Lookup) CreatedAt() time.Time { return l.createdAt }

func (l *Lookup) UpdatedAt() time.Time { return l.updatedAt }

func (l *Lookup) DeletedAt() *time.Time { return l.deletedAt }

func (l *Lookup) SetID(id string) { l.id = id }

func (l *Lookup) SetSequence(seq int) { l.sequence = seq }

func (l *Lookup) SetCreatedAt(t time.Time) { l.createdAt = t }

func (l *Lookup) SetUpdatedAt(t time.Time) { l.updatedAt = t }

func (l *Lookup) SetDeletedAt(t *time.Time) { l.deletedAt = t }

func (l *Lookup) SetEnrichment(art, tabs, lessons string) {
	l.albumArt = art
	l.tabs = tabs
	l.lessons = lessons
}

// Validate checks that the lookup carries the fields every identification produces.
func (l *Lookup) Validate() error {
	if l.sourceURL == "" {
		return fmt.Errorf("lookup source URL is required")
	}
	if l.song == "" {
		return fmt.Errorf("lookup song is required")
	}
	if l.artist == "" {
		return fmt.Errorf("lookup artist is required")
	}
	return nil
}

// MarshalJSON exposes the lookup in the shape returned by GET /history.
//
// Encoded without HTML escaping: the tab and lesson fields are URLs whose
// query separators must survive as literal '&'.
func (l *Lookup) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(struct {
		ID             string    `json:"id"`
		SourceURL      string    `json:"source_url"`
		Song           string    `json:"song"`
		Artist         string    `json:"artist"`
		AlbumArt       string    `json:"album_art,omitempty"`
		Tabs           string    `json:"tabs,omitempty"`
		YouTubeLessons string    `json:"youtube_lessons,omitempty"`
		CreatedAt      time.Time `json:"created_at"`
	}{
		ID:             l.id,
		SourceURL:      l.sourceURL,
		Song:           l.song,
		Artist:         l.artist,
		AlbumArt:       l.albumArt,
		Tabs:           l.tabs,
		YouTubeLessons: l.lessons,
		CreatedAt:      l.createdAt,
	})
	if err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
