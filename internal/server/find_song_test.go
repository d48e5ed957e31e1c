package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tabify/tabify/internal/models"
	"github.com/tabify/tabify/internal/pipeline"
	"github.com/tabify/tabify/internal/services"
	"github.com/tabify/tabify/internal/shared"
)

// fakeFinder is a canned-response Finder.
type fakeFinder struct {
	result  *pipeline.Result
	err     error
	locator string
}

func (f *fakeFinder) Find(ctx context.Context, locator string) (*pipeline.Result, error) {
	f.locator = locator
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

// fakeHistory records created lookups in memory.
type fakeHistory struct {
	created []*models.Lookup
	err     error
}

func (f *fakeHistory) Create(lookup *models.Lookup) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, lookup)
	return nil
}

func (f *fakeHistory) Recent(limit int) ([]*models.Lookup, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.created, nil
}

func testResult() *pipeline.Result {
	return &pipeline.Result{
		Song:   "Yesterday",
		Artist: "The Beatles",
		Spotify: services.CatalogMatch{
			Song:     "Yesterday",
			Artist:   "The Beatles",
			AlbumArt: "https://i.scdn.co/image/abc",
		},
		Tabs:           "https://www.ultimate-guitar.com/search.php?search_type=title&value=Yesterday+The+Beatles",
		YouTubeLessons: "https://www.youtube.com/results?search_query=Yesterday+The+Beatles+guitar+lesson&sp=EgIYAw%253D%253D",
	}
}

func doFind(t *testing.T, finder Finder, history HistoryStore, target string) *httptest.ResponseRecorder {
	t.Helper()

	handler := NewFindSongHandler(finder, history, shared.NewLogger(nil))
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestFindSongHandler(t *testing.T) {
	t.Run("Missing URL", func(t *testing.T) {
		finder := &fakeFinder{result: testResult()}
		rec := doFind(t, finder, nil, "/find-song")

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != `{"detail":"YouTube URL is required."}` {
			t.Errorf("unexpected body: %s", got)
		}
		if finder.locator != "" {
			t.Error("pipeline should not run without a URL")
		}
	})

	t.Run("Unidentified Song", func(t *testing.T) {
		rec := doFind(t, &fakeFinder{err: shared.ErrUnidentified}, nil, "/find-song?yt_url=https://youtu.be/abc")

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != `{"detail":"Could not identify the song."}` {
			t.Errorf("unexpected body: %s", got)
		}
	})

	t.Run("Recognizer Unreachable Is Also 404", func(t *testing.T) {
		rec := doFind(t, &fakeFinder{err: shared.ErrRecognitionFailed}, nil, "/find-song?yt_url=https://youtu.be/abc")

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != `{"detail":"Could not identify the song."}` {
			t.Errorf("unexpected body: %s", got)
		}
	})

	t.Run("Fetch Failure", func(t *testing.T) {
		rec := doFind(t, &fakeFinder{err: shared.ErrFetchFailed}, nil, "/find-song?yt_url=https://youtu.be/abc")

		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", rec.Code)
		}
	})

	t.Run("Unexpected Failure", func(t *testing.T) {
		rec := doFind(t, &fakeFinder{err: context.DeadlineExceeded}, nil, "/find-song?yt_url=https://youtu.be/abc")

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})

	t.Run("Successful Lookup", func(t *testing.T) {
		finder := &fakeFinder{result: testResult()}
		rec := doFind(t, finder, nil, "/find-song?yt_url=https://youtu.be/abc")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %s", ct)
		}
		if finder.locator != "https://youtu.be/abc" {
			t.Errorf("unexpected locator: %s", finder.locator)
		}

		want := `{"song":"Yesterday","artist":"The Beatles",` +
			`"spotify":{"song":"Yesterday","artist":"The Beatles","album_art":"https://i.scdn.co/image/abc"},` +
			`"tabs":"https://www.ultimate-guitar.com/search.php?search_type=title&value=Yesterday+The+Beatles",` +
			`"youtube_lessons":"https://www.youtube.com/results?search_query=Yesterday+The+Beatles+guitar+lesson&sp=EgIYAw%253D%253D"}`
		if got := strings.TrimSpace(rec.Body.String()); got != want {
			t.Errorf("unexpected body:\n got %s\nwant %s", got, want)
		}
	})

	t.Run("Catalog Miss Passes Through", func(t *testing.T) {
		result := testResult()
		result.Spotify = services.CatalogMatch{Err: "No results found on Spotify."}
		rec := doFind(t, &fakeFinder{result: result}, nil, "/find-song?yt_url=https://youtu.be/abc")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var body struct {
			Spotify map[string]string `json:"spotify"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body.Spotify["error"] != "No results found on Spotify." {
			t.Errorf("unexpected spotify payload: %v", body.Spotify)
		}
	})

	t.Run("Records History", func(t *testing.T) {
		history := &fakeHistory{}
		rec := doFind(t, &fakeFinder{result: testResult()}, history, "/find-song?yt_url=https://youtu.be/abc")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(history.created) != 1 {
			t.Fatalf("expected one recorded lookup, got %d", len(history.created))
		}
		if history.created[0].Song() != "Yesterday" || history.created[0].SourceURL() != "https://youtu.be/abc" {
			t.Errorf("unexpected recorded lookup: %s from %s", history.created[0].Song(), history.created[0].SourceURL())
		}
	})

	t.Run("History Failure Does Not Fail Request", func(t *testing.T) {
		history := &fakeHistory{err: context.Canceled}
		rec := doFind(t, &fakeFinder{result: testResult()}, history, "/find-song?yt_url=https://youtu.be/abc")

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200 despite history failure, got %d", rec.Code)
		}
	})
}

func TestHistoryHandler(t *testing.T) {
	t.Run("Empty History", func(t *testing.T) {
		handler := NewHistoryHandler(&fakeHistory{}, shared.NewLogger(nil))
		req := httptest.NewRequest(http.MethodGet, "/history", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var body struct {
			Lookups []json.RawMessage `json:"lookups"`
			Count   int               `json:"count"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body.Count != 0 || len(body.Lookups) != 0 {
			t.Errorf("expected empty history, got count=%d", body.Count)
		}
	})

	t.Run("Returns Lookups", func(t *testing.T) {
		history := &fakeHistory{}
		lookup := models.NewLookup(1, "https://youtu.be/abc", "Yesterday", "The Beatles", "", "", "")
		lookup.SetID("test-id")
		if err := history.Create(lookup); err != nil {
			t.Fatalf("failed to seed history: %v", err)
		}

		handler := NewHistoryHandler(history, shared.NewLogger(nil))
		req := httptest.NewRequest(http.MethodGet, "/history?limit=5", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var body struct {
			Lookups []struct {
				Song   string `json:"song"`
				Artist string `json:"artist"`
			} `json:"lookups"`
			Count int `json:"count"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body.Count != 1 || body.Lookups[0].Song != "Yesterday" {
			t.Errorf("unexpected history payload: %+v", body)
		}
	})

	t.Run("Store Failure", func(t *testing.T) {
		handler := NewHistoryHandler(&fakeHistory{err: context.Canceled}, shared.NewLogger(nil))
		req := httptest.NewRequest(http.MethodGet, "/history", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})
}
