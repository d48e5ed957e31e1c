package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/tabify/tabify/internal/models"
	"github.com/tabify/tabify/internal/pipeline"
	"github.com/tabify/tabify/internal/shared"
)

// Finder runs the identification pipeline for a source URL.
type Finder interface {
	Find(ctx context.Context, locator string) (*pipeline.Result, error)
}

// HistoryStore persists completed lookups.
type HistoryStore interface {
	Create(lookup *models.Lookup) error
	Recent(limit int) ([]*models.Lookup, error)
}

// FindSongHandler handles GET /find-song requests.
// Implements the Handler interface for registration with a Router.
//
// History persistence is best effort: a storage fault is logged and the
// response still goes out.
type FindSongHandler struct {
	finder  Finder
	history HistoryStore
	logger  *log.Logger
}

// NewFindSongHandler creates a handler around the pipeline. history may be nil
// to disable persistence.
func NewFindSongHandler(finder Finder, history HistoryStore, logger *log.Logger) *FindSongHandler {
	return &FindSongHandler{
		finder:  finder,
		history: history,
		logger:  logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *FindSongHandler) Routes() []string {
	return []string{"/find-song"}
}

// ServeHTTP handles the lookup request.
//
// Validates the yt_url query parameter, runs the pipeline, and maps pipeline
// failures to status codes. Identification failures are indistinguishable to
// the caller whether the recognizer had no match or was unreachable.
func (h *FindSongHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ytURL := r.URL.Query().Get("yt_url")
	if ytURL == "" {
		respondError(w, http.StatusBadRequest, "YouTube URL is required.")
		return
	}

	result, err := h.finder.Find(r.Context(), ytURL)
	if err != nil {
		h.logger.Error("lookup failed", "yt_url", ytURL, "error", err)

		switch {
		case errors.Is(err, shared.ErrInvalidInput):
			respondError(w, http.StatusBadRequest, "YouTube URL is required.")
		case errors.Is(err, shared.ErrUnidentified), errors.Is(err, shared.ErrRecognitionFailed):
			respondError(w, http.StatusNotFound, "Could not identify the song.")
		case errors.Is(err, shared.ErrFetchFailed):
			respondError(w, http.StatusBadGateway, "Could not fetch audio from the source.")
		default:
			respondError(w, http.StatusInternalServerError, "Internal server error.")
		}
		return
	}

	h.record(ytURL, result)

	respondJSON(w, http.StatusOK, result)
}

// record persists the lookup when a history store is configured.
func (h *FindSongHandler) record(sourceURL string, result *pipeline.Result) {
	if h.history == nil {
		return
	}

	lookup := models.NewLookup(0, sourceURL, result.Song, result.Artist,
		result.Spotify.AlbumArt, result.Tabs, result.YouTubeLessons)
	if err := h.history.Create(lookup); err != nil {
		h.logger.Warn("failed to record lookup", "yt_url", sourceURL, "error", err)
	}
}
