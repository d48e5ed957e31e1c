package server

import (
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/tabify/tabify/internal/models"
)

// HistoryHandler handles GET /history requests, returning recent lookups
// newest first.
type HistoryHandler struct {
	history HistoryStore
	logger  *log.Logger
}

// NewHistoryHandler creates a handler over the history store.
func NewHistoryHandler(history HistoryStore, logger *log.Logger) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		logger:  logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *HistoryHandler) Routes() []string {
	return []string{"/history"}
}

// ServeHTTP returns the most recent lookups. The optional limit query
// parameter caps the result count; invalid values fall back to the default.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	lookups, err := h.history.Recent(limit)
	if err != nil {
		h.logger.Error("failed to load history", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}

	if lookups == nil {
		lookups = []*models.Lookup{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"lookups": lookups,
		"count":   len(lookups),
	})
}
