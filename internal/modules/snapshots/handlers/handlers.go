// Package handlers provides HTTP handlers for snapshot read operations.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aristath/oi-sentinel/internal/modules/snapshots"
	"github.com/rs/zerolog"
)

// SnapshotReader is the read side of the snapshot store used by the handlers
type SnapshotReader interface {
	LatestSnapshot(ctx context.Context) ([]snapshots.Observation, error)
}

// Handler handles snapshot HTTP requests
type Handler struct {
	repo SnapshotReader
	loc  *time.Location
	log  zerolog.Logger
}

// NewHandler creates a new snapshot handler
func NewHandler(repo SnapshotReader, loc *time.Location, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		loc:  loc,
		log:  log.With().Str("handler", "snapshots").Logger(),
	}
}

// HandleGetLatest handles GET /api/snapshots/latest
func (h *Handler) HandleGetLatest(w http.ResponseWriter, r *http.Request) {
	observations, err := h.repo.LatestSnapshot(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load latest snapshot")
		http.Error(w, "Failed to load latest snapshot", http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"observations": observations,
		"count":        len(observations),
	}
	if len(observations) > 0 {
		data["timestamp"] = time.Unix(observations[0].Timestamp, 0).In(h.loc).Format(time.RFC3339)
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().In(h.loc).Format(time.RFC3339),
		},
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
