package server

import (
	"encoding/json"
	"net/http"
)

// Python-style isoformat with microseconds, e.g. 2024-01-22 10:00:00.000000+05:30
const healthTimeFormat = "2006-01-02 15:04:05.000000-07:00"

// handleHealth reports liveness with the current exchange-local time
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status": "running",
		"time":   s.container.MarketHours.Now().Format(healthTimeFormat),
	}

	s.writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
