package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aristath/oi-sentinel/internal/modules/snapshots"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReader struct {
	observations []snapshots.Observation
	err          error
}

func (s stubReader) LatestSnapshot(context.Context) ([]snapshots.Observation, error) {
	return s.observations, s.err
}

func serve(t *testing.T, reader SnapshotReader) *httptest.ResponseRecorder {
	t.Helper()
	handler := NewHandler(reader, time.UTC, zerolog.New(nil).Level(zerolog.Disabled))

	router := chi.NewRouter()
	router.Route("/api", handler.RegisterRoutes)

	req := httptest.NewRequest("GET", "/api/snapshots/latest", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleGetLatest(t *testing.T) {
	w := serve(t, stubReader{observations: []snapshots.Observation{
		{Timestamp: 1700000000, Expiry: "30-Nov-2023", Side: snapshots.SideCall, Strike: 19800, OpenInterest: 10, ImpliedVolatility: 11.2, TradedVolume: 3},
		{Timestamp: 1700000000, Expiry: "30-Nov-2023", Side: snapshots.SideFuture, Strike: 0, TradedVolume: 800},
	}})

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data struct {
			Count        int                     `json:"count"`
			Timestamp    string                  `json:"timestamp"`
			Observations []snapshots.Observation `json:"observations"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, 2, response.Data.Count)
	assert.Equal(t, "2023-11-14T22:13:20Z", response.Data.Timestamp)
	assert.Equal(t, snapshots.SideCall, response.Data.Observations[0].Side)
	assert.Equal(t, int64(19800), response.Data.Observations[0].Strike)
}

func TestHandleGetLatest_Empty(t *testing.T) {
	w := serve(t, stubReader{observations: []snapshots.Observation{}})

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(0), response["data"]["count"])
	assert.NotContains(t, response["data"], "timestamp")
}

func TestHandleGetLatest_StoreError(t *testing.T) {
	w := serve(t, stubReader{err: errors.New("disk I/O error")})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
