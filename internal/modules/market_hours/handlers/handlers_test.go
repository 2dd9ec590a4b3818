package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aristath/oi-sentinel/internal/modules/market_hours"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T) *Handler {
	t.Helper()
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	logger := zerolog.New(nil).Level(zerolog.Disabled)
	service := market_hours.NewMarketHoursService(market_hours.NSEConfig(ist))
	return NewHandler(service, logger)
}

func TestHandleGetStatus(t *testing.T) {
	handler := newHandler(t)

	req := httptest.NewRequest("GET", "/api/market-hours/status", nil)
	w := httptest.NewRecorder()

	handler.HandleGetStatus(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "XNSE", data["exchange"])
	assert.Equal(t, "Asia/Kolkata", data["timezone"])
	assert.Contains(t, data, "open")
}

func TestRegisterRoutes(t *testing.T) {
	handler := newHandler(t)

	router := chi.NewRouter()
	router.Route("/api", handler.RegisterRoutes)

	req := httptest.NewRequest("GET", "/api/market-hours/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
