package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/oi-sentinel/internal/database"
	"github.com/aristath/oi-sentinel/internal/modules/market_hours"
)

// SystemHandlers serves process and host status
type SystemHandlers struct {
	log         zerolog.Logger
	db          *database.DB
	marketHours *market_hours.MarketHoursService
	startedAt   time.Time
	hostStats   func() (float64, float64)
}

// SystemStatusResponse is the payload of GET /api/status
type SystemStatusResponse struct {
	Status        string  `json:"status"`
	Time          string  `json:"time"`
	UptimeSeconds int64   `json:"uptime_seconds"`
	MarketOpen    bool    `json:"market_open"`
	DBSizeBytes   int64   `json:"db_size_bytes"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, db *database.DB, marketHours *market_hours.MarketHoursService) *SystemHandlers {
	h := &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		db:          db,
		marketHours: marketHours,
		startedAt:   time.Now(),
	}
	h.hostStats = h.getSystemStats
	return h
}

// HandleSystemStatus returns uptime, database size and host load
// GET /api/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	now := h.marketHours.Now()
	cpuPercent, memPercent := h.hostStats()

	response := SystemStatusResponse{
		Status:        "running",
		Time:          now.Format(healthTimeFormat),
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		MarketOpen:    h.marketHours.IsMarketOpen(now),
		DBSizeBytes:   h.db.SizeBytes(),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode system status")
	}
}

// getSystemStats calculates CPU and RAM usage percentages.
// The 100ms CPU sample keeps the endpoint responsive.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
