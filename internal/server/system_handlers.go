package server

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/riskboard/internal/database"
	"github.com/aristath/riskboard/internal/server/respond"
)

const appVersion = "1.0.0"

// SystemHandlers serves health and status endpoints
type SystemHandlers struct {
	log       zerolog.Logger
	db        *database.DB
	startTime time.Time
}

// DatabaseStatus summarizes what the database currently holds
type DatabaseStatus struct {
	Path        string  `json:"path"`
	SizeMB      float64 `json:"size_mb"`
	Tickers     int     `json:"tickers"`
	PriceRows   int     `json:"price_rows"`
	Assessments int     `json:"assessments"`
}

// SystemStatus is the payload of /api/system/status
type SystemStatus struct {
	Status        string         `json:"status"`
	Version       string         `json:"version"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	CPUPercent    float64        `json:"cpu_percent"`
	MemoryPercent float64        `json:"memory_percent"`
	Database      DatabaseStatus `json:"database"`
}

// NewSystemHandlers creates system handlers
func NewSystemHandlers(log zerolog.Logger, db *database.DB) *SystemHandlers {
	return &SystemHandlers{
		log:       log.With().Str("component", "system").Logger(),
		db:        db,
		startTime: time.Now(),
	}
}

// HandleHealth handles health check requests
func (h *SystemHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": appVersion,
		"service": "riskboard",
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode health response")
	}
}

// HandleSystemStatus returns process and database status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, memPercent := h.systemStats()

	status := SystemStatus{
		Status:        "healthy",
		Version:       appVersion,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		Database:      h.databaseStatus(),
	}

	respond.JSON(w, h.log, http.StatusOK, status)
}

// systemStats reads CPU and RAM usage percentages. The 100ms sampling
// interval keeps the endpoint fast enough for dashboard polling.
func (h *SystemHandlers) systemStats() (float64, float64) {
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

func (h *SystemHandlers) databaseStatus() DatabaseStatus {
	status := DatabaseStatus{Path: h.db.Path()}

	if info, err := os.Stat(h.db.Path()); err == nil {
		status.SizeMB = float64(info.Size()) / 1024 / 1024
	}

	conn := h.db.Conn()
	queries := map[*int]string{
		&status.Tickers:     "SELECT COUNT(DISTINCT ticker) FROM daily_prices",
		&status.PriceRows:   "SELECT COUNT(*) FROM daily_prices",
		&status.Assessments: "SELECT COUNT(*) FROM assessments",
	}
	for dest, query := range queries {
		if err := conn.QueryRow(query).Scan(dest); err != nil {
			h.log.Warn().Err(err).Str("query", query).Msg("Database status query failed")
		}
	}

	return status
}
