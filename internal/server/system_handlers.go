package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/hermes/internal/database"
	"github.com/aristath/hermes/internal/scheduler"
)

// SessionCounter reports how many sessions are live
type SessionCounter interface {
	Count() int
}

// SystemHandlers serves system status and manual job triggers
type SystemHandlers struct {
	log       zerolog.Logger
	startedAt time.Time
	sessions  SessionCounter
	cacheDB   *database.DB
	budget    scheduler.RequestBudget

	// systemStats returns cpu and memory usage percentages
	systemStats func() (float64, float64)
	// runJob executes manually triggered jobs; the scheduler's RunNow when wired
	runJob func(scheduler.Job) error

	mu   sync.RWMutex
	jobs map[string]scheduler.Job
}

// SystemStatusResponse is the body of GET /api/system/status
type SystemStatusResponse struct {
	Status            string          `json:"status"`
	Version           string          `json:"version"`
	StartedAt         string          `json:"started_at"`
	UptimeSeconds     int64           `json:"uptime_seconds"`
	Sessions          int             `json:"sessions"`
	Goroutines        int             `json:"goroutines"`
	CPUPercent        float64         `json:"cpu_percent"`
	MemoryPercent     float64         `json:"memory_percent"`
	CacheDB           *database.Stats `json:"cache_db,omitempty"`
	RequestsRemaining *int            `json:"requests_remaining,omitempty"`
}

// NewSystemHandlers creates system handlers. cacheDB and budget may be nil.
func NewSystemHandlers(log zerolog.Logger, sessions SessionCounter, cacheDB *database.DB, budget scheduler.RequestBudget) *SystemHandlers {
	h := &SystemHandlers{
		log:       log.With().Str("handler", "system").Logger(),
		startedAt: time.Now(),
		sessions:  sessions,
		cacheDB:   cacheDB,
		budget:    budget,
		jobs:      make(map[string]scheduler.Job),
	}
	h.systemStats = h.getSystemStats
	h.runJob = func(job scheduler.Job) error { return job.Run() }
	return h
}

// UseScheduler routes manual triggers through the scheduler so failures are reported like scheduled runs
func (h *SystemHandlers) UseScheduler(s *scheduler.Scheduler) {
	h.runJob = s.RunNow
}

// RegisterJobs makes jobs available for manual triggering
func (h *SystemHandlers) RegisterJobs(jobs ...scheduler.Job) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, job := range jobs {
		h.jobs[job.Name()] = job
	}
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, memPercent := h.systemStats()

	response := SystemStatusResponse{
		Status:        "healthy",
		Version:       Version,
		StartedAt:     h.startedAt.Format(time.RFC3339),
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		Goroutines:    runtime.NumGoroutine(),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
	}

	if h.sessions != nil {
		response.Sessions = h.sessions.Count()
	}

	if h.cacheDB != nil {
		if err := h.cacheDB.QuickCheck(r.Context()); err != nil {
			h.log.Warn().Err(err).Msg("Cache database unreachable")
			response.Status = "degraded"
		}
		stats, err := h.cacheDB.GetStats()
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to get cache database stats")
			response.Status = "degraded"
		} else {
			response.CacheDB = stats
		}
	}

	if h.budget != nil {
		remaining := h.budget.GetRemainingRequests()
		response.RequestsRemaining = &remaining
	}

	h.writeJSON(w, response)
}

// HandleListJobs handles GET /api/jobs
func (h *SystemHandlers) HandleListJobs(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	names := make([]string, 0, len(h.jobs))
	for name := range h.jobs {
		names = append(names, name)
	}
	h.mu.RUnlock()

	sort.Strings(names)
	h.writeJSON(w, map[string]interface{}{"jobs": names})
}

// HandleTriggerJob handles POST /api/jobs/{name}, running the job synchronously
func (h *SystemHandlers) HandleTriggerJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	h.mu.RLock()
	job, ok := h.jobs[name]
	h.mu.RUnlock()

	if !ok {
		h.writeJSONStatus(w, http.StatusNotFound, map[string]string{
			"status":  "error",
			"message": "unknown job: " + name,
		})
		return
	}

	h.log.Info().Str("job", name).Msg("Manual job triggered")

	start := time.Now()
	if err := h.runJob(job); err != nil {
		h.log.Error().Err(err).Str("job", name).Msg("Manual job failed")
		h.writeJSONStatus(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"status":      "success",
		"job":         name,
		"duration_ms": time.Since(start).Milliseconds(),
	})
}

// getSystemStats calculates CPU and RAM usage percentages.
// The CPU sample window is short so the status call stays fast.
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

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *SystemHandlers) writeJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
