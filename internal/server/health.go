package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/teemow/meetslot/internal/logging"
)

const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
	healthStatusInvalid      = "invalid"
)

// HealthChecker serves the liveness and readiness probes. It starts ready;
// HTTPServer.Shutdown flips it before draining connections.
type HealthChecker struct {
	ready     atomic.Bool
	sc        *ServerContext
	startTime time.Time
}

// NewHealthChecker creates a HealthChecker. sc may be nil, in which case
// only the readiness flag is checked.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{sc: sc, startTime: time.Now()}
	h.ready.Store(true)
	return h
}

func (h *HealthChecker) SetReady(ready bool) { h.ready.Store(ready) }

func (h *HealthChecker) IsReady() bool { return h.ready.Load() }

// HealthResponse is the body of /healthz and /readyz.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse is the body of /healthz/detailed.
type DetailedHealthResponse struct {
	Status           string   `json:"status"`
	Uptime           string   `json:"uptime"`
	WorkHours        string   `json:"work_hours,omitempty"`
	IntervalMinutes  int      `json:"interval_minutes,omitempty"`
	CalendarAccounts []string `json:"calendar_accounts,omitempty"`
	TimeZonesCached  int      `json:"time_zones_cached"`
}

// RegisterHealthEndpoints mounts /healthz, /readyz and /healthz/detailed.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", h.serveLiveness)
	mux.HandleFunc("/readyz", h.serveReadiness)
	mux.HandleFunc("/healthz/detailed", h.serveDetailed)
}

// LivenessHandler answers ok while the process runs, regardless of readiness.
func (h *HealthChecker) LivenessHandler() http.Handler { return http.HandlerFunc(h.serveLiveness) }

// ReadinessHandler fails while not ready, while shutting down, or when the
// loaded organization settings no longer validate.
func (h *HealthChecker) ReadinessHandler() http.Handler { return http.HandlerFunc(h.serveReadiness) }

func (h *HealthChecker) serveLiveness(w http.ResponseWriter, _ *http.Request) {
	writeHealth(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
}

func (h *HealthChecker) serveReadiness(w http.ResponseWriter, _ *http.Request) {
	checks := h.checks()

	resp := HealthResponse{Status: healthStatusOK, Checks: checks}
	code := http.StatusOK
	for _, result := range checks {
		if result != healthStatusOK {
			resp.Status = healthStatusNotReady
			code = http.StatusServiceUnavailable
			break
		}
	}
	writeHealth(w, code, resp)
}

// checks maps each readiness check to healthStatusOK or the reason it failed.
func (h *HealthChecker) checks() map[string]string {
	checks := map[string]string{
		"ready":    healthStatusOK,
		"shutdown": healthStatusOK,
	}
	if !h.IsReady() {
		checks["ready"] = healthStatusNotReady
	}
	if h.shuttingDown() {
		checks["shutdown"] = healthStatusShuttingDown
	}
	if h.sc != nil {
		checks["org_settings"] = healthStatusOK
		if err := h.sc.Settings().Validate(); err != nil {
			h.sc.Logger().Warn("org settings failed validation", logging.Err(err))
			checks["org_settings"] = healthStatusInvalid
		}
	}
	return checks
}

func (h *HealthChecker) serveDetailed(w http.ResponseWriter, _ *http.Request) {
	resp := DetailedHealthResponse{
		Status: healthStatusOK,
		Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
	}
	if h.sc != nil {
		settings := h.sc.Settings()
		hours := settings.File().WorkHours
		resp.WorkHours = hours.Start.String() + "-" + hours.End.String()
		resp.IntervalMinutes = settings.IntervalMinutes
		resp.CalendarAccounts = h.sc.CalendarAccounts()
		resp.TimeZonesCached = h.sc.TimeZones().Len()
	}

	code := http.StatusOK
	switch {
	case !h.IsReady():
		resp.Status, code = healthStatusNotReady, http.StatusServiceUnavailable
	case h.shuttingDown():
		resp.Status, code = healthStatusShuttingDown, http.StatusServiceUnavailable
	}
	writeHealth(w, code, resp)
}

func (h *HealthChecker) shuttingDown() bool {
	return h.sc != nil && h.sc.IsShutdown()
}

func writeHealth(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
