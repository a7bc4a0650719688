package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/meetslot/internal/calendar"
)

func serveHealth(t *testing.T, h *HealthChecker, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	mux := http.NewServeMux()
	h.RegisterHealthEndpoints(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthChecker_Liveness(t *testing.T) {
	h := NewHealthChecker(nil)
	h.SetReady(false)

	rec, body := serveHealth(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code, "liveness ignores readiness")
	assert.Equal(t, healthStatusOK, body["status"])
}

func TestHealthChecker_Readiness(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		shutdown   bool
		wantCode   int
		wantChecks map[string]any
	}{
		{
			name:     "ready",
			ready:    true,
			wantCode: http.StatusOK,
			wantChecks: map[string]any{
				"ready": healthStatusOK, "shutdown": healthStatusOK, "org_settings": healthStatusOK,
			},
		},
		{
			name:     "not ready",
			ready:    false,
			wantCode: http.StatusServiceUnavailable,
			wantChecks: map[string]any{
				"ready": healthStatusNotReady, "shutdown": healthStatusOK, "org_settings": healthStatusOK,
			},
		},
		{
			name:     "shutting down",
			ready:    true,
			shutdown: true,
			wantCode: http.StatusServiceUnavailable,
			wantChecks: map[string]any{
				"ready": healthStatusOK, "shutdown": healthStatusShuttingDown, "org_settings": healthStatusOK,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newTestServerContext(t, Options{})
			h := NewHealthChecker(sc)
			h.SetReady(tt.ready)
			if tt.shutdown {
				require.NoError(t, sc.Shutdown())
			}

			rec, body := serveHealth(t, h, "/readyz")
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantChecks, body["checks"])
		})
	}
}

func TestHealthChecker_ReadinessInvalidSettings(t *testing.T) {
	sc := newTestServerContext(t, Options{})
	h := NewHealthChecker(sc)

	sc.Settings().IntervalMinutes = 0

	rec, body := serveHealth(t, h, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, healthStatusInvalid, body["checks"].(map[string]any)["org_settings"])
}

func TestHealthChecker_Detailed(t *testing.T) {
	sc := newTestServerContext(t, Options{})
	sc.SetCalendarClientForAccount("work", calendar.NewClientWithService(nil, "work"))
	_, err := sc.TimeZones().Location("Europe/Berlin")
	require.NoError(t, err)

	rec, body := serveHealth(t, NewHealthChecker(sc), "/healthz/detailed")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, healthStatusOK, body["status"])
	assert.Equal(t, "09:00-17:00", body["work_hours"])
	assert.EqualValues(t, 15, body["interval_minutes"])
	assert.Equal(t, []any{"work"}, body["calendar_accounts"])
	assert.Contains(t, body, "time_zones_cached")
	assert.NotEmpty(t, body["uptime"])
}
