package instrumentation

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testConfig(metrics, tracing string) Config {
	return Config{
		ServiceName:       "meetslot-test",
		ServiceVersion:    "1.0.0",
		ServiceInstanceID: "test-instance",
		Enabled:           true,
		MetricsExporter:   metrics,
		TracingExporter:   tracing,
	}
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{ServiceName: "meetslot-test"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if provider.Enabled() {
		t.Error("expected provider to be disabled")
	}
	if provider.Metrics() == nil {
		t.Error("expected a no-op metrics recorder")
	}
	if provider.PrometheusHandler() != nil {
		t.Error("expected no prometheus handler")
	}
	if provider.Tracer("test") == nil {
		t.Error("expected a no-op tracer")
	}

	// Recording on the no-op recorder must not panic.
	provider.Metrics().RecordOptimization(context.Background(), Optimization{Status: StatusSuccess})

	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("expected no error on shutdown, got %v", err)
	}
}

func TestNewProvider_Exporters(t *testing.T) {
	tests := []struct {
		name           string
		metrics        string
		tracing        string
		wantPrometheus bool
	}{
		{"prometheus without tracing", ExporterPrometheus, ExporterNone, true},
		{"empty exporters default to prometheus", "", "", true},
		{"stdout", ExporterStdout, ExporterStdout, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debugOutput = io.Discard
			t.Cleanup(func() { debugOutput = defaultDebugOutput })

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			provider, err := NewProvider(ctx, testConfig(tt.metrics, tt.tracing))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			defer func() { _ = provider.Shutdown(ctx) }()

			if !provider.Enabled() {
				t.Error("expected provider to be enabled")
			}
			if provider.Metrics() == nil {
				t.Error("expected metrics to be non-nil")
			}
			if got := provider.PrometheusHandler() != nil; got != tt.wantPrometheus {
				t.Errorf("PrometheusHandler present = %v, want %v", got, tt.wantPrometheus)
			}
			if provider.Tracer("test") == nil {
				t.Error("expected tracer to be non-nil")
			}
		})
	}
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:    "invalid metrics exporter",
			config:  testConfig("graphite", ExporterNone),
			wantErr: "metrics exporter",
		},
		{
			name:    "invalid tracing exporter",
			config:  testConfig(ExporterPrometheus, "zipkin"),
			wantErr: "tracing exporter",
		},
		{
			name:    "otlp tracing without endpoint",
			config:  testConfig(ExporterPrometheus, ExporterOTLP),
			wantErr: "OTLP endpoint",
		},
		{
			name: "sampling rate out of range",
			config: func() Config {
				c := testConfig(ExporterPrometheus, ExporterNone)
				c.TraceSamplingRate = 1.5
				return c
			}(),
			wantErr: "sampling rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(context.Background(), tt.config)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestProvider_PrometheusHandler_ServesMetrics(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, testConfig(ExporterPrometheus, ExporterNone))
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	provider.Metrics().RecordOptimization(ctx, Optimization{
		Status:       StatusSuccess,
		LocationType: "virtual",
		Attendees:    2,
		Candidates:   10,
		Duration:     5 * time.Millisecond,
	})

	rec := httptest.NewRecorder()
	provider.PrometheusHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"meetslot_optimizations_total", "go_goroutines", `service_name="meetslot-test"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %s in output, got:\n%s", want, body)
		}
	}
}

func TestProvider_StdoutExporterWritesToDebugOutput(t *testing.T) {
	var buf bytes.Buffer
	debugOutput = &buf
	t.Cleanup(func() { debugOutput = defaultDebugOutput })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := NewProvider(ctx, testConfig(ExporterStdout, ExporterNone))
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	provider.Metrics().RecordToolInvocation(ctx, "meeting_find_optimal_slots", StatusSuccess, "", time.Millisecond)

	// Shutdown flushes the periodic reader.
	if err := provider.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if !strings.Contains(buf.String(), "mcp_tool_invocations_total") {
		t.Errorf("expected exported metrics in debug output, got:\n%s", buf.String())
	}
}

func TestProvider_Nil(t *testing.T) {
	var provider *Provider
	if provider.Metrics() != nil {
		t.Error("expected nil metrics from nil provider")
	}
	if provider.PrometheusHandler() != nil {
		t.Error("expected nil handler from nil provider")
	}
	if provider.Enabled() {
		t.Error("expected nil provider to be disabled")
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}
