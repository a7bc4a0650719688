package instrumentation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T, detailed bool) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp.Meter("test"), detailed)
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumValue(t *testing.T, m metricdata.Metrics, attrs ...attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "%s is not an int64 sum", m.Name)
	want := attribute.NewSet(attrs...)
	var total int64
	for _, dp := range sum.DataPoints {
		if dp.Attributes.Equals(&want) {
			total += dp.Value
		}
	}
	return total
}

func TestMetrics_RecordOptimization(t *testing.T) {
	m, reader := newTestMetrics(t, false)
	ctx := context.Background()

	m.RecordOptimization(ctx, Optimization{Status: StatusSuccess, LocationType: "virtual", Attendees: 3, Candidates: 120, SkippedEvents: 2, Duration: time.Millisecond})
	m.RecordOptimization(ctx, Optimization{Status: StatusSuccess, LocationType: "virtual", Candidates: 10, Duration: time.Millisecond})
	m.RecordOptimization(ctx, Optimization{Status: StatusError, LocationType: "nonsense", Duration: time.Millisecond})

	got := collect(t, reader)

	total := got["meetslot_optimizations_total"]
	assert.EqualValues(t, 2, sumValue(t, total, attribute.String("status", "success"), attribute.String("location", "virtual")))
	assert.EqualValues(t, 1, sumValue(t, total, attribute.String("status", "error"), attribute.String("location", "unknown")))

	assert.EqualValues(t, 2, sumValue(t, got["meetslot_events_skipped_total"], attribute.String("reason", "unparsable")))

	hist, ok := got["meetslot_candidates_generated"].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.EqualValues(t, 2, hist.DataPoints[0].Count, "errors do not record candidates")
	assert.EqualValues(t, 130, hist.DataPoints[0].Sum)

	_, ok = got["meetslot_optimization_duration_seconds"]
	assert.True(t, ok)
}

func TestMetrics_DetailedLabels(t *testing.T) {
	m, reader := newTestMetrics(t, true)
	ctx := context.Background()

	m.RecordOptimization(ctx, Optimization{Status: StatusEmpty, LocationType: "hybrid", Attendees: 5})
	m.RecordToolInvocation(ctx, "meeting_find_optimal_slots_google", StatusSuccess, "work", time.Second)

	got := collect(t, reader)
	assert.EqualValues(t, 1, sumValue(t, got["meetslot_optimizations_total"],
		attribute.String("status", "empty"), attribute.String("location", "hybrid"), attribute.String("attendees", "4-7")))
	assert.EqualValues(t, 1, sumValue(t, got["mcp_tool_invocations_total"],
		attribute.String("tool", "meeting_find_optimal_slots_google"), attribute.String("status", "success"), attribute.String("account", "work")))
}

func TestMetrics_ToolAndGoogle(t *testing.T) {
	m, reader := newTestMetrics(t, false)
	ctx := context.Background()

	m.RecordToolInvocation(ctx, "meeting_find_optimal_slots", StatusError, "work", time.Millisecond)
	m.RecordGoogleAPIOperation(ctx, ServiceCalendar, OperationFreeBusy, StatusSuccess, 200*time.Millisecond)
	m.RecordHTTPRequest(ctx, "POST", "/mcp", 200, 10*time.Millisecond)

	got := collect(t, reader)
	assert.EqualValues(t, 1, sumValue(t, got["mcp_tool_invocations_total"],
		attribute.String("tool", "meeting_find_optimal_slots"), attribute.String("status", "error")), "account label omitted without detailed labels")
	assert.EqualValues(t, 1, sumValue(t, got["google_api_operations_total"],
		attribute.String("service", "calendar"), attribute.String("operation", "freebusy"), attribute.String("status", "success")))
	assert.EqualValues(t, 1, sumValue(t, got["http_requests_total"],
		attribute.String("method", "POST"), attribute.String("path", "/mcp"), attribute.String("status", "200")))
}

func TestMetrics_NilSafe(t *testing.T) {
	ctx := context.Background()

	var nilMetrics *Metrics
	nilMetrics.RecordOptimization(ctx, Optimization{Status: StatusSuccess})
	nilMetrics.RecordToolInvocation(ctx, "x", StatusSuccess, "", time.Second)
	nilMetrics.RecordGoogleAPIOperation(ctx, ServiceCalendar, OperationFreeBusy, StatusSuccess, time.Second)
	nilMetrics.RecordHTTPRequest(ctx, "GET", "/", 200, time.Second)

	zero := &Metrics{}
	zero.RecordOptimization(ctx, Optimization{Status: StatusSuccess})
	zero.RecordToolInvocation(ctx, "x", StatusSuccess, "", time.Second)
}
