package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrTool      = "tool"
	attrAccount   = "account"
	attrLocation  = "location"
	attrAttendees = "attendees"
	attrReason    = "reason"
)

// Metrics provides methods for recording observability metrics.
// A zero Metrics is a valid no-op recorder.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Slot optimization metrics
	optimizationsTotal   metric.Int64Counter
	optimizationDuration metric.Float64Histogram
	candidatesGenerated  metric.Int64Histogram
	eventsSkippedTotal   metric.Int64Counter

	// Google API metrics
	googleAPIOperationsTotal   metric.Int64Counter
	googleAPIOperationDuration metric.Float64Histogram

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.optimizationsTotal, err = meter.Int64Counter(
		"meetslot_optimizations_total",
		metric.WithDescription("Total number of slot optimizations"),
		metric.WithUnit("{optimization}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create meetslot_optimizations_total counter: %w", err)
	}

	m.optimizationDuration, err = meter.Float64Histogram(
		"meetslot_optimization_duration_seconds",
		metric.WithDescription("Slot optimization duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create meetslot_optimization_duration_seconds histogram: %w", err)
	}

	m.candidatesGenerated, err = meter.Int64Histogram(
		"meetslot_candidates_generated",
		metric.WithDescription("Number of candidate slots scored per optimization"),
		metric.WithUnit("{slot}"),
		metric.WithExplicitBucketBoundaries(0, 10, 50, 100, 250, 500, 1000, 5000),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create meetslot_candidates_generated histogram: %w", err)
	}

	m.eventsSkippedTotal, err = meter.Int64Counter(
		"meetslot_events_skipped_total",
		metric.WithDescription("Total number of attendee events dropped because they could not be parsed"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create meetslot_events_skipped_total counter: %w", err)
	}

	m.googleAPIOperationsTotal, err = meter.Int64Counter(
		"google_api_operations_total",
		metric.WithDescription("Total number of Google API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operations_total counter: %w", err)
	}

	m.googleAPIOperationDuration, err = meter.Float64Histogram(
		"google_api_operation_duration_seconds",
		metric.WithDescription("Google API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create google_api_operation_duration_seconds histogram: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	)

	m.httpRequestsTotal.Add(ctx, 1, attrs)
	m.httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// Optimization describes one completed slot search for metrics.
type Optimization struct {
	Status        string
	LocationType  string
	Attendees     int
	Candidates    int
	SkippedEvents int
	Duration      time.Duration
}

// RecordOptimization records a slot search. Status is StatusSuccess,
// StatusEmpty or StatusError.
func (m *Metrics) RecordOptimization(ctx context.Context, o Optimization) {
	if m == nil || m.optimizationsTotal == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrStatus, o.Status),
		attribute.String(attrLocation, LocationLabel(o.LocationType)),
	}
	if m.detailedLabels {
		attrs = append(attrs, attribute.String(attrAttendees, AttendeeBucket(o.Attendees)))
	}
	opt := metric.WithAttributes(attrs...)

	m.optimizationsTotal.Add(ctx, 1, opt)
	m.optimizationDuration.Record(ctx, o.Duration.Seconds(), opt)
	if o.Status != StatusError {
		m.candidatesGenerated.Record(ctx, int64(o.Candidates), opt)
	}
	if o.SkippedEvents > 0 {
		m.eventsSkippedTotal.Add(ctx, int64(o.SkippedEvents), metric.WithAttributes(attribute.String(attrReason, "unparsable")))
	}
}

// RecordGoogleAPIOperation records a Google API operation with service, operation,
// status, and duration.
//
// Parameters:
//   - service: Google service name (calendar)
//   - operation: Operation type (freebusy, calendar_get)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the operation, including retries
func (m *Metrics) RecordGoogleAPIOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m == nil || m.googleAPIOperationsTotal == nil || m.googleAPIOperationDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	)

	m.googleAPIOperationsTotal.Add(ctx, 1, attrs)
	m.googleAPIOperationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordToolInvocation records an MCP tool invocation with tool name, status,
// account and duration. The account is only used with detailed labels.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status, account string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels && account != "" {
		attrs = append(attrs, attribute.String(attrAccount, account))
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
