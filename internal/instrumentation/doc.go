// Package instrumentation provides OpenTelemetry instrumentation for the
// meetslot CLI and MCP server.
//
// It covers:
//   - OpenTelemetry metrics for slot searches, HTTP requests, Google Calendar
//     calls and MCP tool invocations
//   - Distributed tracing for the planning pipeline and calendar lookups
//   - Prometheus export via a dedicated /metrics endpoint
//   - OTLP export for collectors
//   - An audit log of tool invocations with hashed attendee identifiers
//
// # Metrics
//
// Planning Metrics:
//   - meetslot_optimizations_total: Counter of slot searches by status and location type
//   - meetslot_optimization_duration_seconds: Histogram of slot search durations
//   - meetslot_candidates_generated: Histogram of candidate slots generated per search
//   - meetslot_events_skipped_total: Counter of busy events dropped as unparsable
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Google API Metrics:
//   - google_api_operations_total: Counter of Calendar operations by service, operation, status
//   - google_api_operation_duration_seconds: Histogram of Calendar operation durations
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// Attendee counts are bucketed and only attached with DetailedLabels.
//
// # Tracing
//
// Spans are created for:
//   - planner.plan (one slot search)
//   - MCP tool invocations (tool.<name>)
//   - Google API calls (google.<service>.<operation>)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: meetslot)
//   - AUDIT_LOGGING_ENABLED / AUDIT_LOGGING_INCLUDE_ATTENDEES
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordOptimization(ctx, instrumentation.Optimization{
//		Status:       instrumentation.StatusSuccess,
//		LocationType: "virtual",
//		Attendees:    3,
//		Candidates:   112,
//		Duration:     time.Since(start),
//	})
package instrumentation
