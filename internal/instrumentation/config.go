package instrumentation

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	// ServiceName is the name of the service (default: meetslot)
	ServiceName string

	// ServiceVersion is the version of the service
	ServiceVersion string

	// ServiceInstanceID is the unique instance identifier (default: hostname)
	ServiceInstanceID string

	// Enabled determines if instrumentation is active (default: true)
	// Set to false via INSTRUMENTATION_ENABLED=false to disable metrics and tracing
	Enabled bool

	// MetricsExporter specifies the metrics exporter type
	// Options: "prometheus", "otlp", "stdout" (default: "prometheus")
	MetricsExporter string

	// TracingExporter specifies the tracing exporter type
	// Options: "otlp", "stdout", "none" (default: "none")
	TracingExporter string

	// OTLPEndpoint is the OTLP collector endpoint
	// Example: "localhost:4318" (without protocol prefix)
	OTLPEndpoint string

	// OTLPInsecure controls whether to use insecure HTTP for OTLP export.
	// Only for local development; spans carry attendee counts and account names.
	OTLPInsecure bool

	// TraceSamplingRate is the sampling rate for traces (0.0 to 1.0, default: 0.1)
	TraceSamplingRate float64

	// DetailedLabels adds higher-cardinality labels (attendee count buckets,
	// account names) to metrics. Keep disabled in production.
	DetailedLabels bool

	// AuditLogging configures the tool invocation log.
	AuditLogging AuditLoggingConfig
}

// AuditLoggingConfig holds configuration for audit logging.
type AuditLoggingConfig struct {
	// Enabled determines if audit logging is active (default: true)
	Enabled bool

	// IncludeAttendees logs attendee email addresses in full. When false
	// (default) they are hashed.
	IncludeAttendees bool
}

// DefaultConfig reads the instrumentation settings from the environment.
// Unparsable values fall back to the defaults.
func DefaultConfig() Config {
	return Config{
		ServiceName:       envOr("OTEL_SERVICE_NAME", "meetslot", parseString),
		ServiceVersion:    "unknown",
		ServiceInstanceID: envOr("OTEL_SERVICE_INSTANCE_ID", "", parseString),
		Enabled:           envOr("INSTRUMENTATION_ENABLED", true, strconv.ParseBool),
		MetricsExporter:   envOr("METRICS_EXPORTER", ExporterPrometheus, parseString),
		TracingExporter:   envOr("TRACING_EXPORTER", ExporterNone, parseString),
		OTLPEndpoint:      envOr("OTEL_EXPORTER_OTLP_ENDPOINT", "", parseString),
		OTLPInsecure:      envOr("OTEL_EXPORTER_OTLP_INSECURE", false, strconv.ParseBool),
		TraceSamplingRate: envOr("OTEL_TRACES_SAMPLER_ARG", 0.1, parseFloat),
		DetailedLabels:    envOr("METRICS_DETAILED_LABELS", false, strconv.ParseBool),
		AuditLogging: AuditLoggingConfig{
			Enabled:          envOr("AUDIT_LOGGING_ENABLED", true, strconv.ParseBool),
			IncludeAttendees: envOr("AUDIT_LOGGING_INCLUDE_ATTENDEES", false, strconv.ParseBool),
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}

	switch c.MetricsExporter {
	case "", ExporterPrometheus, ExporterOTLP, ExporterStdout:
	default:
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, otlp, stdout", c.MetricsExporter)
	}

	switch c.TracingExporter {
	case "", ExporterOTLP, ExporterStdout, ExporterNone:
	default:
		return fmt.Errorf("invalid tracing exporter %q, must be one of: otlp, stdout, none", c.TracingExporter)
	}

	if (c.TracingExporter == ExporterOTLP || c.MetricsExporter == ExporterOTLP) && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP endpoint is required when using an OTLP exporter")
	}

	return nil
}

// envOr returns the parsed value of key, or def when it is unset or does
// not parse.
func envOr[T any](key string, def T, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

func parseString(s string) (string, error) { return s, nil }

func parseFloat(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

// Constants for metric label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	// StatusEmpty marks an optimization that succeeded without finding a slot.
	StatusEmpty = "empty"

	ServiceCalendar = "calendar"

	OperationFreeBusy     = "freebusy"
	OperationCalendarInfo = "calendar_get"

	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)
