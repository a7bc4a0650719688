package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"github.com/teemow/meetslot/internal/logging"
)

// ToolInvocation captures everything about one slot-finding tool call for
// audit logging.
//
// # Privacy Considerations
//
// Attendees holds email addresses or person IDs. LogAttrs hashes them;
// LogAuditAttrs writes them verbatim and belongs only in access-controlled
// audit streams.
type ToolInvocation struct {
	// Tool name
	Tool string

	// Account is the Google account whose calendars were read, if any.
	Account string

	// Request shape
	Attendees       []string
	LocationType    string
	DurationMinutes int

	// Outcome
	SlotsReturned int
	SkippedEvents int

	// Execution details
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	// Tracing context
	TraceID string
	SpanID  string
}

// Status returns "success", "empty" or "error". An invocation that
// succeeded without proposing any slot is "empty".
func (ti *ToolInvocation) Status() string {
	switch {
	case !ti.Success:
		return StatusError
	case ti.SlotsReturned == 0:
		return StatusEmpty
	default:
		return StatusSuccess
	}
}

// HashedAttendees returns the attendee identifiers anonymized with
// logging.AnonymizeEmail.
func (ti *ToolInvocation) HashedAttendees() []string {
	out := make([]string, len(ti.Attendees))
	for i, a := range ti.Attendees {
		out[i] = logging.AnonymizeEmail(a)
	}
	return out
}

// LogAttrs returns slog attributes for operational logging. Attendees are
// hashed and only the count is guaranteed to be present.
func (ti *ToolInvocation) LogAttrs() []slog.Attr {
	attrs := ti.baseAttrs()
	if len(ti.Attendees) > 0 {
		attrs = append(attrs, slog.Any("attendee_hashes", ti.HashedAttendees()))
	}
	return ti.appendTail(attrs)
}

// LogAuditAttrs returns slog attributes for full audit logging, including
// attendee identifiers in clear text.
//
// # Security Warning
//
// Ensure audit logs are stored with appropriate access controls.
func (ti *ToolInvocation) LogAuditAttrs() []slog.Attr {
	attrs := ti.baseAttrs()
	if len(ti.Attendees) > 0 {
		attrs = append(attrs, slog.Any("attendee_ids", ti.Attendees))
	}
	attrs = ti.appendTail(attrs)
	if ti.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ti.SpanID))
	}
	return attrs
}

func (ti *ToolInvocation) baseAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String(logging.KeyTool, ti.Tool),
		slog.String(logging.KeyStatus, ti.Status()),
		slog.Duration(logging.KeyDuration, ti.Duration),
		logging.Attendees(len(ti.Attendees)),
	}
	if ti.Account != "" && ti.Account != "default" {
		attrs = append(attrs, logging.Account(ti.Account))
	}
	if ti.LocationType != "" {
		attrs = append(attrs, logging.Location(ti.LocationType))
	}
	if ti.DurationMinutes > 0 {
		attrs = append(attrs, slog.Int("meeting_minutes", ti.DurationMinutes))
	}
	return attrs
}

func (ti *ToolInvocation) appendTail(attrs []slog.Attr) []slog.Attr {
	if ti.Success {
		attrs = append(attrs, slog.Int("slots", ti.SlotsReturned))
	}
	if ti.SkippedEvents > 0 {
		attrs = append(attrs, slog.Int("skipped_events", ti.SkippedEvents))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String(logging.KeyError, ti.Error))
	}
	return attrs
}

// NewToolInvocation creates a new ToolInvocation with timing started.
// Call Complete() when the tool operation finishes.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		Tool:      tool,
		StartTime: time.Now(),
	}
}

// WithAccount sets the Google account name.
func (ti *ToolInvocation) WithAccount(account string) *ToolInvocation {
	ti.Account = account
	return ti
}

// WithMeeting records the request shape.
func (ti *ToolInvocation) WithMeeting(attendees []string, locationType string, durationMinutes int) *ToolInvocation {
	ti.Attendees = attendees
	ti.LocationType = locationType
	ti.DurationMinutes = durationMinutes
	return ti
}

// WithResult records how many slots were proposed and how many events were
// dropped as unparsable.
func (ti *ToolInvocation) WithResult(slots, skipped int) *ToolInvocation {
	ti.SlotsReturned = slots
	ti.SkippedEvents = skipped
	return ti
}

// WithSpanContext extracts trace context from the current span.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	ti.TraceID, ti.SpanID = SpanIDs(ctx)
	return ti
}

// Complete marks the invocation as completed and calculates duration.
func (ti *ToolInvocation) Complete(success bool, err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// CompleteWithError marks the invocation as failed with the given error.
func (ti *ToolInvocation) CompleteWithError(err error) *ToolInvocation {
	return ti.Complete(false, err)
}

// CompleteSuccess marks the invocation as successful.
func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	return ti.Complete(true, nil)
}

// AuditLogger provides structured audit logging for tool invocations.
type AuditLogger struct {
	logger           *slog.Logger
	includeAttendees bool
	enabled          bool
}

// NewAuditLogger creates an enabled AuditLogger that hashes attendees.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true})
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:           logger,
		includeAttendees: config.IncludeAttendees,
		enabled:          config.Enabled,
	}
}

// SetIncludeAttendees sets whether attendee identifiers are logged in clear.
func (al *AuditLogger) SetIncludeAttendees(include bool) {
	al.includeAttendees = include
}

// SetEnabled sets whether audit logging is enabled.
func (al *AuditLogger) SetEnabled(enabled bool) {
	al.enabled = enabled
}

// LogToolInvocation logs a finished tool invocation. A nil or disabled
// logger does nothing.
func (al *AuditLogger) LogToolInvocation(ti *ToolInvocation) {
	if al == nil || !al.enabled || ti == nil {
		return
	}

	var attrs []slog.Attr
	if al.includeAttendees {
		attrs = ti.LogAuditAttrs()
	} else {
		attrs = ti.LogAttrs()
	}

	if ti.Success {
		al.logger.LogAttrs(context.Background(), slog.LevelInfo, "tool_executed", attrs...)
	} else {
		al.logger.LogAttrs(context.Background(), slog.LevelWarn, "tool_failed", attrs...)
	}
}
