package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for meetslot.
const TracerName = "github.com/teemow/meetslot"

// Span attribute keys.
const (
	SpanAttrTool         = "mcp.tool"
	SpanAttrAccount      = "mcp.account"
	SpanAttrService      = "google.service"
	SpanAttrOperation    = "google.operation"
	SpanAttrAttendees    = "meetslot.attendees"
	SpanAttrLocation     = "meetslot.location_type"
	SpanAttrMeetingMins  = "meetslot.duration_minutes"
	SpanAttrWindowMins   = "meetslot.window_minutes"
	SpanAttrCandidates   = "meetslot.candidates"
	SpanAttrSlots        = "meetslot.slots"
	SpanAttrSkipped      = "meetslot.skipped_events"
	SpanAttrCalendarsReq = "google.calendars"
)

// SpanAttributeBuilder collects span attributes for a slot search.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{attrs: make([]attribute.KeyValue, 0, 8)}
}

func (b *SpanAttributeBuilder) WithTool(tool string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrTool, tool))
	return b
}

// WithAccount is a no-op for an empty account.
func (b *SpanAttributeBuilder) WithAccount(account string) *SpanAttributeBuilder {
	if account != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrAccount, account))
	}
	return b
}

// WithMeeting adds the attendee count, location label and meeting length.
func (b *SpanAttributeBuilder) WithMeeting(attendees int, locationType string, durationMinutes int) *SpanAttributeBuilder {
	b.attrs = append(b.attrs,
		attribute.Int(SpanAttrAttendees, attendees),
		attribute.String(SpanAttrLocation, LocationLabel(locationType)),
		attribute.Int(SpanAttrMeetingMins, durationMinutes),
	)
	return b
}

func (b *SpanAttributeBuilder) WithWindow(minutes int) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.Int(SpanAttrWindowMins, minutes))
	return b
}

// WithResult adds candidate, slot and skipped-event counts.
func (b *SpanAttributeBuilder) WithResult(candidates, slots, skipped int) *SpanAttributeBuilder {
	b.attrs = append(b.attrs,
		attribute.Int(SpanAttrCandidates, candidates),
		attribute.Int(SpanAttrSlots, slots),
		attribute.Int(SpanAttrSkipped, skipped),
	)
	return b
}

func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}

// The global provider is looked up on every call so that spans follow the
// provider installed by NewProvider, including in tests.
func startSpan(ctx context.Context, name string, kind trace.SpanKind, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, name,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(kind),
	)
}

// StartSpan starts an internal span. Callers end it.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return startSpan(ctx, name, trace.SpanKindInternal, attrs)
}

// StartToolSpan starts a server span named tool.<name>.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append([]attribute.KeyValue{attribute.String(SpanAttrTool, toolName)}, attrs...)
	return startSpan(ctx, "tool."+toolName, trace.SpanKindServer, attrs)
}

// StartGoogleAPISpan starts a client span named google.<service>.<operation>.
func StartGoogleAPISpan(ctx context.Context, service, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append([]attribute.KeyValue{
		attribute.String(SpanAttrService, service),
		attribute.String(SpanAttrOperation, operation),
	}, attrs...)
	return startSpan(ctx, "google."+service+"."+operation, trace.SpanKindClient, attrs)
}

// FinishSpan sets the span status from err: Error with the error recorded,
// or Ok. It does not end the span.
func FinishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}

// SpanIDs returns the trace and span IDs of the span in ctx, or empty
// strings without a valid span.
func SpanIDs(ctx context.Context) (traceID, spanID string) {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return "", ""
	}
	return sc.TraceID().String(), sc.SpanID().String()
}
