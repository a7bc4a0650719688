package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestSpanAttributeBuilder(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithTool("meeting_find_optimal_slots").
		WithAccount("work").
		WithMeeting(3, "in-person", 45).
		WithWindow(4 * 1440).
		WithResult(120, 5, 1).
		Build()

	if len(attrs) != 9 {
		t.Fatalf("expected 9 attributes, got %d", len(attrs))
	}

	attrMap := make(map[string]any)
	for _, attr := range attrs {
		attrMap[string(attr.Key)] = attr.Value.AsInterface()
	}

	want := map[string]any{
		SpanAttrTool:        "meeting_find_optimal_slots",
		SpanAttrAccount:     "work",
		SpanAttrAttendees:   int64(3),
		SpanAttrLocation:    "in-person",
		SpanAttrMeetingMins: int64(45),
		SpanAttrWindowMins:  int64(5760),
		SpanAttrCandidates:  int64(120),
		SpanAttrSlots:       int64(5),
		SpanAttrSkipped:     int64(1),
	}
	for k, v := range want {
		if attrMap[k] != v {
			t.Errorf("attribute %s: expected %v, got %v", k, v, attrMap[k])
		}
	}
}

func TestSpanAttributeBuilder_EmptyValues(t *testing.T) {
	// Empty account should not be added
	attrs := NewSpanAttributeBuilder().
		WithTool("test_tool").
		WithAccount("").
		Build()

	if len(attrs) != 1 {
		t.Errorf("expected 1 attribute (only tool), got %d", len(attrs))
	}
}

func TestSpanAttributeBuilder_UnknownLocation(t *testing.T) {
	attrs := NewSpanAttributeBuilder().WithMeeting(2, "rooftop", 30).Build()

	for _, attr := range attrs {
		if string(attr.Key) == SpanAttrLocation && attr.Value.AsString() != "unknown" {
			t.Errorf("expected location label 'unknown', got %q", attr.Value.AsString())
		}
	}
}

// recordSpans installs a tracer provider that keeps finished spans in
// memory for the duration of the test.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestSpanStarters(t *testing.T) {
	tests := []struct {
		name      string
		start     func(context.Context) (context.Context, trace.Span)
		wantName  string
		wantKind  trace.SpanKind
		wantAttrs map[string]string
	}{
		{
			name: "internal",
			start: func(ctx context.Context) (context.Context, trace.Span) {
				return StartSpan(ctx, "planner.plan", attribute.String(SpanAttrLocation, "virtual"))
			},
			wantName:  "planner.plan",
			wantKind:  trace.SpanKindInternal,
			wantAttrs: map[string]string{SpanAttrLocation: "virtual"},
		},
		{
			name: "tool",
			start: func(ctx context.Context) (context.Context, trace.Span) {
				return StartToolSpan(ctx, "meeting_find_optimal_slots")
			},
			wantName:  "tool.meeting_find_optimal_slots",
			wantKind:  trace.SpanKindServer,
			wantAttrs: map[string]string{SpanAttrTool: "meeting_find_optimal_slots"},
		},
		{
			name: "google api",
			start: func(ctx context.Context) (context.Context, trace.Span) {
				return StartGoogleAPISpan(ctx, ServiceCalendar, OperationFreeBusy, attribute.String(SpanAttrAccount, "work"))
			},
			wantName: "google.calendar.freebusy",
			wantKind: trace.SpanKindClient,
			wantAttrs: map[string]string{
				SpanAttrService:   ServiceCalendar,
				SpanAttrOperation: OperationFreeBusy,
				SpanAttrAccount:   "work",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := recordSpans(t)

			_, span := tt.start(context.Background())
			span.End()

			ended := rec.Ended()
			if len(ended) != 1 {
				t.Fatalf("expected 1 ended span, got %d", len(ended))
			}
			got := ended[0]
			if got.Name() != tt.wantName {
				t.Errorf("name = %q, want %q", got.Name(), tt.wantName)
			}
			if got.SpanKind() != tt.wantKind {
				t.Errorf("kind = %v, want %v", got.SpanKind(), tt.wantKind)
			}
			for k, want := range tt.wantAttrs {
				v, ok := spanAttr(got, k)
				if !ok || v.AsString() != want {
					t.Errorf("attribute %s = %v, want %q", k, v.AsInterface(), want)
				}
			}
		})
	}
}

func TestFinishSpan(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus codes.Code
		wantEvents int
	}{
		{"success", nil, codes.Ok, 0},
		{"error", errors.New("freebusy unavailable"), codes.Error, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := recordSpans(t)

			_, span := StartSpan(context.Background(), "test-span")
			FinishSpan(span, tt.err)
			span.End()

			got := rec.Ended()[0]
			if got.Status().Code != tt.wantStatus {
				t.Errorf("status = %v, want %v", got.Status().Code, tt.wantStatus)
			}
			if len(got.Events()) != tt.wantEvents {
				t.Errorf("expected %d recorded events, got %d", tt.wantEvents, len(got.Events()))
			}
		})
	}
}

func TestSpanIDs(t *testing.T) {
	traceID, spanID := SpanIDs(context.Background())
	if traceID != "" || spanID != "" {
		t.Errorf("expected empty IDs without a span, got %q %q", traceID, spanID)
	}

	recordSpans(t)
	ctx, span := StartSpan(context.Background(), "test-span")
	defer span.End()

	traceID, spanID = SpanIDs(ctx)
	if traceID != span.SpanContext().TraceID().String() {
		t.Errorf("trace ID = %q, want %q", traceID, span.SpanContext().TraceID())
	}
	if spanID != span.SpanContext().SpanID().String() {
		t.Errorf("span ID = %q, want %q", spanID, span.SpanContext().SpanID())
	}
}
