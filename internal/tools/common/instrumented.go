package common

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/codes"

	"github.com/teemow/meetslot/internal/instrumentation"
	"github.com/teemow/meetslot/internal/server"
)

// ToolHandler is the signature of an MCP tool handler.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

type invocationKey struct{}

// InvocationFromContext returns the invocation record of the running tool
// call. Outside InstrumentedToolHandler it returns a detached record, so
// handlers can always annotate it.
func InvocationFromContext(ctx context.Context) *instrumentation.ToolInvocation {
	if ti, ok := ctx.Value(invocationKey{}).(*instrumentation.ToolInvocation); ok {
		return ti
	}
	return instrumentation.NewToolInvocation("")
}

// InstrumentedToolHandler wraps a tool handler with a tool span, metrics and
// audit logging. The handler can describe the meeting and its result through
// InvocationFromContext.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		account := GetAccountFromArgs(request.GetArguments(), sc.Config().GoogleAccount)

		ctx, span := instrumentation.StartToolSpan(ctx, toolName)
		defer span.End()

		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithAccount(account)
		ctx = context.WithValue(ctx, invocationKey{}, invocation)

		result, err := handler(ctx, request)

		switch {
		case err != nil:
			invocation.CompleteWithError(err)
			instrumentation.FinishSpan(span, err)
		case result != nil && result.IsError:
			invocation.Complete(false, nil)
			invocation.Error = resultText(result)
			span.SetStatus(codes.Error, invocation.Error)
		default:
			invocation.CompleteSuccess()
			instrumentation.FinishSpan(span, nil)
		}

		span.SetAttributes(instrumentation.NewSpanAttributeBuilder().
			WithAccount(account).
			WithMeeting(len(invocation.Attendees), invocation.LocationType, invocation.DurationMinutes).
			Build()...)

		sc.Metrics().RecordToolInvocation(ctx, toolName, invocation.Status(), account, invocation.Duration)
		sc.AuditLogger().LogToolInvocation(invocation)

		return result, err
	}
}

// resultText returns the first text content of a tool result.
func resultText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}
