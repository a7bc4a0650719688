package meeting_tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/meetslot/internal/calendar"
	"github.com/teemow/meetslot/internal/planner"
	"github.com/teemow/meetslot/internal/server"
)

const peopleJSON = `[
	{"id": "alice", "email": "alice@example.com", "timezone": "America/New_York",
	 "events": [{"start": "2024-03-11T10:00:00", "end": "2024-03-11T11:00:00", "summary": "Standup"}]},
	{"id": "bob", "email": "bob@example.com", "timezone": "America/New_York",
	 "events": [{"start": {"dateTime": "2024-03-11T14:00:00-04:00"}, "end": {"dateTime": "2024-03-11T15:00:00-04:00"}}]}
]`

func newServerContext(t *testing.T, opts server.Options) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func call(t *testing.T, sc *server.ServerContext, tool string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	for _, st := range Tools(sc) {
		if st.Tool.Name != tool {
			continue
		}
		req := mcp.CallToolRequest{}
		req.Params.Name = tool
		req.Params.Arguments = args
		result, err := st.Handler(context.Background(), req)
		require.NoError(t, err)
		require.NotNil(t, result)
		return result
	}
	t.Fatalf("tool %s not registered", tool)
	return nil
}

func text(t *testing.T, result *mcp.CallToolResult, i int) string {
	t.Helper()
	require.Greater(t, len(result.Content), i)
	tc, ok := result.Content[i].(mcp.TextContent)
	require.True(t, ok, "content %d is %T", i, result.Content[i])
	return tc.Text
}

func report(t *testing.T, result *mcp.CallToolResult) planner.Report {
	t.Helper()
	var r planner.Report
	require.NoError(t, json.Unmarshal([]byte(text(t, result, 1)), &r))
	return r
}

func mondayArgs() map[string]any {
	return map[string]any{
		"windowStart":     "2024-03-11T09:00:00",
		"windowEnd":       "2024-03-11T17:00:00",
		"durationMinutes": 60.0,
		"timezone":        "America/New_York",
	}
}

func TestTools_Definitions(t *testing.T) {
	tools := Tools(newServerContext(t, server.Options{}))
	require.Len(t, tools, 2)

	assert.Equal(t, ToolFindSlots, tools[0].Tool.Name)
	assert.ElementsMatch(t, []string{"people", "windowStart", "windowEnd", "durationMinutes"},
		tools[0].Tool.InputSchema.Required)

	assert.Equal(t, ToolFindSlotsGoogle, tools[1].Tool.Name)
	assert.ElementsMatch(t, []string{"attendees", "windowStart", "windowEnd", "durationMinutes"},
		tools[1].Tool.InputSchema.Required)
	assert.Contains(t, tools[1].Tool.InputSchema.Properties, "account")
}

func TestFindSlots(t *testing.T) {
	sc := newServerContext(t, server.Options{})
	args := mondayArgs()
	args["people"] = peopleJSON
	args["locationType"] = "in-person"
	args["topK"] = 3.0

	result := call(t, sc, ToolFindSlots, args)
	require.False(t, result.IsError, text(t, result, 0))

	assert.Contains(t, text(t, result, 0), "OPTIMAL MEETING TIMES FOUND")
	assert.Contains(t, text(t, result, 0), "In-Person")

	r := report(t, result)
	assert.Equal(t, 2, r.NumAttendees)
	assert.Equal(t, 60, r.DurationMinutes)
	assert.Equal(t, "in-person", r.LocationType)
	require.NotEmpty(t, r.Slots)
	assert.LessOrEqual(t, len(r.Slots), 3)

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	busy := [][2]time.Time{
		{time.Date(2024, 3, 11, 10, 0, 0, 0, ny), time.Date(2024, 3, 11, 11, 0, 0, 0, ny)},
		{time.Date(2024, 3, 11, 14, 0, 0, 0, ny), time.Date(2024, 3, 11, 15, 0, 0, 0, ny)},
	}
	for i, s := range r.Slots {
		assert.Equal(t, time.Hour, s.End.Sub(s.Start), "slot %d", i)
		for _, b := range busy {
			assert.False(t, s.Start.Before(b[1]) && b[0].Before(s.End), "slot %d overlaps busy time", i)
		}
		if i > 0 {
			assert.GreaterOrEqual(t, r.Slots[i-1].Score, s.Score)
		}
	}

	assert.NotNil(t, result.StructuredContent)
}

func TestFindSlots_PeopleAsArray(t *testing.T) {
	var people []any
	require.NoError(t, json.Unmarshal([]byte(peopleJSON), &people))

	args := mondayArgs()
	args["people"] = people

	result := call(t, newServerContext(t, server.Options{}), ToolFindSlots, args)
	require.False(t, result.IsError, text(t, result, 0))
	assert.Equal(t, 2, report(t, result).NumAttendees)
}

func TestFindSlots_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(args map[string]any)
		wantErr string
	}{
		{"missing people", func(a map[string]any) { delete(a, "people") }, "people is required"},
		{"invalid people", func(a map[string]any) { a["people"] = "{not json" }, "invalid calendars JSON"},
		{"missing window start", func(a map[string]any) { delete(a, "windowStart") }, "windowStart is required"},
		{"unparsable window", func(a map[string]any) { a["windowEnd"] = "tomorrow" }, "invalid window_end"},
		{"reversed window", func(a map[string]any) { a["windowEnd"] = "2024-03-11T08:00:00" }, "invalid window"},
		{"duration exceeds window", func(a map[string]any) { a["durationMinutes"] = 600.0 }, "invalid duration"},
		{"fractional duration", func(a map[string]any) { a["durationMinutes"] = 30.5 }, "whole number"},
		{"unknown location", func(a map[string]any) { a["locationType"] = "phone" }, "invalid location_type"},
		{"unknown time zone", func(a map[string]any) { a["timezone"] = "Mars/Olympus" }, "invalid timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := mondayArgs()
			args["people"] = peopleJSON
			tt.mutate(args)

			result := call(t, newServerContext(t, server.Options{}), ToolFindSlots, args)
			require.True(t, result.IsError)
			assert.Contains(t, text(t, result, 0), tt.wantErr)
		})
	}
}

func TestFindSlots_FullyBooked(t *testing.T) {
	args := mondayArgs()
	args["people"] = `[{"id":"alice","events":[{"start":"2024-03-11T08:00:00","end":"2024-03-11T18:00:00"}]}]`
	args["timezone"] = "UTC"

	result := call(t, newServerContext(t, server.Options{}), ToolFindSlots, args)
	require.False(t, result.IsError)
	assert.Contains(t, text(t, result, 0), "No available meeting slots")
	assert.Empty(t, report(t, result).Slots)
}

// freeBusyAPI answers free/busy queries for the Google tool.
func freeBusyAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/freeBusy"):
			_ = json.NewEncoder(w).Encode(map[string]any{
				"calendars": map[string]any{
					"alice@example.com": map[string]any{"busy": []map[string]string{
						{"start": "2024-03-11T13:00:00Z", "end": "2024-03-11T16:00:00Z"},
					}},
					"ghost@example.com": map[string]any{"errors": []map[string]string{
						{"domain": "global", "reason": "notFound"},
					}},
				},
			})
		case strings.Contains(r.URL.Path, "/calendars/"):
			_ = json.NewEncoder(w).Encode(map[string]any{"timeZone": "America/New_York"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFindSlotsGoogle(t *testing.T) {
	srv := freeBusyAPI(t)
	var accounts []string
	sc := newServerContext(t, server.Options{
		CalendarClients: func(ctx context.Context, account string) (*calendar.Client, error) {
			accounts = append(accounts, account)
			svc, err := gcal.NewService(ctx, option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
			if err != nil {
				return nil, err
			}
			return calendar.NewClientWithService(svc, account, calendar.WithRetry(1, time.Millisecond)), nil
		},
	})

	args := mondayArgs()
	args["attendees"] = "alice@example.com, ghost@example.com"
	args["account"] = "work"

	result := call(t, sc, ToolFindSlotsGoogle, args)
	require.False(t, result.IsError, text(t, result, 0))

	assert.Equal(t, []string{"work"}, accounts)
	assert.Contains(t, text(t, result, 0), "Warnings:")
	assert.Contains(t, text(t, result, 0), "ghost@example.com: notFound")

	r := report(t, result)
	assert.Equal(t, 2, r.NumAttendees)
	busyStart := time.Date(2024, 3, 11, 13, 0, 0, 0, time.UTC)
	busyEnd := time.Date(2024, 3, 11, 16, 0, 0, 0, time.UTC)
	for _, s := range r.Slots {
		assert.False(t, s.Start.Before(busyEnd) && busyStart.Before(s.End), "slot %s overlaps busy time", s.Start)
	}
}

func TestFindSlotsGoogle_Errors(t *testing.T) {
	sc := newServerContext(t, server.Options{
		CalendarClients: func(ctx context.Context, account string) (*calendar.Client, error) {
			return nil, assert.AnError
		},
	})

	result := call(t, sc, ToolFindSlotsGoogle, mondayArgs())
	require.True(t, result.IsError)
	assert.Contains(t, text(t, result, 0), "attendees is required")

	args := mondayArgs()
	args["attendees"] = "alice@example.com"
	result = call(t, sc, ToolFindSlotsGoogle, args)
	require.True(t, result.IsError)
	assert.Contains(t, text(t, result, 0), assert.AnError.Error())
}
