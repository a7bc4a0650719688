package meeting_tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meetslot/internal/attendees"
	"github.com/teemow/meetslot/internal/availability"
	"github.com/teemow/meetslot/internal/normalize"
	"github.com/teemow/meetslot/internal/planner"
	"github.com/teemow/meetslot/internal/server"
	"github.com/teemow/meetslot/internal/tools/common"
)

// Tool names.
const (
	ToolFindSlots       = "meeting_find_optimal_slots"
	ToolFindSlotsGoogle = "meeting_find_optimal_slots_google"
)

// RegisterMeetingTools registers the slot-finding tools with the MCP server
func RegisterMeetingTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	s.AddTools(Tools(sc)...)
	return nil
}

// Tools returns the tool definitions with their instrumented handlers.
func Tools(sc *server.ServerContext) []mcpserver.ServerTool {
	return []mcpserver.ServerTool{
		{
			Tool: NewFindSlotsTool(),
			Handler: common.InstrumentedToolHandler(ToolFindSlots, sc,
				func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
					return handleFindSlots(ctx, request, sc)
				}),
		},
		{
			Tool: NewFindSlotsGoogleTool(),
			Handler: common.InstrumentedToolHandler(ToolFindSlotsGoogle, sc,
				func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
					return handleFindSlotsGoogle(ctx, request, sc)
				}),
		},
	}
}

// meetingOptions are the arguments shared by both tools.
func meetingOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("windowStart",
			mcp.Required(),
			mcp.Description("Start of the search window (ISO-8601, e.g. '2024-03-11T09:00:00-04:00'). Offset-less times use 'timezone'."),
		),
		mcp.WithString("windowEnd",
			mcp.Required(),
			mcp.Description("End of the search window (ISO-8601), exclusive"),
		),
		mcp.WithNumber("durationMinutes",
			mcp.Required(),
			mcp.Description("Meeting duration in minutes"),
		),
		mcp.WithString("locationType",
			mcp.Description("Meeting format: 'virtual' (default), 'in-person' or 'hybrid'"),
			mcp.Enum(string(availability.LocationVirtual), string(availability.LocationInPerson), string(availability.LocationHybrid)),
		),
		mcp.WithString("timezone",
			mcp.Description("IANA time zone for offset-less window times and attendees without one (default: server setting)"),
		),
		mcp.WithNumber("topK",
			mcp.Description("Maximum number of slots to return (default: 5)"),
		),
		mcp.WithString("preference",
			mcp.Description("Time-of-day preference such as 'morning', 'lunch' or 'late afternoon'"),
		),
		mcp.WithString("title",
			mcp.Description("Meeting title; consulted for a time-of-day hint when 'preference' has none"),
		),
	}
}

// NewFindSlotsTool describes meeting_find_optimal_slots.
func NewFindSlotsTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Rank the best meeting slots for attendees whose calendars are passed inline. " +
			"Slots respect work hours, avoid everyone's busy time and are scored against the organization policy."),
		mcp.WithString("people",
			mcp.Required(),
			mcp.Description(`JSON array of attendee records: [{"id","name","email","timezone","events":[{"start","end","summary"}]}]. `+
				`Event times are ISO strings, {"dateTime","timeZone"} objects or minute offsets from Monday 00:00.`),
		),
	}, meetingOptions()...)
	opts = append(opts, mcp.WithReadOnlyHintAnnotation(true), mcp.WithIdempotentHintAnnotation(true))
	return mcp.NewTool(ToolFindSlots, opts...)
}

// NewFindSlotsGoogleTool describes meeting_find_optimal_slots_google.
func NewFindSlotsGoogleTool() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Rank the best meeting slots for attendees using their Google Calendar free/busy information."),
		mcp.WithString("attendees",
			mcp.Required(),
			mcp.Description("Comma-separated list of attendee email addresses"),
		),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Selects which authorized Google account reads free/busy."),
		),
	}, meetingOptions()...)
	opts = append(opts, mcp.WithReadOnlyHintAnnotation(true), mcp.WithOpenWorldHintAnnotation(true))
	return mcp.NewTool(ToolFindSlotsGoogle, opts...)
}

// parseMeetingArgs builds a planner request from the shared arguments.
func parseMeetingArgs(args map[string]any, sc *server.ServerContext) (planner.Request, error) {
	cfg := sc.Config()

	tz := common.StringArg(args, "timezone", cfg.TimeZone)
	loc, err := sc.TimeZones().Location(tz)
	if err != nil {
		return planner.Request{}, &availability.ValidationError{Field: "timezone", Reason: err.Error()}
	}

	startStr, err := common.RequiredStringArg(args, "windowStart")
	if err != nil {
		return planner.Request{}, err
	}
	endStr, err := common.RequiredStringArg(args, "windowEnd")
	if err != nil {
		return planner.Request{}, err
	}
	start, err := normalize.ParseWindowTime("window_start", startStr, loc)
	if err != nil {
		return planner.Request{}, err
	}
	end, err := normalize.ParseWindowTime("window_end", endStr, loc)
	if err != nil {
		return planner.Request{}, err
	}
	window, err := normalize.NewWindow(start, end)
	if err != nil {
		return planner.Request{}, err
	}

	duration, err := common.IntArg(args, "durationMinutes", sc.Settings().DefaultDuration)
	if err != nil {
		return planner.Request{}, err
	}
	topK, err := common.IntArg(args, "topK", cfg.TopK)
	if err != nil {
		return planner.Request{}, err
	}

	return planner.Request{
		Window:       window,
		Duration:     duration,
		LocationType: common.StringArg(args, "locationType", cfg.LocationType),
		TopK:         topK,
		Preference:   common.StringArg(args, "preference", ""),
		Title:        common.StringArg(args, "title", ""),
	}, nil
}

// parsePeople accepts the attendee records as a JSON string or as an
// already decoded array.
func parsePeople(raw any) ([]normalize.RawPerson, error) {
	var data []byte
	switch v := raw.(type) {
	case nil:
		return nil, errors.New("people is required")
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, errors.New("people is required")
		}
		data = []byte(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("invalid people: %w", err)
		}
		data = b
	}
	return attendees.ReadCalendars(bytes.NewReader(data))
}

// attendeeIDs returns the identifiers recorded in the audit log.
func attendeeIDs(people []normalize.RawPerson) []string {
	ids := make([]string, 0, len(people))
	for _, p := range people {
		switch {
		case p.Email != "":
			ids = append(ids, p.Email)
		case p.ID != "":
			ids = append(ids, p.ID)
		default:
			ids = append(ids, p.Name)
		}
	}
	return ids
}

// planResult renders a plan as text followed by its JSON report.
func planResult(plan *planner.Plan, warnings []string) (*mcp.CallToolResult, error) {
	var text strings.Builder
	if err := planner.WriteText(&text, plan, planner.TextOptions{}); err != nil {
		return nil, fmt.Errorf("failed to render slots: %w", err)
	}
	if len(warnings) > 0 {
		text.WriteString("\nWarnings:\n")
		for _, w := range warnings {
			fmt.Fprintf(&text, "  - %s\n", w)
		}
	}

	report := plan.Report()
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode slots: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text.String()),
			mcp.NewTextContent(string(data)),
		},
		StructuredContent: report,
	}, nil
}

// toolError turns request problems into tool errors the model can act on.
func toolError(err error) *mcp.CallToolResult {
	if errors.Is(err, availability.ErrValidation) {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(fmt.Sprintf("Failed to find meeting slots: %v", err))
}
