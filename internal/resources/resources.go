package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meetslot/internal/google"
	"github.com/teemow/meetslot/internal/server"
)

// Resource URIs.
const (
	SettingsURI         = "meetslot://settings"
	CalendarURIPrefix   = "meetslot://calendars/"
	calendarURITemplate = CalendarURIPrefix + "{account}"
)

// RegisterResources registers the settings resource and the per-account
// calendar template.
func RegisterResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	settingsResource := mcp.NewResource(
		SettingsURI,
		"Organization Scheduling Policy",
		mcp.WithResourceDescription("Work hours, lunch window, grid interval, penalties and bonuses used to score meeting slots"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(settingsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleSettings(ctx, request, sc)
	})

	calendarTemplate := mcp.NewResourceTemplate(
		calendarURITemplate,
		"Primary Calendar",
		mcp.WithTemplateDescription("Primary Google Calendar of an authorized account, including its time zone"),
		mcp.WithTemplateMIMEType("application/json"),
	)
	s.AddResourceTemplate(calendarTemplate, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleCalendar(ctx, request, sc)
	})

	return nil
}

// settingsView is the settings resource body.
type settingsView struct {
	WorkHours          any                `json:"work_hours"`
	LunchWindow        any                `json:"lunch_window"`
	Penalties          map[string]float64 `json:"penalties"`
	Bonuses            map[string]float64 `json:"bonuses"`
	MeetingPreferences any                `json:"meeting_preferences"`
	TimeZone           string             `json:"default_timezone"`
	TopK               int                `json:"default_top_k"`
	LocationType       string             `json:"default_location_type"`
}

func handleSettings(_ context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	f := sc.Settings().File()
	cfg := sc.Config()

	return jsonContents(request.Params.URI, settingsView{
		WorkHours:          f.WorkHours,
		LunchWindow:        f.LunchWindow,
		Penalties:          f.Penalties,
		Bonuses:            f.Bonuses,
		MeetingPreferences: f.MeetingPreferences,
		TimeZone:           cfg.TimeZone,
		TopK:               cfg.TopK,
		LocationType:       cfg.LocationType,
	})
}

// AccountFromURI extracts the account of a calendar resource URI. An empty
// segment selects the default account.
func AccountFromURI(uri string) (string, error) {
	rest, ok := strings.CutPrefix(uri, CalendarURIPrefix)
	if !ok {
		return "", fmt.Errorf("unsupported resource URI: %s", uri)
	}
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return google.DefaultAccount, nil
	}
	if strings.Contains(rest, "/") {
		return "", fmt.Errorf("unsupported resource URI: %s", uri)
	}
	return rest, nil
}

func handleCalendar(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	account, err := AccountFromURI(request.Params.URI)
	if err != nil {
		return nil, err
	}

	client, err := sc.CalendarClientForAccount(account)
	if err != nil {
		return nil, err
	}

	info, err := client.GetCalendar(ctx, "primary")
	if err != nil {
		return nil, fmt.Errorf("failed to get primary calendar for account %s: %w", account, err)
	}

	return jsonContents(request.Params.URI, map[string]any{
		"account":  account,
		"calendar": info,
	})
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}
	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
