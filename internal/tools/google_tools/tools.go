package google_tools

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meetslot/internal/google"
	"github.com/teemow/meetslot/internal/server"
	"github.com/teemow/meetslot/internal/tools/common"
)

// Tool names.
const (
	ToolGetAuthURL   = "google_get_auth_url"
	ToolSaveAuthCode = "google_save_auth_code"
)

// RegisterGoogleTools registers the calendar authorization tools with the MCP server
func RegisterGoogleTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	s.AddTools(Tools(sc)...)
	return nil
}

// Tools returns the authorization tools wrapped with instrumentation.
func Tools(sc *server.ServerContext) []mcpserver.ServerTool {
	return []mcpserver.ServerTool{
		{
			Tool: NewGetAuthURLTool(),
			Handler: common.InstrumentedToolHandler(ToolGetAuthURL, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleGetAuthURL(ctx, request, sc)
			}),
		},
		{
			Tool: NewSaveAuthCodeTool(),
			Handler: common.InstrumentedToolHandler(ToolSaveAuthCode, sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleSaveAuthCode(ctx, request, sc)
			}),
		},
	}
}

// NewGetAuthURLTool describes google_get_auth_url.
func NewGetAuthURLTool() mcp.Tool {
	return mcp.NewTool(ToolGetAuthURL,
		mcp.WithDescription("Get the OAuth URL that grants read access to Google Calendar free/busy data for a specific account"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

// NewSaveAuthCodeTool describes google_save_auth_code.
func NewSaveAuthCodeTool() mcp.Tool {
	return mcp.NewTool(ToolSaveAuthCode,
		mcp.WithDescription("Save the OAuth authorization code to complete Google Calendar authorization for a specific account"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("authCode",
			mcp.Required(),
			mcp.Description("The authorization code from Google OAuth"),
		),
	)
}

func checkClientRegistration() error {
	if os.Getenv(google.EnvClientID) == "" || os.Getenv(google.EnvClientSecret) == "" {
		return fmt.Errorf("the server has no OAuth client: set %s and %s", google.EnvClientID, google.EnvClientSecret)
	}
	return nil
}

func handleGetAuthURL(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	account := common.GetAccountFromArgs(request.GetArguments(), sc.Config().GoogleAccount)

	if err := checkClientRegistration(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf(`To let meetslot read Google Calendar free/busy data for account "%s":

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account
3. Grant read access to your calendars
4. Copy the authorization code

5. Call the %s tool with the code and account name to complete authorization`, account, google.GetAuthURL(), ToolSaveAuthCode)

	return mcp.NewToolResultText(result), nil
}

func handleSaveAuthCode(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args, sc.Config().GoogleAccount)

	authCode, err := common.RequiredStringArg(args, "authCode")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := checkClientRegistration(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := google.SaveTokenForAccount(ctx, account, authCode); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to save authorization code for account %s: %v", account, err)), nil
	}

	client, err := sc.CalendarClientForAccount(account)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Token saved for account %s but no Calendar client could be created: %v", account, err)), nil
	}
	info, err := client.GetCalendar(ctx, "primary")
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Authorization saved for account '%s', but the primary calendar could not be read: %v", account, err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Authorization successful for account '%s'. Reading %s (time zone %s); %s can now be used with this account.",
		account, info.Summary, info.TimeZone, "meeting_find_optimal_slots_google")), nil
}
