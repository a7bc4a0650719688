package meeting_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/meetslot/internal/logging"
	"github.com/teemow/meetslot/internal/server"
	"github.com/teemow/meetslot/internal/tools/common"
)

func handleFindSlots(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	req, err := parseMeetingArgs(args, sc)
	if err != nil {
		return toolError(err), nil
	}

	people, err := parsePeople(args["people"])
	if err != nil {
		return toolError(err), nil
	}
	req.People = people

	invocation := common.InvocationFromContext(ctx).
		WithMeeting(attendeeIDs(people), req.LocationType, req.Duration)

	plan, err := sc.Planner().Plan(ctx, req)
	if err != nil {
		return toolError(err), nil
	}
	invocation.WithResult(len(plan.Proposals), len(plan.Skipped))

	return planResult(plan, nil)
}

func handleFindSlotsGoogle(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args, sc.Config().GoogleAccount)

	emails := common.ListArg(args, "attendees")
	if len(emails) == 0 {
		return mcp.NewToolResultError("attendees is required"), nil
	}

	req, err := parseMeetingArgs(args, sc)
	if err != nil {
		return toolError(err), nil
	}

	invocation := common.InvocationFromContext(ctx).
		WithMeeting(emails, req.LocationType, req.Duration)

	client, err := sc.CalendarClientForAccount(account)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	busy, err := client.BusyAttendees(ctx, emails, req.Window.Start, req.Window.End)
	if err != nil {
		logging.WithTool(sc.Logger(), ToolFindSlotsGoogle).Warn("free/busy lookup failed", logging.Account(account), logging.Err(err))
		return mcp.NewToolResultError(fmt.Sprintf("Failed to query free/busy: %v", err)), nil
	}
	req.People = busy.People

	plan, err := sc.Planner().Plan(ctx, req)
	if err != nil {
		return toolError(err), nil
	}
	invocation.WithResult(len(plan.Proposals), len(plan.Skipped))

	return planResult(plan, busy.Warnings)
}
