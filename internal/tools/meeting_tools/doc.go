// Package meeting_tools provides the MCP tools that rank meeting slots.
//
// meeting_find_optimal_slots works on attendee calendars passed inline;
// meeting_find_optimal_slots_google reads the attendees' busy time from
// Google Calendar free/busy with the caller's account. Both answer with a
// readable summary followed by the JSON report, and expose the report as
// structured content.
package meeting_tools
