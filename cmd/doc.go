// Package cmd implements the command-line interface for meetslot.
//
// This package provides the following commands:
//   - optimize: Rank meeting slots for attendees read from files or Google Calendar
//   - serve: Start the MCP server to provide scheduling tools for AI assistants
//   - auth: Authorize read access to a Google Calendar account
//   - settings: Write or show the organization scheduling policy
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The optimize command is the default command when no subcommand is specified.
package cmd
