// Package google_tools provides MCP tools for authorizing Google Calendar access.
//
// This package registers OAuth-related tools that allow AI assistants to:
//   - Get the OAuth authorization URL for an account
//   - Save the OAuth authorization code to complete authorization
//
// The flow mirrors the `meetslot auth` command:
//  1. meeting_find_optimal_slots_google reports a missing token
//  2. Call google_get_auth_url to get the authorization URL
//  3. The user visits the URL and grants read access
//  4. Call google_save_auth_code with the code to save the token
//
// Tokens are stored per account and refreshed automatically.
package google_tools
