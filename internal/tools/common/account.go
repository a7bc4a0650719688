package common

import "github.com/teemow/meetslot/internal/google"

// GetAccountFromArgs returns the Google account a tool call should read
// calendars with.
//
// Priority order:
//  1. Explicit "account" argument in request
//  2. fallback (the configured default account)
//  3. "default"
func GetAccountFromArgs(args map[string]any, fallback string) string {
	if accountVal, ok := args["account"].(string); ok && accountVal != "" {
		return accountVal
	}
	if fallback != "" {
		return fallback
	}
	return google.DefaultAccount
}
