// Package google provides OAuth2 authentication and token management for the
// Google Calendar API.
//
// Tokens are stored per account under the user cache directory
// (~/.cache/meetslot/google-<account>.token). The TokenProvider interface
// lets callers plug in other token sources.
package google
