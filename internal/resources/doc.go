// Package resources provides read-only MCP resources describing the
// scheduling context: the organization policy the server scores slots with
// and the primary calendar of an authorized Google account.
package resources
