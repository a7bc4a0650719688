// Package common provides shared utilities for the meetslot MCP tools:
// argument parsing, account resolution and the instrumented handler wrapper
// that gives every tool call a span, metrics and an audit record.
package common
