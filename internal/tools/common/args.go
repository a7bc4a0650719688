package common

import (
	"fmt"
	"math"
	"strings"
)

// StringArg returns a trimmed string argument, or def when absent or empty.
func StringArg(args map[string]any, key, def string) string {
	if v, ok := args[key].(string); ok {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return def
}

// RequiredStringArg returns a non-empty string argument.
func RequiredStringArg(args map[string]any, key string) (string, error) {
	v := StringArg(args, key, "")
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

// IntArg returns a whole-number argument. JSON numbers arrive as float64;
// fractional values are rejected. Absent arguments yield def.
func IntArg(args map[string]any, key string, def int) (int, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%s must be a whole number, got %v", key, v)
		}
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("%s must be a number", key)
	}
}

// ListArg splits a comma-separated argument, dropping empty entries. A JSON
// array of strings is accepted as well.
func ListArg(args map[string]any, key string) []string {
	var parts []string
	switch v := args[key].(type) {
	case string:
		parts = strings.Split(v, ",")
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
	}

	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
