package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
		want    string
	}{
		{name: "text info", level: "info", format: "text", want: "msg=hello"},
		{name: "json debug", level: "debug", format: "json", want: `"msg":"hello"`},
		{name: "default format", level: "warn", format: "", want: ""},
		{name: "bad level", level: "loud", format: "text", wantErr: true},
		{name: "bad format", level: "info", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := New(tt.level, tt.format, &buf)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			logger.Info("hello")
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %q does not contain %q", buf.String(), tt.want)
			}
			if tt.level == "warn" && buf.Len() != 0 {
				t.Errorf("info message should be filtered at warn level, got %q", buf.String())
			}
		})
	}
}

func TestAttrs(t *testing.T) {
	tests := []struct {
		attr  slog.Attr
		key   string
		value string
	}{
		{Operation("planner.plan"), KeyOperation, "planner.plan"},
		{Account("work"), KeyAccount, "work"},
		{Status("empty"), KeyStatus, "empty"},
		{Domain("jane@example.com"), KeyDomain, "example.com"},
		{Attendees(3), KeyAttendees, "3"},
		{Location("in-person"), KeyLocation, "in-person"},
	}

	for _, tt := range tests {
		if tt.attr.Key != tt.key {
			t.Errorf("key = %q, want %q", tt.attr.Key, tt.key)
		}
		if tt.attr.Value.String() != tt.value {
			t.Errorf("value = %q, want %q", tt.attr.Value.String(), tt.value)
		}
	}
}

func TestWithHelpers(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	WithAccount(WithTool(WithOperation(base, "optimize"), "meeting_find_optimal_slots"), "work").Info("x")

	out := buf.String()
	for _, want := range []string{"operation=optimize", "tool=meeting_find_optimal_slots", "account=work"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestErr(t *testing.T) {
	attr := Err(errors.New("test error"))
	if attr.Key != KeyError {
		t.Errorf("Err key = %q, want %q", attr.Key, KeyError)
	}
	if attr.Value.String() != "test error" {
		t.Errorf("Err value = %q, want %q", attr.Value.String(), "test error")
	}

	// nil yields an empty group that slog omits
	if attr := Err(nil); attr.Key != "" {
		t.Errorf("Err(nil) key = %q, want empty string", attr.Key)
	}
}

func TestAnonymizeEmail(t *testing.T) {
	got := AnonymizeEmail("jane@example.com")
	if len(got) != 21 || !strings.HasPrefix(got, "user:") {
		t.Errorf("AnonymizeEmail() = %q, want user: plus 16 hex chars", got)
	}
	if AnonymizeEmail(" Jane@Example.com ") != got {
		t.Error("AnonymizeEmail should ignore case and surrounding space")
	}
	if AnonymizeEmail("") != "" {
		t.Error("AnonymizeEmail(\"\") should be empty")
	}
	if attr := UserHash("jane@example.com"); attr.Key != KeyUserHash || attr.Value.String() != got {
		t.Errorf("UserHash() = %v", attr)
	}
}

func TestExtractDomain(t *testing.T) {
	tests := map[string]string{
		"jane@example.com": "example.com",
		"no-at-sign":       "",
		"a@b@c":            "",
		"":                 "",
	}
	for in, want := range tests {
		if got := ExtractDomain(in); got != want {
			t.Errorf("ExtractDomain(%q) = %q, want %q", in, got, want)
		}
	}
	if attr := Domain("x@corp.io"); attr.Value.String() != "corp.io" {
		t.Errorf("Domain() = %v", attr)
	}
}
