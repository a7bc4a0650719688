package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringArg(t *testing.T) {
	args := map[string]any{"tz": "  Europe/Berlin ", "blank": "  ", "n": 3.0}

	assert.Equal(t, "Europe/Berlin", StringArg(args, "tz", "UTC"))
	assert.Equal(t, "UTC", StringArg(args, "blank", "UTC"))
	assert.Equal(t, "UTC", StringArg(args, "n", "UTC"))
	assert.Equal(t, "UTC", StringArg(args, "missing", "UTC"))

	_, err := RequiredStringArg(args, "blank")
	assert.EqualError(t, err, "blank is required")
}

func TestIntArg(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    int
		wantErr bool
	}{
		{"absent", nil, 7, false},
		{"json number", 30.0, 30, false},
		{"int", 45, 45, false},
		{"fraction", 30.5, 0, true},
		{"string", "30", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]any{}
			if tt.value != nil {
				args["durationMinutes"] = tt.value
			}
			got, err := IntArg(args, "durationMinutes", 7)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListArg(t *testing.T) {
	assert.Equal(t, []string{"a@example.com", "b@example.com"},
		ListArg(map[string]any{"attendees": " a@example.com, ,b@example.com,"}, "attendees"))
	assert.Equal(t, []string{"a@example.com", "b@example.com"},
		ListArg(map[string]any{"attendees": []any{"a@example.com", 1, " b@example.com "}}, "attendees"))
	assert.Empty(t, ListArg(map[string]any{}, "attendees"))
}
