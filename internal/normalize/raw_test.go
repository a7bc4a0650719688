package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawTime_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected RawTime
		wantErr  bool
	}{
		{name: "integer minutes", input: `540`, expected: MinutesTime(540)},
		{name: "float minutes floor", input: `90.7`, expected: MinutesTime(90)},
		{name: "datetime string", input: `"2024-03-15T10:00:00Z"`, expected: RawTime{DateTime: "2024-03-15T10:00:00Z"}},
		{name: "date string", input: `"2024-03-15"`, expected: RawTime{Date: "2024-03-15"}},
		{
			name:     "calendar object",
			input:    `{"dateTime":"2024-03-15T10:00:00","timeZone":"Europe/Berlin"}`,
			expected: RawTime{DateTime: "2024-03-15T10:00:00", TimeZone: "Europe/Berlin"},
		},
		{name: "all-day object", input: `{"date":"2024-03-15"}`, expected: RawTime{Date: "2024-03-15"}},
		{name: "null", input: `null`, expected: RawTime{}},
		{name: "bool", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got RawTime
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRawPerson_Decode(t *testing.T) {
	input := `{
		"id": "alice",
		"email": "alice@example.com",
		"timezone": "America/New_York",
		"preferences": {"avoid_back_to_back": true, "min_break_minutes": 10},
		"events": [
			{"start": 600, "end": 660, "title": "standup"},
			{"start": {"dateTime": "2024-03-15T10:00:00-05:00"}, "end": {"dateTime": "2024-03-15T11:00:00-05:00"}, "summary": "review"}
		]
	}`

	var p RawPerson
	require.NoError(t, json.Unmarshal([]byte(input), &p))
	require.Len(t, p.Events, 2)
	assert.Equal(t, "standup", p.Events[0].DisplayTitle())
	assert.Equal(t, "review", p.Events[1].DisplayTitle())
	require.NotNil(t, p.Preferences)
	assert.True(t, p.Preferences.AvoidBackToBack)
	assert.Equal(t, 10, p.Preferences.MinBreakMinutes)
}

func TestRawTime_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(MinutesTime(30))
	require.NoError(t, err)
	assert.JSONEq(t, `30`, string(out))

	out, err = json.Marshal(RawTime{DateTime: "2024-03-15T10:00:00Z", TimeZone: "UTC"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"dateTime":"2024-03-15T10:00:00Z","timeZone":"UTC"}`, string(out))
}
