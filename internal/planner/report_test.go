package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/meetslot/internal/availability"
	"github.com/teemow/meetslot/internal/normalize"
)

func TestScoreBar(t *testing.T) {
	tests := []struct {
		score    float64
		expected string
	}{
		{0, "░░░░░░░░░░"},
		{-20, "░░░░░░░░░░"},
		{59.9, "█████░░░░░"},
		{100, "██████████"},
		{135, "██████████"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ScoreBar(tt.score), "score %v", tt.score)
	}
}

func TestSplitReasons(t *testing.T) {
	pos, neg := SplitReasons([]string{
		availability.ReasonOptimalTime,
		availability.ReasonOverlapsLunch,
		availability.ReasonMonday,
		availability.ReasonFriday,
		availability.ReasonVirtual,
		availability.ReasonInPersonMidday,
		availability.ReasonPerfect,
		availability.ReasonNoEveningBuffer,
	})
	assert.Equal(t, []string{
		availability.ReasonOptimalTime,
		availability.ReasonMonday,
		availability.ReasonVirtual,
		availability.ReasonInPersonMidday,
		availability.ReasonPerfect,
	}, pos)
	assert.Equal(t, []string{
		availability.ReasonOverlapsLunch,
		availability.ReasonFriday,
		availability.ReasonNoEveningBuffer,
	}, neg)
}

func TestWriteText(t *testing.T) {
	plan, err := newPlanner().Plan(context.Background(), Request{
		Window:       friday(t),
		Duration:     60,
		TopK:         2,
		LocationType: "in-person",
		People:       []normalize.RawPerson{alice()},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, plan, TextOptions{}))
	out := buf.String()

	assert.Contains(t, out, "OPTIMAL MEETING TIMES FOUND")
	assert.Contains(t, out, "Attendees: 1 people")
	assert.Contains(t, out, "Location: In-Person")
	assert.Contains(t, out, "Window: Friday, March 15, 2024")
	assert.Contains(t, out, "Top 2 Recommended Times")
	assert.Contains(t, out, "1. Fri, Mar 15")
	assert.Contains(t, out, "EDT")
	assert.Contains(t, out, "/100")
	assert.NotContains(t, out, "\x1b[", "colors must be off")
}

func TestWriteText_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, &Plan{Window: friday(t)}, TextOptions{}))
	assert.Contains(t, buf.String(), "No available meeting slots")
	assert.Contains(t, buf.String(), "Tips:")
}

func TestPlan_Report(t *testing.T) {
	w := friday(t)
	plan, err := newPlanner().Plan(context.Background(), Request{Window: w, Duration: 30, TopK: 1, Preference: "morning"})
	require.NoError(t, err)

	data, err := json.Marshal(plan.Report())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "2024-03-15T09:00:00-04:00", decoded["window_start"])
	assert.Equal(t, "2024-03-11T00:00:00-04:00", decoded["reference_origin"])
	assert.EqualValues(t, 30, decoded["duration_minutes"])
	assert.Equal(t, "virtual", decoded["location_type"])
	assert.Equal(t, "morning (08:00-12:00)", decoded["preference"])

	slots, ok := decoded["slots"].([]any)
	require.True(t, ok)
	require.Len(t, slots, 1)
	slot := slots[0].(map[string]any)
	for _, key := range []string{"start_time", "end_time", "start_offset", "end_offset", "score", "reasons"} {
		assert.Contains(t, slot, key)
	}
}
