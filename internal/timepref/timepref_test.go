package timepref

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		text      string
		found     bool
		startHour int
		endHour   int
	}{
		{"Tuesday lunchtime", true, 11, 14},
		{"LUNCH", true, 11, 14},
		{"late afternoon please", true, 15, 18},
		{"afternoon", true, 12, 17},
		{"early morning run", true, 7, 10},
		{"tomorrow morning", true, 8, 12},
		{"coffee chat", true, 8, 11},
		{"dinner time", true, 17, 21},
		{"friday night", true, 18, 22},
		{"next week", false, 0, 0},
		{"", false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			r, ok := Lookup(tt.text)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.startHour, r.StartHour)
			assert.Equal(t, tt.endHour, r.EndHour)
		})
	}
}

func TestResolve_FallsBackToTitle(t *testing.T) {
	r, ok := Resolve("Tuesday", "Lunch with Sam")
	require.True(t, ok)
	assert.Equal(t, "lunch", r.Keyword)

	r, ok = Resolve("evening", "Lunch with Sam")
	require.True(t, ok)
	assert.Equal(t, "evening", r.Keyword)

	_, ok = Resolve("", "Sync")
	assert.False(t, ok)
}

func TestFilter(t *testing.T) {
	day := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	starts := []time.Time{
		day.Add(9 * time.Hour),
		day.Add(11*time.Hour + 30*time.Minute),
		day.Add(13 * time.Hour),
		day.Add(14 * time.Hour),
	}
	identity := func(t time.Time) time.Time { return t }

	lunch, _ := Lookup("lunch")
	kept, matched := Filter(starts, lunch, identity)
	assert.True(t, matched)
	assert.Equal(t, []time.Time{starts[1], starts[2]}, kept)

	night, _ := Lookup("night")
	kept, matched = Filter(starts, night, identity)
	assert.False(t, matched)
	assert.Equal(t, starts, kept)
}

func TestKeywords_PhrasesBeforeContainedWords(t *testing.T) {
	kw := Keywords()
	index := func(s string) int {
		for i, k := range kw {
			if k == s {
				return i
			}
		}
		return -1
	}
	assert.Less(t, index("late afternoon"), index("afternoon"))
	assert.Less(t, index("early morning"), index("morning"))
	assert.Less(t, index("dinner time"), index("dinner"))
	assert.Less(t, index("lunchtime"), index("lunch"))
}
