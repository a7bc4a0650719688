// Package timepref narrows ranked meeting slots to a time of day named in
// free text, such as "lunch" or "late afternoon".
package timepref

import (
	"fmt"
	"strings"
	"time"
)

// Range is a local-hour range [StartHour, EndHour) matched by Keyword.
type Range struct {
	Keyword   string
	StartHour int
	EndHour   int
}

func (r Range) String() string {
	return fmt.Sprintf("%s (%02d:00-%02d:00)", r.Keyword, r.StartHour, r.EndHour)
}

// Contains reports whether t's hour, in t's location, lies in the range.
func (r Range) Contains(t time.Time) bool {
	h := t.Hour()
	return h >= r.StartHour && h < r.EndHour
}

// keywords are matched in order as substrings of the lower-cased text.
// Phrases come before the words they contain.
var keywords = []Range{
	{"late afternoon", 15, 18},
	{"early morning", 7, 10},
	{"dinner time", 17, 21},
	{"lunchtime", 11, 14},
	{"dinnertime", 17, 21},
	{"lunch", 11, 14},
	{"noon", 11, 14},
	{"midday", 11, 14},
	{"dinner", 17, 21},
	{"evening", 17, 21},
	{"breakfast", 7, 10},
	{"morning", 8, 12},
	{"coffee", 8, 11},
	{"afternoon", 12, 17},
	{"night", 18, 22},
}

// Keywords returns the recognized keywords in match order.
func Keywords() []string {
	out := make([]string, len(keywords))
	for i, k := range keywords {
		out[i] = k.Keyword
	}
	return out
}

// Lookup finds the first keyword contained in text.
func Lookup(text string) (Range, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return Range{}, false
	}
	for _, k := range keywords {
		if strings.Contains(text, k.Keyword) {
			return k, true
		}
	}
	return Range{}, false
}

// Resolve looks up preference, falling back to the meeting title.
func Resolve(preference, title string) (Range, bool) {
	if r, ok := Lookup(preference); ok {
		return r, true
	}
	return Lookup(title)
}

// Filter keeps the items whose start lies in r, preserving order. When no
// item matches, all items are returned and matched is false.
func Filter[T any](items []T, r Range, start func(T) time.Time) (kept []T, matched bool) {
	for _, it := range items {
		if r.Contains(start(it)) {
			kept = append(kept, it)
		}
	}
	if len(kept) == 0 {
		return items, false
	}
	return kept, true
}
