package planner

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

// SlotTimeLayout renders a proposal's start time.
const SlotTimeLayout = "Mon, Jan 2 03:04 PM"

// Report is the JSON form of a Plan.
type Report struct {
	WindowStart     time.Time  `json:"window_start"`
	WindowEnd       time.Time  `json:"window_end"`
	DurationMinutes int        `json:"duration_minutes"`
	LocationType    string     `json:"location_type"`
	NumAttendees    int        `json:"num_attendees"`
	ReferenceOrigin time.Time  `json:"reference_origin"`
	Preference      string     `json:"preference,omitempty"`
	SkippedEvents   int        `json:"skipped_events,omitempty"`
	Slots           []Proposal `json:"slots"`
}

// Report returns the JSON form of p. Slots is never nil.
func (p *Plan) Report() Report {
	r := Report{
		WindowStart:     p.Window.Start,
		WindowEnd:       p.Window.End,
		DurationMinutes: p.Duration,
		LocationType:    string(p.LocationType),
		NumAttendees:    p.Attendees,
		ReferenceOrigin: p.Window.Origin,
		SkippedEvents:   len(p.Skipped),
		Slots:           p.Proposals,
	}
	if r.Slots == nil {
		r.Slots = []Proposal{}
	}
	if p.Preference != nil {
		r.Preference = p.Preference.String()
	}
	return r
}

// positiveWords mark a reason as favourable when rendering.
var positiveWords = []string{"optimal", "good", "perfect", "fresh", "flexible"}

// IsPositiveReason reports whether reason describes a bonus.
func IsPositiveReason(reason string) bool {
	lower := strings.ToLower(reason)
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// SplitReasons separates favourable reasons from penalties, keeping order.
func SplitReasons(reasons []string) (positive, negative []string) {
	for _, r := range reasons {
		if IsPositiveReason(r) {
			positive = append(positive, r)
		} else {
			negative = append(negative, r)
		}
	}
	return positive, negative
}

// ScoreBar renders score as ten cells, one per ten points.
func ScoreBar(score float64) string {
	n := int(score / 10)
	n = max(0, min(n, 10))
	return strings.Repeat("█", n) + strings.Repeat("░", 10-n)
}

// FormatRange renders a proposal's time range, for example
// "Mon, Mar 18 09:00 AM - 10:00 AM EDT".
func FormatRange(p Proposal) string {
	return fmt.Sprintf("%s - %s", p.Start.Format(SlotTimeLayout), p.End.Format("03:04 PM MST"))
}

// TextOptions controls WriteText.
type TextOptions struct {
	// Color enables ANSI colors.
	Color bool
}

// WriteText writes a human readable summary of p.
func WriteText(w io.Writer, p *Plan, opts TextOptions) error {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	for _, c := range []*color.Color{green, yellow, bold, red} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	var b strings.Builder
	if len(p.Proposals) == 0 {
		red.Fprintln(&b, "No available meeting slots found in the specified time window.")
		b.WriteString("\nTips:\n")
		b.WriteString("  - Try expanding your time window\n")
		b.WriteString("  - Consider a shorter meeting duration\n")
		b.WriteString("  - Check if all attendees have conflicting events\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	rule := strings.Repeat("=", 70)
	b.WriteString(rule + "\n")
	bold.Fprintln(&b, "OPTIMAL MEETING TIMES FOUND")
	b.WriteString(rule + "\n\n")
	b.WriteString("Search Parameters:\n")
	fmt.Fprintf(&b, "  - Attendees: %d people\n", p.Attendees)
	fmt.Fprintf(&b, "  - Duration: %d minutes\n", p.Duration)
	fmt.Fprintf(&b, "  - Location: %s\n", titleCase(string(p.LocationType)))
	fmt.Fprintf(&b, "  - Window: %s\n", p.Window.Start.Format("Monday, January 02, 2006"))
	if p.Preference != nil {
		state := "matched"
		if !p.PreferenceMatched {
			state = "no match, showing all"
		}
		fmt.Fprintf(&b, "  - Preference: %s (%s)\n", p.Preference, state)
	}
	if n := len(p.Skipped); n > 0 {
		fmt.Fprintf(&b, "  - Skipped events: %d\n", n)
	}
	fmt.Fprintf(&b, "\nTop %d Recommended Times:\n\n", len(p.Proposals))

	for i, prop := range p.Proposals {
		fmt.Fprintf(&b, "%d. %s\n", i+1, FormatRange(prop))
		fmt.Fprintf(&b, "   Score: [%s] %.1f/100\n", ScoreBar(prop.Score), prop.Score)
		pos, neg := SplitReasons(prop.Reasons)
		if len(pos) > 0 {
			green.Fprintf(&b, "   + %s\n", strings.Join(pos, ", "))
		}
		if len(neg) > 0 {
			yellow.Fprintf(&b, "   - %s\n", strings.Join(neg, ", "))
		}
		b.WriteString("\n")
	}
	b.WriteString(rule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func titleCase(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, "-")
}
