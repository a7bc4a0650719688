package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/teemow/meetslot/internal/availability"
)

// layouts accepted for offset-less timestamps, tried in order.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

const dateLayout = "2006-01-02"

// ParseTime parses an ISO-8601 timestamp. Timestamps carrying "Z" or a
// numeric offset keep it; offset-less timestamps and bare dates are
// interpreted in loc.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ParseWindowTime parses a window boundary. Parse failures are validation
// errors.
func ParseWindowTime(field, s string, defaultLoc *time.Location) (time.Time, error) {
	t, err := ParseTime(s, defaultLoc)
	if err != nil {
		return time.Time{}, &availability.ValidationError{Field: field, Reason: err.Error()}
	}
	return t, nil
}

// StartOfWeek returns Monday 00:00 of the week containing t, in t's location.
func StartOfWeek(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-daysSinceMonday, 0, 0, 0, 0, t.Location())
}

// Window is a search window together with the reference origin of its
// minute axis.
type Window struct {
	Start  time.Time
	End    time.Time
	Origin time.Time
}

// NewWindow builds a Window. end is converted into start's zone; the window
// must not be empty.
func NewWindow(start, end time.Time) (Window, error) {
	end = end.In(start.Location())
	if !end.After(start) {
		return Window{}, &availability.ValidationError{
			Field:  "window",
			Reason: fmt.Sprintf("end %s must be after start %s", end.Format(time.RFC3339), start.Format(time.RFC3339)),
		}
	}
	return Window{Start: start, End: end, Origin: StartOfWeek(start)}, nil
}

// Location returns the window's reference time zone.
func (w Window) Location() *time.Location {
	return w.Start.Location()
}

// Offset returns whole minutes elapsed from the origin to t, rounding toward
// negative infinity.
func (w Window) Offset(t time.Time) int {
	secs := int64(t.Sub(w.Origin) / time.Second)
	q := secs / 60
	if secs%60 != 0 && secs < 0 {
		q--
	}
	return int(q)
}

// Time converts an offset back to an absolute time in the window's zone.
func (w Window) Time(offset int) time.Time {
	return w.Origin.Add(time.Duration(offset) * time.Minute).In(w.Location())
}

// Interval returns the window as minute offsets.
func (w Window) Interval() availability.Interval {
	return availability.Interval{Start: w.Offset(w.Start), End: w.Offset(w.End)}
}

// Minutes returns the window length in whole minutes.
func (w Window) Minutes() int {
	return int(w.End.Sub(w.Start) / time.Minute)
}

// Clock returns the clock that reads weekdays and times of day from the
// window's calendar.
func (w Window) Clock() availability.AnchoredClock {
	return availability.AnchoredClock{Origin: w.Origin}
}
