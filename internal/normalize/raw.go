package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"google.golang.org/api/calendar/v3"

	"github.com/teemow/meetslot/internal/availability"
)

// RawTime is one event boundary as it appears in attendee records. Exactly
// one shape is populated: Minutes (an offset already on the minute axis),
// DateTime (ISO-8601) or Date (YYYY-MM-DD, all-day).
type RawTime struct {
	Minutes  *int
	DateTime string
	Date     string
	TimeZone string
}

// MinutesTime returns a RawTime holding an offset.
func MinutesTime(m int) RawTime {
	return RawTime{Minutes: &m}
}

// IsZero reports whether no shape is populated.
func (t RawTime) IsZero() bool {
	return t.Minutes == nil && t.DateTime == "" && t.Date == ""
}

// UnmarshalJSON accepts a number, an ISO-8601 string, or a Google Calendar
// EventDateTime object.
func (t *RawTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = RawTime{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if len(s) == len(dateLayout) {
			*t = RawTime{Date: s}
		} else {
			*t = RawTime{DateTime: s}
		}
		return nil
	case '{':
		var edt calendar.EventDateTime
		if err := json.Unmarshal(data, &edt); err != nil {
			return err
		}
		*t = RawTime{DateTime: edt.DateTime, Date: edt.Date, TimeZone: edt.TimeZone}
		return nil
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("event time must be a number, string or object: %w", err)
		}
		m := int(math.Floor(f))
		*t = RawTime{Minutes: &m}
		return nil
	}
}

// MarshalJSON writes the populated shape back out.
func (t RawTime) MarshalJSON() ([]byte, error) {
	switch {
	case t.Minutes != nil:
		return json.Marshal(*t.Minutes)
	case t.IsZero():
		return []byte("null"), nil
	default:
		return json.Marshal(calendar.EventDateTime{DateTime: t.DateTime, Date: t.Date, TimeZone: t.TimeZone})
	}
}

// RawEvent is an event as found in attendee records.
type RawEvent struct {
	Start       RawTime `json:"start"`
	End         RawTime `json:"end"`
	TimeZone    string  `json:"timezone,omitempty"`
	Title       string  `json:"title,omitempty"`
	Summary     string  `json:"summary,omitempty"`
	Description string  `json:"description,omitempty"`
}

// DisplayTitle returns the title, falling back to the calendar summary.
func (e RawEvent) DisplayTitle() string {
	if e.Title != "" {
		return e.Title
	}
	return e.Summary
}

// RawPerson is an attendee record.
type RawPerson struct {
	ID          string                    `json:"id,omitempty"`
	Name        string                    `json:"name,omitempty"`
	Email       string                    `json:"email,omitempty"`
	TimeZone    string                    `json:"timezone,omitempty"`
	Preferences *availability.Preferences `json:"preferences,omitempty"`
	Events      []RawEvent                `json:"events"`
}
