package availability

import (
	"fmt"
)

// MinutesPerDay is the length of a calendar day in minutes.
const MinutesPerDay = 1440

// DefaultIntervalMinutes is the candidate grid size used when none is configured.
const DefaultIntervalMinutes = 15

// DefaultTopK is the number of slots returned when the caller does not ask for a count.
const DefaultTopK = 5

// Interval is a half-open range [Start, End) in minutes from the reference origin.
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the length of the interval in minutes.
func (iv Interval) Len() int {
	return iv.End - iv.Start
}

// Valid reports whether the interval is non-empty.
func (iv Interval) Valid() bool {
	return iv.Start < iv.End
}

// Contains reports whether other lies entirely inside iv.
func (iv Interval) Contains(other Interval) bool {
	return other.Start >= iv.Start && other.End <= iv.End
}

// Overlaps reports whether the two half-open intervals share any minute.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%d,%d)", iv.Start, iv.End)
}

// Event is a busy interval owned by one person.
type Event struct {
	Interval
	TimeZone    string
	Title       string
	Description string
}

// Preferences are per-person scheduling preferences. They are carried through
// but not used by the scorer.
type Preferences struct {
	PreferredMeetingTimes []string `json:"preferred_meeting_times"`
	AvoidBackToBack       bool     `json:"avoid_back_to_back"`
	MinBreakMinutes       int      `json:"min_break_minutes"`
}

// Person is a calendar owner taking part in the meeting.
type Person struct {
	ID          string
	Name        string
	Email       string
	TimeZone    string
	Events      []Event
	Preferences Preferences
}

// LocationType describes where the meeting takes place.
type LocationType string

const (
	LocationVirtual  LocationType = "virtual"
	LocationInPerson LocationType = "in-person"
	LocationHybrid   LocationType = "hybrid"
)

// ParseLocationType validates a location type string.
func ParseLocationType(s string) (LocationType, error) {
	switch lt := LocationType(s); lt {
	case LocationVirtual, LocationInPerson, LocationHybrid:
		return lt, nil
	case "":
		return LocationVirtual, nil
	default:
		return "", &ValidationError{Field: "location_type", Reason: fmt.Sprintf("unknown location type %q (want virtual, in-person or hybrid)", s)}
	}
}

// ScoredSlot is a candidate slot with its score and the reasons behind it.
type ScoredSlot struct {
	Start   int      `json:"start"`
	End     int      `json:"end"`
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
}

// Interval returns the slot as an Interval.
func (s ScoredSlot) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}
