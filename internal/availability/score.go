package availability

import (
	"fmt"
	"slices"
	"time"
)

// BaselineScore is the score of a slot before any adjustment.
const BaselineScore = 100.0

// inPersonEarlyPenalty is subtracted for in-person meetings starting before 9:00.
const inPersonEarlyPenalty = 10.0

// Reason tags attached to scored slots.
const (
	ReasonOutsideWorkHours = "Outside work hours"
	ReasonOverlapsLunch    = "Overlaps lunch"
	ReasonEarlyMorning     = "Early morning"
	ReasonLateEvening      = "Late evening"
	ReasonOptimalTime      = "Optimal time of day"
	ReasonWeekend          = "Weekend"
	ReasonMonday           = "Monday (fresh start)"
	ReasonFriday           = "Friday (end of week)"
	ReasonInPersonMidday   = "Good time for in-person"
	ReasonInPersonEarly    = "Too early for in-person"
	ReasonVirtual          = "Virtual (flexible)"
	ReasonNoMorningBuffer  = "No morning buffer"
	ReasonNoEveningBuffer  = "Runs to end of day"
	ReasonPerfect          = "Perfect slot"
)

// TimeZonesReason returns the reason tag for a meeting spanning n time zones.
func TimeZonesReason(n int) string {
	return fmt.Sprintf("%d timezones", n)
}

// Scorer applies the scoring heuristics to candidate slots. It is immutable
// once built and safe for concurrent use.
type Scorer struct {
	settings  OrgSettings
	location  LocationType
	timeZones int
	clock     Clock
}

// NewScorer validates settings and returns a Scorer. A nil clock selects
// WeekClock.
func NewScorer(settings OrgSettings, location LocationType, participantTimeZones []string, clock Clock) (*Scorer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = WeekClock{}
	}

	var zones []string
	for _, tz := range participantTimeZones {
		if !slices.Contains(zones, tz) {
			zones = append(zones, tz)
		}
	}

	return &Scorer{
		settings:  settings,
		location:  location,
		timeZones: len(zones),
		clock:     clock,
	}, nil
}

// Score evaluates every check in a fixed order and returns the scored slot.
func (s *Scorer) Score(slot Interval) ScoredSlot {
	var (
		score    = BaselineScore
		reasons  []string
		penalty  = s.settings.Penalties
		bonus    = s.settings.Bonuses
		startMin = s.clock.DayMinute(slot.Start)
		endMin   = s.clock.DayMinute(slot.End)
		hour     = startMin / 60
	)

	// work hours; an end before the start means the slot wraps past midnight
	if endMin < startMin || startMin < s.settings.WorkHoursStart || endMin > s.settings.WorkHoursEnd {
		score -= penalty[PenaltyOutsideWorkHours]
		reasons = append(reasons, ReasonOutsideWorkHours)
	}

	if !(endMin <= s.settings.LunchStart || startMin >= s.settings.LunchEnd) {
		score -= penalty[PenaltyOverlapsLunch]
		reasons = append(reasons, ReasonOverlapsLunch)
	}

	if startMin < s.settings.WorkHoursStart+60 {
		score -= penalty[PenaltyEarlyMorning]
		reasons = append(reasons, ReasonEarlyMorning)
	}
	if endMin > s.settings.WorkHoursEnd-60 {
		score -= penalty[PenaltyLateEvening]
		reasons = append(reasons, ReasonLateEvening)
	}

	if (hour >= 10 && hour < 11) || (hour >= 14 && hour < 15) {
		score += bonus[BonusOptimalTimeSlot]
		reasons = append(reasons, ReasonOptimalTime)
	}

	switch s.clock.Weekday(slot.Start) {
	case time.Saturday, time.Sunday:
		score -= penalty[PenaltyWeekend]
		reasons = append(reasons, ReasonWeekend)
	case time.Monday:
		score += bonus[BonusMondayMorning]
		reasons = append(reasons, ReasonMonday)
	case time.Friday:
		score -= penalty[PenaltyFridayAfternoon]
		reasons = append(reasons, ReasonFriday)
	}

	switch s.location {
	case LocationInPerson:
		if hour >= 10 && hour < 15 {
			score += bonus[BonusInPersonMidday]
			reasons = append(reasons, ReasonInPersonMidday)
		}
		if hour < 9 {
			score -= inPersonEarlyPenalty
			reasons = append(reasons, ReasonInPersonEarly)
		}
	case LocationVirtual:
		score += bonus[BonusVirtualMeeting]
		reasons = append(reasons, ReasonVirtual)
	}

	if startMin == s.settings.WorkHoursStart {
		score -= penalty[PenaltyNoMorningBuffer]
		reasons = append(reasons, ReasonNoMorningBuffer)
	}
	if endMin == s.settings.WorkHoursEnd {
		score -= penalty[PenaltyNoEveningBuffer]
		reasons = append(reasons, ReasonNoEveningBuffer)
	}

	if s.timeZones > 1 {
		score -= float64(s.timeZones-1) * penalty[PenaltyPerAdditionalTimeZone]
		reasons = append(reasons, TimeZonesReason(s.timeZones))
	}

	if len(reasons) == 0 {
		reasons = append(reasons, ReasonPerfect)
	}

	return ScoredSlot{
		Start:   slot.Start,
		End:     slot.End,
		Score:   max(0, score),
		Reasons: reasons,
	}
}

// ScoreAll scores candidates, preserving their order.
func (s *Scorer) ScoreAll(candidates []Interval) []ScoredSlot {
	scored := make([]ScoredSlot, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, s.Score(c))
	}
	return scored
}
