package availability

import (
	"fmt"
)

// Penalty keys every OrgSettings must define.
const (
	PenaltyOutsideWorkHours      = "outside_work_hours"
	PenaltyOverlapsLunch         = "overlaps_lunch"
	PenaltyEarlyMorning          = "early_morning"
	PenaltyLateEvening           = "late_evening"
	PenaltyWeekend               = "weekend"
	PenaltyFridayAfternoon       = "friday_afternoon"
	PenaltyNoMorningBuffer       = "no_morning_buffer"
	PenaltyNoEveningBuffer       = "no_evening_buffer"
	PenaltyPerAdditionalTimeZone = "per_additional_timezone"
)

// Bonus keys every OrgSettings must define.
const (
	BonusOptimalTimeSlot = "optimal_time_slot"
	BonusMondayMorning   = "monday_morning"
	BonusInPersonMidday  = "in_person_midday"
	BonusVirtualMeeting  = "virtual_meeting"
)

// RequiredPenalties lists the penalty keys the scorer reads.
var RequiredPenalties = []string{
	PenaltyOutsideWorkHours,
	PenaltyOverlapsLunch,
	PenaltyEarlyMorning,
	PenaltyLateEvening,
	PenaltyWeekend,
	PenaltyFridayAfternoon,
	PenaltyNoMorningBuffer,
	PenaltyNoEveningBuffer,
	PenaltyPerAdditionalTimeZone,
}

// RequiredBonuses lists the bonus keys the scorer reads.
var RequiredBonuses = []string{
	BonusOptimalTimeSlot,
	BonusMondayMorning,
	BonusInPersonMidday,
	BonusVirtualMeeting,
}

// OrgSettings is the organization's scheduling policy. Times of day are
// minutes after midnight.
type OrgSettings struct {
	WorkHoursStart  int
	WorkHoursEnd    int
	LunchStart      int
	LunchEnd        int
	Penalties       map[string]float64
	Bonuses         map[string]float64
	IntervalMinutes int
}

// Validate checks that every penalty and bonus the scorer reads is present and
// that the grid size and times of day are usable.
func (s OrgSettings) Validate() error {
	var missing []string
	for _, k := range RequiredPenalties {
		if _, ok := s.Penalties[k]; !ok {
			missing = append(missing, "penalties."+k)
		}
	}
	for _, k := range RequiredBonuses {
		if _, ok := s.Bonuses[k]; !ok {
			missing = append(missing, "bonuses."+k)
		}
	}
	if len(missing) > 0 {
		return &ConfigurationError{MissingKeys: missing}
	}

	if s.IntervalMinutes <= 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("interval_minutes must be positive, got %d", s.IntervalMinutes)}
	}

	for _, f := range []struct {
		name  string
		value int
	}{
		{"work_hours.start", s.WorkHoursStart},
		{"work_hours.end", s.WorkHoursEnd},
		{"lunch_window.start", s.LunchStart},
		{"lunch_window.end", s.LunchEnd},
	} {
		if f.value < 0 || f.value >= MinutesPerDay {
			return &ConfigurationError{Reason: fmt.Sprintf("%s must be a minute of the day (0-1439), got %d", f.name, f.value)}
		}
	}

	return nil
}
