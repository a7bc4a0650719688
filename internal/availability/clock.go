package availability

import (
	"fmt"
	"time"
)

// Clock maps minute offsets to wall-clock facts. One Clock is used for a whole
// computation so that day-of-week and minute-of-day never come from two
// different sources.
type Clock interface {
	// DayMinute returns the minute of the day (0-1439) at offset.
	DayMinute(offset int) int
	// Weekday returns the day of the week at offset.
	Weekday(offset int) time.Weekday
}

// WeekClock treats offsets as minutes from a Monday 00:00 origin with no
// absolute date attached.
type WeekClock struct{}

// DayMinute implements Clock.
func (WeekClock) DayMinute(offset int) int {
	return floorMod(offset, MinutesPerDay)
}

// Weekday implements Clock.
func (WeekClock) Weekday(offset int) time.Weekday {
	// day 0 is Monday; time.Weekday counts from Sunday
	day := floorMod(floorDiv(offset, MinutesPerDay), 7)
	return time.Weekday((day + 1) % 7)
}

// AnchoredClock reads weekday and minute of day from the calendar date at
// Origin plus the offset, in Origin's location.
type AnchoredClock struct {
	Origin time.Time
}

// At converts an offset back to an absolute time.
func (c AnchoredClock) At(offset int) time.Time {
	return c.Origin.Add(time.Duration(offset) * time.Minute)
}

// DayMinute implements Clock.
func (c AnchoredClock) DayMinute(offset int) int {
	t := c.At(offset)
	return t.Hour()*60 + t.Minute()
}

// Weekday implements Clock.
func (c AnchoredClock) Weekday(offset int) time.Weekday {
	return c.At(offset).Weekday()
}

var weekdayAbbrev = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// FormatOffset renders a week-relative offset as "Mon 09:00".
func FormatOffset(minutes int) string {
	day := floorDiv(minutes, MinutesPerDay)
	dayMinutes := floorMod(minutes, MinutesPerDay)
	return fmt.Sprintf("%s %02d:%02d", weekdayAbbrev[floorMod(day, 7)], dayMinutes/60, dayMinutes%60)
}
