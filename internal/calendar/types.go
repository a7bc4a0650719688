package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// CalendarInfo represents information about a calendar
type CalendarInfo struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	TimeZone    string `json:"timeZone"`
}

// FreeBusyInfo represents availability information for a calendar
type FreeBusyInfo struct {
	Calendar string
	Busy     []TimeRange
	// Errors are the reasons the API gave for not reading the calendar.
	Errors []string
	// Unparsable lists busy periods whose bounds were not RFC 3339. The
	// remaining periods are still valid.
	Unparsable []string
}

// TimeRange is a busy period as returned by the API. Start and End keep the
// RFC 3339 text so that the offset the API used is preserved.
type TimeRange struct {
	Start time.Time
	End   time.Time
	Raw   [2]string
}

// toCalendarInfo converts a Google Calendar resource to CalendarInfo
func toCalendarInfo(cal *calendar.Calendar) CalendarInfo {
	if cal == nil {
		return CalendarInfo{}
	}
	return CalendarInfo{
		ID:          cal.Id,
		Summary:     cal.Summary,
		Description: cal.Description,
		TimeZone:    cal.TimeZone,
	}
}

// toFreeBusyInfo converts one calendar of a free/busy response. Busy
// periods that cannot be parsed are collected in Unparsable.
func toFreeBusyInfo(id string, cal calendar.FreeBusyCalendar) FreeBusyInfo {
	info := FreeBusyInfo{Calendar: id}
	for _, busy := range cal.Busy {
		if busy == nil {
			continue
		}
		start, err1 := time.Parse(time.RFC3339, busy.Start)
		end, err2 := time.Parse(time.RFC3339, busy.End)
		if err1 != nil || err2 != nil {
			info.Unparsable = append(info.Unparsable, "unparsable busy period "+busy.Start+" - "+busy.End)
			continue
		}
		info.Busy = append(info.Busy, TimeRange{Start: start, End: end, Raw: [2]string{busy.Start, busy.End}})
	}
	for _, e := range cal.Errors {
		if e != nil {
			info.Errors = append(info.Errors, e.Reason)
		}
	}
	return info
}
