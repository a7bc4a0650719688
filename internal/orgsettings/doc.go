// Package orgsettings loads the organization scheduling policy.
//
// Settings files are JSON or YAML (chosen by extension) with this shape:
//
//	work_hours:   {start: "09:00", end: "17:00"}
//	lunch_window: {start: "12:00", end: "13:00"}
//	penalties:    {outside_work_hours: 50, ...}
//	bonuses:      {optimal_time_slot: 10, ...}
//	meeting_preferences: {interval_minutes: 15, default_duration: 60}
//
// Times of day may be written as "HH:MM" strings or as minutes after
// midnight. Default returns a complete built-in policy.
package orgsettings
