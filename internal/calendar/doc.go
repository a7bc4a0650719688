// Package calendar reads attendee availability from the Google Calendar API.
//
// Busy periods come from a single free/busy query per batch of attendees;
// each attendee's calendar time zone is looked up concurrently. Results are
// returned as raw attendee records so they flow through the same
// normalization as attendee files.
//
// Example usage:
//
//	client, err := calendar.NewClientForAccount(ctx, "work")
//	if err != nil {
//	    return err
//	}
//	busy, err := client.BusyAttendees(ctx, []string{"alice@example.com"}, start, end)
package calendar
