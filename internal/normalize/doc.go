// Package normalize converts attendee records with heterogeneous timestamp
// shapes into availability.Person values on a single minute axis.
//
// The axis origin is local Monday 00:00 of the week containing the window
// start, in the window start's time zone. Every timestamp is converted into
// that zone before any arithmetic, events are clipped to the window, and
// offsets are whole minutes (floor) elapsed since the origin.
//
// An event whose timestamps cannot be parsed is dropped and reported in
// Result.Skipped; it never aborts normalization of the remaining events.
package normalize
