package normalize

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teemow/meetslot/internal/availability"
)

// DefaultPersonTimeZone is recorded for attendees without a time zone.
const DefaultPersonTimeZone = "UTC"

var (
	errMissingBoundary = errors.New("missing start or end")
	errOutsideWindow   = errors.New("outside window")
)

// Resolver maps IANA zone names to locations.
type Resolver interface {
	Location(name string) (*time.Location, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(name string) (*time.Location, error)

// Location implements Resolver.
func (f ResolverFunc) Location(name string) (*time.Location, error) {
	return f(name)
}

// SkippedEvent describes an event that was dropped because it could not be
// parsed.
type SkippedEvent struct {
	PersonID string
	Index    int
	Reason   string
}

// Result is the output of Normalize.
type Result struct {
	People  []availability.Person
	Skipped []SkippedEvent
	// OutsideWindow counts well-formed events that did not intersect the
	// window.
	OutsideWindow int
}

// Normalizer converts raw attendee records for one window.
type Normalizer struct {
	window   Window
	interval availability.Interval
	resolver Resolver
}

// New returns a Normalizer for w. A nil resolver uses time.LoadLocation.
func New(w Window, resolver Resolver) *Normalizer {
	if resolver == nil {
		resolver = ResolverFunc(time.LoadLocation)
	}
	return &Normalizer{window: w, interval: w.Interval(), resolver: resolver}
}

// Window returns the window the Normalizer was built for.
func (n *Normalizer) Window() Window {
	return n.window
}

// Normalize converts every record. Events that cannot be parsed are skipped
// and reported; events outside the window are silently dropped.
func (n *Normalizer) Normalize(raw []RawPerson) Result {
	res := Result{People: make([]availability.Person, 0, len(raw))}
	for _, rp := range raw {
		p := availability.Person{
			ID:       rp.ID,
			Name:     rp.Name,
			Email:    rp.Email,
			TimeZone: rp.TimeZone,
		}
		if p.ID == "" {
			p.ID = rp.Email
		}
		if p.TimeZone == "" {
			p.TimeZone = DefaultPersonTimeZone
		}
		if rp.Preferences != nil {
			p.Preferences = *rp.Preferences
		}

		for i, re := range rp.Events {
			ev, err := n.Event(re, rp.TimeZone)
			switch {
			case errors.Is(err, errOutsideWindow):
				res.OutsideWindow++
			case err != nil:
				res.Skipped = append(res.Skipped, SkippedEvent{PersonID: p.ID, Index: i, Reason: err.Error()})
			default:
				if ev.TimeZone == "" {
					ev.TimeZone = p.TimeZone
				}
				p.Events = append(p.Events, ev)
			}
		}
		res.People = append(res.People, p)
	}
	return res
}

// Event converts one raw event, clipped to the window. personTZ is used to
// interpret offset-less timestamps when the event names no zone.
func (n *Normalizer) Event(re RawEvent, personTZ string) (availability.Event, error) {
	if re.Start.IsZero() || re.End.IsZero() {
		return availability.Event{}, errMissingBoundary
	}

	start, err := n.offset(re.Start, re.TimeZone, personTZ)
	if err != nil {
		return availability.Event{}, fmt.Errorf("start: %w", err)
	}
	end, err := n.offset(re.End, re.TimeZone, personTZ)
	if err != nil {
		return availability.Event{}, fmt.Errorf("end: %w", err)
	}

	// all-day events with an inclusive or missing end cover their start day
	if re.Start.Date != "" && re.End.Date != "" && end <= start {
		end = n.window.Offset(n.window.Time(start).AddDate(0, 0, 1))
	}

	iv, ok := availability.Clip(availability.Interval{Start: start, End: end}, n.interval)
	if !ok {
		return availability.Event{}, errOutsideWindow
	}

	tz := re.TimeZone
	if tz == "" {
		tz = re.Start.TimeZone
	}
	return availability.Event{
		Interval:    iv,
		TimeZone:    tz,
		Title:       re.DisplayTitle(),
		Description: re.Description,
	}, nil
}

func (n *Normalizer) offset(rt RawTime, eventTZ, personTZ string) (int, error) {
	switch {
	case rt.Minutes != nil:
		return *rt.Minutes, nil
	case rt.DateTime != "":
		// a timestamp carrying its own offset never needs a zone lookup
		if t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(rt.DateTime)); err == nil {
			return n.window.Offset(t.In(n.window.Location())), nil
		}
		loc, err := n.location(rt.TimeZone, eventTZ, personTZ)
		if err != nil {
			return 0, err
		}
		t, err := ParseTime(rt.DateTime, loc)
		if err != nil {
			return 0, err
		}
		return n.window.Offset(t.In(n.window.Location())), nil
	default:
		// all-day boundaries are midnight in the window's zone
		t, err := time.ParseInLocation(dateLayout, rt.Date, n.window.Location())
		if err != nil {
			return 0, fmt.Errorf("invalid date %q", rt.Date)
		}
		return n.window.Offset(t), nil
	}
}

// location picks the first named zone; with none the window's zone applies.
func (n *Normalizer) location(names ...string) (*time.Location, error) {
	for _, name := range names {
		if name == "" {
			continue
		}
		loc, err := n.resolver.Location(name)
		if err != nil {
			return nil, fmt.Errorf("unknown time zone %q: %w", name, err)
		}
		return loc, nil
	}
	return n.window.Location(), nil
}
