package availability

import (
	"fmt"
)

// Request is one scheduling computation. All intervals are minutes from the
// same reference origin.
type Request struct {
	People       []Person
	Window       Interval
	Duration     int
	LocationType LocationType
	Settings     OrgSettings
	// TopK defaults to DefaultTopK when not positive.
	TopK int
	// Clock defaults to WeekClock.
	Clock Clock
}

// Result holds the ranked slots and the intermediate sets they came from.
type Result struct {
	Slots      []ScoredSlot
	Busy       []Interval
	Free       []Interval
	Candidates int
}

// Validate checks the window and duration.
func (r Request) Validate() error {
	if r.Window.End <= r.Window.Start {
		return &ValidationError{Field: "window", Reason: fmt.Sprintf("end (%d) must be after start (%d)", r.Window.End, r.Window.Start)}
	}
	if r.Duration <= 0 {
		return &ValidationError{Field: "duration", Reason: fmt.Sprintf("must be positive, got %d", r.Duration)}
	}
	if _, err := ParseLocationType(string(r.LocationType)); err != nil {
		return err
	}
	return nil
}

// Optimize runs the full pipeline. Validation errors are returned before any
// interval arithmetic and configuration errors before any slot is scored. A
// window with no room for the meeting yields an empty result, not an error.
func Optimize(req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	location, _ := ParseLocationType(string(req.LocationType))
	zones := make([]string, 0, len(req.People))
	for _, p := range req.People {
		zones = append(zones, p.TimeZone)
	}

	scorer, err := NewScorer(req.Settings, location, zones, req.Clock)
	if err != nil {
		return nil, err
	}

	topK := req.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	busy := BusyIntervals(req.People, req.Window)
	free := FreeGaps(busy, req.Window)
	candidates := GenerateCandidates(free, req.Duration, req.Settings.IntervalMinutes)

	return &Result{
		Slots:      SelectTopK(scorer.ScoreAll(candidates), topK),
		Busy:       busy,
		Free:       free,
		Candidates: len(candidates),
	}, nil
}

// FindOptimalSlots returns the top ranked slots for req.
func FindOptimalSlots(req Request) ([]ScoredSlot, error) {
	res, err := Optimize(req)
	if err != nil {
		return nil, err
	}
	return res.Slots, nil
}
