// Package planner turns attendee calendars and a search window into ranked
// meeting proposals with absolute times.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/teemow/meetslot/internal/availability"
	"github.com/teemow/meetslot/internal/instrumentation"
	"github.com/teemow/meetslot/internal/logging"
	"github.com/teemow/meetslot/internal/normalize"
	"github.com/teemow/meetslot/internal/timepref"
)

// Request describes one slot search.
type Request struct {
	Window       normalize.Window
	Duration     int
	LocationType string
	// TopK defaults to availability.DefaultTopK when not positive.
	TopK   int
	People []normalize.RawPerson
	// Preference and Title are matched against time-of-day keywords.
	Preference string
	Title      string
}

// Proposal is a ranked slot with absolute times in the window's zone.
type Proposal struct {
	Start       time.Time `json:"start_time"`
	End         time.Time `json:"end_time"`
	StartOffset int       `json:"start_offset"`
	EndOffset   int       `json:"end_offset"`
	Score       float64   `json:"score"`
	Reasons     []string  `json:"reasons"`
}

// Plan is the outcome of a slot search.
type Plan struct {
	Window       normalize.Window
	Duration     int
	LocationType availability.LocationType
	Attendees    int
	Proposals    []Proposal
	// Candidates is the number of grid-aligned slots that were scored.
	Candidates    int
	Skipped       []normalize.SkippedEvent
	OutsideWindow int
	// Preference is set when a time-of-day keyword was recognized;
	// PreferenceMatched reports whether any slot fell inside it.
	Preference        *timepref.Range
	PreferenceMatched bool
}

// Planner runs slot searches against one organization policy.
type Planner struct {
	settings availability.OrgSettings
	resolver normalize.Resolver
	metrics  *instrumentation.Metrics
	logger   *slog.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithResolver sets the time zone resolver used while normalizing events.
func WithResolver(r normalize.Resolver) Option {
	return func(p *Planner) { p.resolver = r }
}

// WithMetrics records every search on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(p *Planner) { p.metrics = m }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Planner) {
		if l != nil {
			p.logger = l
		}
	}
}

// New returns a Planner for settings. The settings are validated on every
// Plan call so that a bad policy surfaces as a ConfigurationError there.
func New(settings availability.OrgSettings, opts ...Option) *Planner {
	p := &Planner{
		settings: settings,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Settings returns the organization policy the planner scores with.
func (p *Planner) Settings() availability.OrgSettings {
	return p.settings
}

// Plan normalizes the attendees, runs the optimizer and returns the best
// proposals. Requests whose duration does not fit in the window are
// rejected with a ValidationError.
func (p *Planner) Plan(ctx context.Context, req Request) (*Plan, error) {
	start := time.Now()
	ctx, span := instrumentation.StartSpan(ctx, "planner.plan",
		instrumentation.NewSpanAttributeBuilder().
			WithMeeting(len(req.People), req.LocationType, req.Duration).
			WithWindow(req.Window.Minutes()).
			Build()...)
	defer span.End()

	plan, err := p.plan(ctx, req)

	o := instrumentation.Optimization{
		Status:       instrumentation.StatusError,
		LocationType: req.LocationType,
		Attendees:    len(req.People),
		Duration:     time.Since(start),
	}
	if err != nil {
		instrumentation.FinishSpan(span, err)
		p.metrics.RecordOptimization(ctx, o)
		p.logger.Debug("slot search failed", logging.Operation("plan"), logging.Err(err))
		return nil, err
	}

	o.Status = instrumentation.StatusSuccess
	if len(plan.Proposals) == 0 {
		o.Status = instrumentation.StatusEmpty
	}
	o.Candidates = plan.Candidates
	o.SkippedEvents = len(plan.Skipped)
	p.metrics.RecordOptimization(ctx, o)

	span.SetAttributes(instrumentation.NewSpanAttributeBuilder().
		WithResult(plan.Candidates, len(plan.Proposals), len(plan.Skipped)).
		Build()...)
	instrumentation.FinishSpan(span, nil)

	p.logger.Debug("slot search finished",
		logging.Operation("plan"),
		logging.Status(o.Status),
		logging.Attendees(plan.Attendees),
		logging.Location(string(plan.LocationType)),
		slog.Int("candidates", plan.Candidates),
		slog.Int("proposals", len(plan.Proposals)),
		slog.Duration(logging.KeyDuration, o.Duration))

	return plan, nil
}

func (p *Planner) plan(ctx context.Context, req Request) (*Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w := req.Window
	if !w.End.After(w.Start) {
		return nil, &availability.ValidationError{Field: "window", Reason: "end must be after start"}
	}
	if req.Duration <= 0 {
		return nil, &availability.ValidationError{Field: "duration", Reason: fmt.Sprintf("must be positive, got %d", req.Duration)}
	}
	if req.Duration > w.Minutes() {
		return nil, &availability.ValidationError{
			Field:  "duration",
			Reason: fmt.Sprintf("%d minutes does not fit in a %d minute window", req.Duration, w.Minutes()),
		}
	}
	location, err := availability.ParseLocationType(req.LocationType)
	if err != nil {
		return nil, err
	}

	topK := req.TopK
	if topK <= 0 {
		topK = availability.DefaultTopK
	}
	pref, hasPref := timepref.Resolve(req.Preference, req.Title)

	norm := normalize.New(w, p.resolver).Normalize(req.People)
	for _, s := range norm.Skipped {
		p.logger.Debug("skipping unparsable event",
			slog.String("person", s.PersonID),
			slog.Int("index", s.Index),
			slog.String("reason", s.Reason))
	}

	// A preference filters the whole ranking before it is cut to topK.
	searchK := topK
	if hasPref {
		searchK = math.MaxInt
	}

	res, err := availability.Optimize(availability.Request{
		People:       norm.People,
		Window:       w.Interval(),
		Duration:     req.Duration,
		LocationType: location,
		Settings:     p.settings,
		TopK:         searchK,
		Clock:        w.Clock(),
	})
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Window:        w,
		Duration:      req.Duration,
		LocationType:  location,
		Attendees:     len(norm.People),
		Proposals:     Proposals(w, res.Slots),
		Candidates:    res.Candidates,
		Skipped:       norm.Skipped,
		OutsideWindow: norm.OutsideWindow,
	}

	if hasPref {
		plan.Preference = &pref
		plan.Proposals, plan.PreferenceMatched = timepref.Filter(plan.Proposals, pref,
			func(p Proposal) time.Time { return p.Start })
		if !plan.PreferenceMatched {
			p.logger.Debug("no slot matches time preference", slog.String("preference", pref.String()))
		}
	}
	if len(plan.Proposals) > topK {
		plan.Proposals = plan.Proposals[:topK]
	}

	return plan, nil
}

// Proposals converts ranked slots to absolute times on w's axis.
func Proposals(w normalize.Window, slots []availability.ScoredSlot) []Proposal {
	out := make([]Proposal, 0, len(slots))
	for _, s := range slots {
		out = append(out, Proposal{
			Start:       w.Time(s.Start),
			End:         w.Time(s.End),
			StartOffset: s.Start,
			EndOffset:   s.End,
			Score:       s.Score,
			Reasons:     s.Reasons,
		})
	}
	return out
}

// DefaultWindow returns next week's Monday work-hours start through Friday
// work-hours end, relative to now and in now's location.
func DefaultWindow(now time.Time, settings availability.OrgSettings) (normalize.Window, error) {
	monday := normalize.StartOfWeek(now).AddDate(0, 0, 7)
	y, m, d := monday.Date()
	loc := now.Location()
	start := time.Date(y, m, d, 0, settings.WorkHoursStart, 0, 0, loc)
	end := time.Date(y, m, d+4, 0, settings.WorkHoursEnd, 0, 0, loc)
	return normalize.NewWindow(start, end)
}
