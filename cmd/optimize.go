package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/teemow/meetslot/internal/attendees"
	"github.com/teemow/meetslot/internal/availability"
	"github.com/teemow/meetslot/internal/calendar"
	"github.com/teemow/meetslot/internal/config"
	"github.com/teemow/meetslot/internal/logging"
	"github.com/teemow/meetslot/internal/normalize"
	"github.com/teemow/meetslot/internal/planner"
	"github.com/teemow/meetslot/internal/tzcache"
)

// optimizeOptions are the optimize command's inputs. Zero values fall back
// to the process configuration and the organization settings.
type optimizeOptions struct {
	start, end string
	duration   int
	location   string
	topK       int
	timezone   string
	prefer     string
	title      string

	calendarsFile string
	peopleDir     string
	people        string
	attendees     string
	account       string

	orgSettings         string
	orgSettingsExplicit bool

	jsonOutput bool
	noColor    bool

	// now anchors the default window; time.Now when zero.
	now time.Time
}

func newOptimizeCmd() *cobra.Command {
	var opts optimizeOptions

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Find the best meeting slots for a group of attendees",
		Long: `Find and rank meeting slots that every attendee is free for.

Busy time comes from one of:
  --calendars   a JSON file holding an array of attendee records
  --people-dir  a directory with one <id>.json record per person
  --attendees   Google Calendar free/busy for a comma-separated list of emails

Without --start and --end the search covers next week, Monday work-hours
start through Friday work-hours end, in --timezone.`,
		Example: `  meetslot optimize --calendars team.json --duration 30
  meetslot optimize --people-dir people --people alice,bob --location in-person
  meetslot optimize --attendees alice@example.com,bob@example.com --account work \
    --start 2025-03-10T09:00 --end 2025-03-14T17:00 --prefer "morning"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			opts.orgSettingsExplicit = cmd.Flags().Changed("org-settings")
			return runOptimize(ctx, appConfig, logger, opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.start, "start", "", "Window start (ISO-8601; offset-less times use --timezone)")
	f.StringVar(&opts.end, "end", "", "Window end (ISO-8601; offset-less times use --timezone)")
	f.IntVar(&opts.duration, "duration", 0, "Meeting duration in minutes (default: org settings default_duration)")
	f.StringVar(&opts.location, "location", "", "Location type: virtual, in-person or hybrid (default: MEETSLOT_LOCATION_TYPE or virtual)")
	f.IntVar(&opts.topK, "top", 0, "Number of slots to return (default: MEETSLOT_TOP_K or 5)")
	f.StringVar(&opts.timezone, "timezone", "", "Time zone for offset-less times and output (default: MEETSLOT_TIMEZONE)")
	f.StringVar(&opts.prefer, "prefer", "", "Preferred time of day, e.g. morning, lunch, late afternoon")
	f.StringVar(&opts.title, "title", "", "Meeting title; also checked for a time-of-day keyword")
	f.StringVar(&opts.calendarsFile, "calendars", "", "JSON file with an array of attendee records (default: MEETSLOT_CALENDARS)")
	f.StringVar(&opts.peopleDir, "people-dir", "", "Directory of <id>.json attendee records (default: MEETSLOT_PEOPLE_DIR)")
	f.StringVar(&opts.people, "people", "", "Comma-separated ids to load from --people-dir (default: everyone)")
	f.StringVar(&opts.attendees, "attendees", "", "Comma-separated attendee emails to look up in Google Calendar")
	f.StringVar(&opts.account, "account", "", "Google account to query with --attendees (default: MEETSLOT_GOOGLE_ACCOUNT)")
	f.StringVar(&opts.orgSettings, "org-settings", "", "Organization settings file (default: MEETSLOT_ORG_SETTINGS or org_settings.json)")
	f.BoolVar(&opts.jsonOutput, "json-output", false, "Print the result as JSON")
	f.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	cmd.MarkFlagsMutuallyExclusive("calendars", "people-dir", "attendees")

	return cmd
}

func runOptimize(ctx context.Context, cfg *config.Config, log *slog.Logger, opts optimizeOptions, out io.Writer) error {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = slog.Default()
	}
	log = logging.WithOperation(log, "optimize")

	settings, err := loadOrgSettings(opts.orgSettings, cfg.OrgSettingsPath, opts.orgSettingsExplicit)
	if err != nil {
		return err
	}

	zones := tzcache.New(0)
	tz := opts.timezone
	if tz == "" {
		tz = cfg.TimeZone
	}
	loc, err := zones.Location(tz)
	if err != nil {
		return &availability.ValidationError{Field: "timezone", Reason: err.Error()}
	}

	now := opts.now
	if now.IsZero() {
		now = time.Now()
	}
	window, err := optimizeWindow(opts.start, opts.end, now.In(loc), settings.OrgSettings)
	if err != nil {
		return err
	}

	req := planner.Request{
		Window:       window,
		Duration:     firstPositive(opts.duration, settings.DefaultDuration),
		LocationType: firstNonEmpty(opts.location, cfg.LocationType),
		TopK:         firstPositive(opts.topK, cfg.TopK),
		Preference:   opts.prefer,
		Title:        opts.title,
	}

	people, warnings, err := loadAttendees(ctx, cfg, log, opts, window)
	if err != nil {
		return err
	}
	if len(people) == 0 {
		return errors.New("no attendees loaded")
	}
	req.People = people
	for _, w := range warnings {
		log.Warn("attendee calendar unavailable", slog.String("detail", w))
	}

	p := planner.New(settings.OrgSettings, planner.WithResolver(zones), planner.WithLogger(log))
	plan, err := p.Plan(ctx, req)
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(plan.Report())
	}
	return planner.WriteText(out, plan, planner.TextOptions{Color: !opts.noColor && !color.NoColor})
}

// optimizeWindow parses the search window, or returns next week's work
// week when both ends are omitted.
func optimizeWindow(start, end string, now time.Time, settings availability.OrgSettings) (normalize.Window, error) {
	switch {
	case start == "" && end == "":
		return planner.DefaultWindow(now, settings)
	case start == "" || end == "":
		return normalize.Window{}, &availability.ValidationError{
			Field:  "window",
			Reason: "--start and --end must be given together",
		}
	}

	s, err := normalize.ParseWindowTime("window_start", start, now.Location())
	if err != nil {
		return normalize.Window{}, err
	}
	e, err := normalize.ParseWindowTime("window_end", end, now.Location())
	if err != nil {
		return normalize.Window{}, err
	}
	return normalize.NewWindow(s, e)
}

// loadAttendees reads attendee records from Google Calendar, a calendars
// file or a people directory, in that order of precedence. The file
// sources fall back to MEETSLOT_CALENDARS and MEETSLOT_PEOPLE_DIR.
func loadAttendees(ctx context.Context, cfg *config.Config, log *slog.Logger, opts optimizeOptions, window normalize.Window) ([]normalize.RawPerson, []string, error) {
	if emails := parseCommaSeparatedList(opts.attendees); len(emails) > 0 {
		account := firstNonEmpty(opts.account, cfg.GoogleAccount)
		client, err := calendar.NewClientForAccount(ctx, account, calendar.WithLogger(log))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Calendar client for account %s: %w", account, err)
		}
		busy, err := client.BusyAttendees(ctx, emails, window.Start, window.End)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to query free/busy: %w", err)
		}
		return busy.People, busy.Warnings, nil
	}

	loader := attendees.NewLoader(logging.NewSlogAdapter(log))

	calendarsFile := opts.calendarsFile
	peopleDir := opts.peopleDir
	if calendarsFile == "" && peopleDir == "" {
		calendarsFile, peopleDir = cfg.CalendarsFile, cfg.PeopleDir
	}

	switch {
	case calendarsFile != "":
		people, err := loader.LoadCalendars(calendarsFile)
		return people, nil, err
	case peopleDir != "":
		people, err := loader.LoadPeopleDir(peopleDir, parseCommaSeparatedList(opts.people))
		return people, nil, err
	default:
		return nil, nil, errors.New("no attendee source: use --calendars, --people-dir or --attendees")
	}
}

// parseCommaSeparatedList parses a comma-separated string into a slice,
// trimming whitespace from each element and filtering out empty strings.
// Returns nil if the input is empty or contains only whitespace/commas.
func parseCommaSeparatedList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
