package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/teemow/meetslot/internal/google"
	"github.com/teemow/meetslot/internal/instrumentation"
	"github.com/teemow/meetslot/internal/logging"
	"github.com/teemow/meetslot/internal/normalize"
)

const (
	// maxFreeBusyItems is the number of calendars the API accepts per query.
	maxFreeBusyItems = 50

	defaultRetryAttempts  = 3
	defaultRetryDelay     = 500 * time.Millisecond
	defaultRetryMaxDelay  = 10 * time.Second
	defaultTZLookupWorker = 8

	// BusyTitle labels events built from free/busy periods.
	BusyTitle = "busy"
)

// Client wraps the Google Calendar service
type Client struct {
	svc     *calendar.Service
	account string // The account this client is associated with

	metrics       *instrumentation.Metrics
	logger        *slog.Logger
	retryAttempts uint
	retryDelay    time.Duration
	tzWorkers     int
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics records every API call on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRetry sets how often a failed free/busy query is attempted and the
// base delay between attempts.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(c *Client) {
		c.retryAttempts = max(attempts, 1)
		c.retryDelay = delay
	}
}

// WithTimeZoneWorkers bounds concurrent calendar time zone lookups.
func WithTimeZoneWorkers(n int) Option {
	return func(c *Client) { c.tzWorkers = max(n, 1) }
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccountWithProvider checks if a valid OAuth token exists for the specified account
func HasTokenForAccountWithProvider(account string, provider google.TokenProvider) bool {
	if provider == nil {
		return false
	}
	return provider.HasTokenForAccount(account)
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	return HasTokenForAccountWithProvider(account, google.NewFileTokenProvider())
}

// NewClientForAccountWithProvider creates a Calendar client for account,
// authorized with a token from tokenProvider.
func NewClientForAccountWithProvider(ctx context.Context, account string, tokenProvider google.TokenProvider, opts ...Option) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	token, err := tokenProvider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	tokenSource := google.GetOAuthConfig().TokenSource(ctx, token)
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(google.NewHTTPClient(ctx, tokenSource)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return NewClientWithService(svc, account, opts...), nil
}

// NewClientForAccount creates a Calendar client for account using tokens
// stored on disk.
func NewClientForAccount(ctx context.Context, account string, opts ...Option) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider(), opts...)
}

// NewClientWithService wraps an existing service.
func NewClientWithService(svc *calendar.Service, account string, opts ...Option) *Client {
	c := &Client{
		svc:           svc,
		account:       account,
		logger:        slog.Default(),
		retryAttempts: defaultRetryAttempts,
		retryDelay:    defaultRetryDelay,
		tzWorkers:     defaultTZLookupWorker,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.WithAccount(c.logger, account)
	return c
}

// GetCalendar retrieves metadata, including the time zone, of a calendar.
// Attendee calendars are addressed by email.
func (c *Client) GetCalendar(ctx context.Context, calendarID string) (*CalendarInfo, error) {
	start := time.Now()
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceCalendar, instrumentation.OperationCalendarInfo)
	defer span.End()

	cal, err := c.svc.Calendars.Get(calendarID).Context(ctx).Do()
	c.record(ctx, instrumentation.OperationCalendarInfo, err, time.Since(start))
	if err != nil {
		instrumentation.FinishSpan(span, err)
		return nil, fmt.Errorf("failed to get calendar: %w", err)
	}

	info := toCalendarInfo(cal)
	return &info, nil
}

// QueryFreeBusy checks availability for calendars in a time range. Results
// follow the order of calendarIDs. Transient API failures are retried with
// jittered backoff.
func (c *Client) QueryFreeBusy(ctx context.Context, timeMin, timeMax time.Time, calendarIDs []string) ([]FreeBusyInfo, error) {
	infos := make([]FreeBusyInfo, 0, len(calendarIDs))
	for lo := 0; lo < len(calendarIDs); lo += maxFreeBusyItems {
		hi := min(lo+maxFreeBusyItems, len(calendarIDs))
		batch, err := c.queryFreeBusy(ctx, timeMin, timeMax, calendarIDs[lo:hi])
		if err != nil {
			return nil, err
		}
		infos = append(infos, batch...)
	}
	return infos, nil
}

func (c *Client) queryFreeBusy(ctx context.Context, timeMin, timeMax time.Time, calendarIDs []string) ([]FreeBusyInfo, error) {
	start := time.Now()
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceCalendar, instrumentation.OperationFreeBusy,
		attribute.Int(instrumentation.SpanAttrCalendarsReq, len(calendarIDs)))
	defer span.End()

	items := make([]*calendar.FreeBusyRequestItem, len(calendarIDs))
	for i, id := range calendarIDs {
		items[i] = &calendar.FreeBusyRequestItem{Id: id}
	}

	query := &calendar.FreeBusyRequest{
		TimeMin: timeMin.Format(time.RFC3339),
		TimeMax: timeMax.Format(time.RFC3339),
		Items:   items,
	}

	var result *calendar.FreeBusyResponse
	err := retry.Do(
		func() error {
			var err error
			result, err = c.svc.Freebusy.Query(query).Context(ctx).Do()
			if err != nil && !isTransient(err) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(c.retryAttempts),
		retry.Delay(c.retryDelay),
		retry.MaxDelay(defaultRetryMaxDelay),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying freebusy query",
				slog.Int("attempt", int(n)+1),
				logging.Err(err))
		}),
	)
	c.record(ctx, instrumentation.OperationFreeBusy, err, time.Since(start))
	if err != nil {
		instrumentation.FinishSpan(span, err)
		return nil, fmt.Errorf("failed to query freebusy: %w", err)
	}
	instrumentation.FinishSpan(span, nil)

	infos := make([]FreeBusyInfo, 0, len(calendarIDs))
	for _, id := range calendarIDs {
		cal, ok := result.Calendars[id]
		if !ok {
			infos = append(infos, FreeBusyInfo{Calendar: id, Errors: []string{"notFound"}})
			continue
		}
		infos = append(infos, toFreeBusyInfo(id, cal))
	}

	return infos, nil
}

// AttendeeBusy is the busy time of a set of attendees as raw records for
// the normalizer.
type AttendeeBusy struct {
	People []normalize.RawPerson
	// Warnings lists calendars that could not be read, whose attendees
	// contribute no busy time, and busy periods that were dropped.
	Warnings []string
}

// BusyAttendees reads free/busy data for every attendee email in one query
// and looks up each calendar's time zone concurrently. Time zone lookup
// failures fall back to start's zone.
func (c *Client) BusyAttendees(ctx context.Context, emails []string, start, end time.Time) (*AttendeeBusy, error) {
	ids := uniqueEmails(emails)
	if len(ids) == 0 {
		return nil, errors.New("no attendee emails given")
	}

	infos, err := c.QueryFreeBusy(ctx, start, end, ids)
	if err != nil {
		return nil, err
	}

	zones, err := c.timeZones(ctx, ids, start.Location().String())
	if err != nil {
		return nil, err
	}

	out := &AttendeeBusy{People: make([]normalize.RawPerson, 0, len(ids))}
	for i, info := range infos {
		p := normalize.RawPerson{ID: info.Calendar, Email: info.Calendar, TimeZone: zones[i]}
		if len(info.Errors) > 0 {
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s: %s", info.Calendar, strings.Join(info.Errors, ", ")))
			c.logger.Warn("calendar unavailable",
				logging.UserHash(info.Calendar),
				logging.Domain(info.Calendar),
				slog.Any("errors", info.Errors))
			out.People = append(out.People, p)
			continue
		}
		if len(info.Unparsable) > 0 {
			out.Warnings = append(out.Warnings, fmt.Sprintf("%s: %s", info.Calendar, strings.Join(info.Unparsable, ", ")))
			c.logger.Warn("skipping unparsable busy periods",
				logging.UserHash(info.Calendar),
				logging.Domain(info.Calendar),
				slog.Int("count", len(info.Unparsable)))
		}
		for _, b := range info.Busy {
			p.Events = append(p.Events, normalize.RawEvent{
				Start: normalize.RawTime{DateTime: b.Raw[0]},
				End:   normalize.RawTime{DateTime: b.Raw[1]},
				Title: BusyTitle,
			})
		}
		out.People = append(out.People, p)
	}

	return out, nil
}

// timeZones returns the time zone of each calendar in ids, in order.
func (c *Client) timeZones(ctx context.Context, ids []string, fallback string) ([]string, error) {
	zones := make([]string, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.tzWorkers)
	for i, id := range ids {
		g.Go(func() error {
			zones[i] = fallback
			info, err := c.GetCalendar(gctx, id)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				c.logger.Debug("calendar time zone unavailable, using window zone",
					logging.UserHash(id), logging.Err(err))
				return nil
			}
			if info.TimeZone != "" {
				zones[i] = info.TimeZone
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return zones, nil
}

func (c *Client) record(ctx context.Context, operation string, err error, d time.Duration) {
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceCalendar, operation, status, d)
}

// isTransient reports whether err is worth retrying: rate limits, server
// errors and transport failures.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return true
}

func uniqueEmails(emails []string) []string {
	seen := make(map[string]bool, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.TrimSpace(e)
		key := strings.ToLower(e)
		if e == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}
