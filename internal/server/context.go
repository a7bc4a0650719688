package server

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/teemow/meetslot/internal/calendar"
	"github.com/teemow/meetslot/internal/config"
	"github.com/teemow/meetslot/internal/google"
	"github.com/teemow/meetslot/internal/instrumentation"
	"github.com/teemow/meetslot/internal/logging"
	"github.com/teemow/meetslot/internal/orgsettings"
	"github.com/teemow/meetslot/internal/planner"
	"github.com/teemow/meetslot/internal/tzcache"
)

// CalendarClientFactory creates a Calendar client for an account.
type CalendarClientFactory func(ctx context.Context, account string) (*calendar.Client, error)

// Options configures a ServerContext. Zero values fall back to defaults.
type Options struct {
	Config        *config.Config
	Settings      *orgsettings.Settings
	Metrics       *instrumentation.Metrics
	AuditLogger   *instrumentation.AuditLogger
	Logger        *slog.Logger
	TokenProvider google.TokenProvider
	TimeZones     *tzcache.Cache
	// CalendarClients overrides how Calendar clients are created.
	CalendarClients CalendarClientFactory
}

// ServerContext holds the shared state of the MCP server
type ServerContext struct {
	ctx             context.Context
	cancel          context.CancelFunc
	config          *config.Config
	settings        *orgsettings.Settings
	planner         *planner.Planner
	timeZones       *tzcache.Cache
	logger          *slog.Logger
	metrics         *instrumentation.Metrics
	auditLogger     *instrumentation.AuditLogger
	newCalendar     CalendarClientFactory
	calendarClients map[string]*calendar.Client // Maps account name to Calendar client
	mu              sync.RWMutex
	shutdown        bool
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, opts Options) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:             shutdownCtx,
		cancel:          cancel,
		config:          opts.Config,
		settings:        opts.Settings,
		timeZones:       opts.TimeZones,
		logger:          opts.Logger,
		metrics:         opts.Metrics,
		auditLogger:     opts.AuditLogger,
		newCalendar:     opts.CalendarClients,
		calendarClients: make(map[string]*calendar.Client),
	}
	if sc.config == nil {
		sc.config = config.Default()
	}
	if sc.settings == nil {
		sc.settings = orgsettings.Default()
	}
	if err := sc.settings.Validate(); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid org settings: %w", err)
	}
	if sc.timeZones == nil {
		sc.timeZones = tzcache.New(0)
	}
	if sc.logger == nil {
		sc.logger = slog.Default()
	}
	if sc.newCalendar == nil {
		provider := opts.TokenProvider
		if provider == nil {
			provider = google.NewFileTokenProvider()
		}
		sc.newCalendar = func(ctx context.Context, account string) (*calendar.Client, error) {
			return calendar.NewClientForAccountWithProvider(ctx, account, provider,
				calendar.WithMetrics(sc.Metrics()),
				calendar.WithLogger(sc.logger))
		}
	}
	sc.rebuildPlanner()

	return sc, nil
}

func (sc *ServerContext) rebuildPlanner() {
	sc.planner = planner.New(sc.settings.OrgSettings,
		planner.WithResolver(sc.timeZones),
		planner.WithMetrics(sc.metrics),
		planner.WithLogger(sc.logger))
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the process configuration.
func (sc *ServerContext) Config() *config.Config {
	return sc.config
}

// Settings returns the organization scheduling policy.
func (sc *ServerContext) Settings() *orgsettings.Settings {
	return sc.settings
}

// Planner returns the slot planner bound to the server's policy.
func (sc *ServerContext) Planner() *planner.Planner {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.planner
}

// TimeZones returns the shared time zone cache.
func (sc *ServerContext) TimeZones() *tzcache.Cache {
	return sc.timeZones
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Metrics returns the metrics recorder, or nil if none is configured.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder used by tools, the planner and
// Calendar clients created afterwards.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
	sc.rebuildPlanner()
}

// AuditLogger returns the audit logger, or nil if none is configured.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// CalendarClientForAccount returns the Calendar client for account,
// creating and caching it on first use.
func (sc *ServerContext) CalendarClientForAccount(account string) (*calendar.Client, error) {
	if account == "" {
		account = google.DefaultAccount
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil, fmt.Errorf("server is shutting down")
	}
	if client, ok := sc.calendarClients[account]; ok {
		return client, nil
	}

	client, err := sc.newCalendar(sc.ctx, account)
	if err != nil {
		sc.logger.Warn("failed to create Calendar client", logging.Account(account), logging.Err(err))
		return nil, err
	}

	sc.calendarClients[account] = client
	return client, nil
}

// CalendarAccounts lists the accounts with a cached Calendar client, sorted.
func (sc *ServerContext) CalendarAccounts() []string {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return slices.Sorted(maps.Keys(sc.calendarClients))
}

// SetCalendarClientForAccount sets the Calendar client for a specific account
func (sc *ServerContext) SetCalendarClientForAccount(account string, client *calendar.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.calendarClients[account] = client
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
