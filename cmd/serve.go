package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/meetslot/internal/instrumentation"
	"github.com/teemow/meetslot/internal/logging"
	"github.com/teemow/meetslot/internal/resources"
	"github.com/teemow/meetslot/internal/server"
	"github.com/teemow/meetslot/internal/tools/google_tools"
	"github.com/teemow/meetslot/internal/tools/meeting_tools"
)

const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"
)

// MetricsConfig holds configuration for the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool
	Addr    string
}

func newServeCmd() *cobra.Command {
	var (
		transport       string
		httpAddr        string
		endpointPath    string
		orgSettingsPath string
		metricsConfig   MetricsConfig
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the MCP (Model Context Protocol) server to provide meeting
scheduling tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Tools:
  - meeting_find_optimal_slots: rank slots for attendee calendars passed in the call
  - meeting_find_optimal_slots_google: rank slots using Google Calendar free/busy data
  - google_get_auth_url / google_save_auth_code: authorize a Google Calendar account

Metrics:
  When using streamable-http, a separate metrics server exposes /metrics
  and /healthz. Enable it with --metrics-enabled or METRICS_ENABLED=true.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loadMetricsEnvVars(cmd, &metricsConfig)
			return runServe(transport, httpAddr, endpointPath, orgSettingsPath, cmd.Flags().Changed("org-settings"), metricsConfig)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", transportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().StringVar(&endpointPath, "http-endpoint", server.DefaultEndpointPath, "Path of the MCP endpoint (for streamable-http transport)")
	cmd.Flags().StringVar(&orgSettingsPath, "org-settings", "", "Organization settings file (default: MEETSLOT_ORG_SETTINGS or org_settings.json)")
	cmd.Flags().BoolVar(&metricsConfig.Enabled, "metrics-enabled", false, "Serve Prometheus metrics on a separate port")
	cmd.Flags().StringVar(&metricsConfig.Addr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address")

	return cmd
}

// loadMetricsEnvVars fills metrics settings from METRICS_ENABLED and
// METRICS_ADDR unless the matching flag was set explicitly.
func loadMetricsEnvVars(cmd *cobra.Command, config *MetricsConfig) {
	if !cmd.Flags().Changed("metrics-enabled") {
		if v, err := strconv.ParseBool(os.Getenv("METRICS_ENABLED")); err == nil {
			config.Enabled = v
		}
	}
	if !cmd.Flags().Changed("metrics-addr") {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			config.Addr = addr
		}
	}
}

func runServe(transport, httpAddr, endpointPath, orgSettingsPath string, orgSettingsExplicit bool, metricsConfig MetricsConfig) error {
	if transport != transportStdio && transport != transportStreamableHTTP {
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", transport)
	}

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log := logging.WithOperation(logger, "serve")

	settings, err := loadOrgSettings(orgSettingsPath, appConfig.OrgSettingsPath, orgSettingsExplicit)
	if err != nil {
		return err
	}

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	// The metrics server never runs next to stdio: the MCP client owns the
	// process and nothing would scrape it.
	var metricsServer *server.MetricsServer
	if transport != transportStdio && metricsConfig.Enabled && provider.Enabled() {
		metricsServer, err = startMetricsServer(metricsConfig.Addr, provider, log)
		if err != nil {
			return err
		}
	}

	serverContext, err := server.NewServerContext(shutdownCtx, server.Options{
		Config:   appConfig,
		Settings: settings,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}

	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging))
	}
	defer func() {
		if metricsServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				log.Warn("metrics server shutdown failed", logging.Err(err))
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			log.Warn("server context shutdown failed", logging.Err(err))
		}
	}()

	mcpSrv := mcpserver.NewMCPServer("meetslot", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false), // Subscribe and listChanged
	)

	if err := registerAllTools(mcpSrv, serverContext); err != nil {
		return err
	}

	switch transport {
	case transportStreamableHTTP:
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, httpAddr, endpointPath, log)
	default:
		return runStdioServer(mcpSrv)
	}
}

func startMetricsServer(addr string, provider *instrumentation.Provider, log *slog.Logger) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    addr,
		InstrumentationProvider: provider,
		Logger:                  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	// Start listens synchronously, so a bad address fails here rather than
	// in the background.
	metricsErr := make(chan error, 1)
	go func() {
		defer close(metricsErr)
		if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			metricsErr <- err
		}
	}()

	select {
	case err := <-metricsErr:
		if err != nil {
			return nil, fmt.Errorf("metrics server failed to start: %w", err)
		}
	case <-time.After(100 * time.Millisecond):
	}

	log.Info("metrics server started", slog.String("addr", metricsServer.Addr()))
	return metricsServer, nil
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers all MCP tools and resources
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Meeting",
			register: func() error {
				return meeting_tools.RegisterMeetingTools(mcpSrv, sc)
			},
		},
		{
			name: "Google Authorization",
			register: func() error {
				return google_tools.RegisterGoogleTools(mcpSrv, sc)
			},
		},
		{
			name: "Resources",
			register: func() error {
				return resources.RegisterResources(mcpSrv, sc)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, addr, endpointPath string, log *slog.Logger) error {
	httpServer := server.NewHTTPServer(mcpSrv, sc, server.HTTPServerConfig{EndpointPath: endpointPath})

	log.Info("starting MCP server",
		slog.String("transport", transportStreamableHTTP),
		slog.String("addr", addr),
		slog.String("endpoint", endpointPath))

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		log.Info("HTTP server stopped normally")
	}

	log.Info("HTTP server gracefully stopped")
	return nil
}
