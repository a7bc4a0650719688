package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultEndpointPath is where the streamable HTTP transport is mounted.
const DefaultEndpointPath = "/mcp"

// HTTPServer serves an MCP server over the streamable HTTP transport next to
// the health endpoints.
type HTTPServer struct {
	handler    http.Handler
	httpServer *http.Server
	health     *HealthChecker
	logger     *slog.Logger
}

// HTTPServerConfig configures an HTTPServer.
type HTTPServerConfig struct {
	// EndpointPath defaults to DefaultEndpointPath.
	EndpointPath string
}

// NewHTTPServer mounts mcpServer on a mux with /healthz, /readyz and
// /healthz/detailed. Requests to the MCP endpoint are traced with otelhttp and
// counted in the HTTP request metrics of sc.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, sc *ServerContext, config HTTPServerConfig) *HTTPServer {
	if config.EndpointPath == "" {
		config.EndpointPath = DefaultEndpointPath
	}

	streamable := mcpserver.NewStreamableHTTPServer(mcpServer,
		mcpserver.WithEndpointPath(config.EndpointPath),
	)

	health := NewHealthChecker(sc)
	mux := http.NewServeMux()
	health.RegisterHealthEndpoints(mux)

	mcpHandler := otelhttp.NewHandler(streamable, "mcp",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "mcp " + r.Method
		}),
	)
	mux.Handle(config.EndpointPath, recordRequests(sc, config.EndpointPath, mcpHandler))

	s := &HTTPServer{
		handler: mux,
		health:  health,
		logger:  sc.Logger(),
	}
	s.httpServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler returns the root handler.
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

// Health returns the health checker backing the probe endpoints.
func (s *HTTPServer) Health() *HealthChecker {
	return s.health
}

// Start listens on addr and serves until Shutdown.
func (s *HTTPServer) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.logger.Info("starting MCP HTTP server", "addr", ln.Addr().String())
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)
	return s.httpServer.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming responses working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func recordRequests(sc *ServerContext, path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		sc.Metrics().RecordHTTPRequest(r.Context(), r.Method, path, rec.status, time.Since(start))
	})
}
