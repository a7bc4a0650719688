// Package server provides the MCP server context and the HTTP surfaces of
// meetslot serve.
//
// # Key Components
//
// ServerContext holds what every tool handler needs: the process
// configuration, the organization policy, a Planner bound to that policy,
// the shared time zone cache, metrics and the audit logger. Google Calendar
// clients are created lazily per account and cached; the token provider
// defaults to the on-disk token cache written by "meetslot auth".
//
// HTTPServer mounts the streamable HTTP transport on /mcp together with the
// Kubernetes-style probes (/healthz, /readyz, /healthz/detailed). MCP
// requests are traced with otelhttp and counted in http_requests_total.
//
// MetricsServer exposes the Prometheus registry of an instrumentation
// Provider on a dedicated port.
package server
