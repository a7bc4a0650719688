package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const initializeRequest = `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1.0.0"}}}`

func TestHTTPServer_RoutesAndMetrics(t *testing.T) {
	provider := createTestProvider(t)
	sc := newTestServerContext(t, Options{Metrics: provider.Metrics()})
	mcpSrv := mcpserver.NewMCPServer("meetslot", "test")

	srv := NewHTTPServer(mcpSrv, sc, HTTPServerConfig{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, ts.URL+DefaultEndpointPath, strings.NewReader(initializeRequest))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	rec := httptest.NewRecorder()
	provider.PrometheusHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "http_requests_total")
	assert.Contains(t, rec.Body.String(), `path="/mcp"`)
}

func TestHTTPServer_ShutdownMarksNotReady(t *testing.T) {
	sc := newTestServerContext(t, Options{})
	srv := NewHTTPServer(mcpserver.NewMCPServer("meetslot", "test"), sc, HTTPServerConfig{EndpointPath: "/rpc"})

	require.NoError(t, srv.Shutdown(t.Context()))
	assert.False(t, srv.Health().IsReady())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
