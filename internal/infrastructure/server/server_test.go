package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hafly/toolkit/internal/infrastructure/config"
	"github.com/hafly/toolkit/internal/infrastructure/logging"
	"github.com/hafly/toolkit/internal/infrastructure/tracing"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Filesystem.Root = t.TempDir()
	cfg.HTTP.RetryMax = 0
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	srv, err := newServer(cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { srv.tracer.Close() })
	return srv
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNewServerRegistersProviders(t *testing.T) {
	srv := newTestServer(t, testConfig(t))

	stats := srv.Registry().Stats()
	assert.Equal(t, 2, stats["total_services"])
	_, ok := srv.Registry().Get("filesystem")
	assert.True(t, ok)
	_, ok = srv.Registry().Get("http")
	assert.True(t, ok)
}

func TestNewServerRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "archive naming",
			mutate: func(c *config.Config) { c.Filesystem.ArchiveNaming = "nested" },
			want:   "invalid archive naming",
		},
		{
			name:   "deny pattern",
			mutate: func(c *config.Config) { c.Filesystem.Deny = []string{"[unclosed"} },
			want:   "invalid filesystem policy",
		},
		{
			name:   "proxy",
			mutate: func(c *config.Config) { c.HTTP.Proxy = "ftp://127.0.0.1:21" },
			want:   "failed to create http client",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)
			_, err := newServer(cfg, logging.NewNop())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRoutes(t *testing.T) {
	h := newTestServer(t, testConfig(t)).Handler()

	tests := []struct {
		method string
		target string
		status int
		body   string
	}{
		{method: http.MethodGet, target: "/", status: http.StatusOK, body: "toolkit"},
		{method: http.MethodGet, target: "/health", status: http.StatusOK, body: "healthy"},
		{method: http.MethodGet, target: "/services", status: http.StatusOK, body: "filesystem.dir.copy"},
		{method: http.MethodGet, target: "/services?category=http", status: http.StatusOK, body: "http.fetch"},
		{method: http.MethodGet, target: "/stream", status: http.StatusBadRequest},
		{method: http.MethodGet, target: "/missing", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := do(t, h, tt.method, tt.target, "")
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
			assert.NotEmpty(t, w.Header().Get(tracing.Header))
		})
	}
}

func TestExecuteFilesystemUnderRoot(t *testing.T) {
	cfg := testConfig(t)
	h := newTestServer(t, cfg).Handler()

	w := do(t, h, http.MethodPost, "/services/execute",
		`{"tool_id":"filesystem.write","params":{"path":"notes/a.txt","data":"hello"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data, err := os.ReadFile(filepath.Join(cfg.Filesystem.Root, "notes", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	w = do(t, h, http.MethodPost, "/services/execute",
		`{"tool_id":"filesystem.dir.copy","params":{"source":"notes","destination":"backup"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, http.MethodPost, "/services/execute",
		`{"tool_id":"filesystem.read","params":{"path":"backup/a.txt"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	var result struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "hello", result.Data["content"])

	w = do(t, h, http.MethodPost, "/services/execute",
		`{"tool_id":"filesystem.read","params":{"path":"../escape.txt"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, testConfig(t)).Handler()

	do(t, h, http.MethodGet, "/health", "")
	do(t, h, http.MethodPost, "/services/execute",
		`{"tool_id":"filesystem.exists","params":{"path":"x"}}`)

	w := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "toolkit_http_requests_total")
	assert.Contains(t, body, "toolkit_tool_calls_total")
}

func TestRateLimitEnabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 1, Burst: 1, Enabled: true}
	h := newTestServer(t, cfg).Handler()

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, http.MethodGet, "/health", "").Code)
}

func TestServeAndShutdown(t *testing.T) {
	srv := newTestServer(t, testConfig(t))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "healthy")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, <-done)
}
