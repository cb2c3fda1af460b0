package requests

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hafly/toolkit/internal/providers/http/client"
	"github.com/hafly/toolkit/internal/shared/types"
)

type captured struct {
	method  string
	body    string
	headers http.Header
	query   string
}

func echoServer(t *testing.T, status int) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got.method = r.Method
		got.body = string(body)
		got.headers = r.Header.Clone()
		got.query = r.URL.RawQuery
		w.WriteHeader(status)
		_, _ = w.Write([]byte("page body"))
	}))
	t.Cleanup(server.Close)
	return server, got
}

func newOps(t *testing.T) *RequestsOps {
	t.Helper()
	settings := client.DefaultSettings()
	settings.RetryMax = 0
	settings.RetryWaitMin = time.Millisecond
	c, err := client.NewClient(settings)
	require.NoError(t, err)
	return &RequestsOps{HTTPOps: &client.HTTPOps{Client: c}}
}

func TestFetchTool(t *testing.T) {
	tests := []struct {
		name       string
		params     map[string]interface{}
		status     int
		wantMethod string
		wantBody   string
		check      func(t *testing.T, got *captured)
	}{
		{
			name:       "plain get",
			params:     map[string]interface{}{},
			status:     http.StatusOK,
			wantMethod: http.MethodGet,
		},
		{
			name:       "raw post",
			params:     map[string]interface{}{"post": "a=1&b=2"},
			status:     http.StatusOK,
			wantMethod: http.MethodPost,
			wantBody:   "a=1&b=2",
			check: func(t *testing.T, got *captured) {
				assert.Equal(t, "application/x-www-form-urlencoded", got.headers.Get("Content-Type"))
			},
		},
		{
			name:       "form post",
			params:     map[string]interface{}{"post": map[string]interface{}{"q": "go"}},
			status:     http.StatusOK,
			wantMethod: http.MethodPost,
			wantBody:   "q=go",
		},
		{
			name: "referer cookie and header lines",
			params: map[string]interface{}{
				"referer": "https://ref.test/",
				"cookie":  "sid=42",
				"headers": []interface{}{"X-One: 1", "X-Two:2"},
				"query":   map[string]interface{}{"page": 3},
			},
			status:     http.StatusOK,
			wantMethod: http.MethodGet,
			check: func(t *testing.T, got *captured) {
				assert.Equal(t, "https://ref.test/", got.headers.Get("Referer"))
				assert.Equal(t, "sid=42", got.headers.Get("Cookie"))
				assert.Equal(t, "1", got.headers.Get("X-One"))
				assert.Equal(t, "2", got.headers.Get("X-Two"))
				assert.Equal(t, "page=3", got.query)
			},
		},
		{
			name:       "error status keeps body",
			params:     map[string]interface{}{},
			status:     http.StatusNotFound,
			wantMethod: http.MethodGet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, got := echoServer(t, tt.status)
			params := map[string]interface{}{"url": server.URL}
			for k, v := range tt.params {
				params[k] = v
			}

			result, err := newOps(t).Fetch(context.Background(), params, &types.Context{})
			require.NoError(t, err)
			require.True(t, result.Success)
			assert.Equal(t, tt.status, result.Data["status"])
			assert.Equal(t, "page body", result.Data["body"])
			assert.Equal(t, tt.wantMethod, result.Data["method"])
			assert.Equal(t, tt.wantMethod, got.method)
			assert.Equal(t, tt.wantBody, got.body)
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestFetchUserAgentFallback(t *testing.T) {
	server, got := echoServer(t, http.StatusOK)
	ops := newOps(t)

	_, err := ops.Fetch(context.Background(), map[string]interface{}{"url": server.URL}, &types.Context{UserAgent: "caller/2.0"})
	require.NoError(t, err)
	assert.Equal(t, "caller/2.0", got.headers.Get("User-Agent"))

	_, err = ops.Fetch(context.Background(), map[string]interface{}{"url": server.URL, "user_agent": "explicit/3"}, &types.Context{UserAgent: "caller/2.0"})
	require.NoError(t, err)
	assert.Equal(t, "explicit/3", got.headers.Get("User-Agent"))

	_, err = ops.Fetch(context.Background(), map[string]interface{}{"url": server.URL}, nil)
	require.NoError(t, err)
	assert.Equal(t, "hafly-toolkit/1.0", got.headers.Get("User-Agent"))
}

func TestFetchFailures(t *testing.T) {
	ops := newOps(t)

	tests := []struct {
		name   string
		params map[string]interface{}
	}{
		{name: "missing url", params: map[string]interface{}{}},
		{name: "empty url", params: map[string]interface{}{"url": ""}},
		{name: "unreachable host", params: map[string]interface{}{"url": "http://127.0.0.1:1/"}},
		{name: "bad post type", params: map[string]interface{}{"url": "http://x.test", "post": 12.0}},
		{name: "bad header line", params: map[string]interface{}{"url": "http://x.test", "headers": []interface{}{"nocolon"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ops.Fetch(context.Background(), tt.params, nil)
			require.NoError(t, err)
			assert.False(t, result.Success)
			assert.NotNil(t, result.Error)
		})
	}
}

func TestFetchRejectsEmptyURL(t *testing.T) {
	_, err := Fetch(context.Background(), newOps(t).Client, "", Options{})
	assert.ErrorIs(t, err, client.ErrEmptyURL)
}

func TestParseHeaders(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    map[string]string
		wantErr bool
	}{
		{name: "nil", input: nil, want: nil},
		{name: "object", input: map[string]interface{}{"A": "1", "B": 2}, want: map[string]string{"A": "1", "B": "2"}},
		{name: "lines", input: []string{"Accept: text/html", "X-Y:  z "}, want: map[string]string{"Accept": "text/html", "X-Y": "z"}},
		{name: "value with colon", input: []string{"Host: a:80"}, want: map[string]string{"Host": "a:80"}},
		{name: "missing name", input: []string{": v"}, wantErr: true},
		{name: "wrong type", input: 5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHeaders(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
