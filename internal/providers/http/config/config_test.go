package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hafly/toolkit/internal/infrastructure/resilience"
	"github.com/hafly/toolkit/internal/providers/http/client"
)

func newOps(t *testing.T) *client.HTTPOps {
	t.Helper()
	c, err := client.NewClient(client.DefaultSettings())
	require.NoError(t, err)
	return &client.HTTPOps{Client: c}
}

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    time.Duration
		wantErr bool
	}{
		{name: "seconds", input: 5.0, want: 5 * time.Second},
		{name: "fractional", input: 0.25, want: 250 * time.Millisecond},
		{name: "int", input: 2, want: 2 * time.Second},
		{name: "duration string", input: "1m30s", want: 90 * time.Second},
		{name: "missing", input: nil, wantErr: true},
		{name: "zero", input: 0.0, wantErr: true},
		{name: "negative string", input: "-1s", wantErr: true},
		{name: "garbage", input: "soon", wantErr: true},
		{name: "wrong type", input: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimeout(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHeadersAndTimeout(t *testing.T) {
	ctx := context.Background()
	ops := &ConfigOps{HTTPOps: newOps(t)}

	result, err := ops.SetHeader(ctx, map[string]interface{}{"key": "x-api-key", "value": "k1"}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)

	result, err = ops.SetTimeout(ctx, map[string]interface{}{"seconds": 7.0}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, 7*time.Second, ops.Client.Timeout())

	result, err = ops.GetHeaders(ctx, nil, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	headers := result.Data["headers"].(map[string]string)
	assert.Equal(t, "k1", headers["X-Api-Key"])
	assert.Equal(t, "hafly-toolkit/1.0", headers["User-Agent"])
	assert.Equal(t, 7.0, result.Data["timeout_seconds"])
	assert.Equal(t, true, result.Data["verify_tls"])
	assert.Equal(t, "", result.Data["proxy"])

	result, err = ops.SetHeader(ctx, map[string]interface{}{"key": "X-Api-Key"}, nil)
	require.NoError(t, err)
	assert.Equal(t, true, result.Data["removed"])
	assert.NotContains(t, ops.Client.Headers(), "X-Api-Key")

	result, err = ops.SetHeader(ctx, map[string]interface{}{}, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)

	result, err = ops.SetTimeout(ctx, map[string]interface{}{"seconds": -3.0}, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 7*time.Second, ops.Client.Timeout())
}

func TestConnectionSettings(t *testing.T) {
	ctx := context.Background()
	ops := &ConnectionOps{HTTPOps: newOps(t)}

	tests := []struct {
		name  string
		proxy string
		ok    bool
	}{
		{name: "http proxy", proxy: "http://127.0.0.1:3128", ok: true},
		{name: "socks proxy", proxy: "socks5://127.0.0.1:1080", ok: true},
		{name: "bad scheme", proxy: "ftp://127.0.0.1:21", ok: false},
		{name: "no host", proxy: "http://", ok: false},
		{name: "empty", proxy: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ops.SetProxy(ctx, map[string]interface{}{"proxy_url": tt.proxy}, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, result.Success)
		})
	}

	assert.Equal(t, "socks5://127.0.0.1:1080", ops.Client.Proxy())
	result, err := ops.RemoveProxy(ctx, nil, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, "", ops.Client.Proxy())

	result, err = ops.SetVerifySSL(ctx, map[string]interface{}{"verify": false}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Contains(t, result.Data, "warning")
	assert.False(t, ops.Client.VerifyTLS())

	result, err = ops.SetVerifySSL(ctx, map[string]interface{}{"verify": "true"}, nil)
	require.NoError(t, err)
	assert.NotContains(t, result.Data, "warning")
	assert.True(t, ops.Client.VerifyTLS())

	result, err = ops.SetVerifySSL(ctx, map[string]interface{}{}, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestRateLimitSettings(t *testing.T) {
	ctx := context.Background()
	ops := &ResilienceOps{HTTPOps: newOps(t)}

	result, err := ops.GetRateLimit(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, true, result.Data["unlimited"])
	assert.Equal(t, resilience.StateClosed.String(), result.Data["breaker_state"])

	result, err = ops.SetRateLimit(ctx, map[string]interface{}{"requests_per_second": 4.0}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, 4.0, ops.Client.RateLimit())

	result, err = ops.GetRateLimit(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 4.0, result.Data["requests_per_second"])
	assert.Equal(t, false, result.Data["unlimited"])
	assert.IsType(t, resilience.Counts{}, result.Data["breaker_counts"])

	for _, params := range []map[string]interface{}{
		{"requests_per_second": -1.0},
		{"requests_per_second": "fast"},
		{},
	} {
		result, err = ops.SetRateLimit(ctx, params, nil)
		require.NoError(t, err)
		assert.False(t, result.Success)
	}
	assert.Equal(t, 4.0, ops.Client.RateLimit())
}
