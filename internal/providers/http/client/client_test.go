package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hafly/toolkit/internal/infrastructure/monitoring"
	"github.com/hafly/toolkit/internal/infrastructure/resilience"
)

func testSettings() Settings {
	s := DefaultSettings()
	s.RetryMax = 0
	s.RetryWaitMin = time.Millisecond
	s.RetryWaitMax = 5 * time.Millisecond
	return s
}

func newTestClient(t *testing.T, mutate func(*Settings), opts ...Option) *Client {
	t.Helper()
	s := testSettings()
	if mutate != nil {
		mutate(&s)
	}
	c, err := NewClient(s, opts...)
	require.NoError(t, err)
	return c
}

func TestClientCircuitBreakerIntegration(t *testing.T) {
	t.Run("circuit breaker is initialized closed", func(t *testing.T) {
		client := newTestClient(t, nil)

		require.NotNil(t, client.Breaker)
		assert.Equal(t, "http-external", client.Breaker.Name())
		assert.Equal(t, resilience.StateClosed, client.BreakerState())
		assert.Equal(t, uint32(0), client.BreakerCounts().Requests)
	})

	t.Run("server errors count as breaker failures", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		}))
		defer server.Close()

		client := newTestClient(t, nil)
		resp, err := client.Do(context.Background(), "fetch", http.MethodGet, server.URL, nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode())
		assert.Equal(t, "upstream down", resp.String())
		assert.Equal(t, uint32(1), client.BreakerCounts().TotalFailures)
	})

	t.Run("circuit opens after consecutive failures", func(t *testing.T) {
		client := newTestClient(t, nil)

		for i := 0; i < 10; i++ {
			_, _ = resilience.Do(client.Breaker, func() (struct{}, error) {
				return struct{}{}, errors.New("failure")
			})
		}
		assert.Equal(t, resilience.StateOpen, client.BreakerState())

		_, err := client.Do(context.Background(), "fetch", http.MethodGet, "http://127.0.0.1:1/", nil)
		assert.ErrorIs(t, err, ErrServiceUnavailable)
		assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	})
}

func TestDoSendsDefaultHeaders(t *testing.T) {
	var gotAgent, gotCustom string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.UserAgent()
		gotCustom = r.Header.Get("X-Custom")
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, func(s *Settings) { s.UserAgent = "toolkit-test" })
	client.SetHeader("x-custom", "yes")
	assert.Equal(t, "yes", client.Headers()["X-Custom"])

	resp, err := client.Do(context.Background(), "fetch", http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	assert.Equal(t, "toolkit-test", gotAgent)
	assert.Equal(t, "yes", gotCustom)

	client.RemoveHeader("X-CUSTOM")
	_, err = client.Do(context.Background(), "fetch", http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	assert.Empty(t, gotCustom)
	assert.NotContains(t, client.Headers(), "X-Custom")
}

func TestDoRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := newTestClient(t, func(s *Settings) { s.RetryMax = 3 })
	resp, err := client.Do(context.Background(), "fetch", http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "ok", resp.String())
	assert.Equal(t, int32(3), hits.Load())
}

func TestDoFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusFound)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("moved here"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	resp, err := newTestClient(t, nil).Do(context.Background(), "fetch", http.MethodGet, server.URL+"/old", nil)
	require.NoError(t, err)
	assert.Equal(t, "moved here", resp.String())
}

func TestDoRejectsEmptyURL(t *testing.T) {
	_, err := newTestClient(t, nil).Do(context.Background(), "fetch", http.MethodGet, "", nil)
	assert.ErrorIs(t, err, ErrEmptyURL)
}

func TestDoTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := newTestClient(t, nil)
	client.SetTimeout(20 * time.Millisecond)
	assert.Equal(t, 20*time.Millisecond, client.Timeout())

	_, err := client.Do(context.Background(), "fetch", http.MethodGet, server.URL, nil)
	assert.Error(t, err)
}

func TestProxy(t *testing.T) {
	var proxied atomic.Value
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxied.Store(r.URL.String())
		_, _ = w.Write([]byte("via proxy"))
	}))
	defer proxy.Close()

	client := newTestClient(t, nil)
	require.NoError(t, client.SetProxy(proxy.URL))
	assert.Equal(t, proxy.URL, client.Proxy())

	resp, err := client.Do(context.Background(), "fetch", http.MethodGet, "http://upstream.invalid/page", nil)
	require.NoError(t, err)
	assert.Equal(t, "via proxy", resp.String())
	assert.Equal(t, "http://upstream.invalid/page", proxied.Load())

	client.RemoveProxy()
	assert.Empty(t, client.Proxy())
}

func TestSetProxyRejectsBadURLs(t *testing.T) {
	client := newTestClient(t, nil)
	for _, raw := range []string{"ftp://host:21", "http://", "::bad"} {
		assert.ErrorIs(t, client.SetProxy(raw), ErrInvalidProxy, raw)
	}

	_, err := NewClient(Settings{ProxyURL: "gopher://x"})
	assert.ErrorIs(t, err, ErrInvalidProxy)
}

func TestVerifyTLS(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("secure"))
	}))
	defer server.Close()

	client := newTestClient(t, nil)
	assert.True(t, client.VerifyTLS())
	_, err := client.Do(context.Background(), "fetch", http.MethodGet, server.URL, nil)
	assert.Error(t, err)

	client.SetVerifyTLS(false)
	assert.False(t, client.VerifyTLS())
	resp, err := client.Do(context.Background(), "fetch", http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "secure", resp.String())
}

func TestClientRateLimiting(t *testing.T) {
	t.Run("rate limit is configurable", func(t *testing.T) {
		client := newTestClient(t, nil)
		assert.Zero(t, client.RateLimit())

		client.SetRateLimit(10)
		assert.Equal(t, float64(10), client.RateLimit())

		client.SetRateLimit(0)
		assert.Zero(t, client.RateLimit())
	})

	t.Run("context cancellation prevents request", func(t *testing.T) {
		client := newTestClient(t, func(s *Settings) { s.RateLimit = 10 })

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.Do(ctx, "fetch", http.MethodGet, "http://127.0.0.1:1/", nil)
		assert.Error(t, err)
		assert.Equal(t, uint32(0), client.BreakerCounts().Requests)
	})
}

func TestOutboundMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	metrics := monitoring.NewMetrics()
	client := newTestClient(t, nil, WithMetrics(metrics))

	_, err := client.Do(context.Background(), "fetch", http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.OutboundRequests.WithLabelValues("fetch", "success")))
}
