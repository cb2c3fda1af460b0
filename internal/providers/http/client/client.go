package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hafly/toolkit/internal/infrastructure/logging"
	"github.com/hafly/toolkit/internal/infrastructure/monitoring"
	"github.com/hafly/toolkit/internal/infrastructure/resilience"
)

var (
	ErrEmptyURL           = errors.New("URL is required")
	ErrInvalidProxy       = errors.New("invalid proxy URL")
	ErrServiceUnavailable = errors.New("external service unavailable")
)

// Settings configures a Client
type Settings struct {
	Timeout      time.Duration
	UserAgent    string
	VerifyTLS    bool
	ProxyURL     string
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// RateLimit is requests per second; zero or less means unlimited.
	RateLimit    float64
	MaxRedirects int
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() Settings {
	return Settings{
		Timeout:      30 * time.Second,
		UserAgent:    "hafly-toolkit/1.0",
		VerifyTLS:    true,
		RetryMax:     3,
		RetryWaitMin: time.Second,
		RetryWaitMax: 30 * time.Second,
		MaxRedirects: 10,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.UserAgent == "" {
		s.UserAgent = d.UserAgent
	}
	if s.RetryWaitMin <= 0 {
		s.RetryWaitMin = d.RetryWaitMin
	}
	if s.RetryWaitMax <= 0 {
		s.RetryWaitMax = d.RetryWaitMax
	}
	if s.MaxRedirects <= 0 {
		s.MaxRedirects = d.MaxRedirects
	}
	if s.RetryMax < 0 {
		s.RetryMax = 0
	}
	return s
}

// Client wraps resty with rate limiting, circuit breaker and retries.
// Requests go resty -> retryablehttp -> a swappable *http.Transport, so
// proxy and TLS changes apply to new connections without racing
// requests in flight.
type Client struct {
	Resty   *resty.Client
	Breaker *resilience.Breaker

	mu        sync.RWMutex
	limiter   *rate.Limiter
	rateLimit float64
	headers   map[string]string
	timeout   time.Duration
	proxy     string
	verifyTLS bool

	transport *swappableTransport
	logger    *zap.Logger
	metrics   *monitoring.Metrics
}

// HTTPOps provides base functionality for all HTTP modules
type HTTPOps struct {
	Client *Client
}

// Option customizes a Client
type Option func(*Client)

// WithLogger routes client and retry logs to logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records outbound calls on metrics
func WithMetrics(metrics *monitoring.Metrics) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// NewClient creates an HTTP client from settings
func NewClient(settings Settings, opts ...Option) (*Client, error) {
	settings = settings.withDefaults()

	c := &Client{
		headers: map[string]string{"User-Agent": settings.UserAgent},
		timeout: settings.Timeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	retryClient := retryablehttp.NewClient()
	base, ok := retryClient.HTTPClient.Transport.(*http.Transport)
	if !ok {
		base = http.DefaultTransport.(*http.Transport).Clone()
	}
	c.transport = &swappableTransport{current: base}
	if err := c.reconfigure(settings.ProxyURL, settings.ProxyURL != "", settings.VerifyTLS); err != nil {
		return nil, err
	}

	retryClient.HTTPClient.Transport = c.transport
	retryClient.RetryMax = settings.RetryMax
	retryClient.RetryWaitMin = settings.RetryWaitMin
	retryClient.RetryWaitMax = settings.RetryWaitMax
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = (&logging.Logger{Logger: c.logger.Named("retry")}).Leveled()

	c.Resty = resty.NewWithClient(retryClient.StandardClient()).
		SetLogger(c.logger.Named("resty").Sugar()).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(settings.MaxRedirects))
	c.setRateLimit(settings.RateLimit)

	c.Breaker = resilience.New("http-external", resilience.Settings{
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			// External hosts vary; trip on a long failure streak or a
			// sustained majority of failures.
			return counts.ConsecutiveFailures >= 10 ||
				(counts.Requests >= 20 && float64(counts.TotalFailures)/float64(counts.Requests) > 0.7)
		},
		OnStateChange: func(name string, from, to resilience.State) {
			c.logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return c, nil
}

// Prepare customizes a request before it is sent
type Prepare func(req *resty.Request)

// Do sends one request. It waits for the rate limiter, applies the
// client timeout and default headers, and runs the call through the
// breaker. Responses with any status are returned; 5xx statuses count
// as breaker failures.
func (c *Client) Do(ctx context.Context, operation, method, url string, prepare Prepare) (*resty.Response, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}

	c.mu.RLock()
	limiter, timeout := c.limiter, c.timeout
	headers := make(map[string]string, len(c.headers))
	for k, v := range c.headers {
		headers[k] = v
	}
	c.mu.RUnlock()

	if err := limiter.Wait(ctx); err != nil {
		c.record(operation, "rate_limited")
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req := c.Resty.R().SetContext(ctx).SetHeaders(headers)
	if prepare != nil {
		prepare(req)
	}

	resp, err := resilience.Do(c.Breaker, func() (*resty.Response, error) {
		resp, err := req.Execute(method, url)
		if err != nil {
			return resp, err
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return resp, &statusError{code: resp.StatusCode()}
		}
		return resp, nil
	})

	var status *statusError
	switch {
	case errors.As(err, &status):
		c.record(operation, "server_error")
		return resp, nil
	case errors.Is(err, resilience.ErrCircuitOpen), errors.Is(err, resilience.ErrTooManyRequests):
		c.record(operation, "circuit_open")
		return nil, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	case err != nil:
		c.record(operation, "error")
		c.logger.Debug("outbound request failed",
			zap.String("operation", operation),
			zap.String("method", method),
			zap.String("url", url),
			zap.Error(err))
		return nil, err
	}

	c.record(operation, "success")
	return resp, nil
}

// SetHeader adds a default header
func (c *Client) SetHeader(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers[http.CanonicalHeaderKey(key)] = value
}

// RemoveHeader removes a default header
func (c *Client) RemoveHeader(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.headers, http.CanonicalHeaderKey(key))
}

// Headers returns a copy of the default headers
func (c *Client) Headers() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	headers := make(map[string]string, len(c.headers))
	for k, v := range c.headers {
		headers[k] = v
	}
	return headers
}

// SetTimeout configures the per-request timeout; zero disables it
func (c *Client) SetTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = d
}

// Timeout returns the per-request timeout
func (c *Client) Timeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.timeout
}

// SetProxy routes new connections through proxyURL
func (c *Client) SetProxy(proxyURL string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reconfigure(proxyURL, true, c.verifyTLS)
}

// RemoveProxy makes new connections go direct
func (c *Client) RemoveProxy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	// an empty proxy never fails to apply
	_ = c.reconfigure("", true, c.verifyTLS)
}

// Proxy returns the configured proxy URL
func (c *Client) Proxy() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.proxy
}

// SetVerifyTLS toggles certificate verification
func (c *Client) SetVerifyTLS(verify bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verifyTLS = verify
	c.transport.swap(withTLS(c.transport.load().Clone(), verify)).CloseIdleConnections()
}

// VerifyTLS reports whether certificates are verified
func (c *Client) VerifyTLS() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.verifyTLS
}

// SetRateLimit configures rate limiting (requests per second)
func (c *Client) SetRateLimit(rps float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setRateLimit(rps)
}

// RateLimit returns the configured requests per second, zero when unlimited
func (c *Client) RateLimit() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rateLimit
}

func (c *Client) setRateLimit(rps float64) {
	if rps <= 0 {
		c.rateLimit = 0
		c.limiter = rate.NewLimiter(rate.Inf, 0)
		return
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	c.rateLimit = rps
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

// BreakerState returns the current circuit breaker state
func (c *Client) BreakerState() resilience.State {
	return c.Breaker.State()
}

// BreakerCounts returns circuit breaker statistics
func (c *Client) BreakerCounts() resilience.Counts {
	return c.Breaker.Counts()
}

// reconfigure swaps in a transport with the given proxy and TLS
// settings. Callers hold c.mu or own c exclusively. When setProxy is
// false the environment proxy of the base transport is kept.
func (c *Client) reconfigure(proxyURL string, setProxy, verify bool) error {
	next := c.transport.load().Clone()
	if setProxy {
		proxy, err := parseProxy(proxyURL)
		if err != nil {
			return err
		}
		next.Proxy = proxy
		c.proxy = proxyURL
	}
	c.verifyTLS = verify
	c.transport.swap(withTLS(next, verify)).CloseIdleConnections()
	return nil
}

func (c *Client) record(operation, result string) {
	if c.metrics != nil {
		c.metrics.RecordOutbound(operation, result)
	}
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("server returned HTTP %d", e.code)
}
