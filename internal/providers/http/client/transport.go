package client

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"sync"
)

// swappableTransport forwards to a transport that can be replaced while
// requests are running. Replaced transports finish their in-flight
// requests.
type swappableTransport struct {
	mu      sync.RWMutex
	current *http.Transport
}

func (t *swappableTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.load().RoundTrip(req)
}

func (t *swappableTransport) load() *http.Transport {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

func (t *swappableTransport) swap(next *http.Transport) *http.Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	prev := t.current
	t.current = next
	return prev
}

// CloseIdleConnections lets http.Client.CloseIdleConnections reach the
// current transport.
func (t *swappableTransport) CloseIdleConnections() {
	t.load().CloseIdleConnections()
}

func withTLS(t *http.Transport, verify bool) *http.Transport {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if t.TLSClientConfig != nil {
		cfg = t.TLSClientConfig.Clone()
	}
	cfg.InsecureSkipVerify = !verify
	t.TLSClientConfig = cfg
	return t
}

// parseProxy returns the proxy function for raw; empty means direct.
func parseProxy(raw string) (func(*http.Request) (*url.URL, error), error) {
	if raw == "" {
		return nil, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProxy, err)
	}
	switch u.Scheme {
	case "http", "https", "socks5":
	default:
		return nil, fmt.Errorf("%w: scheme must be http, https or socks5", ErrInvalidProxy)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidProxy)
	}
	return http.ProxyURL(u), nil
}
