// Package client is the outbound HTTP client shared by the http tools.
//
// Built on go-resty/resty over hashicorp/go-retryablehttp:
//   - Retries with exponential backoff on connection errors and 5xx
//   - A circuit breaker shared by every call
//   - Rate limiting per client instance
//   - Proxy and TLS verification switchable at runtime
//
// Example Usage:
//
//	c, err := client.NewClient(client.DefaultSettings(), client.WithLogger(logger))
//	resp, err := c.Do(ctx, "fetch", http.MethodGet, url, nil)
package client
