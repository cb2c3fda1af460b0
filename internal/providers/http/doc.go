// Package http exposes the outbound HTTP collaborator as "http.*" tools.
//
// This package is organized into specialized modules:
//   - client: resty client with retries, breaker and rate limiting
//   - requests: page fetch with optional POST body, referer, cookie and headers
//   - files: remote downloads and local file copies
//   - config: proxy, TLS verification, timeout, headers and rate limit
package http
