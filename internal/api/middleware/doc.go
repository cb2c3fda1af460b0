// Package middleware provides the gin middleware of the tool API.
//
//   - CORS: cross-origin access, exposing the request id header
//   - RateLimit: per-IP token buckets; idle clients are evicted
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
