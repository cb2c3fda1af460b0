// Package tracing tags each API request with a request id and writes
// one structured access log entry per request.
//
// Incoming X-Request-ID headers that parse as ids are kept; otherwise a
// fresh "req_<ulid>" id is generated. The id is echoed in the response,
// stored on the request context and handed to tool calls.
//
//	tracer := tracing.New(logger)
//	defer tracer.Close()
//	router.Use(tracing.HTTPMiddleware(tracer))
package tracing
