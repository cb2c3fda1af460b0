package tracing

import (
	"github.com/gin-gonic/gin"

	"github.com/hafly/toolkit/internal/shared/id"
)

// ContextKey is the gin context key holding the request id
const ContextKey = "request_id"

// HTTPMiddleware assigns request ids and logs every request
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if incoming := c.GetHeader(Header); incoming != "" && id.IsValid(incoming) {
			ctx = WithRequestID(ctx, incoming)
		}

		name := c.FullPath()
		if name == "" {
			name = "unmatched"
		}
		span, ctx := tracer.Start(ctx, name)
		span.Method = c.Request.Method
		span.Path = c.Request.URL.Path
		span.ClientIP = c.ClientIP()

		c.Request = c.Request.WithContext(ctx)
		c.Set(ContextKey, span.RequestID)
		c.Header(Header, span.RequestID)

		c.Next()

		span.StatusCode = c.Writer.Status()
		if len(c.Errors) > 0 {
			span.Error = c.Errors.Last()
		}
		span.Finish()
		tracer.Submit(span)
	}
}
