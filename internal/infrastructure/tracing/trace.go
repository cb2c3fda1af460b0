package tracing

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hafly/toolkit/internal/shared/id"
)

// Header carries the request id in both directions
const Header = "X-Request-ID"

// Span records one handled request
type Span struct {
	RequestID  string
	Name       string
	Method     string
	Path       string
	ClientIP   string
	StartTime  time.Time
	Duration   time.Duration
	StatusCode int
	Error      error
}

// Finish marks the span as complete
func (s *Span) Finish() {
	s.Duration = time.Since(s.StartTime)
}

// Tracer writes finished spans to the logger from a background collector
type Tracer struct {
	logger *zap.Logger
	spans  chan *Span
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

// New creates a tracer and starts its collector
func New(logger *zap.Logger) *Tracer {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracer{
		logger: logger,
		spans:  make(chan *Span, 1000),
		done:   make(chan struct{}),
	}
	go t.collectSpans()
	return t
}

// Start opens a span, reusing the request id already on ctx
func (t *Tracer) Start(ctx context.Context, name string) (*Span, context.Context) {
	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = id.NewRequestID().String()
		ctx = WithRequestID(ctx, requestID)
	}
	return &Span{
		RequestID: requestID,
		Name:      name,
		StartTime: time.Now(),
	}, ctx
}

// Submit queues a finished span. Spans are dropped when the buffer is
// full or the tracer is closed.
func (t *Tracer) Submit(span *Span) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return
	}

	select {
	case t.spans <- span:
	default:
		t.logger.Warn("span buffer full, dropping span", zap.String("request_id", span.RequestID))
	}
}

// Close stops accepting spans and waits until queued ones are logged
func (t *Tracer) Close() {
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.spans)
	}
	t.mu.Unlock()
	<-t.done
}

func (t *Tracer) collectSpans() {
	defer close(t.done)
	for span := range t.spans {
		t.processSpan(span)
	}
}

func (t *Tracer) processSpan(span *Span) {
	fields := []zap.Field{
		zap.String("request_id", span.RequestID),
		zap.String("route", span.Name),
		zap.String("method", span.Method),
		zap.String("path", span.Path),
		zap.String("client_ip", span.ClientIP),
		zap.Int("status", span.StatusCode),
		zap.Duration("duration", span.Duration),
	}

	switch {
	case span.Error != nil:
		t.logger.Error("request failed", append(fields, zap.Error(span.Error))...)
	case span.StatusCode >= 500:
		t.logger.Error("request failed", fields...)
	case span.StatusCode >= 400:
		t.logger.Warn("request rejected", fields...)
	default:
		t.logger.Info("request completed", fields...)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID stores a request id on ctx
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID retrieves the request id from ctx
func RequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDKey).(string)
	return requestID
}
