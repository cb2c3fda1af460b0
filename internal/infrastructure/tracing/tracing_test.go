package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hafly/toolkit/internal/shared/id"
)

func setupRouter(tracer *Tracer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(HTTPMiddleware(tracer))
	router.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, RequestID(c.Request.Context()))
	})
	router.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})
	return router
}

func TestHTTPMiddlewareRequestID(t *testing.T) {
	valid := id.NewRequestID().String()

	tests := []struct {
		name     string
		incoming string
		wantSame bool
	}{
		{name: "generated", incoming: ""},
		{name: "kept when valid", incoming: valid, wantSame: true},
		{name: "replaced when invalid", incoming: "not-an-id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer := New(zap.NewNop())
			defer tracer.Close()
			router := setupRouter(tracer)

			req := httptest.NewRequest(http.MethodGet, "/ok", nil)
			if tt.incoming != "" {
				req.Header.Set(Header, tt.incoming)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			got := w.Header().Get(Header)
			assert.Equal(t, got, w.Body.String())
			if tt.wantSame {
				assert.Equal(t, tt.incoming, got)
				return
			}
			assert.True(t, strings.HasPrefix(got, "req_"), got)
			assert.True(t, id.IsValid(got))
		})
	}
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	tracer := New(zap.New(core))
	router := setupRouter(tracer)

	for _, path := range []string{"/ok", "/boom", "/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	tracer.Close()

	entries := logs.All()
	require.Len(t, entries, 3)

	byPath := map[string]observer.LoggedEntry{}
	for _, e := range entries {
		byPath[e.ContextMap()["path"].(string)] = e
	}
	assert.Equal(t, zapcore.InfoLevel, byPath["/ok"].Level)
	assert.Equal(t, "/ok", byPath["/ok"].ContextMap()["route"])
	assert.Equal(t, zapcore.ErrorLevel, byPath["/boom"].Level)
	assert.Equal(t, zapcore.WarnLevel, byPath["/missing"].Level)
	assert.Equal(t, "unmatched", byPath["/missing"].ContextMap()["route"])
	assert.NotEmpty(t, byPath["/ok"].ContextMap()["request_id"])
}

func TestStartReusesContextID(t *testing.T) {
	tracer := New(nil)
	defer tracer.Close()

	ctx := WithRequestID(context.Background(), "req_fixed")
	span, out := tracer.Start(ctx, "op")
	assert.Equal(t, "req_fixed", span.RequestID)
	assert.Equal(t, "req_fixed", RequestID(out))

	span, out = tracer.Start(context.Background(), "op")
	assert.NotEmpty(t, span.RequestID)
	assert.Equal(t, span.RequestID, RequestID(out))
}

func TestSubmitAfterCloseIsDropped(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tracer := New(zap.New(core))
	tracer.Close()
	tracer.Close()

	tracer.Submit(&Span{RequestID: "req_late"})
	assert.Zero(t, logs.Len())
}
