package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hafly/toolkit/internal/infrastructure/tracing"
	"github.com/hafly/toolkit/internal/service"
	"github.com/hafly/toolkit/internal/shared/types"
)

// Version is reported by the root and health endpoints
const Version = "1.0.0"

const maxDiscoverResults = 5

// DiscoverRequest asks which services fit a free-text intent
type DiscoverRequest struct {
	Message string `json:"message" binding:"required"`
	Limit   int    `json:"limit"`
}

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *service.Registry
	logger   *zap.Logger
	started  time.Time
}

// NewHandlers creates a new handler set
func NewHandlers(registry *service.Registry, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		registry: registry,
		logger:   logger,
		started:  time.Now(),
	}
}

// Register mounts every handler on router
func (h *Handlers) Register(router gin.IRouter) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/services", h.ListServices)
	router.POST("/services/discover", h.DiscoverServices)
	router.POST("/services/execute", h.ExecuteService)
}

// Root handles liveness checks
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "hafly toolkit",
		"version": Version,
	})
}

// Health reports registry statistics and uptime
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"version":          Version,
		"uptime_seconds":   int64(time.Since(h.started).Seconds()),
		"service_registry": h.registry.Stats(),
	})
}

// ListServices lists registered services, optionally by category
func (h *Handlers) ListServices(c *gin.Context) {
	var category *types.Category
	if raw := c.Query("category"); raw != "" {
		cat := types.Category(raw)
		if cat != types.CategoryFilesystem && cat != types.CategoryHTTP {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category: " + raw})
			return
		}
		category = &cat
	}

	c.JSON(http.StatusOK, gin.H{
		"services": h.registry.List(category),
		"stats":    h.registry.Stats(),
	})
}

// DiscoverServices ranks services for a request
func (h *Handlers) DiscoverServices(c *gin.Context) {
	var req DiscoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit := req.Limit
	if limit <= 0 || limit > maxDiscoverResults {
		limit = maxDiscoverResults
	}

	c.JSON(http.StatusOK, gin.H{
		"query":    req.Message,
		"services": h.registry.Discover(req.Message, limit),
	})
}

// ExecuteService executes a service tool
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	appCtx := &types.Context{
		RequestID: tracing.RequestID(c.Request.Context()),
		UserAgent: c.Request.UserAgent(),
		RemoteIP:  c.ClientIP(),
	}

	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, appCtx)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	body, err := sonic.Marshal(result)
	if err != nil {
		h.logger.Error("encode tool result", zap.String("tool", req.ToolID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "result could not be encoded"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidToolID):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrServiceNotFound), errors.Is(err, service.ErrToolNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
