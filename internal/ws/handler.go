package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/hafly/toolkit/internal/infrastructure/tracing"
	"github.com/hafly/toolkit/internal/service"
	"github.com/hafly/toolkit/internal/shared/types"
)

const (
	maxMessageSize = 1 << 20
	writeWait      = 10 * time.Second
)

// Message is one client frame
type Message struct {
	Type   string                 `json:"type"`
	ID     string                 `json:"id,omitempty"`
	ToolID string                 `json:"tool_id,omitempty"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// Handler runs tool calls over a WebSocket. Each execute frame is
// answered with a "started" frame and then a "result" or "error" frame
// carrying the same id.
type Handler struct {
	registry *service.Registry
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewHandler creates a WebSocket handler. A nil checkOrigin accepts
// every origin.
func NewHandler(registry *service.Registry, logger *zap.Logger, checkOrigin func(*http.Request) bool) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Handler{
		registry: registry,
		logger:   logger,
		upgrader: websocket.Upgrader{CheckOrigin: checkOrigin},
	}
}

// HandleConnection upgrades the request and serves frames until the
// client disconnects
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	session := uuid.NewString()
	ctx := c.Request.Context()
	base := types.Context{
		RequestID: tracing.RequestID(ctx),
		UserAgent: c.Request.UserAgent(),
		RemoteIP:  c.ClientIP(),
	}
	log := h.logger.With(zap.String("session", session))

	if err := h.send(conn, map[string]interface{}{
		"type":    "system",
		"session": session,
		"message": "connected",
	}); err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("websocket read error", zap.Error(err))
			}
			return
		}

		var msg Message
		if err := sonic.Unmarshal(data, &msg); err != nil {
			if h.sendError(conn, "", "malformed message") != nil {
				return
			}
			continue
		}

		var sendErr error
		switch msg.Type {
		case "execute":
			sendErr = h.execute(ctx, conn, msg, base)
		case "ping":
			sendErr = h.send(conn, map[string]interface{}{"type": "pong", "id": msg.ID})
		default:
			sendErr = h.sendError(conn, msg.ID, "unknown message type: "+msg.Type)
		}
		if sendErr != nil {
			log.Debug("websocket write failed", zap.Error(sendErr))
			return
		}
	}
}

func (h *Handler) execute(ctx context.Context, conn *websocket.Conn, msg Message, base types.Context) error {
	if msg.ToolID == "" {
		return h.sendError(conn, msg.ID, "tool_id is required")
	}
	if err := h.send(conn, map[string]interface{}{
		"type":    "started",
		"id":      msg.ID,
		"tool_id": msg.ToolID,
	}); err != nil {
		return err
	}

	appCtx := base
	start := time.Now()
	result, err := h.registry.Execute(ctx, msg.ToolID, msg.Params, &appCtx)
	if err != nil {
		return h.sendError(conn, msg.ID, err.Error())
	}
	return h.send(conn, map[string]interface{}{
		"type":        "result",
		"id":          msg.ID,
		"tool_id":     msg.ToolID,
		"result":      result,
		"duration_ms": time.Since(start).Milliseconds(),
	})
}

func (h *Handler) send(conn *websocket.Conn, frame map[string]interface{}) error {
	data, err := sonic.Marshal(frame)
	if err != nil {
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (h *Handler) sendError(conn *websocket.Conn, id, message string) error {
	return h.send(conn, map[string]interface{}{
		"type":    "error",
		"id":      id,
		"message": message,
	})
}
