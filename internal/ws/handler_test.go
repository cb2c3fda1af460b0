package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hafly/toolkit/internal/service"
	"github.com/hafly/toolkit/internal/shared/types"
)

type echoProvider struct{}

func (echoProvider) Definition() types.Service {
	return types.Service{
		ID:       "echo",
		Category: types.CategoryFilesystem,
		Tools:    []types.Tool{{ID: "echo.say"}},
	}
}

func (echoProvider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	if params["fail"] == true {
		return types.Failure("asked to fail")
	}
	return types.Success(map[string]interface{}{"said": params["text"], "ua": appCtx.UserAgent})
}

func dial(t *testing.T) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	registry := service.NewRegistry(nil, nil)
	require.NoError(t, registry.Register(echoProvider{}))

	router := gin.New()
	router.GET("/stream", NewHandler(registry, nil, nil).HandleConnection)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	header := map[string][]string{"User-Agent": {"ws-test/1"}}
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/stream", header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	welcome := read(t, conn)
	require.Equal(t, "system", welcome["type"])
	_, err = uuid.Parse(welcome["session"].(string))
	require.NoError(t, err)
	return conn
}

func read(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	var frame map[string]interface{}
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func TestPing(t *testing.T) {
	conn := dial(t)
	require.NoError(t, conn.WriteJSON(Message{Type: "ping", ID: "p1"}))
	frame := read(t, conn)
	assert.Equal(t, "pong", frame["type"])
	assert.Equal(t, "p1", frame["id"])
}

func TestExecuteFrames(t *testing.T) {
	conn := dial(t)

	require.NoError(t, conn.WriteJSON(Message{Type: "execute", ID: "1", ToolID: "echo.say", Params: map[string]interface{}{"text": "hi"}}))
	started := read(t, conn)
	assert.Equal(t, "started", started["type"])
	assert.Equal(t, "1", started["id"])

	done := read(t, conn)
	require.Equal(t, "result", done["type"])
	assert.Equal(t, "1", done["id"])
	result := done["result"].(map[string]interface{})
	assert.Equal(t, true, result["success"])
	data := result["data"].(map[string]interface{})
	assert.Equal(t, "hi", data["said"])
	assert.Equal(t, "ws-test/1", data["ua"])

	require.NoError(t, conn.WriteJSON(Message{Type: "execute", ID: "2", ToolID: "echo.say", Params: map[string]interface{}{"fail": true}}))
	read(t, conn)
	done = read(t, conn)
	assert.Equal(t, false, done["result"].(map[string]interface{})["success"])
}

func TestErrorFrames(t *testing.T) {
	conn := dial(t)

	tests := []struct {
		name    string
		send    func() error
		wantMsg string
	}{
		{
			name:    "unknown type",
			send:    func() error { return conn.WriteJSON(Message{Type: "dance", ID: "a"}) },
			wantMsg: "unknown message type",
		},
		{
			name:    "missing tool",
			send:    func() error { return conn.WriteJSON(Message{Type: "execute", ID: "b"}) },
			wantMsg: "tool_id is required",
		},
		{
			name:    "malformed json",
			send:    func() error { return conn.WriteMessage(websocket.TextMessage, []byte("{nope")) },
			wantMsg: "malformed message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.send())
			frame := read(t, conn)
			assert.Equal(t, "error", frame["type"])
			assert.Contains(t, frame["message"], tt.wantMsg)
		})
	}

	require.NoError(t, conn.WriteJSON(Message{Type: "execute", ID: "c", ToolID: "gpu.render"}))
	assert.Equal(t, "started", read(t, conn)["type"])
	frame := read(t, conn)
	assert.Equal(t, "error", frame["type"])
	assert.Contains(t, frame["message"], service.ErrServiceNotFound.Error())
}
