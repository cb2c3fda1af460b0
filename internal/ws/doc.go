// Package ws serves tool calls over a WebSocket at /stream.
//
// Client frames:
//
//	{"type": "execute", "id": "1", "tool_id": "filesystem.dir.copy", "params": {...}}
//	{"type": "ping", "id": "2"}
//
// Server frames are "system" (sent once, carries the session id),
// "started", "result", "error" and "pong". Frames on one connection are
// handled in order.
package ws
