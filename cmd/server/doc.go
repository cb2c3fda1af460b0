// Package main runs the hafly toolkit server.
//
// The server exposes filesystem tree tools (copy, move, delete, clear,
// list, archive and extract) and HTTP fetch/download tools over a JSON
// API and a WebSocket stream.
//
// Configuration comes from environment variables, then an optional YAML
// or TOML file, then CLI flags.
//
// Usage:
//
//	./server -port 8000 -root /srv/data
//	./server -config toolkit.yaml -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown bounded by SHUTDOWN_TIMEOUT
package main
