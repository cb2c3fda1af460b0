// Package http holds the gin handlers of the tool API.
//
// Routes:
//
//	GET  /                   liveness
//	GET  /health             registry statistics and uptime
//	GET  /services           registered services (?category=filesystem|http)
//	POST /services/discover  services ranked for {"message": ...}
//	POST /services/execute   run {"tool_id": ..., "params": {...}}
//
// Tool failures come back as 200 with success=false; routing failures
// (unknown service or tool) are 4xx.
package http
