// Package monitoring exposes Prometheus metrics for the HTTP API, tool
// calls, tree operations and outbound HTTP.
//
// Each Metrics value owns its registry, so several servers (or tests)
// can coexist in one process. Serve it with Handler:
//
//	metrics := monitoring.NewMetrics()
//	router.Use(monitoring.Middleware(metrics))
//	router.GET("/metrics", gin.WrapH(metrics.Handler()))
package monitoring
