// Package logging provides structured logging on uber/zap.
//
// Two encodings are available:
//   - Production: JSON lines for machine parsing
//   - Development: colored console output
//
// Leveled adapts a Logger to the key/value logger interface used by
// hashicorp/go-retryablehttp, so retry attempts land in the same log.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Server starting", zap.String("port", "8000"))
//	logger.Error("Download failed", zap.Error(err))
package logging
