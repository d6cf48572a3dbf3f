// Package logger builds the zap logger used across studyhub.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: console (colored, for the CLI) or json (for the HTTP API)
//
// # Request correlation
//
// WithRayID attaches the ray_id set by the rayid middleware so every log line
// of one request can be correlated.
//
// # Usage
//
//	log, err := logger.New(&cfg.Log)
//	log.Info("Import finished", zap.Int("tasks", n))
package logger
