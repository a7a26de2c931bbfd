// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for human readability
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Supervisor starting", zap.String("port", "5000"))
//	logger.Error("Failed to launch program", zap.Error(err))
package logging
