// Package main is the entry point for the matrixd supervisor daemon.
//
// matrixd owns the LED matrix panel: it runs at most one display program
// at a time, persists per-program configuration, and exposes a REST API
// plus a websocket event stream for control surfaces.
//
// Architecture:
//
//	HTTP clients → matrixd → display program (child process)
//	                       → loopback control channel (live updates)
//
// Configuration:
//   - Environment variables (12-factor)
//   - Optional TOML file via -config (file values win)
//
// Usage:
//
//	# Environment configuration
//	PORT=5000 STORE_PATH=/var/lib/matrixd/config.json ./matrixd
//
//	# File overlay
//	./matrixd -config /etc/matrixd.toml
//
// Signals:
//   - SIGINT, SIGTERM: graceful shutdown, stopping the child first
package main
