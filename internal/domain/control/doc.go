// Package control implements the loopback channel to the active display
// program. Live-capable programs run a small HTTP control server on
// 127.0.0.1; this client pushes theme switches, animation triggers and
// config updates to it without restarting the child. A circuit breaker
// keeps a wedged program from stalling every supervisor request behind
// the full timeout.
package control
