// Package ws streams supervisor events (program started/stopped, config
// updated, default changed) to websocket subscribers.
package ws
