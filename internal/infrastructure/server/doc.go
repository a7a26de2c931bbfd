// Package server assembles the matrixd daemon: configuration store, program
// registry, process supervisor, loopback control channel, websocket event
// hub, and the HTTP API in front of them.
package server
