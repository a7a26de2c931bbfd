// Package types holds the wire types shared between the supervisor daemon
// and display programs: the loopback control protocol, the supervisor status
// shape, and websocket events.
package types
