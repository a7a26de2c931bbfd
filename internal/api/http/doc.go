// Package http exposes the matrixd REST API: supervisor status, program
// start/stop, persisted configuration, default-program selection, and the
// live control passthrough to the running display program.
package http
