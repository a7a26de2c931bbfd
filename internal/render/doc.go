// Package render holds the frame engine leaves: the pixel grid, the
// double-buffered presentation path, color themes, and the Sink boundary
// behind which the physical panel driver lives.
package render
