// Package clock is the retro flip-clock animation engine: a single tick
// loop that renders the time into two digit windows on a 64x32 grid,
// scroll-transitions window content on change, and accepts live control
// commands over a loopback HTTP server.
//
// The engine owns the frame buffer exclusively. A running transition
// always completes to its terminal frame; commands arriving mid-flight
// queue and apply at the next idle tick.
package clock
