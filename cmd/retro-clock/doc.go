// Package main is the retro flip-clock display program.
//
// It renders a Twemco-style clock face on a 64x32 panel: hour and minute
// digit windows, scroll-down transitions on time change, themed colors,
// and an optional am/pm indicator. When launched with -control-port it
// serves a loopback HTTP control surface for live theme, animation, and
// config pushes from the supervisor.
//
// Usage:
//
//	./retro-clock --color-theme=orange --animation-mode=scroll_down \
//	  --show-ampm=true --led-brightness=80 --timezone=America/Denver \
//	  --control-port=5151
package main
