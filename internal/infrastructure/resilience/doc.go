/*
Package resilience provides a consecutive-failure circuit breaker.

The supervisor uses it around the loopback control channel: when the live
display program stops answering, pushes fail fast instead of spending the
full channel timeout on every call. A cooldown later, a single probe is
allowed through; success closes the breaker again.

	Closed --[failures]-> Open --[cooldown]-> Half-Open --[success]-> Closed
*/
package resilience
