// Package supervisor owns the single display program slot. At most one
// managed child process exists at any time; every start serializes through
// stop-then-start, and a failed start fails safe to Idle. Configuration
// changes to the active program always take effect via full restart.
package supervisor
