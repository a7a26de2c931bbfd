package supervisor

import "errors"

var (
	// ErrUnknownProgram is returned when an identifier is not in the
	// registry. Never silently substituted.
	ErrUnknownProgram = errors.New("unknown program")

	// ErrLaunchFailure is returned when the child process could not be
	// spawned. The supervisor stays Idle.
	ErrLaunchFailure = errors.New("failed to launch program")

	// ErrConfigPersist is returned when the config store write failed.
	// The in-memory state still reflects the attempted change.
	ErrConfigPersist = errors.New("failed to persist configuration")

	// ErrLiveUnreachable is returned when the loopback channel call failed
	// or timed out. Callers treat it as partial success: stored config is
	// updated, the live program was not reached.
	ErrLiveUnreachable = errors.New("live program not reached")
)
