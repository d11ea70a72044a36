package core

// State is the lifecycle state of a Task.
//
// Transitions are one-directional: Ready -> Running -> one terminal state.
// Only Reinitialize moves a task back to Ready.
type State int32

const (
	// StateReady: created (or reinitialized) and not started yet.
	StateReady State = iota

	// StateRunning: the work body is executing.
	StateRunning

	// StateSucceeded: the body returned normally without committing a cancellation.
	StateSucceeded

	// StateCancelled: the body observed a cancellation request and committed it.
	StateCancelled

	// StateFailed: the body returned an error or panicked.
	StateFailed
)

// String returns the lowercase state name used in logs and metric labels.
func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the state is Succeeded, Cancelled or Failed.
func (s State) IsTerminal() bool {
	return s == StateSucceeded || s == StateCancelled || s == StateFailed
}
