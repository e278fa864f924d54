package engine

// State is the lifecycle state of an Engine.
type State int32

const (
	// StateIdle is the state of a freshly built engine.
	StateIdle State = iota
	// StateRunning is set while Run executes its loop.
	StateRunning
	// StateCancelled is set when Run observed cancellation and returned.
	StateCancelled
	// StateFaulted is set when Run returned because of a source or device error.
	StateFaulted
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCancelled:
		return "cancelled"
	case StateFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}
