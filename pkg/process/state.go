package process

// State is the lifecycle state of a Process.
//
// The only transitions are NotStarted -> Starting -> Running -> Exited.
// A failed start reverts Starting to NotStarted. Exited is terminal.
type State int

const (
	StateNotStarted State = iota
	StateStarting
	StateRunning
	StateExited
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	default:
		return "unknown"
	}
}
