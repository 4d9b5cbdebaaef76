package handle

// State represents a handle lifecycle state
type State int

const (
	StateNotStarted State = iota
	StateStarting
	StateActive
	StateStopped
	StateUnknown
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "notStarted"
	case StateStarting:
		return "starting"
	case StateActive:
		return "active"
	case StateStopped:
		return "stopped"
	case StateUnknown:
		return "unknown"
	}
	return "invalid"
}
