package checkout

// State of the return handler for one page load.
type State string

const (
	StateIdle      State = "IDLE"
	StateCapturing State = "CAPTURING"
	StateCompleted State = "COMPLETED"
	StateFailed    State = "FAILED"
)

var validNext = map[State]map[State]bool{
	StateIdle:      {StateCapturing: true},
	StateCapturing: {StateCompleted: true, StateFailed: true},
	StateCompleted: {},
	StateFailed:    {},
}

func CanTransition(from, to State) bool {
	return validNext[from][to]
}

func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}
