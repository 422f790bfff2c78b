package route

// CycleState is the state of a session's route request/render cycle.
type CycleState string

const (
	StateIdle       CycleState = "idle"
	StateValidating CycleState = "validating"
	StateRequesting CycleState = "requesting"
	StateRendered   CycleState = "rendered"
	StateFailed     CycleState = "failed"
)

// validTransitions defines the cycle. A trigger while requesting supersedes the pending request.
var validTransitions = map[CycleState][]CycleState{
	StateIdle:       {StateValidating},
	StateValidating: {StateRequesting, StateFailed},
	StateRequesting: {StateRendered, StateFailed, StateIdle},
	StateRendered:   {StateIdle},
	StateFailed:     {StateIdle},
}

// IsValid returns true if the state is recognized.
func (s CycleState) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this state to target is allowed.
func (s CycleState) CanTransitionTo(target CycleState) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsSettled returns true once the cycle has produced an outcome.
func (s CycleState) IsSettled() bool {
	return s == StateRendered || s == StateFailed
}

// String returns the string representation of the state.
func (s CycleState) String() string {
	return string(s)
}
