package ai

// State is a monster AI state.
type State int8

const (
	StateIdle State = iota
	StatePatrol
	StateChase
	StateAttack
)

// String returns human-readable state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePatrol:
		return "patrol"
	case StateChase:
		return "chase"
	case StateAttack:
		return "attack"
	default:
		return "unknown"
	}
}
