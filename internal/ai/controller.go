package ai

// Controller represents AI controller interface for monsters
type Controller interface {
	// Start starts AI controller
	Start()

	// Stop stops AI controller
	Stop()

	// Tick advances the controller by dt seconds
	Tick(dt float64)

	// State returns current AI state
	State() State

	// Done reports whether the owner is gone (dead or removed) and the controller can be dropped
	Done() bool
}
