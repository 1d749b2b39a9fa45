package ai

import "sync/atomic"

// debugLoggingEnabled gates per-tick debug logs of the AI subsystem.
// Checked instead of the slog level because controllers tick every frame.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging toggles AI debug logs. Called once from main after config load.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled returns true if AI debug logging is on.
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("state change", "from", from, "to", to)
//	}
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
