// Package game provides the blindtest core: round scheduling, answer
// matching, per-user cooldowns, scoring and the session registry.
package game

// Status represents the session lifecycle state.
type Status int

const (
	StatusInitializing  Status = iota // Options validated, tracks resolving
	StatusAwaitingRound               // Between rounds, ready to start the next one
	StatusListening                   // Answer-collection window is open
	StatusPaused                      // Inter-round break
	StatusFinished                    // Terminal
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusAwaitingRound:
		return "awaiting_round"
	case StatusListening:
		return "listening"
	case StatusPaused:
		return "paused"
	case StatusFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusFinished
}
