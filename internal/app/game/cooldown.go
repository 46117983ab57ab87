package game

import (
	"sync"
	"time"
)

// CooldownGate debounces how often a single user's utterances are
// evaluated. Entries expire autonomously; callers never poll. Timers
// that outlive the session are harmless, they only delete map entries.
type CooldownGate struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// NewCooldownGate creates an empty cooldown gate.
func NewCooldownGate() *CooldownGate {
	return &CooldownGate{
		active: make(map[string]struct{}),
	}
}

// TryConsume registers a cooldown for userID and returns true, or
// returns false with no effect if the user is already cooling down.
// A rejected utterance is invisible to the matcher; it does not extend
// the cooldown.
func (g *CooldownGate) TryConsume(userID string, d time.Duration) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, held := g.active[userID]; held {
		return false
	}
	if d <= 0 {
		return true
	}

	g.active[userID] = struct{}{}
	time.AfterFunc(d, func() {
		g.mu.Lock()
		delete(g.active, userID)
		g.mu.Unlock()
	})
	return true
}

// Active reports whether userID is currently in cooldown.
func (g *CooldownGate) Active(userID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, held := g.active[userID]
	return held
}
