package game

import (
	"context"

	"github.com/quizbox/blindtest/internal/domain/track"
)

// Utterance is one inbound chat message observed during a listening
// window.
type Utterance struct {
	SenderID   string // Platform user ID
	SenderName string // Display name
	IsBot      bool   // Sender is a bot account
	InVoice    bool   // Sender is present in the game's voice context
	Text       string // Raw message text
}

// TrackSource resolves a free-text song query to a playable track.
type TrackSource interface {
	Resolve(ctx context.Context, query string) (*track.Track, error)
}

// Playback controls the audio relay for one session. Stop must be
// idempotent: duplicate stops are a no-op, not an error.
type Playback interface {
	Start(ctx context.Context, t *track.Track) error

	// Stop halts playback. destroy=true signals permanent teardown
	// (end of game or forced stop); destroy=false is an inter-round
	// soft stop.
	Stop(destroy bool) error
}

// MessageChannel yields inbound utterances for one listening window.
// The returned channel is closed when ctx is cancelled; the session
// opens a fresh stream per round.
type MessageChannel interface {
	Open(ctx context.Context) (<-chan Utterance, error)
}

// Notifier delivers best-effort public announcements. Implementations
// log failures; they are never surfaced to the game's control flow.
type Notifier interface {
	Announce(text string)
}

// Deps collects the external collaborators a session is wired with.
type Deps struct {
	Source   TrackSource
	Playback Playback
	Channel  MessageChannel
	Notifier Notifier
}
