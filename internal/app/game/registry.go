package game

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// Registry maps group keys to active sessions and enforces at most one
// concurrent session per key. It is an injectable instance, not an
// ambient singleton, so independent deployments and tests run isolated.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Create validates the request, reserves the group key and resolves the
// song queries. The reservation is inserted before resolution starts so
// a concurrent Create for the same key observes it and fails with
// ErrAlreadyActive instead of racing. A resolution failure releases the
// reservation.
func (r *Registry) Create(ctx context.Context, key string, opts Options, msgs Messages, deps Deps, queries []string) (*Session, error) {
	if err := opts.Normalize(); err != nil {
		return nil, err
	}
	if len(queries) == 0 {
		return nil, errors.Wrapf(ErrNoSongs, "key=%s", key)
	}
	if opts.RoundLimit > len(queries) {
		return nil, errors.Wrapf(ErrRoundsExceedSongs, "rounds=%d songs=%d", opts.RoundLimit, len(queries))
	}

	r.mu.Lock()
	if existing, ok := r.sessions[key]; ok && !existing.Status().Terminal() {
		r.mu.Unlock()
		return nil, errors.Wrapf(ErrAlreadyActive, "key=%s", key)
	}
	s := newSession(key, opts, msgs, deps, r)
	r.sessions[key] = s
	r.mu.Unlock()

	zlog.Info().Msgf("session created: session_id=%s key=%s songs=%d", s.id, key, len(queries))

	if err := s.resolveTracks(ctx, deps.Source, queries); err != nil {
		r.Remove(key)
		return nil, err
	}
	return s, nil
}

// Get returns the session registered for key, if any.
func (r *Registry) Get(key string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[key]
	return s, ok
}

// Remove deletes the session registered for key.
func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, key)
}

// Count returns the number of registered sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// StopAll force-stops every registered session without announcements.
func (r *Registry) StopAll() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		s.Stop(false)
	}
}
