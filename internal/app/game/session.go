package game

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/quizbox/blindtest/internal/domain/track"
)

// foundFlags records who claimed each guessable field in the current
// round. Both reset at round start and are set at most once per round.
type foundFlags struct {
	TitleBy  string // User ID of the title finder, empty while unclaimed
	AuthorBy string // User ID of the author finder, empty while unclaimed
}

// Session drives one blindtest game for one group through its rounds:
// play track, collect answers for the listening window, pause, advance.
// All phase transitions run on the goroutine executing Start; utterance
// handling is reactive within the listening select loop.
type Session struct {
	mu sync.Mutex

	id  string // Instance UUID
	key string // Group key, primary registry key

	opts Options
	msgs Messages

	tracks  []*track.Track
	missing []string

	status       Status
	currentRound int
	totalRounds  int
	found        foundFlags
	started      bool

	board    *ScoreBoard
	cooldown *CooldownGate
	matcher  *Matcher

	playback Playback
	channel  MessageChannel
	notifier Notifier

	registry *Registry

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// newSession wires a session in the Initializing state. Tracks are
// resolved afterwards by resolveTracks, while the registry reservation
// is already visible.
func newSession(key string, opts Options, msgs Messages, deps Deps, registry *Registry) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:       uuid.New().String(),
		key:      key,
		opts:     opts,
		msgs:     msgs.merged(),
		status:   StatusInitializing,
		board:    NewScoreBoard(),
		cooldown: NewCooldownGate(),
		matcher:  NewMatcher(),
		playback: deps.Playback,
		channel:  deps.Channel,
		notifier: deps.Notifier,
		registry: registry,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// resolveTracks resolves every query in order, collecting misses
// instead of short-circuiting, then decides pass or fail as a batch.
func (s *Session) resolveTracks(ctx context.Context, source TrackSource, queries []string) error {
	res := track.Resolution{}
	for _, q := range queries {
		t, err := source.Resolve(ctx, q)
		if err != nil || t == nil {
			zlog.Warn().Msgf("track not resolved: session_id=%s query=%q err=%v", s.id, q, err)
			res.Missing = append(res.Missing, q)
			continue
		}
		res.Tracks = append(res.Tracks, t)
	}

	if len(res.Tracks) == 0 {
		return errors.Wrapf(ErrNoTracksResolved, "queries=%d", len(queries))
	}
	if !res.Complete() && !s.opts.AllowMissingTracks {
		return errors.Wrapf(ErrTracksMissing, "unresolved: %s", strings.Join(res.Missing, ", "))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracks = res.Tracks
	s.missing = res.Missing
	s.totalRounds = len(res.Tracks)
	if s.opts.RoundLimit > 0 && s.opts.RoundLimit < s.totalRounds {
		s.totalRounds = s.opts.RoundLimit
	}
	s.status = StatusAwaitingRound

	zlog.Info().Msgf("session ready: session_id=%s key=%s tracks=%d rounds=%d missing=%d",
		s.id, s.key, len(s.tracks), s.totalRounds, len(s.missing))
	return nil
}

// Start runs the game to completion and returns the final ranking.
// It blocks for the whole session; a concurrent Stop unblocks it.
func (s *Session) Start(ctx context.Context) ([]Standing, error) {
	s.mu.Lock()
	if s.status == StatusFinished {
		s.mu.Unlock()
		return s.board.Rank(), errors.Wrapf(ErrSessionFinished, "key=%s", s.key)
	}
	if s.started || s.status != StatusAwaitingRound {
		status := s.status
		s.mu.Unlock()
		return nil, errors.Newf("session cannot start from status %s", status)
	}
	s.started = true
	s.mu.Unlock()

	// Cancel the session when the caller's context dies.
	stopWatch := context.AfterFunc(ctx, func() {
		s.finish(false)
	})
	defer stopWatch()

	for {
		s.mu.Lock()
		if s.status == StatusFinished {
			s.mu.Unlock()
			break
		}
		round := s.currentRound
		if round >= s.totalRounds {
			s.mu.Unlock()
			s.finish(true)
			break
		}
		t := s.tracks[round]
		last := round == s.totalRounds-1
		s.status = StatusListening
		s.found = foundFlags{}
		s.mu.Unlock()

		zlog.Info().Msgf("round started: session_id=%s round=%d/%d", s.id, round+1, s.totalRounds)
		s.runRound(t, last)

		s.mu.Lock()
		if s.status == StatusFinished {
			// Forced stop during the window; teardown already ran.
			s.mu.Unlock()
			break
		}
		s.currentRound++
		if last {
			s.mu.Unlock()
			s.finish(true)
			break
		}
		s.status = StatusPaused
		s.mu.Unlock()

		s.announce(fmt.Sprintf(s.msgs.NextRound, int(s.opts.PauseDuration.Seconds())))
		select {
		case <-time.After(s.opts.PauseDuration):
		case <-s.ctx.Done():
		}

		s.mu.Lock()
		if s.status == StatusPaused {
			s.status = StatusAwaitingRound
		}
		s.mu.Unlock()
	}

	return s.board.Rank(), nil
}

// runRound plays one track and consumes utterances until the listening
// window elapses. The window is never cut short: even with both fields
// claimed it runs to the timeout. Returns early only on forced stop.
func (s *Session) runRound(t *track.Track, last bool) {
	if err := s.playback.Start(s.ctx, t); err != nil {
		// Transient playback failures are not retried; the round still
		// elapses on its timer so the game cannot stall.
		zlog.Warn().Msgf("playback start failed: session_id=%s err=%v", s.id, err)
	}

	windowCtx, cancelWindow := context.WithTimeout(s.ctx, s.opts.ListeningDuration)
	defer cancelWindow()

	stream, err := s.channel.Open(windowCtx)
	if err != nil {
		zlog.Warn().Msgf("message channel open failed: session_id=%s err=%v", s.id, err)
		stream = nil
	}

	timer := time.NewTimer(s.opts.ListeningDuration)
	defer timer.Stop()

window:
	for {
		select {
		case <-timer.C:
			break window
		case <-s.ctx.Done():
			return
		case u, ok := <-stream:
			if !ok {
				// Stream ended early; wait out the rest of the window.
				stream = nil
				continue
			}
			s.handleUtterance(u, t)
		}
	}

	// The final round's destroy-stop belongs to finish, which runs it
	// exactly once for both natural completion and forced stop.
	if !last {
		if err := s.playback.Stop(false); err != nil {
			zlog.Warn().Msgf("playback stop failed: session_id=%s err=%v", s.id, err)
		}
	}
}

// handleUtterance runs the matching pipeline for one inbound message:
// sender filter, cooldown gate, then author and title in that order.
func (s *Session) handleUtterance(u Utterance, t *track.Track) {
	if u.IsBot || !u.InVoice {
		return
	}
	if !s.cooldown.TryConsume(u.SenderID, s.opts.UserCooldown) {
		// Silently ignored, no reply.
		return
	}
	s.board.RecordGuess(u.SenderID, u.SenderName)

	if s.claimField(&s.found.AuthorBy, t.Author, u) {
		s.board.Award(u.SenderID, u.SenderName, 1)
		s.announce(fmt.Sprintf(s.msgs.AuthorFound, u.SenderName))
		zlog.Info().Msgf("author found: session_id=%s round=%d user=%s", s.id, s.currentRound+1, u.SenderID)
	}
	if s.claimField(&s.found.TitleBy, t.Title, u) {
		s.board.Award(u.SenderID, u.SenderName, 1)
		s.announce(fmt.Sprintf(s.msgs.TitleFound, u.SenderName))
		zlog.Info().Msgf("title found: session_id=%s round=%d user=%s", s.id, s.currentRound+1, u.SenderID)
	}
}

// claimField matches the utterance against one unclaimed field and
// records the finder. A claimed field stays claimed for the round.
func (s *Session) claimField(slot *string, target string, u Utterance) bool {
	s.mu.Lock()
	open := *slot == "" && s.status == StatusListening
	s.mu.Unlock()
	if !open || !s.matcher.Matches(target, u.Text) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if *slot != "" || s.status != StatusListening {
		return false
	}
	*slot = u.SenderID
	return true
}

// Stop force-stops the session from any state and returns the ranking
// accumulated so far. The summary announcement is optional.
func (s *Session) Stop(announce bool) []Standing {
	s.finish(announce)
	return s.board.Rank()
}

// finish performs the terminal transition exactly once: destroy
// playback, optionally announce the summary, cancel pending timers and
// deregister. Later calls are no-ops, including a window timeout firing
// after a forced stop.
func (s *Session) finish(announce bool) {
	s.mu.Lock()
	if s.status == StatusFinished {
		s.mu.Unlock()
		return
	}
	s.status = StatusFinished
	s.mu.Unlock()

	if err := s.playback.Stop(true); err != nil {
		zlog.Debug().Msgf("playback teardown: session_id=%s err=%v", s.id, err)
	}
	if announce {
		s.announce(s.summary())
	}
	s.cancel()
	if s.registry != nil {
		s.registry.Remove(s.key)
	}
	close(s.done)

	zlog.Info().Msgf("session finished: session_id=%s key=%s", s.id, s.key)
}

// summary renders the end-of-game standings announcement.
func (s *Session) summary() string {
	var b strings.Builder
	b.WriteString(s.msgs.SummaryHeader)
	for _, st := range s.board.Rank() {
		fmt.Fprintf(&b, "\n%s: %d", st.Name, st.Score)
	}
	return b.String()
}

// announce delivers a best-effort notification.
func (s *Session) announce(text string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Announce(text)
}

// ID returns the session instance UUID.
func (s *Session) ID() string {
	return s.id
}

// Key returns the group key the session is registered under.
func (s *Session) Key() string {
	return s.key
}

// Status returns the current lifecycle status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Rounds returns the current round index and the total round count.
func (s *Session) Rounds() (current, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentRound, s.totalRounds
}

// CurrentTrack returns the track for the round in progress, or nil
// when no round is active.
func (s *Session) CurrentTrack() *track.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusListening || s.currentRound >= len(s.tracks) {
		return nil
	}
	return s.tracks[s.currentRound]
}

// Leaderboard returns a snapshot of the current standings without
// stopping the game.
func (s *Session) Leaderboard() []Standing {
	return s.board.Rank()
}

// MissingQueries returns the song queries that failed to resolve.
func (s *Session) MissingQueries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.missing...)
}

// Done returns a channel closed when the session reaches Finished.
func (s *Session) Done() <-chan struct{} {
	return s.done
}
