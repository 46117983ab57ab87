// Package console provides a terminal-backed gateway for running game
// sessions interactively. Chat utterances are read from standard input
// and announcements are written to standard output.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/quizbox/blindtest/internal/app/game"
	"github.com/quizbox/blindtest/internal/domain/track"
)

// Gateway adapts a terminal to the session's playback, message channel
// and notifier ports. One gateway serves one session.
type Gateway struct {
	in  io.Reader
	out io.Writer

	mu      sync.Mutex
	window  chan game.Utterance
	playing bool
	started bool
}

// New creates a gateway reading utterances from in and writing
// announcements to out.
func New(in io.Reader, out io.Writer) *Gateway {
	return &Gateway{in: in, out: out}
}

// Start begins a playback round. The terminal has no audio relay, so
// the track is only acknowledged, not revealed.
func (g *Gateway) Start(_ context.Context, t *track.Track) error {
	g.mu.Lock()
	g.playing = true
	g.mu.Unlock()

	fmt.Fprintf(g.out, "[playback] now playing a mystery track (%s)\n", t.Duration.Round(time.Second))
	return nil
}

// Stop halts playback. Duplicate stops are a no-op.
func (g *Gateway) Stop(destroy bool) error {
	g.mu.Lock()
	wasPlaying := g.playing
	g.playing = false
	g.mu.Unlock()

	if !wasPlaying && !destroy {
		return nil
	}
	if destroy {
		fmt.Fprintln(g.out, "[playback] session ended")
	} else if wasPlaying {
		fmt.Fprintln(g.out, "[playback] round over")
	}
	return nil
}

// Announce writes a public announcement line.
func (g *Gateway) Announce(text string) {
	fmt.Fprintf(g.out, ">> %s\n", text)
}

// Open yields the utterance stream for one listening window. Lines are
// read from the terminal as "name: guess"; a bare line is attributed
// to "player". The stream closes when ctx is cancelled.
func (g *Gateway) Open(ctx context.Context) (<-chan game.Utterance, error) {
	g.mu.Lock()
	ch := make(chan game.Utterance, 16)
	g.window = ch
	if !g.started {
		g.started = true
		go g.readLoop()
	}
	g.mu.Unlock()

	context.AfterFunc(ctx, func() {
		g.mu.Lock()
		if g.window == ch {
			g.window = nil
		}
		g.mu.Unlock()
		close(ch)
	})

	return ch, nil
}

// readLoop reads terminal lines for the lifetime of the gateway and
// routes them into whichever window is currently open.
func (g *Gateway) readLoop() {
	scanner := bufio.NewScanner(g.in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		u := parseLine(line)

		g.mu.Lock()
		ch := g.window
		if ch != nil {
			select {
			case ch <- u:
			default:
				zlog.Warn().Msgf("dropped utterance, window buffer full: sender=%s", u.SenderName)
			}
		}
		g.mu.Unlock()
	}
	if err := scanner.Err(); err != nil {
		zlog.Error().Msgf("failed to read input: err=%v", err)
	}
}

// parseLine converts a terminal line to an utterance. Terminal players
// are always treated as present in voice.
func parseLine(line string) game.Utterance {
	name := "player"
	text := line
	if i := strings.Index(line, ":"); i > 0 {
		name = strings.TrimSpace(line[:i])
		text = strings.TrimSpace(line[i+1:])
	}
	return game.Utterance{
		SenderID:   strings.ToLower(name),
		SenderName: name,
		InVoice:    true,
		Text:       text,
	}
}
