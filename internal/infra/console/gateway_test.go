package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizbox/blindtest/internal/domain/track"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantID   string
		wantName string
		wantText string
	}{
		{"named sender", "Alice: blue", "alice", "Alice", "blue"},
		{"bare guess", "daft punk", "player", "player", "daft punk"},
		{"padded", "Bob  :  yellow", "bob", "Bob", "yellow"},
		{"leading colon", ": hello", "player", "player", ": hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := parseLine(strings.TrimSpace(tt.line))
			assert.Equal(t, tt.wantID, u.SenderID)
			assert.Equal(t, tt.wantName, u.SenderName)
			assert.Equal(t, tt.wantText, u.Text)
			assert.True(t, u.InVoice)
			assert.False(t, u.IsBot)
		})
	}
}

func TestGateway_OpenDeliversUtterances(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	g := New(pr, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := g.Open(ctx)
	require.NoError(t, err)

	go pw.Write([]byte("Alice: blue\n"))

	select {
	case u := <-ch:
		assert.Equal(t, "alice", u.SenderID)
		assert.Equal(t, "blue", u.Text)
	case <-time.After(time.Second):
		t.Fatal("no utterance delivered")
	}
}

func TestGateway_WindowClosesOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	g := New(pr, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := g.Open(ctx)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("window did not close")
	}
}

func TestGateway_PlaybackOutput(t *testing.T) {
	var out bytes.Buffer
	g := New(strings.NewReader(""), &out)

	err := g.Start(context.Background(), &track.Track{Title: "Blue", Duration: 3 * time.Minute})
	require.NoError(t, err)
	require.NoError(t, g.Stop(false))
	require.NoError(t, g.Stop(false))
	require.NoError(t, g.Stop(true))

	output := out.String()
	assert.Contains(t, output, "now playing")
	assert.NotContains(t, output, "Blue")
	assert.Equal(t, 1, strings.Count(output, "round over"))
	assert.Equal(t, 1, strings.Count(output, "session ended"))
}

func TestGateway_Announce(t *testing.T) {
	var out bytes.Buffer
	g := New(strings.NewReader(""), &out)

	g.Announce("Final scores:")
	assert.Equal(t, ">> Final scores:\n", out.String())
}
