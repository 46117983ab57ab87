package game

import (
	"sort"
	"sync"

	"github.com/quizbox/blindtest/internal/domain/player"
)

// Standing is one row of the final ranking.
type Standing struct {
	UserID string
	Name   string
	Score  int
}

// ScoreBoard accumulates per-user points for one session.
type ScoreBoard struct {
	mu      sync.RWMutex
	players map[string]*player.Player
}

// NewScoreBoard creates an empty scoreboard.
func NewScoreBoard() *ScoreBoard {
	return &ScoreBoard{
		players: make(map[string]*player.Player),
	}
}

// Award adds points to a user's running total, creating a zero-score
// entry first if the user is unknown.
func (b *ScoreBoard) Award(userID, displayName string, points int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.players[userID]
	if !ok {
		p = player.New(userID, displayName)
		b.players[userID] = p
	}
	p.AddPoints(points)
}

// RecordGuess notes that a user's utterance passed the cooldown gate,
// creating a zero-score entry if the user is unknown.
func (b *ScoreBoard) RecordGuess(userID, displayName string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.players[userID]
	if !ok {
		p = player.New(userID, displayName)
		b.players[userID] = p
	}
	p.RecordGuess()
}

// Score returns a user's current total.
func (b *ScoreBoard) Score(userID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if p, ok := b.players[userID]; ok {
		return p.Score
	}
	return 0
}

// Rank returns the standings ordered ascending by score. The ascending
// order is inherited observable behavior; callers wanting a highest
// first leaderboard reverse the slice. Ties order by user ID so the
// result is deterministic.
func (b *ScoreBoard) Rank() []Standing {
	b.mu.RLock()
	defer b.mu.RUnlock()

	standings := make([]Standing, 0, len(b.players))
	for _, p := range b.players {
		standings = append(standings, Standing{
			UserID: p.ID,
			Name:   p.DisplayName,
			Score:  p.Score,
		})
	}

	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Score != standings[j].Score {
			return standings[i].Score < standings[j].Score
		}
		return standings[i].UserID < standings[j].UserID
	})
	return standings
}
