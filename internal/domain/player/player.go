// Package player provides the Player domain entity.
package player

import "time"

// Player represents a participant's score record in one game session.
type Player struct {
	ID          string    // Platform user ID
	DisplayName string    // Display name at first evaluated guess
	Score       int       // Accumulated points
	Guesses     int       // Utterances that passed the cooldown gate
	LastGuessAt time.Time // Time of the last evaluated guess
}

// New creates a new player record with a zero score.
func New(id, displayName string) *Player {
	return &Player{
		ID:          id,
		DisplayName: displayName,
	}
}

// AddPoints adds points to the player's running total.
// Negative deltas are ignored; points are only ever earned.
func (p *Player) AddPoints(points int) {
	if points < 0 {
		return
	}
	p.Score += points
}

// RecordGuess notes that one of the player's utterances was evaluated.
func (p *Player) RecordGuess() {
	p.Guesses++
	p.LastGuessAt = time.Now()
}
