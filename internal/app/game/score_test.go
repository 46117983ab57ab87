package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreBoard_AwardAdditive(t *testing.T) {
	b := NewScoreBoard()

	b.Award("a", "Alice", 1)
	b.Award("b", "Bob", 1)
	b.Award("a", "Alice", 1)

	assert.Equal(t, 2, b.Score("a"))
	assert.Equal(t, 1, b.Score("b"))
	assert.Equal(t, 0, b.Score("unknown"))
}

func TestScoreBoard_AwardZeroCreatesEntry(t *testing.T) {
	b := NewScoreBoard()

	b.Award("a", "Alice", 0)

	rank := b.Rank()
	assert.Len(t, rank, 1)
	assert.Equal(t, Standing{UserID: "a", Name: "Alice", Score: 0}, rank[0])
}

func TestScoreBoard_RankAscending(t *testing.T) {
	b := NewScoreBoard()

	b.Award("a", "Alice", 3)
	b.Award("b", "Bob", 1)
	b.Award("c", "Carol", 2)

	rank := b.Rank()
	assert.Equal(t, []Standing{
		{UserID: "b", Name: "Bob", Score: 1},
		{UserID: "c", Name: "Carol", Score: 2},
		{UserID: "a", Name: "Alice", Score: 3},
	}, rank)
}

func TestScoreBoard_RankTiesDeterministic(t *testing.T) {
	b := NewScoreBoard()

	b.Award("b", "Bob", 1)
	b.Award("a", "Alice", 1)

	for i := 0; i < 5; i++ {
		rank := b.Rank()
		assert.Equal(t, "a", rank[0].UserID)
		assert.Equal(t, "b", rank[1].UserID)
	}
}

func TestScoreBoard_RecordGuess(t *testing.T) {
	b := NewScoreBoard()

	b.RecordGuess("a", "Alice")
	b.RecordGuess("a", "Alice")

	// Guesses alone never score points.
	assert.Equal(t, 0, b.Score("a"))
	assert.Len(t, b.Rank(), 1)
}
