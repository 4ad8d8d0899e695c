package nim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mitchelldurbincs/arena/internal/arena"
)

func TestNewDefaults(t *testing.T) {
	assert.Equal(t, Rules{Stones: DefaultStones, MaxTake: DefaultMaxTake}, New(0, -1))
	assert.Equal(t, Rules{Stones: 7, MaxTake: 2}, New(7, 2))
}

func TestLegalActions(t *testing.T) {
	r := New(10, 3)
	assert.Equal(t, []Action{1, 2, 3}, r.LegalActions(State{Stones: 10}))
	assert.Equal(t, []Action{1, 2}, r.LegalActions(State{Stones: 2}))
	assert.Empty(t, r.LegalActions(State{Stones: 0}))
}

func TestPlayAndScore(t *testing.T) {
	r := New(5, 3)
	s := r.InitialState()
	assert.False(t, r.IsTerminal(s, arena.SeatFirst))

	s, next := r.ApplyAction(s, arena.SeatFirst, 3)
	assert.Equal(t, arena.SeatSecond, next)
	s, next = r.ApplyAction(s, next, 2)
	assert.Equal(t, arena.SeatFirst, next)

	assert.True(t, r.IsTerminal(s, next))
	assert.Equal(t, arena.SecondSeatWon, r.TerminalValue(s, arena.SeatFirst))
	assert.Equal(t, arena.FirstSeatWon, r.TerminalValue(s, arena.SeatSecond))
	assert.Equal(t, arena.Score{First: 3, Second: 2}, r.Score(s))
}

func TestApplyActionClamps(t *testing.T) {
	r := New(2, 3)
	s, _ := r.ApplyAction(r.InitialState(), arena.SeatFirst, 5)
	assert.Equal(t, 0, s.Stones)
	assert.Equal(t, 2, s.Taken[0])

	s, _ = r.ApplyAction(r.InitialState(), arena.SeatFirst, -4)
	assert.Equal(t, 2, s.Stones)
}

func TestCanonicalForm(t *testing.T) {
	r := New(9, 3)
	s := State{Stones: 4, Taken: [2]int{3, 2}, Last: arena.SeatFirst}

	assert.Equal(t, s, r.CanonicalForm(s, arena.SeatFirst))
	flipped := r.CanonicalForm(s, arena.SeatSecond)
	assert.Equal(t, [2]int{2, 3}, flipped.Taken)
	assert.Equal(t, arena.SeatSecond, flipped.Last)
	assert.Equal(t, 4, flipped.Stones)
}

func TestString(t *testing.T) {
	assert.Equal(t, "stones=4 taken=3/2\n", State{Stones: 4, Taken: [2]int{3, 2}}.String())
}
