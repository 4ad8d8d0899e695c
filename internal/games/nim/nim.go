// Package nim implements arena.GameRules for single-pile nim: players alternately
// take between 1 and MaxTake stones, whoever takes the last stone wins.
package nim

import (
	"fmt"

	"github.com/mitchelldurbincs/arena/internal/arena"
)

const (
	DefaultStones  = 21
	DefaultMaxTake = 3
)

// Action is the number of stones taken
type Action = int

// State is a pile position. Taken is indexed by seat (0 for +1, 1 for -1),
// Last is the seat that made the previous move.
type State struct {
	Stones int
	Taken  [2]int
	Last   arena.Seat
}

func seatIndex(seat arena.Seat) int {
	if seat == arena.SeatFirst {
		return 0
	}
	return 1
}

// String renders the pile
func (s State) String() string {
	return fmt.Sprintf("stones=%d taken=%d/%d\n", s.Stones, s.Taken[0], s.Taken[1])
}

// Rules is the nim oracle
type Rules struct {
	Stones  int
	MaxTake int
}

// New creates nim rules, non-positive arguments fall back to the defaults
func New(stones, maxTake int) Rules {
	if stones <= 0 {
		stones = DefaultStones
	}
	if maxTake <= 0 {
		maxTake = DefaultMaxTake
	}
	return Rules{Stones: stones, MaxTake: maxTake}
}

func (r Rules) InitialState() State {
	return State{Stones: r.Stones, Last: arena.SeatSecond}
}

func (Rules) IsTerminal(s State, _ arena.Seat) bool {
	return s.Stones == 0
}

// TerminalValue credits the seat that took the last stone
func (Rules) TerminalValue(s State, seat arena.Seat) arena.Outcome {
	if s.Stones != 0 {
		return arena.Draw
	}
	if s.Last == seat {
		return arena.FirstSeatWon
	}
	return arena.SecondSeatWon
}

// CanonicalForm relabels the seats so that the mover is always +1
func (Rules) CanonicalForm(s State, seat arena.Seat) State {
	if seat == arena.SeatFirst {
		return s
	}
	s.Taken[0], s.Taken[1] = s.Taken[1], s.Taken[0]
	s.Last = s.Last.Other()
	return s
}

func (r Rules) LegalActions(s State) []Action {
	n := min(r.MaxTake, s.Stones)
	actions := make([]Action, 0, n)
	for take := 1; take <= n; take++ {
		actions = append(actions, take)
	}
	return actions
}

func (Rules) ApplyAction(s State, seat arena.Seat, take Action) (State, arena.Seat) {
	take = max(0, min(take, s.Stones))
	s.Stones -= take
	s.Taken[seatIndex(seat)] += take
	s.Last = seat
	return s, seat.Other()
}

// Score reports the stones taken by each seat
func (Rules) Score(s State) arena.Score {
	return arena.Score{First: float64(s.Taken[0]), Second: float64(s.Taken[1])}
}
