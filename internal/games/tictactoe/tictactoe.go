// Package tictactoe implements arena.GameRules for 3x3 tic-tac-toe.
package tictactoe

import (
	"strings"

	"github.com/mitchelldurbincs/arena/internal/arena"
)

// Cell index 0..8, row-major
type Action = int

// Board holds +1 for the first seat's marks, -1 for the second seat's and 0 for empty cells.
// It is an array so every transition yields a copy.
type Board [9]int8

// horizontal, vertical and diagonal lines
var winningLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Winner returns the mark owning a full line, 0 if none
func (b Board) Winner() int8 {
	for _, line := range winningLines {
		v := b[line[0]]
		if v != 0 && v == b[line[1]] && v == b[line[2]] {
			return v
		}
	}
	return 0
}

// Full returns true when no empty cell is left
func (b Board) Full() bool {
	for _, v := range b {
		if v == 0 {
			return false
		}
	}
	return true
}

// String renders the board with X for +1 and O for -1
func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			switch b[row*3+col] {
			case 1:
				sb.WriteByte('X')
			case -1:
				sb.WriteByte('O')
			default:
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Rules is the tic-tac-toe oracle
type Rules struct{}

// New creates tic-tac-toe rules
func New() Rules {
	return Rules{}
}

func (Rules) InitialState() Board {
	return Board{}
}

func (Rules) IsTerminal(b Board, _ arena.Seat) bool {
	return b.Winner() != 0 || b.Full()
}

// TerminalValue returns the result from seat's perspective
func (Rules) TerminalValue(b Board, seat arena.Seat) arena.Outcome {
	return arena.Outcome(int(b.Winner()) * int(seat))
}

// CanonicalForm flips the marks so that the mover always plays +1
func (Rules) CanonicalForm(b Board, seat arena.Seat) Board {
	if seat == arena.SeatFirst {
		return b
	}
	for i := range b {
		b[i] = -b[i]
	}
	return b
}

func (Rules) LegalActions(b Board) []Action {
	actions := make([]Action, 0, 9)
	for i, v := range b {
		if v == 0 {
			actions = append(actions, i)
		}
	}
	return actions
}

func (Rules) ApplyAction(b Board, seat arena.Seat, a Action) (Board, arena.Seat) {
	if a < 0 || a >= len(b) {
		return b, seat.Other()
	}
	b[a] = int8(seat)
	return b, seat.Other()
}
