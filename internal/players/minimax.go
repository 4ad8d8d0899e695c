package players

import (
	"context"
	"math"

	"github.com/mitchelldurbincs/arena/internal/arena"
)

const DefaultMinimaxDepth = 4

// Minimax is a depth-limited negamax searcher working purely through the
// rules oracle. Non-terminal leaves at the horizon evaluate to 0 and ties
// keep the first action in legal order, so the player is deterministic.
type Minimax[S any, A comparable] struct {
	rules arena.GameRules[S, A]
	depth int
	nodes int
}

// NewMinimax creates a Minimax player searching depth plies (at least 1)
func NewMinimax[S any, A comparable](rules arena.GameRules[S, A], depth int) *Minimax[S, A] {
	return &Minimax[S, A]{rules: rules, depth: max(1, depth)}
}

// Nodes returns the number of positions visited by the last Decide call
func (p *Minimax[S, A]) Nodes() int {
	return p.nodes
}

// Decide implements arena.Player
func (p *Minimax[S, A]) Decide(ctx context.Context, canonical S) (A, error) {
	var best A
	legal := p.rules.LegalActions(canonical)
	if len(legal) == 0 {
		return best, ErrNoLegalActions
	}

	p.nodes = 0
	bestValue := math.Inf(-1)
	for _, action := range legal {
		if err := ctx.Err(); err != nil {
			return best, err
		}
		value := p.child(canonical, action, p.depth-1)
		if value > bestValue {
			bestValue = value
			best = action
		}
	}
	return best, nil
}

// child plays action as the mover of canonical and returns its value for that mover
func (p *Minimax[S, A]) child(canonical S, action A, depth int) float64 {
	next, seat := p.rules.ApplyAction(canonical, arena.SeatFirst, action)
	value := p.negamax(p.rules.CanonicalForm(next, seat), depth)
	if seat != arena.SeatFirst {
		value = -value
	}
	return value
}

// negamax returns the value of canonical for its mover. Faster wins score higher.
func (p *Minimax[S, A]) negamax(canonical S, depth int) float64 {
	p.nodes++
	if p.rules.IsTerminal(canonical, arena.SeatFirst) {
		switch p.rules.TerminalValue(canonical, arena.SeatFirst) {
		case arena.FirstSeatWon:
			return 1 + float64(depth)*0.01
		case arena.SecondSeatWon:
			return -1 - float64(depth)*0.01
		default:
			return 0
		}
	}
	if depth <= 0 {
		return 0
	}

	best := math.Inf(-1)
	for _, action := range p.rules.LegalActions(canonical) {
		best = max(best, p.child(canonical, action, depth-1))
	}
	if math.IsInf(best, -1) {
		return 0
	}
	return best
}
