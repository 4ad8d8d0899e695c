package players

import (
	"context"

	"golang.org/x/exp/rand"

	"github.com/mitchelldurbincs/arena/internal/arena"
)

// Random plays a uniformly random legal action. The same seed always
// produces the same sequence of choices.
type Random[S any, A comparable] struct {
	rules arena.GameRules[S, A]
	rng   *rand.Rand
}

// NewRandom creates a Random player
func NewRandom[S any, A comparable](rules arena.GameRules[S, A], seed uint64) *Random[S, A] {
	return &Random[S, A]{
		rules: rules,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Decide implements arena.Player
func (p *Random[S, A]) Decide(_ context.Context, canonical S) (A, error) {
	var zero A
	legal := p.rules.LegalActions(canonical)
	if len(legal) == 0 {
		return zero, ErrNoLegalActions
	}
	return legal[p.rng.Intn(len(legal))], nil
}
