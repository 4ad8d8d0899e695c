package arena

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EpisodeConfig tunes how an EpisodeRunner treats misbehaving collaborators
type EpisodeConfig struct {
	// Policy applied when an agent returns an illegal action
	Policy IllegalActionPolicy
	// MaxTurns caps the number of turns, 0 means unbounded
	MaxTurns int
	// Logger used by the runner, the global logger when nil
	Logger *zerolog.Logger
}

// Seating assigns one agent to each seat for an episode
type Seating[S any, A comparable] struct {
	First  Player[S, A]
	Second Player[S, A]
}

// Swapped returns the seating with both agents exchanged
func (s Seating[S, A]) Swapped() Seating[S, A] {
	return Seating[S, A]{First: s.Second, Second: s.First}
}

func (s Seating[S, A]) at(seat Seat) Player[S, A] {
	if seat == SeatFirst {
		return s.First
	}
	return s.Second
}

// EpisodeRunner drives single games from the initial state to a terminal state
type EpisodeRunner[S any, A comparable] struct {
	rules    GameRules[S, A]
	scorer   Scorer[S]
	policy   IllegalActionPolicy
	maxTurns int
	logger   zerolog.Logger
}

// NewEpisodeRunner creates a runner bound to the given rules
func NewEpisodeRunner[S any, A comparable](rules GameRules[S, A], cfg EpisodeConfig) *EpisodeRunner[S, A] {
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	scorer, _ := rules.(Scorer[S])

	return &EpisodeRunner[S, A]{
		rules:    rules,
		scorer:   scorer,
		policy:   cfg.Policy,
		maxTurns: cfg.MaxTurns,
		logger:   logger.With().Str("component", "episode_runner").Logger(),
	}
}

// RunEpisode plays one game with first on seat +1 and second on seat -1
// using the strict illegal action policy and no turn cap.
func RunEpisode[S any, A comparable](
	ctx context.Context,
	first, second Player[S, A],
	rules GameRules[S, A],
	observer Observer[S],
) (EpisodeResult[S], error) {
	runner := NewEpisodeRunner(rules, EpisodeConfig{})
	return runner.Run(ctx, Seating[S, A]{First: first, Second: second}, 1, observer)
}

// Run plays one episode. The returned result is from seat +1's perspective.
// An error is only returned when ctx is cancelled, faults are reported in the result.
func (r *EpisodeRunner[S, A]) Run(ctx context.Context, seating Seating[S, A], episode int, observer Observer[S]) (EpisodeResult[S], error) {
	start := time.Now()
	result := EpisodeResult[S]{Episode: episode}

	state := r.rules.InitialState()
	seat := SeatFirst
	turn := 0

	finish := func(outcome Outcome) EpisodeResult[S] {
		result.Outcome = outcome
		result.Turns = turn
		result.Final = state
		if r.scorer != nil {
			result.Score = r.scorer.Score(state)
			result.HasScore = true
		}
		result.Duration = time.Since(start)

		r.logger.Debug().
			Int("episode", episode).
			Int("turns", turn).
			Str("outcome", outcome.String()).
			Str("fault", result.Fault.String()).
			Dur("duration", result.Duration).
			Msg("Episode finished")

		if observer != nil {
			observer.OnEpisodeEnd(result)
		}
		return result
	}

	for !r.rules.IsTerminal(state, seat) {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("%w: %w", ErrAborted, err)
		}

		if r.maxTurns > 0 && turn >= r.maxTurns {
			result.Fault = FaultTurnLimit
			r.reportFault(observer, FaultInfo{Episode: episode, Turn: turn, Seat: seat, Fault: FaultTurnLimit})
			return finish(Draw), nil
		}
		turn++

		canonical := r.rules.CanonicalForm(state, seat)
		legal := r.rules.LegalActions(canonical)

		action, err := seating.at(seat).Decide(ctx, canonical)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, fmt.Errorf("%w: %w", ErrAborted, ctxErr)
			}
			result.Fault = FaultAgentError
			result.FaultSeat = seat
			r.reportFault(observer, FaultInfo{Episode: episode, Turn: turn, Seat: seat, Fault: FaultAgentError, Err: err})
			return finish(winFor(seat.Other())), nil
		}

		if !slices.Contains(legal, action) {
			info := FaultInfo{
				Episode: episode,
				Turn:    turn,
				Seat:    seat,
				Fault:   FaultIllegalAction,
				Action:  fmt.Sprintf("%v", action),
			}
			r.reportFault(observer, info)

			if r.policy == PolicyStrict {
				result.Fault = FaultIllegalAction
				result.FaultSeat = seat
				return finish(winFor(seat.Other())), nil
			}
		}

		next, nextSeat := r.rules.ApplyAction(state, seat, action)

		if observer != nil {
			info := TurnInfo[S]{
				Episode:   episode,
				Turn:      turn,
				Seat:      seat,
				Canonical: canonical,
			}
			if r.scorer != nil {
				info.Score = r.scorer.Score(state)
				info.HasScore = true
			}
			observer.OnTurn(info)
		}

		state, seat = next, nextSeat
	}

	return finish(r.rules.TerminalValue(state, SeatFirst)), nil
}

func (r *EpisodeRunner[S, A]) reportFault(observer Observer[S], info FaultInfo) {
	event := r.logger.Warn()
	if info.Fault == FaultIllegalAction && r.policy == PolicyLenient {
		event = event.Bool("applied", true)
	}
	event.
		Int("episode", info.Episode).
		Int("turn", info.Turn).
		Str("seat", info.Seat.String()).
		Str("fault", info.Fault.String()).
		Str("action", info.Action).
		Err(info.Err).
		Msg("Episode fault")

	if fo, ok := observer.(FaultObserver); ok {
		fo.OnFault(info)
	}
}
