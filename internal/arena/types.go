package arena

import (
	"context"
	"fmt"
	"time"
)

// Seat is one of the two fixed turn-order positions of a game
type Seat int

const (
	// SeatFirst moves first in every episode
	SeatFirst Seat = 1
	// SeatSecond replies to SeatFirst
	SeatSecond Seat = -1
)

// Other returns the opposing seat
func (s Seat) Other() Seat {
	return -s
}

// String returns the string representation of a Seat
func (s Seat) String() string {
	switch s {
	case SeatFirst:
		return "+1"
	case SeatSecond:
		return "-1"
	default:
		return fmt.Sprintf("Seat(%d)", int(s))
	}
}

// Outcome is a terminal evaluation. Values other than the three named
// constants are engine defined (resignation codes, score differentials...)
// and are tallied as draws.
type Outcome int

const (
	SecondSeatWon Outcome = -1
	Draw          Outcome = 0
	FirstSeatWon  Outcome = 1
)

// String returns the string representation of an Outcome
func (o Outcome) String() string {
	switch o {
	case FirstSeatWon:
		return "FirstSeatWon"
	case SecondSeatWon:
		return "SecondSeatWon"
	case Draw:
		return "Draw"
	default:
		return fmt.Sprintf("Other(%d)", int(o))
	}
}

// winFor returns the outcome crediting the given seat with a win
func winFor(seat Seat) Outcome {
	if seat == SeatFirst {
		return FirstSeatWon
	}
	return SecondSeatWon
}

// Score is the auxiliary score pair some engines report alongside the outcome
type Score struct {
	First  float64 `json:"first"`
	Second float64 `json:"second"`
}

// GameRules is the state-transition and scoring oracle an episode is driven by.
// Implementations must never mutate a state passed to them.
type GameRules[S any, A comparable] interface {
	// InitialState returns a fresh starting position
	InitialState() S
	// IsTerminal reports whether the game is over with seat to move
	IsTerminal(state S, seat Seat) bool
	// TerminalValue evaluates a terminal state from seat's perspective
	TerminalValue(state S, seat Seat) Outcome
	// CanonicalForm expresses state from seat's point of view
	CanonicalForm(state S, seat Seat) S
	// LegalActions lists the actions available in a canonical state
	LegalActions(canonical S) []A
	// ApplyAction plays action for seat and returns the next state and mover
	ApplyAction(state S, seat Seat, action A) (S, Seat)
}

// Scorer is implemented by rules that can report an intermediate score
type Scorer[S any] interface {
	Score(state S) Score
}

// Player is a decision-making agent. It always reasons as the mover,
// receiving the canonical form of the current state.
type Player[S any, A comparable] interface {
	Decide(ctx context.Context, canonical S) (A, error)
}

// PlayerFunc adapts an ordinary function to the Player interface
type PlayerFunc[S any, A comparable] func(ctx context.Context, canonical S) (A, error)

// Decide calls f(ctx, canonical)
func (f PlayerFunc[S, A]) Decide(ctx context.Context, canonical S) (A, error) {
	return f(ctx, canonical)
}

// TurnInfo describes one played turn
type TurnInfo[S any] struct {
	Episode   int
	Turn      int
	Seat      Seat
	Canonical S
	Score     Score
	HasScore  bool
}

// EpisodeResult is the outcome of one episode, always from seat +1's perspective
type EpisodeResult[S any] struct {
	Episode   int
	Outcome   Outcome
	Score     Score
	HasScore  bool
	Turns     int
	Final     S
	Fault     Fault
	FaultSeat Seat
	Duration  time.Duration
}

// Faulted returns true if the episode ended on a fault
func (r EpisodeResult[S]) Faulted() bool {
	return r.Fault != FaultNone
}

// Observer receives turn-by-turn narration. Nothing it returns is consumed.
type Observer[S any] interface {
	OnTurn(TurnInfo[S])
	OnEpisodeEnd(EpisodeResult[S])
}

// EpisodeHeader announces an episode before its first turn
type EpisodeHeader struct {
	Episode   int
	Total     int
	Iteration int
	Swapped   bool
}

// Tag returns the short "g<episode>i<iteration>" label of the episode
func (h EpisodeHeader) Tag() string {
	return fmt.Sprintf("g%di%d", h.Episode, h.Iteration)
}

// EpisodeStartObserver is implemented by observers interested in episode headers
type EpisodeStartObserver interface {
	OnEpisodeStart(EpisodeHeader)
}

// FaultInfo describes an agent or rules contract violation
type FaultInfo struct {
	Episode int
	Turn    int
	Seat    Seat
	Fault   Fault
	Action  string
	Err     error
}

// FaultObserver is implemented by observers interested in faults
type FaultObserver interface {
	OnFault(FaultInfo)
}

// PhaseObserver is implemented by observers interested in tournament phase changes
type PhaseObserver interface {
	OnPhase(Transition)
}

// TournamentObserver is implemented by observers interested in the tournament boundaries
type TournamentObserver interface {
	OnTournamentStart(TournamentInfo)
	OnTournamentEnd(TournamentInfo, Tally)
}

// TournamentInfo identifies a tournament run
type TournamentInfo struct {
	ID        string
	PlayerOne string
	PlayerTwo string
	Requested int
	Episodes  int
	Iteration int
}

// Progress is emitted after every completed episode
type Progress struct {
	Completed  int
	Total      int
	AvgEpisode time.Duration
	Elapsed    time.Duration
	ETA        time.Duration
}

// ProgressSink receives progress updates, purely informational
type ProgressSink interface {
	Update(Progress)
}

// ProgressFunc adapts an ordinary function to the ProgressSink interface
type ProgressFunc func(Progress)

// Update calls f(p)
func (f ProgressFunc) Update(p Progress) {
	f(p)
}

// Sink is a resource acquired once per tournament and released on every exit path
type Sink interface {
	Open() error
	Close() error
}
