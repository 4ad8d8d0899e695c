package testutil

import (
	"context"
	"errors"

	"github.com/mitchelldurbincs/arena/internal/arena"
)

// CountdownState is the position of the countdown fixture game
type CountdownState struct {
	Left int
}

// Countdown is a bounded fixture game: each turn removes one from Left, the
// game ends at zero with a fixed Result from seat +1's perspective. With
// Endless set it never terminates.
type Countdown struct {
	Start   int
	Result  arena.Outcome
	Endless bool
}

func (c Countdown) InitialState() CountdownState {
	return CountdownState{Left: c.Start}
}

func (c Countdown) IsTerminal(s CountdownState, _ arena.Seat) bool {
	return !c.Endless && s.Left <= 0
}

func (c Countdown) TerminalValue(_ CountdownState, seat arena.Seat) arena.Outcome {
	return arena.Outcome(int(c.Result) * int(seat))
}

func (c Countdown) CanonicalForm(s CountdownState, _ arena.Seat) CountdownState {
	return s
}

func (c Countdown) LegalActions(_ CountdownState) []int {
	return []int{1}
}

func (c Countdown) ApplyAction(s CountdownState, seat arena.Seat, action int) (CountdownState, arena.Seat) {
	s.Left -= action
	return s, seat.Other()
}

// Always returns a player deciding the same action every turn
func Always[S any, A comparable](action A) arena.Player[S, A] {
	return arena.PlayerFunc[S, A](func(context.Context, S) (A, error) {
		return action, nil
	})
}

// ErrScripted is returned by Failing players
var ErrScripted = errors.New("scripted failure")

// Failing returns a player whose every decision fails
func Failing[S any, A comparable]() arena.Player[S, A] {
	return arena.PlayerFunc[S, A](func(context.Context, S) (A, error) {
		var zero A
		return zero, ErrScripted
	})
}

// Scripted plays the given actions in order, then repeats the last one
type Scripted[S any, A comparable] struct {
	Actions []A
	Seen    []S
	next    int
}

// Decide implements arena.Player
func (p *Scripted[S, A]) Decide(_ context.Context, canonical S) (A, error) {
	p.Seen = append(p.Seen, canonical)
	action := p.Actions[min(p.next, len(p.Actions)-1)]
	p.next++
	return action, nil
}

// Recorder is an observer keeping every notification it receives
type Recorder[S any] struct {
	Turns    []arena.TurnInfo[S]
	Ends     []arena.EpisodeResult[S]
	Headers  []arena.EpisodeHeader
	Faults   []arena.FaultInfo
	Phases   []arena.Transition
	Started  []arena.TournamentInfo
	Finished []arena.Tally
	OpenErr  error
	Opened   int
	Closed   int
}

func (r *Recorder[S]) OnTurn(info arena.TurnInfo[S])           { r.Turns = append(r.Turns, info) }
func (r *Recorder[S]) OnEpisodeEnd(res arena.EpisodeResult[S]) { r.Ends = append(r.Ends, res) }
func (r *Recorder[S]) OnEpisodeStart(h arena.EpisodeHeader)    { r.Headers = append(r.Headers, h) }
func (r *Recorder[S]) OnFault(f arena.FaultInfo)               { r.Faults = append(r.Faults, f) }
func (r *Recorder[S]) OnPhase(t arena.Transition)              { r.Phases = append(r.Phases, t) }
func (r *Recorder[S]) OnTournamentStart(info arena.TournamentInfo) {
	r.Started = append(r.Started, info)
}
func (r *Recorder[S]) OnTournamentEnd(_ arena.TournamentInfo, t arena.Tally) {
	r.Finished = append(r.Finished, t)
}

// Open implements arena.Sink
func (r *Recorder[S]) Open() error {
	if r.OpenErr != nil {
		return r.OpenErr
	}
	r.Opened++
	return nil
}

// Close implements arena.Sink
func (r *Recorder[S]) Close() error {
	r.Closed++
	return nil
}

// ProgressRecorder keeps every progress update
type ProgressRecorder struct {
	Updates []arena.Progress
}

// Update implements arena.ProgressSink
func (p *ProgressRecorder) Update(progress arena.Progress) {
	p.Updates = append(p.Updates, progress)
}
