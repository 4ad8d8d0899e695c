package events

import (
	"fmt"
	"sync/atomic"

	"github.com/mitchelldurbincs/arena/internal/arena"
)

// ObserverAdapter turns the arena observer callbacks into events published on a bus.
// It implements every optional observer interface of the arena package and
// arena.Sink, forwarding Open and Close to the bus subscribers.
type ObserverAdapter[S any] struct {
	bus          Publisher
	tournamentID string
	verbose      atomic.Bool
	render       func(S) string
}

// NewObserverAdapter creates an adapter publishing on bus. Turn events are
// only published in verbose mode.
func NewObserverAdapter[S any](bus Publisher, verbose bool) *ObserverAdapter[S] {
	a := &ObserverAdapter[S]{
		bus: bus,
		render: func(s S) string {
			return fmt.Sprint(s)
		},
	}
	a.verbose.Store(verbose)
	return a
}

// SetVerbose switches turn events on or off, also while a tournament runs
func (a *ObserverAdapter[S]) SetVerbose(verbose bool) {
	a.verbose.Store(verbose)
}

// WithRenderer replaces the %v board rendering
func (a *ObserverAdapter[S]) WithRenderer(render func(S) string) *ObserverAdapter[S] {
	if render != nil {
		a.render = render
	}
	return a
}

// Open implements arena.Sink
func (a *ObserverAdapter[S]) Open() error {
	return a.bus.Open()
}

// Close implements arena.Sink
func (a *ObserverAdapter[S]) Close() error {
	return a.bus.Close()
}

// OnTournamentStart implements arena.TournamentObserver
func (a *ObserverAdapter[S]) OnTournamentStart(info arena.TournamentInfo) {
	a.tournamentID = info.ID
	a.bus.Publish(NewTournamentStartedEvent(info))
}

// OnTournamentEnd implements arena.TournamentObserver
func (a *ObserverAdapter[S]) OnTournamentEnd(info arena.TournamentInfo, tally arena.Tally) {
	a.bus.Publish(NewTournamentEndedEvent(info, tally))
}

// OnPhase implements arena.PhaseObserver
func (a *ObserverAdapter[S]) OnPhase(t arena.Transition) {
	a.tournamentID = t.TournamentID
	a.bus.Publish(NewPhaseTransitionEvent(t))
}

// OnEpisodeStart implements arena.EpisodeStartObserver
func (a *ObserverAdapter[S]) OnEpisodeStart(h arena.EpisodeHeader) {
	a.bus.Publish(NewEpisodeStartedEvent(a.tournamentID, h))
}

// OnTurn implements arena.Observer
func (a *ObserverAdapter[S]) OnTurn(info arena.TurnInfo[S]) {
	if !a.verbose.Load() {
		return
	}
	a.bus.Publish(NewTurnPlayedEvent(a.tournamentID, info.Episode, info.Turn, info.Seat, a.render(info.Canonical), info.Score, info.HasScore))
}

// OnEpisodeEnd implements arena.Observer
func (a *ObserverAdapter[S]) OnEpisodeEnd(r arena.EpisodeResult[S]) {
	a.bus.Publish(NewEpisodeEndedEvent(a.tournamentID, r.Episode, r.Outcome, r.Turns, a.render(r.Final), r.Score, r.HasScore, r.Fault, r.Duration))
}

// OnFault implements arena.FaultObserver
func (a *ObserverAdapter[S]) OnFault(f arena.FaultInfo) {
	a.bus.Publish(NewAgentFaultEvent(a.tournamentID, f))
}
