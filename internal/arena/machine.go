package arena

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Transition represents a phase transition in the history
type Transition struct {
	TournamentID string
	From         Phase
	To           Phase
	Timestamp    time.Time
	Reason       string
}

// phaseMachine tracks the phase of a single tournament. It is owned by the
// goroutine running the tournament and needs no locking.
type phaseMachine struct {
	tournamentID string
	current      Phase
	history      []Transition
	observer     PhaseObserver
	logger       zerolog.Logger
}

func newPhaseMachine(tournamentID string, observer PhaseObserver, logger zerolog.Logger) *phaseMachine {
	return &phaseMachine{
		tournamentID: tournamentID,
		current:      PhaseNotStarted,
		history:      make([]Transition, 0, 4),
		observer:     observer,
		logger:       logger,
	}
}

// transitionTo attempts to transition to the specified phase
func (m *phaseMachine) transitionTo(target Phase, reason string) error {
	if !m.current.CanTransitionTo(target) {
		return fmt.Errorf("%w: from %s to %s", ErrInvalidTransition, m.current, target)
	}

	transition := Transition{
		TournamentID: m.tournamentID,
		From:         m.current,
		To:           target,
		Timestamp:    time.Now(),
		Reason:       reason,
	}
	m.history = append(m.history, transition)
	m.current = target

	if m.observer != nil {
		m.observer.OnPhase(transition)
	}

	m.logger.Debug().
		Str("from_phase", transition.From.String()).
		Str("to_phase", transition.To.String()).
		Str("reason", reason).
		Msg("Phase transition completed")

	return nil
}

// abort moves any non-terminal phase to PhaseAborted
func (m *phaseMachine) abort(reason string) {
	if m.current.IsTerminal() {
		return
	}
	_ = m.transitionTo(PhaseAborted, reason)
}

// historyCopy returns a copy of the transition history
func (m *phaseMachine) historyCopy() []Transition {
	history := make([]Transition, len(m.history))
	copy(history, m.history)
	return history
}
