package arena

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase    Phase
		expected string
	}{
		{PhaseNotStarted, "NotStarted"},
		{PhaseRunningFirstHalf, "RunningFirstHalf"},
		{PhaseRoleSwapped, "RoleSwapped"},
		{PhaseRunningSecondHalf, "RunningSecondHalf"},
		{PhaseCompleted, "Completed"},
		{PhaseAborted, "Aborted"},
		{Phase(999), "Unknown(999)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.phase.String())
		})
	}
}

func TestPhase_Transitions(t *testing.T) {
	tests := []struct {
		from    Phase
		allowed []Phase
	}{
		{PhaseNotStarted, []Phase{PhaseRunningFirstHalf, PhaseAborted}},
		{PhaseRunningFirstHalf, []Phase{PhaseRoleSwapped, PhaseAborted}},
		{PhaseRoleSwapped, []Phase{PhaseRunningSecondHalf, PhaseAborted}},
		{PhaseRunningSecondHalf, []Phase{PhaseCompleted, PhaseAborted}},
		{PhaseCompleted, []Phase{}},
		{PhaseAborted, []Phase{}},
	}

	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.AllowedTransitions())
			for _, target := range tt.allowed {
				assert.True(t, tt.from.CanTransitionTo(target))
			}
		})
	}

	assert.False(t, PhaseRunningSecondHalf.CanTransitionTo(PhaseRunningFirstHalf), "no transition back")
	assert.False(t, PhaseCompleted.CanTransitionTo(PhaseAborted))
}

func TestPhase_Properties(t *testing.T) {
	assert.True(t, PhaseCompleted.IsTerminal())
	assert.True(t, PhaseAborted.IsTerminal())
	assert.False(t, PhaseRoleSwapped.IsTerminal())
}

type phaseSpy struct {
	transitions []Transition
}

func (p *phaseSpy) OnPhase(t Transition) { p.transitions = append(p.transitions, t) }

func TestPhaseMachine(t *testing.T) {
	spy := &phaseSpy{}
	m := newPhaseMachine("abc", spy, zerolog.Nop())

	err := m.transitionTo(PhaseRoleSwapped, "skip ahead")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, PhaseNotStarted, m.current)

	require.NoError(t, m.transitionTo(PhaseRunningFirstHalf, "go"))
	m.abort("stop")
	m.abort("stop again")

	assert.Equal(t, PhaseAborted, m.current)
	history := m.historyCopy()
	require.Len(t, history, 2)
	assert.Equal(t, PhaseNotStarted, history[0].From)
	assert.Equal(t, "stop", history[1].Reason)
	assert.WithinDuration(t, time.Now(), history[1].Timestamp, time.Second)
	assert.Equal(t, history, spy.transitions)
}
