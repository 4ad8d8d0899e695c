package arena

import "fmt"

// Phase represents the current phase of a tournament
type Phase int

const (
	// PhaseNotStarted - Tournament created, no episode played yet
	PhaseNotStarted Phase = iota

	// PhaseRunningFirstHalf - Player one on seat +1
	PhaseRunningFirstHalf

	// PhaseRoleSwapped - First half fully tallied, seats exchanged
	PhaseRoleSwapped

	// PhaseRunningSecondHalf - Player two on seat +1
	PhaseRunningSecondHalf

	// PhaseCompleted - Final state
	PhaseCompleted

	// PhaseAborted - Cancelled or failed before completion
	PhaseAborted
)

// String returns the string representation of a Phase
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "NotStarted"
	case PhaseRunningFirstHalf:
		return "RunningFirstHalf"
	case PhaseRoleSwapped:
		return "RoleSwapped"
	case PhaseRunningSecondHalf:
		return "RunningSecondHalf"
	case PhaseCompleted:
		return "Completed"
	case PhaseAborted:
		return "Aborted"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// IsTerminal returns true if the phase represents a terminal state
func (p Phase) IsTerminal() bool {
	return p == PhaseCompleted || p == PhaseAborted
}

// AllowedTransitions returns the valid phases this phase can transition to
func (p Phase) AllowedTransitions() []Phase {
	switch p {
	case PhaseNotStarted:
		return []Phase{PhaseRunningFirstHalf, PhaseAborted}
	case PhaseRunningFirstHalf:
		return []Phase{PhaseRoleSwapped, PhaseAborted}
	case PhaseRoleSwapped:
		return []Phase{PhaseRunningSecondHalf, PhaseAborted}
	case PhaseRunningSecondHalf:
		return []Phase{PhaseCompleted, PhaseAborted}
	default:
		return []Phase{}
	}
}

// CanTransitionTo checks if a transition from this phase to the target phase is allowed
func (p Phase) CanTransitionTo(target Phase) bool {
	for _, phase := range p.AllowedTransitions() {
		if phase == target {
			return true
		}
	}
	return false
}
