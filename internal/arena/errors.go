package arena

import (
	"errors"
	"fmt"
)

var (
	ErrAborted             = errors.New("tournament aborted")
	ErrSinkUnavailable     = errors.New("sink unavailable")
	ErrNoPlayers           = errors.New("both players are required")
	ErrNoRules             = errors.New("game rules are required")
	ErrInvalidEpisodeCount = errors.New("episode count must be non-negative")
	ErrInvalidTransition   = errors.New("invalid phase transition")
)

// Fault classifies how an episode broke its contract
type Fault int

const (
	FaultNone Fault = iota
	// FaultIllegalAction - an agent returned an action outside the legal set
	FaultIllegalAction
	// FaultAgentError - an agent failed to decide (error or expired deadline)
	FaultAgentError
	// FaultTurnLimit - the rules never reported a terminal state within MaxTurns
	FaultTurnLimit
)

// String returns the string representation of a Fault
func (f Fault) String() string {
	switch f {
	case FaultNone:
		return "None"
	case FaultIllegalAction:
		return "IllegalAction"
	case FaultAgentError:
		return "AgentError"
	case FaultTurnLimit:
		return "TurnLimit"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// IllegalActionPolicy decides what an episode does with an illegal action
type IllegalActionPolicy int

const (
	// PolicyStrict ends the episode and forfeits it for the offending seat
	PolicyStrict IllegalActionPolicy = iota
	// PolicyLenient reports the violation and applies the action anyway
	PolicyLenient
)

// String returns the string representation of an IllegalActionPolicy
func (p IllegalActionPolicy) String() string {
	switch p {
	case PolicyStrict:
		return "strict"
	case PolicyLenient:
		return "lenient"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// ParsePolicy converts a string to an IllegalActionPolicy
func ParsePolicy(s string) (IllegalActionPolicy, error) {
	switch s {
	case "strict", "":
		return PolicyStrict, nil
	case "lenient":
		return PolicyLenient, nil
	default:
		return PolicyStrict, fmt.Errorf("unknown illegal action policy %q", s)
	}
}
