package events

import (
	"time"

	"github.com/mitchelldurbincs/arena/internal/arena"
)

// Event type constants
const (
	TypeTournamentStarted = "tournament.started"
	TypeTournamentEnded   = "tournament.ended"
	TypeEpisodeStarted    = "episode.started"
	TypeTurnPlayed        = "turn.played"
	TypeEpisodeEnded      = "episode.ended"
	TypeAgentFault        = "agent.fault"
	TypePhaseTransition   = "phase.transition"
)

// TournamentStartedEvent is published before the first episode
type TournamentStartedEvent struct {
	BaseEvent
	PlayerOne string `json:"player_one"`
	PlayerTwo string `json:"player_two"`
	Requested int    `json:"requested"`
	Episodes  int    `json:"episodes"`
	Iteration int    `json:"iteration"`
}

// NewTournamentStartedEvent creates a new TournamentStartedEvent
func NewTournamentStartedEvent(info arena.TournamentInfo) *TournamentStartedEvent {
	return &TournamentStartedEvent{
		BaseEvent: newBase(TypeTournamentStarted, info.ID),
		PlayerOne: info.PlayerOne,
		PlayerTwo: info.PlayerTwo,
		Requested: info.Requested,
		Episodes:  info.Episodes,
		Iteration: info.Iteration,
	}
}

// TournamentEndedEvent is published once the tournament completed or aborted
type TournamentEndedEvent struct {
	BaseEvent
	PlayerOne     string `json:"player_one"`
	PlayerTwo     string `json:"player_two"`
	PlayerOneWins int    `json:"player_one_wins"`
	PlayerTwoWins int    `json:"player_two_wins"`
	Draws         int    `json:"draws"`
	Faults        int    `json:"faults"`
	Completed     int    `json:"completed"`
	Episodes      int    `json:"episodes"`
}

// NewTournamentEndedEvent creates a new TournamentEndedEvent
func NewTournamentEndedEvent(info arena.TournamentInfo, tally arena.Tally) *TournamentEndedEvent {
	return &TournamentEndedEvent{
		BaseEvent:     newBase(TypeTournamentEnded, info.ID),
		PlayerOne:     info.PlayerOne,
		PlayerTwo:     info.PlayerTwo,
		PlayerOneWins: tally.FirstPlayerWins,
		PlayerTwoWins: tally.SecondPlayerWins,
		Draws:         tally.Draws,
		Faults:        tally.Faults,
		Completed:     tally.Total(),
		Episodes:      info.Episodes,
	}
}

// EpisodeStartedEvent is published before the first turn of an episode
type EpisodeStartedEvent struct {
	BaseEvent
	Episode   int    `json:"episode"`
	Total     int    `json:"total"`
	Iteration int    `json:"iteration"`
	Tag       string `json:"tag"`
	Swapped   bool   `json:"swapped"`
}

// NewEpisodeStartedEvent creates a new EpisodeStartedEvent
func NewEpisodeStartedEvent(tournamentID string, h arena.EpisodeHeader) *EpisodeStartedEvent {
	return &EpisodeStartedEvent{
		BaseEvent: newBase(TypeEpisodeStarted, tournamentID),
		Episode:   h.Episode,
		Total:     h.Total,
		Iteration: h.Iteration,
		Tag:       h.Tag(),
		Swapped:   h.Swapped,
	}
}

// TurnPlayedEvent is published after every applied action
type TurnPlayedEvent struct {
	BaseEvent
	Episode  int         `json:"episode"`
	Turn     int         `json:"turn"`
	Seat     int         `json:"seat"`
	Board    string      `json:"board"`
	Score    arena.Score `json:"score"`
	HasScore bool        `json:"has_score"`
}

// NewTurnPlayedEvent creates a new TurnPlayedEvent with the pre-transition board
func NewTurnPlayedEvent(tournamentID string, episode, turn int, seat arena.Seat, board string, score arena.Score, hasScore bool) *TurnPlayedEvent {
	return &TurnPlayedEvent{
		BaseEvent: newBase(TypeTurnPlayed, tournamentID),
		Episode:   episode,
		Turn:      turn,
		Seat:      int(seat),
		Board:     board,
		Score:     score,
		HasScore:  hasScore,
	}
}

// EpisodeEndedEvent is published when an episode reached a terminal state or faulted
type EpisodeEndedEvent struct {
	BaseEvent
	Episode  int           `json:"episode"`
	Outcome  int           `json:"outcome"`
	Turns    int           `json:"turns"`
	Board    string        `json:"board"`
	Score    arena.Score   `json:"score"`
	HasScore bool          `json:"has_score"`
	Fault    string        `json:"fault"`
	Duration time.Duration `json:"duration"`
}

// NewEpisodeEndedEvent creates a new EpisodeEndedEvent
func NewEpisodeEndedEvent(tournamentID string, episode int, outcome arena.Outcome, turns int, board string, score arena.Score, hasScore bool, fault arena.Fault, duration time.Duration) *EpisodeEndedEvent {
	return &EpisodeEndedEvent{
		BaseEvent: newBase(TypeEpisodeEnded, tournamentID),
		Episode:   episode,
		Outcome:   int(outcome),
		Turns:     turns,
		Board:     board,
		Score:     score,
		HasScore:  hasScore,
		Fault:     fault.String(),
		Duration:  duration,
	}
}

// AgentFaultEvent is published when an agent or the rules break their contract
type AgentFaultEvent struct {
	BaseEvent
	Episode int    `json:"episode"`
	Turn    int    `json:"turn"`
	Seat    int    `json:"seat"`
	Fault   string `json:"fault"`
	Action  string `json:"action,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewAgentFaultEvent creates a new AgentFaultEvent
func NewAgentFaultEvent(tournamentID string, f arena.FaultInfo) *AgentFaultEvent {
	e := &AgentFaultEvent{
		BaseEvent: newBase(TypeAgentFault, tournamentID),
		Episode:   f.Episode,
		Turn:      f.Turn,
		Seat:      int(f.Seat),
		Fault:     f.Fault.String(),
		Action:    f.Action,
	}
	if f.Err != nil {
		e.Error = f.Err.Error()
	}
	return e
}

// PhaseTransitionEvent is published when the tournament phase machine transitions
type PhaseTransitionEvent struct {
	BaseEvent
	FromPhase string `json:"from_phase"`
	ToPhase   string `json:"to_phase"`
	Reason    string `json:"reason"`
}

// NewPhaseTransitionEvent creates a new PhaseTransitionEvent
func NewPhaseTransitionEvent(t arena.Transition) *PhaseTransitionEvent {
	return &PhaseTransitionEvent{
		BaseEvent: BaseEvent{
			EventType:  TypePhaseTransition,
			Time:       t.Timestamp,
			Tournament: t.TournamentID,
		},
		FromPhase: t.From.String(),
		ToPhase:   t.To.String(),
		Reason:    t.Reason,
	}
}
