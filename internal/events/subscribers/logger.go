package subscribers

import (
	"encoding/json"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/arena/internal/events"
)

// LoggerSubscriber logs events to structured logs
type LoggerSubscriber struct {
	id              string
	logger          zerolog.Logger
	logLevel        zerolog.Level
	eventTypeFilter map[string]bool // If non-nil, only log these event types
	devMode         atomic.Bool     // If true, log full event details
}

// NewLoggerSubscriber creates a new logger subscriber
func NewLoggerSubscriber(id string, logger zerolog.Logger, logLevel zerolog.Level) *LoggerSubscriber {
	return &LoggerSubscriber{
		id:       id,
		logger:   logger.With().Str("subscriber", "event_logger").Logger(),
		logLevel: logLevel,
	}
}

// ID returns the subscriber's unique identifier
func (ls *LoggerSubscriber) ID() string {
	return ls.id
}

// SetEventFilter sets which event types to log (nil means log all)
func (ls *LoggerSubscriber) SetEventFilter(eventTypes []string) {
	if len(eventTypes) == 0 {
		ls.eventTypeFilter = nil
		return
	}

	ls.eventTypeFilter = make(map[string]bool)
	for _, eventType := range eventTypes {
		ls.eventTypeFilter[eventType] = true
	}
}

// SetDevMode enables or disables development mode logging. It may be
// called while events are being published.
func (ls *LoggerSubscriber) SetDevMode(enabled bool) {
	ls.devMode.Store(enabled)
}

// InterestedIn returns true if the subscriber wants to receive this event type
func (ls *LoggerSubscriber) InterestedIn(eventType string) bool {
	if ls.eventTypeFilter == nil {
		return true
	}
	return ls.eventTypeFilter[eventType]
}

// HandleEvent processes an event by logging it
func (ls *LoggerSubscriber) HandleEvent(event events.Event) {
	eventLogger := ls.logger.With().
		Str("event_type", event.Type()).
		Str("tournament_id", event.TournamentID()).
		Time("timestamp", event.Timestamp()).
		Logger()

	logEvent := eventLogger.WithLevel(ls.logLevel)
	if ls.logLevel == zerolog.NoLevel {
		logEvent = eventLogger.Info()
	}

	switch e := event.(type) {
	case *events.TournamentStartedEvent:
		logEvent.
			Str("player_one", e.PlayerOne).
			Str("player_two", e.PlayerTwo).
			Int("episodes", e.Episodes).
			Int("iteration", e.Iteration)

	case *events.TournamentEndedEvent:
		logEvent.
			Int("player_one_wins", e.PlayerOneWins).
			Int("player_two_wins", e.PlayerTwoWins).
			Int("draws", e.Draws).
			Int("faults", e.Faults).
			Int("completed", e.Completed)

	case *events.EpisodeStartedEvent:
		logEvent.
			Int("episode", e.Episode).
			Int("total", e.Total).
			Str("tag", e.Tag).
			Bool("swapped", e.Swapped)

	case *events.TurnPlayedEvent:
		logEvent.
			Int("episode", e.Episode).
			Int("turn", e.Turn).
			Int("seat", e.Seat)
		if e.HasScore {
			logEvent.
				Float64("score_first", e.Score.First).
				Float64("score_second", e.Score.Second)
		}

	case *events.EpisodeEndedEvent:
		logEvent.
			Int("episode", e.Episode).
			Int("outcome", e.Outcome).
			Int("turns", e.Turns).
			Str("fault", e.Fault).
			Dur("duration", e.Duration)

	case *events.AgentFaultEvent:
		logEvent.
			Int("episode", e.Episode).
			Int("turn", e.Turn).
			Int("seat", e.Seat).
			Str("fault", e.Fault).
			Str("action", e.Action).
			Str("error", e.Error)

	case *events.PhaseTransitionEvent:
		logEvent.
			Str("from_phase", e.FromPhase).
			Str("to_phase", e.ToPhase).
			Str("reason", e.Reason)
	}

	// In dev mode, also log the full event as JSON
	if ls.devMode.Load() {
		if jsonData, err := json.Marshal(event); err == nil {
			logEvent.RawJSON("event_data", jsonData)
		}
	}

	logEvent.Msg("Arena event")
}
