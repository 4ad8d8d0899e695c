package subscribers_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/arena/internal/arena"
	"github.com/mitchelldurbincs/arena/internal/events"
	"github.com/mitchelldurbincs/arena/internal/events/subscribers"
)

func TestLoggerSubscriber(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).With().Timestamp().Logger()

	logSub := subscribers.NewLoggerSubscriber("test-logger", logger, zerolog.InfoLevel)

	assert.Equal(t, "test-logger", logSub.ID())

	// Interested in all events by default
	assert.True(t, logSub.InterestedIn(events.TypeTournamentStarted))
	assert.True(t, logSub.InterestedIn(events.TypeTurnPlayed))
	assert.True(t, logSub.InterestedIn("any.event.type"))
}

func TestLoggerSubscriberEventLogging(t *testing.T) {
	info := arena.TournamentInfo{ID: "tour-1", PlayerOne: "minimax:depth=4", PlayerTwo: "random", Episodes: 20, Iteration: 2}

	testCases := []struct {
		name  string
		event events.Event
		check func(t *testing.T, logLine map[string]interface{})
	}{
		{
			name:  "TournamentStartedEvent",
			event: events.NewTournamentStartedEvent(info),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "minimax:depth=4", logLine["player_one"])
				assert.Equal(t, float64(20), logLine["episodes"])
				assert.Equal(t, float64(2), logLine["iteration"])
			},
		},
		{
			name:  "EpisodeStartedEvent",
			event: events.NewEpisodeStartedEvent("tour-1", arena.EpisodeHeader{Episode: 11, Total: 20, Iteration: 2, Swapped: true}),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "g11i2", logLine["tag"])
				assert.Equal(t, true, logLine["swapped"])
			},
		},
		{
			name:  "TurnPlayedEvent with score",
			event: events.NewTurnPlayedEvent("tour-1", 3, 4, arena.SeatSecond, "", arena.Score{First: 2, Second: 1}, true),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(-1), logLine["seat"])
				assert.Equal(t, float64(2), logLine["score_first"])
			},
		},
		{
			name:  "AgentFaultEvent",
			event: events.NewAgentFaultEvent("tour-1", arena.FaultInfo{Episode: 1, Turn: 1, Seat: arena.SeatFirst, Fault: arena.FaultIllegalAction, Action: "42"}),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, arena.FaultIllegalAction.String(), logLine["fault"])
				assert.Equal(t, "42", logLine["action"])
			},
		},
		{
			name:  "TournamentEndedEvent",
			event: events.NewTournamentEndedEvent(info, arena.Tally{FirstPlayerWins: 12, SecondPlayerWins: 5, Draws: 3}),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, float64(12), logLine["player_one_wins"])
				assert.Equal(t, float64(20), logLine["completed"])
			},
		},
		{
			name:  "PhaseTransitionEvent",
			event: events.NewPhaseTransitionEvent(arena.Transition{TournamentID: "tour-1", From: arena.PhaseRunningFirstHalf, To: arena.PhaseRoleSwapped, Reason: "first half complete"}),
			check: func(t *testing.T, logLine map[string]interface{}) {
				assert.Equal(t, "RoleSwapped", logLine["to_phase"])
				assert.Equal(t, "first half complete", logLine["reason"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logSub := subscribers.NewLoggerSubscriber("event-logger", zerolog.New(&buf), zerolog.InfoLevel)

			logSub.HandleEvent(tc.event)

			var logLine map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &logLine))
			assert.Equal(t, "Arena event", logLine["message"])
			assert.Equal(t, "info", logLine["level"])
			assert.Equal(t, tc.event.Type(), logLine["event_type"])
			assert.Equal(t, "tour-1", logLine["tournament_id"])
			assert.Equal(t, "event_logger", logLine["subscriber"])
			tc.check(t, logLine)
		})
	}
}

func TestLoggerSubscriberEventFilter(t *testing.T) {
	logSub := subscribers.NewLoggerSubscriber("filtered", zerolog.Nop(), zerolog.InfoLevel)

	logSub.SetEventFilter([]string{events.TypeEpisodeEnded})
	assert.True(t, logSub.InterestedIn(events.TypeEpisodeEnded))
	assert.False(t, logSub.InterestedIn(events.TypeTurnPlayed))

	logSub.SetEventFilter(nil)
	assert.True(t, logSub.InterestedIn(events.TypeTurnPlayed))
}

func TestLoggerSubscriberDevMode(t *testing.T) {
	var buf bytes.Buffer
	logSub := subscribers.NewLoggerSubscriber("dev", zerolog.New(&buf), zerolog.DebugLevel)
	logSub.SetDevMode(true)

	logSub.HandleEvent(events.NewEpisodeEndedEvent("tour-1", 1, arena.Draw, 9, "board", arena.Score{}, false, arena.FaultNone, 0))

	var logLine map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logLine))
	assert.Equal(t, "debug", logLine["level"])
	data, ok := logLine["event_data"].(map[string]interface{})
	require.True(t, ok, "event data is embedded as JSON")
	assert.Equal(t, "board", data["board"])
}
