package pit

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/arena/internal/arena"
	"github.com/mitchelldurbincs/arena/internal/config"
	"github.com/mitchelldurbincs/arena/internal/events"
	"github.com/mitchelldurbincs/arena/internal/events/subscribers"
	"github.com/mitchelldurbincs/arena/internal/progress"
	"github.com/mitchelldurbincs/arena/internal/testutil"
)

func testConfig() *config.Config {
	return &config.Config{
		Arena:      config.ArenaConfig{Episodes: 4, IllegalActionPolicy: "strict"},
		Players:    config.PlayersConfig{One: "first", Two: "first"},
		Game:       config.GameConfig{Name: config.GameTicTacToe, Nim: config.NimConfig{Stones: 21, MaxTake: 3}},
		Logging:    config.LoggingConfig{Level: "info", Format: "console"},
		Transcript: config.TranscriptConfig{Format: "text"},
		Progress:   config.ProgressConfig{Width: 10},
	}
}

func TestRunTicTacToe(t *testing.T) {
	cfg := testConfig()
	cfg.Transcript.Enabled = true
	cfg.Transcript.Path = filepath.Join(t.TempDir(), "logs", "game_history.txt")
	cfg.Arena.Iteration = 2
	cfg.Logging.Verbose = true

	logger, logs := testutil.BufferLogger()
	result, err := Run(context.Background(), Options{Config: cfg, Logger: *logger})
	require.NoError(t, err)

	assert.Equal(t, arena.Tally{FirstPlayerWins: 2, SecondPlayerWins: 2}, result.Tally)
	assert.Equal(t, arena.PhaseCompleted, result.Phase)
	assert.Len(t, result.TournamentID, 36)
	assert.Equal(t, cfg.Transcript.Path, result.Transcript)

	data, err := os.ReadFile(cfg.Transcript.Path)
	require.NoError(t, err)
	history := string(data)
	assert.Contains(t, history, "Playing Game #1  (g1i2)")
	assert.Contains(t, history, "Playing Game #4  (g4i2)")
	assert.Contains(t, history, "Turn: 7   Player: 1")
	assert.Equal(t, 4, strings.Count(history, "## Game over: Turn 7 Result 1 ##"))

	assert.Contains(t, logs.String(), `"message":"Arena event"`)
	assert.Contains(t, logs.String(), result.TournamentID)
}

func TestRunNim(t *testing.T) {
	cfg := testConfig()
	cfg.Game.Name = config.GameNim
	cfg.Game.Nim = config.NimConfig{Stones: 9, MaxTake: 3}
	cfg.Players = config.PlayersConfig{One: "minimax:depth=9", Two: "random:seed=2"}
	cfg.Arena.Episodes = 2

	result, err := Run(context.Background(), Options{Config: cfg, Logger: zerolog.Nop()})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Tally.Total())
	assert.GreaterOrEqual(t, result.Tally.FirstPlayerWins, 1, "minimax wins at least the half it opens")
}

func TestRunProgressLog(t *testing.T) {
	cfg := testConfig()
	cfg.Progress.Enabled = true

	var out bytes.Buffer
	logger := zerolog.New(&out)
	_, err := Run(context.Background(), Options{Config: cfg, Logger: logger, ProgressOut: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(out.String(), `"message":"`+progress.Label+`"`))
}

func TestRunErrors(t *testing.T) {
	t.Run("missing config", func(t *testing.T) {
		_, err := Run(context.Background(), Options{})
		assert.Error(t, err)
	})

	t.Run("unknown game", func(t *testing.T) {
		cfg := testConfig()
		cfg.Game.Name = "chess"
		_, err := Run(context.Background(), Options{Config: cfg, Logger: zerolog.Nop()})
		assert.ErrorIs(t, err, ErrUnknownGame)
	})

	t.Run("unknown player", func(t *testing.T) {
		cfg := testConfig()
		cfg.Players.Two = "oracle"
		_, err := Run(context.Background(), Options{Config: cfg, Logger: zerolog.Nop()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "player two")
	})

	t.Run("transcript unavailable", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, nil, 0644))

		cfg := testConfig()
		cfg.Transcript.Enabled = true
		cfg.Transcript.Path = filepath.Join(blocker, "history.txt")
		result, err := Run(context.Background(), Options{Config: cfg, Logger: zerolog.Nop()})
		assert.ErrorIs(t, err, arena.ErrSinkUnavailable)
		assert.Equal(t, arena.PhaseAborted, result.Phase)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		result, err := Run(ctx, Options{Config: testConfig(), Logger: zerolog.Nop()})
		assert.ErrorIs(t, err, arena.ErrAborted)
		assert.Zero(t, result.Tally.Total())
	})
}

func TestProgressSinkSelection(t *testing.T) {
	cfg := testConfig()
	assert.Nil(t, progressSink(cfg, &bytes.Buffer{}, zerolog.Nop()))

	cfg.Progress.Enabled = true
	cfg.Players.Two = "human"
	_, ok := progressSink(cfg, os.Stderr, zerolog.Nop()).(*progress.LogSink)
	assert.True(t, ok, "a human player never gets the bar")
}

func TestRunRecordsFaults(t *testing.T) {
	cfg := testConfig()
	cfg.Arena.Episodes = 2
	cfg.Players.One = "human"

	result, err := Run(context.Background(), Options{
		Config: cfg,
		Logger: zerolog.Nop(),
		In:     strings.NewReader(""),
		Out:    io.Discard,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Tally.Faults)
	require.Len(t, result.Faults, 2)
	assert.Equal(t, "episode 1 turn 1 seat 1: "+arena.FaultAgentError.String()+": "+io.ErrUnexpectedEOF.Error(), result.Faults[0])
	assert.True(t, strings.HasPrefix(result.Faults[1], "episode 2 turn 2 seat -1: "), result.Faults[1])
}

func TestRunEventFilter(t *testing.T) {
	cfg := testConfig()
	cfg.Arena.Episodes = 2
	cfg.Logging.Events = []string{events.TypeTournamentEnded}

	logger, logs := testutil.BufferLogger()
	_, err := Run(context.Background(), Options{Config: cfg, Logger: *logger})
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(logs.String(), `"message":"Arena event"`))
	assert.Contains(t, logs.String(), `"event_type":"`+events.TypeTournamentEnded+`"`)
}

func TestRunAppliesReloads(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	// the human never answers, so the tournament waits until cancelled
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })

	cfg := testConfig()
	cfg.Players.One = "human"
	reloads := make(chan *config.Config, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := Run(ctx, Options{Config: cfg, Logger: zerolog.Nop(), In: pr, Out: io.Discard, Reloads: reloads})
		done <- err
	}()

	next := testConfig()
	next.Logging.Level = "warn"
	reloads <- next
	assert.Eventually(t, func() bool { return zerolog.GlobalLevel() == zerolog.WarnLevel },
		2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, arena.ErrAborted)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

type verboseSwitch struct {
	verbose bool
}

func (v *verboseSwitch) SetVerbose(verbose bool) { v.verbose = verbose }

func TestLiveApply(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	eventLog := subscribers.NewLoggerSubscriber("logger", zerolog.New(&buf), zerolog.InfoLevel)
	turns := &verboseSwitch{}
	l := live{turns: turns, eventLog: eventLog, logger: zerolog.Nop()}

	cfg := testConfig()
	cfg.Logging.Level = "trace"
	cfg.Logging.Verbose = true
	l.apply(cfg)

	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())
	assert.True(t, turns.verbose)

	eventLog.HandleEvent(events.NewEpisodeStartedEvent("tour-1", arena.EpisodeHeader{Episode: 1, Total: 2}))
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Contains(t, line, "event_data", "trace level turns on dev mode")

	cfg.Logging.Level = "info"
	cfg.Logging.Verbose = false
	l.apply(cfg)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	assert.False(t, turns.verbose)
}
