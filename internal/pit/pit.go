// Package pit assembles a tournament from configuration: the game, both
// players, the event bus with its subscribers and the progress display.
package pit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/arena/internal/arena"
	"github.com/mitchelldurbincs/arena/internal/config"
	"github.com/mitchelldurbincs/arena/internal/events"
	"github.com/mitchelldurbincs/arena/internal/events/subscribers"
	"github.com/mitchelldurbincs/arena/internal/games/nim"
	"github.com/mitchelldurbincs/arena/internal/games/tictactoe"
	"github.com/mitchelldurbincs/arena/internal/players"
	"github.com/mitchelldurbincs/arena/internal/progress"
)

// ErrUnknownGame is returned for a game name without rules
var ErrUnknownGame = errors.New("unknown game")

// Options holds the configuration and the streams of a run
type Options struct {
	Config *config.Config
	Logger zerolog.Logger

	// In and Out are handed to human players
	In  io.Reader
	Out io.Writer
	// ProgressOut receives the progress bar
	ProgressOut io.Writer

	// Reloads delivers configs re-read while the tournament runs. Only the
	// logging settings take effect, the tournament itself is fixed at start.
	Reloads <-chan *config.Config
}

// Result summarizes a finished or aborted tournament
type Result struct {
	TournamentID string
	PlayerOne    string
	PlayerTwo    string
	Tally        arena.Tally
	Phase        arena.Phase
	Transcript   string
	// Faults describes every agent fault, in order
	Faults []string
}

// Run plays the tournament described by opts.Config. On abort the partial
// result is returned together with the error.
func Run(ctx context.Context, opts Options) (Result, error) {
	if opts.Config == nil {
		return Result{}, fmt.Errorf("pit: no configuration")
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ProgressOut == nil {
		opts.ProgressOut = os.Stderr
	}

	switch opts.Config.Game.Name {
	case config.GameTicTacToe:
		return play[tictactoe.Board, tictactoe.Action](ctx, tictactoe.New(), opts)
	case config.GameNim:
		return play[nim.State, nim.Action](ctx, nim.New(opts.Config.Game.Nim.Stones, opts.Config.Game.Nim.MaxTake), opts)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownGame, opts.Config.Game.Name)
	}
}

func play[S any, A comparable](ctx context.Context, rules arena.GameRules[S, A], opts Options) (Result, error) {
	cfg := opts.Config
	logger := opts.Logger.With().Str("game", cfg.Game.Name).Logger()
	result := Result{PlayerOne: cfg.Players.One, PlayerTwo: cfg.Players.Two}

	policy, err := arena.ParsePolicy(cfg.Arena.IllegalActionPolicy)
	if err != nil {
		return result, err
	}

	playerOpts := players.Options{In: opts.In, Out: opts.Out}
	one, err := players.New[S, A](cfg.Players.One, rules, playerOpts)
	if err != nil {
		return result, fmt.Errorf("player one: %w", err)
	}
	two, err := players.New[S, A](cfg.Players.Two, rules, playerOpts)
	if err != nil {
		return result, fmt.Errorf("player two: %w", err)
	}

	bus := events.NewEventBusWithLogger(logger)
	eventLog := subscribers.NewLoggerSubscriber("logger", logger, zerolog.DebugLevel)
	eventLog.SetEventFilter(cfg.Logging.Events)
	eventLog.SetDevMode(isTrace(cfg))
	bus.Subscribe(eventLog)
	bus.SubscribeFunc(events.TypeAgentFault, func(e events.Event) {
		if f, ok := e.(*events.AgentFaultEvent); ok {
			result.Faults = append(result.Faults, describeFault(f))
		}
	})
	if cfg.Transcript.Enabled {
		transcript, err := subscribers.NewTranscriptSubscriber("transcript", cfg.Transcript.Path,
			subscribers.TranscriptFormat(cfg.Transcript.Format), logger)
		if err != nil {
			return result, err
		}
		bus.Subscribe(transcript)
		result.Transcript = transcript.Path()
	}

	adapter := events.NewObserverAdapter[S](bus, cfg.Logging.Verbose)
	if opts.Reloads != nil {
		done := make(chan struct{})
		defer close(done)
		go live{turns: adapter, eventLog: eventLog, logger: logger}.follow(opts.Reloads, done)
	}

	tour := arena.NewTournament[S, A](rules, adapter, arena.TournamentConfig{
		Iteration: cfg.Arena.Iteration,
		PlayerOne: cfg.Players.One,
		PlayerTwo: cfg.Players.Two,
		Episode: arena.EpisodeConfig{
			Policy:   policy,
			MaxTurns: cfg.Arena.MaxTurns,
			Logger:   &logger,
		},
		Progress: progressSink(cfg, opts.ProgressOut, logger),
		Logger:   &logger,
	})
	result.TournamentID = tour.ID()

	result.Tally, err = tour.Run(ctx, one, two, cfg.Arena.Episodes)
	result.Phase = tour.Phase()
	return result, err
}

func describeFault(f *events.AgentFaultEvent) string {
	s := fmt.Sprintf("episode %d turn %d seat %d: %s", f.Episode, f.Turn, f.Seat, f.Fault)
	if f.Error != "" {
		s += ": " + f.Error
	}
	return s
}

func isTrace(cfg *config.Config) bool {
	level, _ := config.ParseLevel(cfg.Logging.Level)
	return level == zerolog.TraceLevel
}

// live applies reloaded logging settings to a running tournament
type live struct {
	turns    interface{ SetVerbose(bool) }
	eventLog *subscribers.LoggerSubscriber
	logger   zerolog.Logger
}

func (l live) follow(reloads <-chan *config.Config, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case cfg, ok := <-reloads:
			if !ok {
				return
			}
			l.apply(cfg)
		}
	}
}

func (l live) apply(cfg *config.Config) {
	level, _ := config.ParseLevel(cfg.Logging.Level)
	zerolog.SetGlobalLevel(level)
	l.turns.SetVerbose(cfg.Logging.Verbose)
	l.eventLog.SetDevMode(level == zerolog.TraceLevel)
	l.logger.Info().
		Str("level", level.String()).
		Bool("verbose", cfg.Logging.Verbose).
		Msg("Applied reloaded logging settings")
}

// progressSink draws a bar unless disabled or a human is typing moves
func progressSink(cfg *config.Config, w io.Writer, logger zerolog.Logger) arena.ProgressSink {
	if !cfg.Progress.Enabled {
		return nil
	}
	for _, description := range []string{cfg.Players.One, cfg.Players.Two} {
		if spec, err := players.ParseSpec(description); err == nil && spec.Name == "human" {
			return progress.NewLogSink(logger, 1)
		}
	}
	return progress.New(w, cfg.Progress.Width, logger)
}
