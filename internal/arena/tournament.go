package arena

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TournamentConfig holds the non-generic settings of a tournament
type TournamentConfig struct {
	// ID identifies the tournament in events, generated when empty
	ID string
	// Iteration of the training loop this tournament belongs to
	Iteration int
	// PlayerOne and PlayerTwo are display names of the two agents
	PlayerOne string
	PlayerTwo string
	// Episode configures every episode of the tournament
	Episode EpisodeConfig
	// Progress receives an update after every episode, optional
	Progress ProgressSink
	// Logger used by the tournament, the global logger when nil
	Logger *zerolog.Logger
}

// Tournament runs a batch of episodes between two agents, swapping seats
// halfway through so that neither profits from moving first.
type Tournament[S any, A comparable] struct {
	id       string
	cfg      TournamentConfig
	runner   *EpisodeRunner[S, A]
	observer Observer[S]
	logger   zerolog.Logger
	machine  *phaseMachine
}

// NewTournament creates a tournament on the given rules. observer may be nil.
func NewTournament[S any, A comparable](rules GameRules[S, A], observer Observer[S], cfg TournamentConfig) *Tournament[S, A] {
	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	id := cfg.ID
	if id == "" {
		id = uuid.New().String()
	}

	episodeCfg := cfg.Episode
	if episodeCfg.Logger == nil {
		episodeCfg.Logger = &logger
	}

	t := &Tournament[S, A]{
		id:       id,
		cfg:      cfg,
		observer: observer,
		logger:   logger.With().Str("component", "tournament").Str("tournament_id", id).Logger(),
	}
	if rules != nil {
		t.runner = NewEpisodeRunner(rules, episodeCfg)
	}
	return t
}

// ID returns the tournament identifier
func (t *Tournament[S, A]) ID() string {
	return t.id
}

// Phase returns the phase of the last run, PhaseNotStarted before any
func (t *Tournament[S, A]) Phase() Phase {
	if t.machine == nil {
		return PhaseNotStarted
	}
	return t.machine.current
}

// History returns a copy of the phase transitions of the last run
func (t *Tournament[S, A]) History() []Transition {
	if t.machine == nil {
		return nil
	}
	return t.machine.historyCopy()
}

// run holds the bookkeeping of one Run call
type run struct {
	tally     Tally
	completed int
	total     int
	meter     Meter
	start     time.Time
	end       time.Time
}

// Run plays n episodes: n/2 with playerOne on seat +1, then n/2 with the
// seats swapped. An odd n drops the last episode. The tally always credits
// the original identities. On cancellation the tally of the completed
// episodes is returned together with ErrAborted.
func (t *Tournament[S, A]) Run(ctx context.Context, playerOne, playerTwo Player[S, A], n int) (Tally, error) {
	if t.runner == nil {
		return Tally{}, ErrNoRules
	}
	if playerOne == nil || playerTwo == nil {
		return Tally{}, ErrNoPlayers
	}
	if n < 0 {
		return Tally{}, fmt.Errorf("%w: %d", ErrInvalidEpisodeCount, n)
	}

	phaseObserver, _ := t.observer.(PhaseObserver)
	t.machine = newPhaseMachine(t.id, phaseObserver, t.logger)

	half := n / 2
	if n%2 == 1 {
		t.logger.Warn().
			Int("requested", n).
			Int("episodes", 2*half).
			Msg("Odd episode count, last episode dropped")
	}

	info := TournamentInfo{
		ID:        t.id,
		PlayerOne: t.cfg.PlayerOne,
		PlayerTwo: t.cfg.PlayerTwo,
		Requested: n,
		Episodes:  2 * half,
		Iteration: t.cfg.Iteration,
	}

	opened, err := t.openSinks()
	if err != nil {
		t.machine.abort(err.Error())
		return Tally{}, err
	}
	defer t.closeSinks(opened)

	t.logger.Info().
		Str("player_one", info.PlayerOne).
		Str("player_two", info.PlayerTwo).
		Int("episodes", info.Episodes).
		Int("iteration", info.Iteration).
		Msg("Tournament started")

	tobs, _ := t.observer.(TournamentObserver)
	if tobs != nil {
		tobs.OnTournamentStart(info)
	}

	now := time.Now()
	r := &run{total: 2 * half, start: now, end: now}
	err = t.play(ctx, r, Seating[S, A]{First: playerOne, Second: playerTwo}, half)

	if tobs != nil {
		tobs.OnTournamentEnd(info, r.tally)
	}

	event := t.logger.Info()
	if err != nil {
		event = t.logger.Error().Err(err)
	}
	event.
		Int("player_one_wins", r.tally.FirstPlayerWins).
		Int("player_two_wins", r.tally.SecondPlayerWins).
		Int("draws", r.tally.Draws).
		Int("faults", r.tally.Faults).
		Dur("elapsed", time.Since(r.start)).
		Str("phase", t.machine.current.String()).
		Msg("Tournament finished")

	return r.tally, err
}

// play walks the phase machine through both halves
func (t *Tournament[S, A]) play(ctx context.Context, r *run, seating Seating[S, A], half int) error {
	if err := t.machine.transitionTo(PhaseRunningFirstHalf, "tournament started"); err != nil {
		return err
	}
	if err := t.playHalf(ctx, r, seating, false, half); err != nil {
		t.machine.abort(err.Error())
		return err
	}

	if err := t.machine.transitionTo(PhaseRoleSwapped, "first half tallied"); err != nil {
		return err
	}
	if err := t.machine.transitionTo(PhaseRunningSecondHalf, "seats swapped"); err != nil {
		return err
	}
	if err := t.playHalf(ctx, r, seating.Swapped(), true, half); err != nil {
		t.machine.abort(err.Error())
		return err
	}

	return t.machine.transitionTo(PhaseCompleted, "all episodes tallied")
}

func (t *Tournament[S, A]) playHalf(ctx context.Context, r *run, seating Seating[S, A], swapped bool, n int) error {
	startObserver, _ := t.observer.(EpisodeStartObserver)

	for range n {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrAborted, err)
		}

		episode := r.completed + 1
		if startObserver != nil {
			startObserver.OnEpisodeStart(EpisodeHeader{
				Episode:   episode,
				Total:     r.total,
				Iteration: t.cfg.Iteration,
				Swapped:   swapped,
			})
		}

		result, err := t.runner.Run(ctx, seating, episode, t.observer)
		if err != nil {
			return err
		}

		r.tally.Record(result.Outcome, swapped)
		if result.Faulted() {
			r.tally.Faults++
		}
		r.completed++

		now := time.Now()
		r.meter.Update(now.Sub(r.end))
		r.end = now

		if t.cfg.Progress != nil {
			t.cfg.Progress.Update(Progress{
				Completed:  r.completed,
				Total:      r.total,
				AvgEpisode: r.meter.Avg(),
				Elapsed:    now.Sub(r.start),
				ETA:        r.meter.ETA(r.total - r.completed),
			})
		}
	}
	return nil
}

// openSinks acquires every collaborator implementing Sink. On failure the
// already opened ones are released.
func (t *Tournament[S, A]) openSinks() ([]Sink, error) {
	var candidates []Sink
	if s, ok := t.observer.(Sink); ok {
		candidates = append(candidates, s)
	}
	if s, ok := t.cfg.Progress.(Sink); ok {
		candidates = append(candidates, s)
	}

	opened := make([]Sink, 0, len(candidates))
	for _, s := range candidates {
		if err := s.Open(); err != nil {
			t.closeSinks(opened)
			t.logger.Error().Err(err).Msg("Failed to open sink")
			return nil, fmt.Errorf("%w: %w", ErrSinkUnavailable, err)
		}
		opened = append(opened, s)
	}
	return opened, nil
}

func (t *Tournament[S, A]) closeSinks(sinks []Sink) {
	var errs []error
	for i := len(sinks) - 1; i >= 0; i-- {
		if err := sinks[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		t.logger.Warn().Err(err).Msg("Failed to close sink")
	}
}
