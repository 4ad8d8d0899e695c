package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mitchelldurbincs/arena/internal/arena"
	"github.com/mitchelldurbincs/arena/internal/config"
	"github.com/mitchelldurbincs/arena/internal/pit"
)

// flag name to config key
var pitFlagKeys = map[string]string{
	"episodes":  "arena.episodes",
	"iteration": "arena.iteration",
	"max-turns": "arena.max_turns",
	"policy":    "arena.illegal_action_policy",
	"one":       "players.one",
	"two":       "players.two",
	"game":      "game.name",
	"log-level": "logging.level",
	"verbose":   "logging.verbose",
	"progress":  "progress.enabled",
}

func newPitCmd() *cobra.Command {
	var (
		configPath string
		transcript string
		watch      bool
	)

	cmd := &cobra.Command{
		Use:   "pit",
		Short: "Run a tournament between two players, swapping seats halfway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Init(configPath); err != nil {
				return err
			}
			v := config.GetViper()
			for name, key := range pitFlagKeys {
				if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("transcript") {
				v.Set("transcript.enabled", true)
				v.Set("transcript.path", transcript)
			}
			if err := config.Reload(); err != nil {
				return err
			}

			cfg := config.Get()
			level, _ := config.ParseLevel(cfg.Logging.Level)
			setupLogging(level, cfg.Logging.Format)

			var reloads chan *config.Config
			if watch {
				reloads = make(chan *config.Config, 1)
				config.WatchConfig(func(err error) {
					if err != nil {
						log.Warn().Err(err).Str("path", config.ConfigFilePath()).Msg("Ignoring invalid config change")
						return
					}
					log.Info().Str("path", config.ConfigFilePath()).Msg("Config reloaded")
					// keep only the newest config
					select {
					case <-reloads:
					default:
					}
					reloads <- config.Get()
				})
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result, err := pit.Run(ctx, pit.Options{
				Config:      cfg,
				Logger:      log.Logger,
				In:          cmd.InOrStdin(),
				Out:         cmd.OutOrStdout(),
				ProgressOut: cmd.ErrOrStderr(),
				Reloads:     reloads,
			})
			if result.TournamentID != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s vs %s (wins, losses, draws): %s\n", result.PlayerOne, result.PlayerTwo, result.Tally)
				if result.Tally.Faults > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "faulted episodes: %d\n", result.Tally.Faults)
					for _, fault := range result.Faults {
						fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", fault)
					}
				}
			}
			if err != nil {
				if errors.Is(err, arena.ErrAborted) {
					log.Warn().Err(err).Str("phase", result.Phase.String()).Msg("Tournament aborted")
				} else {
					log.Error().Err(err).Msg("Tournament failed")
				}
				return err
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "Path to config file")
	flags.Int("episodes", 20, "Number of episodes, rounded down to an even number")
	flags.Int("iteration", 0, "Training iteration shown in episode tags")
	flags.Int("max-turns", 0, "Turn cap per episode (0 for unbounded)")
	flags.String("policy", "strict", "Illegal action policy (strict, lenient)")
	flags.String("one", "", "Player one, e.g. minimax:depth=9")
	flags.String("two", "", "Player two, e.g. random:seed=1")
	flags.String("game", "", "Game to play (tictactoe, nim)")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&transcript, "transcript", "", "Write the game history to this file")
	flags.Bool("verbose", false, "Record every turn in the game history")
	flags.Bool("progress", true, "Show tournament progress")
	flags.BoolVar(&watch, "watch", false, "Apply logging changes to the config file while the tournament runs")

	return cmd
}
