package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"uct/config"
	"uct/engine"
	"uct/experiments"
	"uct/experiments/metrics"
	"uct/game/tictactoe"
	"uct/searcher"
)

const usage = `usage: uct <command> [flags]

commands:
  decide      choose an action for a tic-tac-toe position
  selfplay    play a full game between two searchers
  experiment  play many games between two searcher configurations`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "decide":
		err = runDecide(os.Args[2:], os.Stdout)
	case "selfplay":
		err = runSelfPlay(ctx, os.Args[2:], os.Stdout)
	case "experiment":
		err = runExperiment(ctx, os.Args[2:], os.Stdout)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// engineFlags registers the flags shared by every command and returns a
// function loading the config with the flags that were set as overrides.
func engineFlags(fs *flag.FlagSet) func() (*config.Config, error) {
	path := fs.String("config", "", "Config file (yaml, json or toml)")
	fs.Float64("time", searcher.DefaultDuration.Seconds(), "Search budget per decision in seconds")
	fs.Int("max_actions", searcher.DefaultMaxActions, "Maximum actions per simulation")
	fs.Float64("C", searcher.DefaultC, "UCB1 exploration constant")
	fs.String("strategy", searcher.WinRate.String(), "Ranking strategy: wins or values")
	fs.Int("simulations", 0, "Simulations per decision, replaces time when positive")
	fs.Uint64("seed", 0, "Random seed, random when zero")
	fs.String("log_level", zerolog.InfoLevel.String(), "Log level")

	return func() (*config.Config, error) {
		overrides := map[string]any{}
		fs.Visit(func(f *flag.Flag) {
			if f.Name != "config" {
				overrides[f.Name] = f.Value.(flag.Getter).Get()
			}
		})
		cfg, err := config.Load(*path, overrides)
		if err != nil {
			return nil, err
		}
		setupLogger(cfg.Level())
		return cfg, nil
	}
}

func setupLogger(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
}

func runDecide(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("decide", flag.ContinueOnError)
	position := fs.String("position", ".........", "Position as 9 cells of X, O and . (slashes allowed)")
	format := fs.String("format", "json", "Output format: json or yaml")
	load := engineFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := load()
	if err != nil {
		return err
	}
	state, err := tictactoe.Parse(*position)
	if err != nil {
		return err
	}

	m := searcher.NewMCTS[tictactoe.State, tictactoe.Action](tictactoe.Board{}, cfg.Options()...)
	m.Update(state)
	return encode(out, *format, m.Decide())
}

func runSelfPlay(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("selfplay", flag.ContinueOnError)
	load := engineFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := load()
	if err != nil {
		return err
	}

	agents := map[string]searcher.Agent[tictactoe.State, tictactoe.Action]{}
	for i, player := range []string{tictactoe.X, tictactoe.O} {
		options := cfg.Options()
		if cfg.Seed != 0 {
			// Distinct streams for the two engines
			options = append(options, searcher.WithSeed(cfg.Seed+uint64(i)))
		}
		agents[player] = searcher.NewMCTS[tictactoe.State, tictactoe.Action](tictactoe.Board{}, options...)
	}

	result, err := engine.NewLocal[tictactoe.State, tictactoe.Action](tictactoe.Board{}, tictactoe.State{}, agents).Run(ctx)
	if err != nil {
		return err
	}
	for i, state := range result.History.States() {
		fmt.Fprintf(out, "%d %s\n", i, state)
	}
	winner := result.Winner
	if winner == "" {
		winner = "draw"
	}
	fmt.Fprintf(out, "winner: %s\n", winner)
	return nil
}

func runExperiment(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("experiment", flag.ContinueOnError)
	name := fs.String("name", "arena", "Experiment name")
	games := fs.Int("games", experiments.NumGames, "Number of games")
	parallelism := fs.Int("parallelism", 4, "Games played at once")
	output := fs.String("output", "experiments", "Directory for CSV records, empty to skip")
	opponent := fs.Int("opponent_simulations", 0, "Simulations of the second agent, defaults to the first agent's")
	load := engineFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := load()
	if err != nil {
		return err
	}

	first := metrics.AgentConfig{
		ID:          1,
		Strategy:    cfg.Strategy,
		Duration:    cfg.Duration(),
		Simulations: cfg.Simulations,
		MaxActions:  cfg.MaxActions,
		C:           cfg.C,
	}
	second := first
	second.ID = 2
	if *opponent > 0 {
		second.Simulations = *opponent
	}

	report, err := experiments.Run(ctx, tictactoe.Board{}, tictactoe.State{}, experiments.Arena{
		Name:        *name,
		Players:     []string{tictactoe.X, tictactoe.O},
		Agents:      [2]metrics.AgentConfig{first, second},
		Games:       *games,
		Parallelism: *parallelism,
		Seed:        cfg.Seed,
		OutputDir:   *output,
	})
	if err != nil {
		return err
	}
	return encode(out, "yaml", report.Summary)
}

func encode(out io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(v)
	}
	return fmt.Errorf("unknown format %q", format)
}
