package experiments

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"uct/engine"
	"uct/experiments/metrics"
	"uct/game"
	"uct/searcher"
)

const (
	NumGames   = 10                    // Per arena
	TimeBudget = 10 * time.Millisecond // Per decision of agents configured with neither duration nor simulations
)

// Arena pits two searcher configurations against each other. Seats rotate
// every game so both agents move first equally often.
type Arena struct {
	Name        string
	Players     []string // Seat order, Agents[0] takes Players[0] in even games
	Agents      [2]metrics.AgentConfig
	Games       int
	Parallelism int    // Games played at once, 1 when not positive
	Seed        uint64 // Base seed of every searcher, random when zero
	OutputDir   string // CSV records are written here unless empty
}

type Summary struct {
	Wins            map[int]int // By AgentConfig.ID
	Draws           int
	MeanSimulations float64 // Per searched decision
	StdSimulations  float64
	MeanMoves       float64 // Per game
}

type Report struct {
	Games   []metrics.GameRecord
	Moves   []metrics.MoveRecord
	Summary Summary
	Dir     string // Where the records were written
}

type gameResult struct {
	record metrics.GameRecord
	moves  []metrics.MoveMetric
	seats  map[string]int // Player to AgentConfig.ID
}

func Run[S comparable, A any](ctx context.Context, board game.Board[S, A], initial S, arena Arena) (Report, error) {
	if len(arena.Players) != 2 {
		return Report{}, fmt.Errorf("arena needs 2 players, got %d", len(arena.Players))
	}
	if arena.Agents[0].ID == arena.Agents[1].ID {
		return Report{}, fmt.Errorf("arena agents need distinct IDs, both are %d", arena.Agents[0].ID)
	}
	games := arena.Games
	if games <= 0 {
		games = NumGames
	}

	log.Info().Msgf("starting %s experiment between agent1=%+v and agent2=%+v...", arena.Name, arena.Agents[0], arena.Agents[1])

	results := make([]gameResult, games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(arena.Parallelism, 1))
	for i := 0; i < games; i++ {
		g.Go(func() error {
			result, err := runGame(ctx, board, initial, arena, i)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			results[i] = result
			log.Info().Msgf("completed game %d of %d with winner: %q", i+1, games, result.record.Winner)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	report := summarize(results)
	log.Info().Msgf("completed %s experiment: %+v", arena.Name, report.Summary)

	if arena.OutputDir != "" {
		dir, err := store(arena, report)
		if err != nil {
			return report, err
		}
		report.Dir = dir
	}
	return report, nil
}

// runGame executes a single game between the two agents and returns its records
func runGame[S comparable, A any](ctx context.Context, board game.Board[S, A], initial S, arena Arena, i int) (gameResult, error) {
	agents := map[string]searcher.Agent[S, A]{}
	seats := map[string]int{}
	for j, player := range arena.Players {
		config := arena.Agents[(i+j)%2]
		var seed uint64
		if arena.Seed != 0 {
			seed = arena.Seed + uint64(2*i+j)
		}
		agents[player] = createMCTS(board, config, seed)
		seats[player] = config.ID
	}

	result, err := engine.NewLocal(board, initial, agents).Run(ctx)
	if err != nil {
		return gameResult{}, err
	}

	return gameResult{
		record: metrics.GameRecord{
			ID:         i + 1,
			Agent1:     seats[arena.Players[0]],
			Agent2:     seats[arena.Players[1]],
			GameMetric: result.Game,
		},
		moves: result.Moves,
		seats: seats,
	}, nil
}

func createMCTS[S comparable, A any](board game.Board[S, A], config metrics.AgentConfig, seed uint64) *searcher.MCTS[S, A] {
	options := []searcher.Option{}

	if config.Strategy != "" {
		strategy, err := searcher.ParseStrategy(config.Strategy)
		if err != nil {
			panic(fmt.Sprintf("agent %d: %v", config.ID, err))
		}
		options = append(options, searcher.WithStrategy(strategy))
	}
	switch {
	case config.Duration > 0:
		options = append(options, searcher.WithDuration(config.Duration))
	case config.Simulations == 0:
		options = append(options, searcher.WithDuration(TimeBudget))
	}
	if config.Simulations > 0 {
		options = append(options, searcher.WithSimulations(config.Simulations))
	}
	if config.MaxActions > 0 {
		options = append(options, searcher.WithMaxActions(config.MaxActions))
	}
	// C is always applied, 0 searches without exploration
	options = append(options, searcher.WithExploration(config.C))
	if seed != 0 {
		options = append(options, searcher.WithSeed(seed))
	}

	options = append(options, searcher.WithMetrics(metrics.NewCollector()))
	return searcher.NewMCTS(board, options...)
}

func summarize(results []gameResult) Report {
	report := Report{Summary: Summary{Wins: map[int]int{}}}
	var simulations, moves []float64
	for _, r := range results {
		report.Games = append(report.Games, r.record)
		moves = append(moves, float64(r.record.TotalMoves))
		if r.record.Winner == "" {
			report.Summary.Draws++
		} else {
			report.Summary.Wins[r.seats[r.record.Winner]]++
		}
		for _, mm := range r.moves {
			report.Moves = append(report.Moves, metrics.MoveRecord{Game: r.record.ID, MoveMetric: mm})
			if mm.Simulations > 0 {
				simulations = append(simulations, float64(mm.Simulations))
			}
		}
	}

	if len(simulations) > 0 {
		report.Summary.MeanSimulations, report.Summary.StdSimulations = stat.MeanStdDev(simulations, nil)
		if len(simulations) < 2 {
			report.Summary.StdSimulations = 0
		}
	}
	if len(moves) > 0 {
		report.Summary.MeanMoves = stat.Mean(moves, nil)
	}
	return report
}

func store(arena Arena, report Report) (string, error) {
	writer, err := metrics.NewWriter(arena.OutputDir, arena.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(arena.Agents[:]); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")
	if err := writer.WriteGameRecords(report.Games); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")
	if err := writer.WriteMoveRecords(report.Moves); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")
	return writer.Dir(), nil
}
