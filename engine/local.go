package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"uct/experiments/metrics"
	"uct/game"
	"uct/searcher"
)

// Local plays a game between in-process agents, one per player. Agents must
// be distinct values: each is updated with every state of the game.
type Local[S comparable, A any] struct {
	board    game.Board[S, A]
	agents   map[string]searcher.Agent[S, A]
	initial  S
	maxMoves int
}

func NewLocal[S comparable, A any](board game.Board[S, A], initial S, agents map[string]searcher.Agent[S, A]) *Local[S, A] {
	if len(agents) == 0 {
		panic("need at least one agent")
	}
	return &Local[S, A]{
		board:    board,
		agents:   agents,
		initial:  initial,
		maxMoves: MaxMoves,
	}
}

func (e *Local[S, A]) SetMaxMoves(n int) {
	if n > 0 {
		e.maxMoves = n
	}
}

// Run executes the entire game loop until the board reports the game ended.
func (e *Local[S, A]) Run(ctx context.Context) (Result[S], error) {
	initial := e.board.CompactState(e.initial)
	history := game.NewHistory(initial)
	for _, agent := range e.agents {
		agent.Update(initial)
	}

	result := Result[S]{}
	result.Game.StartingPlayer = e.board.CurrentPlayer(initial)
	result.Game.StartTime = time.Now()
	log.Info().Msgf("player %s is starting", result.Game.StartingPlayer)

	for step := 1; !e.board.IsEnded(history); step++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if step > e.maxMoves {
			return result, fmt.Errorf("%w: %d moves", ErrMoveLimit, e.maxMoves)
		}

		player := e.board.CurrentPlayer(history.Last())
		agent, ok := e.agents[player]
		if !ok {
			return result, fmt.Errorf("no agent for player %s", player)
		}

		decision := agent.Decide()
		if !decision.Found {
			return result, fmt.Errorf("%w: player %s at move %d", ErrNoAction, player, step)
		}
		result.Moves = append(result.Moves, moveMetric(step, player, decision))
		log.Debug().Msgf("player %s chose action %v", player, decision.Message)

		next := e.board.CompactState(e.board.NextState(history, decision.Action))
		history.Push(next)
		for _, a := range e.agents {
			a.Update(next)
		}
	}

	result.History = history
	result.Winner = Winner(e.board.WinValues(history))
	result.Game.Winner = result.Winner
	result.Game.EndTime = time.Now()
	result.Game.Duration = result.Game.EndTime.Sub(result.Game.StartTime)
	result.Game.TotalMoves = len(result.Moves)
	log.Info().Msgf("game over after %d moves, winner: %q", result.Game.TotalMoves, result.Winner)
	return result, nil
}

func moveMetric[A any](step int, player string, decision searcher.Decision[A]) metrics.MoveMetric {
	metric := decision.Metric
	metric.C = decision.Extras.C
	metric.MaxActions = decision.Extras.MaxActions
	metric.Simulations = decision.Extras.Games
	metric.MaxDepth = decision.Extras.MaxDepth
	metric.Duration = decision.Extras.Elapsed
	return metrics.MoveMetric{
		Step:         step,
		Player:       player,
		SearchMetric: metric,
	}
}
