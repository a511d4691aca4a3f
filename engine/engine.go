package engine

import (
	"context"
	"errors"

	"uct/experiments/metrics"
	"uct/game"
)

const MaxMoves = 10000

var (
	ErrNoAction  = errors.New("agent chose no action")
	ErrMoveLimit = errors.New("move limit reached")
)

type Engine[S comparable] interface {
	// Run plays a game till the board reports it ended
	Run(ctx context.Context) (Result[S], error)
}

type Result[S comparable] struct {
	History game.History[S]
	Winner  string // Empty on a draw
	Game    metrics.GameMetric
	Moves   []metrics.MoveMetric
}

// Winner returns the player with the strictly highest reward, or "" on a tie.
func Winner(rewards game.Rewards) string {
	winner := ""
	best := 0.0
	tied := false
	for player, reward := range rewards {
		switch {
		case winner == "" || reward > best:
			winner, best, tied = player, reward, false
		case reward == best:
			tied = true
		}
	}
	if tied {
		return ""
	}
	return winner
}
