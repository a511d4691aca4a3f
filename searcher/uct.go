package searcher

import (
	"math"

	"github.com/samber/lo"

	"uct/game"
)

type candidate[S comparable, A any] struct {
	action A
	state  S
}

// simulate plays one game from the root of work, then credits the table.
//
// Selection follows UCB1 through states already in the table until the first
// state with an unknown child. That state is expanded and the game continues
// with uniformly random actions. Only table entries are credited, so each
// simulation grows the tree by exactly one level of children.
func (m *MCTS[S, A]) simulate(work *game.History[S]) {
	work.Truncate()
	visited := m.visited[:0]
	state := work.Last()
	// player here and below refers to the player who moves into a candidate
	// state
	player := m.board.CurrentPlayer(state)

	expand := true
	for t := 1; t <= m.maxActions; t++ {
		legal := m.board.LegalActions(*work)
		if len(legal) == 0 { // Stalemate the board does not report as ended
			break
		}
		candidates := lo.Map(legal, func(action A, _ int) candidate[S, A] {
			return candidate[S, A]{action: action, state: m.board.NextState(*work, action)}
		})

		if expand {
			states := lo.Map(candidates, func(c candidate[S, A], _ int) S { return c.state })
			if m.stats.Expand(player, states) > 0 {
				expand = false
				if t > m.maxDepth {
					m.maxDepth = t
				}
			}
			// Every candidate has stats now, select with UCB1
			candidates = m.selectMax(player, candidates, states)
		}

		chosen := m.choose(candidates)
		visited = append(visited, Key[S]{Mover: player, State: chosen.state})
		work.Push(chosen.state)
		// Who is the next player to take an action?
		player = m.board.CurrentPlayer(chosen.state)

		if m.board.IsEnded(*work) {
			m.metrics.AddFullPlayout()
			break
		}
	}

	// Back-propagation
	m.stats.Backup(visited, m.rewards(*work))
	m.visited = visited
}

// selectMax keeps the candidates with the maximum UCB1 score, ties included.
func (m *MCTS[S, A]) selectMax(player string, candidates []candidate[S, A], states []S) []candidate[S, A] {
	logTotal := math.Log(float64(max(m.stats.Visits(player, states), 1)))
	scores := lo.Map(candidates, func(c candidate[S, A], _ int) float64 {
		stat, _ := m.stats.Lookup(player, c.state)
		return ucb1(stat, m.c, logTotal)
	})
	best := lo.Max(scores)
	return lo.Filter(candidates, func(_ candidate[S, A], i int) bool {
		return scores[i] == best
	})
}

// choose picks a candidate uniformly at random.
func (m *MCTS[S, A]) choose(candidates []candidate[S, A]) candidate[S, A] {
	return candidates[m.rng.Intn(len(candidates))]
}
