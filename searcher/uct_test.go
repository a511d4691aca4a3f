package searcher

import (
	"testing"

	"github.com/stretchr/testify/require"

	"uct/game"
)

/*
simulation:
- selection: all children in the table -> max UCB1 children, ties broken uniformly
- expansion: first state with an unknown child -> entries for all its children, once per simulation
- rollout: past the expanded state -> uniformly random, never added to the table
- backup: visited keys with entries -> visits++, rewards of their mover
*/

func newTestMCTS(board game.Board[string, string], root string, options ...Option) *MCTS[string, string] {
	m := NewMCTS[string, string](board, append([]Option{WithSeed(1)}, options...)...)
	m.Update(root)
	return m
}

func TestSimulateExpansion(t *testing.T) {
	t.Run("first simulation expands the root only", func(t *testing.T) {
		m := newTestMCTS(binaryTree(4), "")
		work := m.history.Fork()

		m.simulate(&work)

		require.Len(t, m.stats, 2, "Only the root's children should be added")
		_, okL := m.stats.Lookup("A", "L")
		_, okR := m.stats.Lookup("A", "R")
		require.True(t, okL)
		require.True(t, okR)
		require.Equal(t, 1, m.stats.Visits("A", []string{"L", "R"}),
			"Only the expanded level should be credited")
		require.Equal(t, 1, m.maxDepth)
		require.Equal(t, 5, work.Len(), "Rollout should continue to a leaf")
	})

	t.Run("each simulation adds entries at a single depth", func(t *testing.T) {
		m := newTestMCTS(binaryTree(3), "")
		work := m.history.Fork()

		for i := 0; i < 200; i++ {
			before := map[Key[string]]bool{}
			for key := range m.stats {
				before[key] = true
			}

			m.simulate(&work)

			depths := map[int]bool{}
			added := 0
			for key := range m.stats {
				if !before[key] {
					depths[len(key.State)] = true
					added++
				}
			}
			require.Contains(t, []int{0, 2}, added, "Simulation %d should expand one node at most", i)
			require.LessOrEqual(t, len(depths), 1, "Simulation %d should add entries at one depth", i)
		}
		// UCB1 may abandon a losing subtree before expanding all of it
		require.LessOrEqual(t, len(m.stats), 14, "7 internal nodes with 2 children each")
		require.GreaterOrEqual(t, m.maxDepth, 2)
		require.LessOrEqual(t, m.maxDepth, 3)
	})

	t.Run("visits never decrease", func(t *testing.T) {
		m := newTestMCTS(binaryTree(3), "")
		work := m.history.Fork()
		last := map[Key[string]]int{}

		for i := 0; i < 50; i++ {
			m.simulate(&work)
			for key, stat := range m.stats {
				require.GreaterOrEqual(t, stat.Visits, last[key])
				last[key] = stat.Visits
			}
		}
	})

	t.Run("simulations do not leak into the shared history", func(t *testing.T) {
		m := newTestMCTS(binaryTree(3), "")
		work := m.history.Fork()

		m.simulate(&work)
		m.simulate(&work)

		require.Equal(t, 1, m.history.Len())
		require.Equal(t, "", m.history.Last())
	})
}

func TestSimulateCutoff(t *testing.T) {
	m := newTestMCTS(binaryTree(10), "", WithMaxActions(3))
	work := m.history.Fork()

	m.simulate(&work)

	require.Equal(t, 4, work.Len(), "Playout should stop at the depth cap")
	require.Equal(t, 1, m.stats.Visits("A", []string{"L", "R"}))
}

func TestSimulateBackup(t *testing.T) {
	t.Run("credits each mover with its own reward", func(t *testing.T) {
		board := binaryTree(2)
		m := newTestMCTS(board, "")
		work := m.history.Fork()

		// Two simulations expand the root and one of its children
		m.simulate(&work)
		m.simulate(&work)

		total := 0
		for key, stat := range m.stats {
			total += stat.Visits
			if len(key.State) == 2 {
				require.Equal(t, "B", key.Mover, "Second level is moved into by B")
				require.Equal(t, board.wins[key.State]["B"]*float64(stat.Visits), stat.Value)
			} else {
				require.Equal(t, "A", key.Mover)
			}
		}
		require.Equal(t, 3, total, "Root children twice, the second level once")
	})
}

func TestSelectMax(t *testing.T) {
	t.Run("keeps the maximum", func(t *testing.T) {
		m := newTestMCTS(binaryTree(1), "")
		m.stats = Table[string]{
			{Mover: "A", State: "L"}: {Value: 9, Visits: 10},
			{Mover: "A", State: "R"}: {Value: 1, Visits: 10},
		}
		candidates := []candidate[string, string]{{"L", "L"}, {"R", "R"}}

		got := m.selectMax("A", candidates, []string{"L", "R"})

		require.Equal(t, []candidate[string, string]{{"L", "L"}}, got)
	})

	t.Run("keeps ties", func(t *testing.T) {
		m := newTestMCTS(binaryTree(1), "")
		m.stats.Expand("A", []string{"L", "R"})
		candidates := []candidate[string, string]{{"L", "L"}, {"R", "R"}}

		got := m.selectMax("A", candidates, []string{"L", "R"})

		require.Equal(t, candidates, got)
	})

	t.Run("unvisited children win over explored ones", func(t *testing.T) {
		m := newTestMCTS(binaryTree(1), "")
		m.stats = Table[string]{
			{Mover: "A", State: "L"}: {Value: 1, Visits: 50},
			{Mover: "A", State: "R"}: {Value: 0, Visits: 0},
		}
		candidates := []candidate[string, string]{{"L", "L"}, {"R", "R"}}

		got := m.selectMax("A", candidates, []string{"L", "R"})

		require.Equal(t, []candidate[string, string]{{"R", "R"}}, got)
	})
}

func TestSimulateBreaksTiesUniformly(t *testing.T) {
	board := newTreeBoard("A", map[string][]string{"": {"L", "R"}})
	board.wins["L"] = game.Rewards{"A": 0, "B": 0}
	board.wins["R"] = game.Rewards{"A": 0, "B": 0}
	// Without exploration and rewards every child scores 0
	m := newTestMCTS(board, "", WithExploration(0), WithSeed(7))
	work := m.history.Fork()

	for i := 0; i < 2000; i++ {
		m.simulate(&work)
	}

	l, _ := m.stats.Lookup("A", "L")
	r, _ := m.stats.Lookup("A", "R")
	require.Equal(t, 2000, l.Visits+r.Visits)
	require.InDelta(t, 1000, l.Visits, 150)
	require.InDelta(t, 1000, r.Visits, 150)
}

func TestChooseIsUniform(t *testing.T) {
	m := newTestMCTS(binaryTree(1), "", WithSeed(42))
	candidates := []candidate[string, string]{{"L", "L"}, {"R", "R"}}

	counts := map[string]int{}
	for i := 0; i < 10000; i++ {
		counts[m.choose(candidates).action]++
	}

	require.InDelta(t, 5000, counts["L"], 300)
	require.InDelta(t, 5000, counts["R"], 300)
}
