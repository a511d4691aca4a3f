package searcher

import (
	"uct/game"
)

// treeBoard is an explicit game tree. States are node names, an action is the
// name of the node it leads to and leaves are terminal.
type treeBoard struct {
	first    string
	children map[string][]string
	players  map[string]string // Player to act, alternating from first when absent
	wins     map[string]game.Rewards
	points   map[string]game.Rewards
}

func newTreeBoard(first string, children map[string][]string) *treeBoard {
	return &treeBoard{
		first:    first,
		children: children,
		players:  map[string]string{},
		wins:     map[string]game.Rewards{},
		points:   map[string]game.Rewards{},
	}
}

func (b *treeBoard) history(states ...string) game.History[string] {
	return game.NewHistory(states...)
}

func (b *treeBoard) CurrentPlayer(state string) string {
	if p, ok := b.players[state]; ok {
		return p
	}
	return b.first
}

func (b *treeBoard) LegalActions(history game.History[string]) []string {
	return b.children[history.Last()]
}

func (b *treeBoard) NextState(history game.History[string], action string) string {
	return action
}

func (b *treeBoard) IsEnded(history game.History[string]) bool {
	return len(b.children[history.Last()]) == 0
}

func (b *treeBoard) CompactState(state string) string {
	return state
}

func (b *treeBoard) WinValues(history game.History[string]) game.Rewards {
	return b.wins[history.Last()]
}

func (b *treeBoard) PointsValues(history game.History[string]) game.Rewards {
	return b.points[history.Last()]
}

func (b *treeBoard) JSONAction(action string) any {
	return action
}

// binaryTree builds a complete binary tree of the given depth. Nodes are named
// by their path from the root ("" is the root, "LR" its left child's right
// child) and leaves starting with L are won by the first player.
func binaryTree(depth int) *treeBoard {
	children := map[string][]string{}
	var build func(node string)
	build = func(node string) {
		if len(node) == depth {
			return
		}
		children[node] = []string{node + "L", node + "R"}
		build(node + "L")
		build(node + "R")
	}
	build("")

	b := newTreeBoard("A", children)
	var label func(node string)
	label = func(node string) {
		if len(node)%2 == 1 {
			b.players[node] = "B"
		}
		if len(node) == depth {
			if node[0] == 'L' {
				b.wins[node] = game.Rewards{"A": 1, "B": 0}
			} else {
				b.wins[node] = game.Rewards{"A": 0, "B": 1}
			}
			return
		}
		label(node + "L")
		label(node + "R")
	}
	label("")
	return b
}
