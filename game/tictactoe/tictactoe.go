// Package tictactoe is a small Board used to exercise the searcher end to end.
package tictactoe

import (
	"fmt"
	"strings"

	"uct/game"
)

const (
	X = "X"
	O = "O"
)

// Cell values of a State.
const (
	Empty byte = iota
	MarkX
	MarkO
)

var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// State is a position together with the mark of whoever produced it.
// The zero value is the empty board with X to move.
type State struct {
	Cells [9]byte
	Moved byte // mark of the player who made the last move, Empty at the start
}

// Action is the index of the cell to mark, 0 through 8 row by row.
type Action int

// Parse reads a position written as 9 characters of 'X', 'O' and '.' or '-'.
// The mover is inferred from the mark counts.
func Parse(s string) (State, error) {
	var st State
	s = strings.ReplaceAll(s, "/", "")
	if len(s) != 9 {
		return st, fmt.Errorf("tictactoe: position %q must have 9 cells", s)
	}
	xs, os := 0, 0
	for i, c := range strings.ToUpper(s) {
		switch c {
		case 'X':
			st.Cells[i] = MarkX
			xs++
		case 'O':
			st.Cells[i] = MarkO
			os++
		case '.', '-':
		default:
			return st, fmt.Errorf("tictactoe: invalid cell %q", c)
		}
	}
	switch {
	case xs == os && xs == 0:
		st.Moved = Empty
	case xs == os:
		st.Moved = MarkO
	case xs == os+1:
		st.Moved = MarkX
	default:
		return st, fmt.Errorf("tictactoe: impossible mark counts X=%d O=%d", xs, os)
	}
	return st, nil
}

func (s State) String() string {
	var b strings.Builder
	for i, c := range s.Cells {
		if i > 0 && i%3 == 0 {
			b.WriteByte('/')
		}
		switch c {
		case MarkX:
			b.WriteByte('X')
		case MarkO:
			b.WriteByte('O')
		default:
			b.WriteByte('.')
		}
	}
	return b.String()
}

// Winner returns the winning mark, or Empty when nobody has three in a row.
func (s State) Winner() byte {
	for _, l := range lines {
		c := s.Cells[l[0]]
		if c != Empty && c == s.Cells[l[1]] && c == s.Cells[l[2]] {
			return c
		}
	}
	return Empty
}

func (s State) empties() int {
	n := 0
	for _, c := range s.Cells {
		if c == Empty {
			n++
		}
	}
	return n
}

// Board implements game.Board for tic-tac-toe.
type Board struct{}

var _ game.Board[State, Action] = Board{}

func (Board) CurrentPlayer(state State) string {
	if state.Moved == MarkX {
		return O
	}
	return X
}

func (b Board) LegalActions(history game.History[State]) []Action {
	if b.IsEnded(history) {
		return nil
	}
	state := history.Last()
	actions := make([]Action, 0, 9)
	for i, c := range state.Cells {
		if c == Empty {
			actions = append(actions, Action(i))
		}
	}
	return actions
}

func (b Board) NextState(history game.History[State], action Action) State {
	state := history.Last()
	if action < 0 || action > 8 || state.Cells[action] != Empty {
		panic(fmt.Sprintf("tictactoe: illegal action %d at %s", action, state))
	}
	mark := markOf(b.CurrentPlayer(state))
	state.Cells[action] = mark
	state.Moved = mark
	return state
}

func (Board) IsEnded(history game.History[State]) bool {
	state := history.Last()
	return state.Winner() != Empty || state.empties() == 0
}

func (Board) CompactState(state State) State {
	return state
}

func (Board) WinValues(history game.History[State]) game.Rewards {
	switch history.Last().Winner() {
	case MarkX:
		return game.Rewards{X: 1, O: 0}
	case MarkO:
		return game.Rewards{X: 0, O: 1}
	}
	return game.Rewards{X: 0.5, O: 0.5}
}

func (Board) PointsValues(history game.History[State]) game.Rewards {
	state := history.Last()
	points := float64(1 + state.empties())
	switch state.Winner() {
	case MarkX:
		return game.Rewards{X: points, O: -points}
	case MarkO:
		return game.Rewards{X: -points, O: points}
	}
	return game.Rewards{X: 0, O: 0}
}

func (Board) JSONAction(action Action) any {
	return int(action)
}

func markOf(player string) byte {
	if player == O {
		return MarkO
	}
	return MarkX
}
