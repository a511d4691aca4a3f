package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/require"

	"uct/game"
)

func mustParse(t *testing.T, s string) State {
	t.Helper()
	state, err := Parse(s)
	require.NoError(t, err)
	return state
}

func TestParse(t *testing.T) {
	t.Run("round trips", func(t *testing.T) {
		require.Equal(t, "XO./.X./..O", mustParse(t, "XO./.X./..O").String())
	})

	t.Run("infers the mover", func(t *testing.T) {
		require.Equal(t, Empty, mustParse(t, ".........").Moved)
		require.Equal(t, MarkX, mustParse(t, "X........").Moved)
		require.Equal(t, MarkO, mustParse(t, "XO.......").Moved)
	})

	t.Run("rejects bad positions", func(t *testing.T) {
		for _, s := range []string{"XX.......", "X.", "XOZ......"} {
			_, err := Parse(s)
			require.Error(t, err, s)
		}
	})
}

func TestBoard(t *testing.T) {
	b := Board{}

	t.Run("X moves first and turns alternate", func(t *testing.T) {
		h := game.NewHistory(State{})
		require.Equal(t, X, b.CurrentPlayer(h.Last()))

		next := b.NextState(h, 4)
		require.Equal(t, MarkX, next.Cells[4])
		require.Equal(t, O, b.CurrentPlayer(next))
	})

	t.Run("legal actions are the empty cells", func(t *testing.T) {
		h := game.NewHistory(mustParse(t, "XOX/OXO/..."))
		require.Equal(t, []Action{6, 7, 8}, b.LegalActions(h))
	})

	t.Run("no actions after a win", func(t *testing.T) {
		h := game.NewHistory(mustParse(t, "XXX/OO./..."))
		require.True(t, b.IsEnded(h))
		require.Empty(t, b.LegalActions(h))
	})

	t.Run("illegal actions panic", func(t *testing.T) {
		h := game.NewHistory(mustParse(t, "X........"))
		require.Panics(t, func() { b.NextState(h, 0) })
	})

	t.Run("win values", func(t *testing.T) {
		require.Equal(t, game.Rewards{X: 1, O: 0}, b.WinValues(game.NewHistory(mustParse(t, "XXX/OO./..."))))
		require.Equal(t, game.Rewards{X: 0.5, O: 0.5}, b.WinValues(game.NewHistory(mustParse(t, "XOX/XOO/OXX"))))
	})

	t.Run("point values reward fast wins", func(t *testing.T) {
		rewards := b.PointsValues(game.NewHistory(mustParse(t, "OOO/XX./X..")))
		require.Equal(t, game.Rewards{X: -4, O: 4}, rewards)
	})
}
