package game

// Rewards maps a player to the reward it earns from a finished (or cut off)
// playout. Players missing from the map earn 0.
type Rewards map[string]float64

// Board is the rule set a searcher plays against. Every method must be a pure
// function of its arguments: the searcher calls them many times per decision
// and never expects side effects.
//
// States must be comparable so they can key the statistics table, and should
// already be in their canonical form (see CompactState).
type Board[S comparable, A any] interface {
	// CurrentPlayer returns the player to act at state.
	CurrentPlayer(state S) string
	// LegalActions returns the actions available at the last state of history.
	// It is empty only at terminal or stalemated positions.
	LegalActions(history History[S]) []A
	// NextState returns the state reached by playing action after history.
	NextState(history History[S], action A) S
	// IsEnded reports whether the game is over at the last state of history.
	IsEnded(history History[S]) bool
	// CompactState returns the canonical form of state.
	CompactState(state S) S
	// WinValues scores history with bounded win/loss/draw rewards.
	WinValues(history History[S]) Rewards
	// PointsValues scores history with unbounded point totals.
	PointsValues(history History[S]) Rewards
	// JSONAction converts action into a value that can be sent over the wire.
	JSONAction(action A) any
}
