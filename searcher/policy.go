package searcher

import (
	"cmp"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"uct/game"
)

// Strategy selects how playouts are rewarded and how root actions are scored.
type Strategy int

const (
	// WinRate rewards playouts with the board's bounded win values and scores
	// actions by win percentage.
	WinRate Strategy = iota
	// PointValue rewards playouts with the board's point totals and scores
	// actions by average points.
	PointValue
)

func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "", "wins", "winrate", "win-rate":
		return WinRate, nil
	case "values", "points", "pointvalue", "point-value":
		return PointValue, nil
	}
	return 0, fmt.Errorf("unknown strategy %q", s)
}

func (s Strategy) String() string {
	switch s {
	case WinRate:
		return "wins"
	case PointValue:
		return "values"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// Name is the engine name reported with every decision.
func (s Strategy) Name() string {
	if s == PointValue {
		return "jrb.mcts.uctv"
	}
	return "jrb.mcts.uct"
}

// Score converts the stat of a root action into its ranking score: a
// percentage for WinRate, a mean for PointValue.
func (s Strategy) Score(stat Stat) float64 {
	if s == PointValue {
		return stat.Average()
	}
	return 100 * stat.Average()
}

// Format renders a ranked action for logs.
func (s Strategy) Format(v any, score, sum float64, plays int) string {
	if s == PointValue {
		return fmt.Sprintf("%v: %.1f (%g / %d)", v, score, sum, plays)
	}
	return fmt.Sprintf("%v: %.2f%% (%g / %d)", v, score, sum, plays)
}

func (s Strategy) valid() bool {
	return s == WinRate || s == PointValue
}

func rewarder[S comparable, A any](s Strategy, board game.Board[S, A]) func(game.History[S]) game.Rewards {
	if s == PointValue {
		return board.PointsValues
	}
	return board.WinValues
}

// ActionValue is one scored root action. It is serialized with the field
// names of its strategy: percent and wins for WinRate, average and sum for
// PointValue.
type ActionValue[A any] struct {
	Action   A
	Message  any // Serialized action
	Score    float64
	Sum      float64
	Plays    int
	Strategy Strategy
}

type winRecord struct {
	Action  any     `json:"action" yaml:"action"`
	Percent float64 `json:"percent" yaml:"percent"`
	Wins    float64 `json:"wins" yaml:"wins"`
	Plays   int     `json:"plays" yaml:"plays"`
}

type valueRecord struct {
	Action  any     `json:"action" yaml:"action"`
	Average float64 `json:"average" yaml:"average"`
	Sum     float64 `json:"sum" yaml:"sum"`
	Plays   int     `json:"plays" yaml:"plays"`
}

func (v ActionValue[A]) record() any {
	if v.Strategy == PointValue {
		return valueRecord{Action: v.Message, Average: v.Score, Sum: v.Sum, Plays: v.Plays}
	}
	return winRecord{Action: v.Message, Percent: v.Score, Wins: v.Sum, Plays: v.Plays}
}

func (v ActionValue[A]) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.record())
}

func (v ActionValue[A]) MarshalYAML() (any, error) {
	return v.record(), nil
}

// rank scores every legal root action of player from the table and orders
// them best first, breaking ties by visits.
func rank[S comparable, A any](s Strategy, table Table[S], board game.Board[S, A], history game.History[S], player string, legal []A) []ActionValue[A] {
	values := make([]ActionValue[A], 0, len(legal))
	for _, action := range legal {
		// Missing entries rank as unvisited
		stat, _ := table.Lookup(player, board.NextState(history, action))
		values = append(values, ActionValue[A]{
			Action:   action,
			Message:  board.JSONAction(action),
			Score:    s.Score(stat),
			Sum:      stat.Value,
			Plays:    stat.Visits,
			Strategy: s,
		})
	}

	slices.SortStableFunc(values, func(a, b ActionValue[A]) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(b.Plays, a.Plays)
	})
	return values
}
