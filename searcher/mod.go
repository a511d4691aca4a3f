package searcher

import (
	"math"
)

type Agent[S comparable, A any] interface {
	Update(state S)
	Decide() Decision[A]
}

// ucb1 scores s against siblings whose visits sum to exp(logTotal). Unvisited
// stats count as visited once.
func ucb1(s Stat, c float64, logTotal float64) float64 {
	visits := float64(max(s.Visits, 1))
	return s.Value/visits + c*math.Sqrt(logTotal/visits)
}
