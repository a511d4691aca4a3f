package searcher

import (
	"math"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"lukechampine.com/frand"

	"uct/experiments/metrics"
	"uct/game"
)

type Option func(s *settings)

type settings struct {
	duration    time.Duration
	simulations int
	maxActions  int
	c           float64
	strategy    Strategy
	rng         *rand.Rand
	metrics     metrics.Collector
}

// WithDuration sets the wall-clock budget of a decision. A running simulation
// always completes, so a decision may overrun it by one simulation.
func WithDuration(duration time.Duration) Option {
	return func(s *settings) {
		if duration > 0 {
			s.duration = duration
		}
	}
}

// WithSimulations runs exactly n simulations per decision instead of searching
// for a duration.
func WithSimulations(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.simulations = n
		}
	}
}

// WithMaxActions caps the number of actions played by one simulation.
func WithMaxActions(depth int) Option {
	return func(s *settings) {
		if depth > 0 {
			s.maxActions = depth
		}
	}
}

// WithExploration sets the UCB1 exploration constant.
func WithExploration(c float64) Option {
	return func(s *settings) {
		if c >= 0 {
			s.c = c
		}
	}
}

func WithStrategy(strategy Strategy) Option {
	return func(s *settings) {
		s.strategy = strategy
	}
}

// WithRand makes tie breaks and rollouts draw from r.
func WithRand(r *rand.Rand) Option {
	return func(s *settings) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithSeed seeds tie breaks and rollouts, making decisions reproducible when
// combined with WithSimulations.
func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(s *settings) {
		if collector != nil {
			s.metrics = collector
		}
	}
}

// MCTS chooses actions for a board with UCT. It keeps the game history fed by
// Update and rebuilds its statistics table from scratch on every Decide.
//
// An MCTS is not safe for concurrent use.
type MCTS[S comparable, A any] struct {
	settings
	board   game.Board[S, A]
	rewards func(game.History[S]) game.Rewards
	history game.History[S]

	stats    Table[S]
	visited  []Key[S]
	maxDepth int
}

func NewMCTS[S comparable, A any](board game.Board[S, A], options ...Option) *MCTS[S, A] {
	if board == nil {
		panic("searcher: nil board")
	}
	s := settings{ // Default values
		duration:   DefaultDuration,
		maxActions: DefaultMaxActions,
		c:          DefaultC,
		strategy:   WinRate,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(&s)
	}
	if !s.strategy.valid() {
		panic("searcher: unknown strategy " + s.strategy.String())
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(frand.Uint64n(math.MaxUint64)))
	}
	return &MCTS[S, A]{
		settings: s,
		board:    board,
		rewards:  rewarder(s.strategy, board),
		stats:    Table[S]{},
	}
}

func (m *MCTS[S, A]) Name() string {
	return m.strategy.Name()
}

// Update appends the canonical form of state to the history. The last state
// appended is the root of the next decision.
func (m *MCTS[S, A]) Update(state S) {
	m.history.Push(m.board.CompactState(state))
}

// History returns a view of the game history. Pushing to it does not affect
// the engine.
func (m *MCTS[S, A]) History() game.History[S] {
	return m.history.Fork()
}

// Decide searches from the last state of the history and returns the best
// action found. Without legal actions the decision carries no action; with a
// single one it is returned without searching.
func (m *MCTS[S, A]) Decide() Decision[A] {
	m.maxDepth = 0
	clear(m.stats)
	decision := Decision[A]{
		Type: ActionMessage,
		Extras: Extras[A]{
			C:          m.c,
			MaxActions: m.maxActions,
			Name:       m.Name(),
		},
	}

	if m.history.Len() == 0 {
		panic("searcher: empty history, Update must be called before Decide")
	}
	// Flatten once so every simulation forks a shared prefix for free
	m.history = m.history.Fork()
	root := m.history
	state := root.Last()
	player := m.board.CurrentPlayer(state)
	legal := m.board.LegalActions(root)

	// Bail out early if there is no real choice to be made
	if len(legal) == 0 {
		log.Debug().Str("player", player).Msg("no legal actions")
		return decision
	}
	if len(legal) == 1 {
		log.Debug().Str("player", player).Msg("single legal action, skipping search")
		decision.Action = legal[0]
		decision.Found = true
		decision.Message = m.board.JSONAction(legal[0])
		return decision
	}

	m.metrics.Start(m.strategy.String(), m.c, m.maxActions)
	work := root.Fork()
	games := 0
	begin := time.Now()
	for m.searching(games, begin) {
		m.simulate(&work)
		games++
		m.metrics.AddSimulation()
	}
	elapsed := time.Since(begin)
	m.metrics.SetMaxDepth(m.maxDepth)

	log.Info().Int("games", games).Dur("time", elapsed).Msg("search complete")
	log.Info().Int("max_depth", m.maxDepth).Msg("maximum depth searched")

	actions := rank(m.strategy, m.stats, m.board, root, player, legal)
	for _, v := range actions {
		log.Debug().Msg(m.strategy.Format(v.Message, v.Score, v.Sum, v.Plays))
	}

	decision.Extras.Games = games
	decision.Extras.MaxDepth = m.maxDepth
	decision.Extras.Time = strconv.FormatFloat(elapsed.Seconds(), 'f', -1, 64)
	decision.Extras.Elapsed = elapsed
	decision.Extras.Actions = actions
	decision.Action = actions[0].Action
	decision.Found = true
	decision.Message = actions[0].Message
	decision.Metric = m.metrics.Complete()
	return decision
}

// searching reports whether another simulation should start. The budget is
// only checked between simulations.
func (m *MCTS[S, A]) searching(games int, begin time.Time) bool {
	if m.simulations > 0 {
		return games < m.simulations
	}
	return time.Since(begin) < m.duration
}
