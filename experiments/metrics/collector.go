package metrics

import (
	"time"
)

type SearchMetric struct {
	Strategy     string
	C            float64
	MaxActions   int
	Duration     time.Duration
	Simulations  int
	FullPlayouts int // Playouts that reached the end of the game before the depth cap
	MaxDepth     int
}

type MoveMetric struct {
	Step   int
	Player string
	SearchMetric
}

type GameMetric struct {
	StartingPlayer string
	Winner         string // Empty on a draw
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

// Collector gathers the metrics of one decision. A search is single threaded,
// so implementations need no synchronization.
type Collector interface {
	Start(strategy string, c float64, maxActions int)
	AddSimulation()
	AddFullPlayout()
	SetMaxDepth(depth int)
	Complete() SearchMetric
}

type collector struct {
	metric    SearchMetric
	startTime time.Time
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(strategy string, c float64, maxActions int) {
	m.startTime = time.Now()
	m.metric = SearchMetric{
		Strategy:   strategy,
		C:          c,
		MaxActions: maxActions,
	}
}

func (m *collector) AddSimulation() {
	m.metric.Simulations++
}

func (m *collector) AddFullPlayout() {
	m.metric.FullPlayouts++
}

func (m *collector) SetMaxDepth(depth int) {
	m.metric.MaxDepth = depth
}

func (m *collector) Complete() SearchMetric {
	metric := m.metric
	metric.Duration = time.Since(m.startTime)
	return metric
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(strategy string, c float64, maxActions int) {}
func (m *dummyCollector) AddSimulation()                                   {}
func (m *dummyCollector) AddFullPlayout()                                  {}
func (m *dummyCollector) SetMaxDepth(depth int)                            {}
func (m *dummyCollector) Complete() SearchMetric                           { return SearchMetric{} }
