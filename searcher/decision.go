package searcher

import (
	"time"

	"uct/experiments/metrics"
)

// ActionMessage is the Type of every Decision.
const ActionMessage = "action"

// Decision is the outcome of one search.
type Decision[A any] struct {
	Type    string    `json:"type" yaml:"type"`
	Message any       `json:"message" yaml:"message"` // Serialized chosen action, nil if there is none
	Extras  Extras[A] `json:"extras" yaml:"extras"`

	Action A                    `json:"-" yaml:"-"`
	Found  bool                 `json:"-" yaml:"-"` // False when there was no legal action
	Metric metrics.SearchMetric `json:"-" yaml:"-"`
}

// Extras are the diagnostics of a decision. The search fields stay empty when
// the decision was made without searching.
type Extras[A any] struct {
	C          float64 `json:"C" yaml:"C"`
	MaxActions int     `json:"max_actions" yaml:"max_actions"`
	Name       string  `json:"name" yaml:"name"`

	Games    int              `json:"games,omitempty" yaml:"games,omitempty"`
	MaxDepth int              `json:"max_depth,omitempty" yaml:"max_depth,omitempty"`
	Time     string           `json:"time,omitempty" yaml:"time,omitempty"` // Elapsed seconds
	Actions  []ActionValue[A] `json:"actions,omitempty" yaml:"actions,omitempty"`

	Elapsed time.Duration `json:"-" yaml:"-"`
}
