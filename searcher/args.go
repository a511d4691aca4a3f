package searcher

import "time"

// Defaults for a decision

const DefaultDuration = 30 * time.Second // Wall-clock search budget

const DefaultMaxActions = 1000 // Depth cap of a single playout

// Exploration constant, increase for more exploratory actions,
// decrease to prefer actions with known higher win rates.
const DefaultC = 1.4
