package searcher

import (
	"fmt"

	"uct/game"
)

// Stat accumulates the rewards credited to one table entry.
type Stat struct {
	Value  float64 // Sum of rewards
	Visits int
}

// Average returns Value per visit, treating an unvisited stat as visited once.
func (s Stat) Average() float64 {
	return s.Value / float64(max(s.Visits, 1))
}

func (s Stat) String() string {
	return fmt.Sprintf("Stat(value=%g, visits=%d)", s.Value, s.Visits)
}

func (s *Stat) credit(reward float64) {
	s.Visits++
	s.Value += reward
}

// Key identifies a table entry: the player who moved into State.
type Key[S comparable] struct {
	Mover string
	State S
}

// Table holds the statistics of one decision. Entries are only added by
// Expand and are never removed until the table is cleared for the next one.
type Table[S comparable] map[Key[S]]*Stat

// Lookup returns the stat moved into state by mover, or the zero Stat when the
// entry does not exist.
func (t Table[S]) Lookup(mover string, state S) (Stat, bool) {
	s, ok := t[Key[S]{Mover: mover, State: state}]
	if !ok {
		return Stat{}, false
	}
	return *s, true
}

// Expand inserts an empty stat for every state mover can reach that has no
// entry yet. It returns the number of entries added.
func (t Table[S]) Expand(mover string, states []S) int {
	added := 0
	for _, state := range states {
		key := Key[S]{Mover: mover, State: state}
		if _, ok := t[key]; !ok {
			t[key] = &Stat{}
			added++
		}
	}
	return added
}

// Visits sums the visits of the entries mover reaches through states.
func (t Table[S]) Visits(mover string, states []S) int {
	total := 0
	for _, state := range states {
		if s, ok := t[Key[S]{Mover: mover, State: state}]; ok {
			total += s.Visits
		}
	}
	return total
}

// Backup credits every visited key that has an entry with the reward of its
// mover. Keys without entries were reached by the random rollout and are
// skipped.
func (t Table[S]) Backup(visited []Key[S], rewards game.Rewards) {
	for _, key := range visited {
		s, ok := t[key]
		if !ok {
			continue
		}
		s.credit(rewards[key.Mover])
	}
}
