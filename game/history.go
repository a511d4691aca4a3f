package game

// History is an append-only sequence of states. A History made by Fork shares
// its prefix with the history it was forked from and only owns the states
// pushed afterwards, so forking a long game history costs nothing.
//
// The zero value is an empty history.
type History[S any] struct {
	prefix []S
	tail   []S
}

// NewHistory returns a history holding a copy of states.
func NewHistory[S any](states ...S) History[S] {
	prefix := make([]S, len(states))
	copy(prefix, states)
	return History[S]{prefix: prefix}
}

func (h History[S]) Len() int {
	return len(h.prefix) + len(h.tail)
}

// At returns the i-th state, counting from the first one. It panics when i is
// out of range.
func (h History[S]) At(i int) S {
	if i < len(h.prefix) {
		return h.prefix[i]
	}
	return h.tail[i-len(h.prefix)]
}

// Last returns the most recent state. It panics on an empty history.
func (h History[S]) Last() S {
	if len(h.tail) > 0 {
		return h.tail[len(h.tail)-1]
	}
	if len(h.prefix) == 0 {
		panic("game: empty history")
	}
	return h.prefix[len(h.prefix)-1]
}

// Push appends state to the history.
func (h *History[S]) Push(state S) {
	h.tail = append(h.tail, state)
}

// Fork returns a history that starts with every state of h. Pushes to the fork
// are never visible through h and vice versa.
func (h History[S]) Fork() History[S] {
	if len(h.tail) == 0 {
		// Capping capacity keeps appends on either side from writing into the
		// other's backing array.
		return History[S]{prefix: h.prefix[:len(h.prefix):len(h.prefix)]}
	}
	return History[S]{prefix: h.States()}
}

// Truncate drops every state pushed after the fork point and keeps the
// allocated buffer for reuse.
func (h *History[S]) Truncate() {
	h.tail = h.tail[:0]
}

// States returns a copy of the whole history.
func (h History[S]) States() []S {
	states := make([]S, 0, h.Len())
	states = append(states, h.prefix...)
	return append(states, h.tail...)
}
