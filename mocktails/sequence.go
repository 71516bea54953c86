package mocktails

import (
	"cmp"
	"slices"
)

// SequenceModel is a first-order Markov chain over values of type T: from
// CurrentState, Transitions[CurrentState] gives the observed next-value
// counts. A model with no transitions is constant: every draw returns
// InitialState.
type SequenceModel[T cmp.Ordered] struct {
	InitialState T
	CurrentState T
	Transitions  map[T]map[T]uint64
}

// Sequence accumulates observations of type T and builds a SequenceModel
// from them.
type Sequence[T cmp.Ordered] struct {
	trace []T
	seen  map[T]struct{}
}

// Add records the next observed value in the sequence.
func (s *Sequence[T]) Add(value T) {
	s.trace = append(s.trace, value)
	if s.seen == nil {
		s.seen = make(map[T]struct{})
	}
	s.seen[value] = struct{}{}
}

// IsConstant reports whether every observation so far has been identical.
func (s *Sequence[T]) IsConstant() bool {
	return len(s.seen) <= 1
}

// MakeModel builds the SequenceModel implied by the observations so far. A
// constant sequence yields a model with no transitions, a shortcut that lets
// callers skip the Markov machinery entirely.
func (s *Sequence[T]) MakeModel() SequenceModel[T] {
	var m SequenceModel[T]
	if len(s.trace) == 0 {
		return m
	}

	m.InitialState = s.trace[0]

	if s.IsConstant() {
		return m
	}

	m.Transitions = make(map[T]map[T]uint64)
	for i := 0; i+1 < len(s.trace); i++ {
		from, to := s.trace[i], s.trace[i+1]

		row, ok := m.Transitions[from]
		if !ok {
			row = make(map[T]uint64)
			m.Transitions[from] = row
		}
		row[to]++
	}

	return m
}

func sortedKeys[T cmp.Ordered, V any](m map[T]V) []T {
	keys := make([]T, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
