package mocktails

import (
	"cmp"
	"container/heap"
	"math/rand"

	hrdpkg "github.com/mariobadr/statistical-simulation/hrd"
	stmpkg "github.com/mariobadr/statistical-simulation/stm"
)

func converge(value *uint64) bool {
	if *value > 0 {
		*value--
	}
	return *value == 0
}

// keepInRange folds address back into [min, max] by wrapping around the
// range's size, matching the way a drawn stride can walk a synthesized
// address outside a leaf's observed footprint.
func keepInRange(address, min, max uint64) uint64 {
	if address > max || address < min {
		size := max - min
		if size == 0 {
			return min
		}
		address = ((address - size) % size) + min
	}
	return address
}

func discreteDraw(rng *rand.Rand, weights []uint64) int {
	var total uint64
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return 0
	}

	r := uint64(rng.Int63n(int64(total)))
	var cumulative uint64
	for i, w := range weights {
		cumulative += w
		if r < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// generateNext draws the next value from sm, consuming a unit of whichever
// transition it selects so the model converges toward empty over repeated
// draws. A model with no transitions always returns its initial state.
func generateNext[T cmp.Ordered](rng *rand.Rand, sm *SequenceModel[T]) T {
	if len(sm.Transitions) == 0 {
		return sm.InitialState
	}

	if _, ok := sm.Transitions[sm.CurrentState]; !ok {
		states := sortedKeys(sm.Transitions)
		counts := make([]uint64, len(states))
		for i, state := range states {
			var total uint64
			for _, c := range sm.Transitions[state] {
				total += c
			}
			counts[i] = total
		}
		sm.CurrentState = states[discreteDraw(rng, counts)]
	}

	row := sm.Transitions[sm.CurrentState]
	states := sortedKeys(row)
	counts := make([]uint64, len(states))
	for i, state := range states {
		counts[i] = row[state]
	}

	nextState := states[discreteDraw(rng, counts)]

	count := row[nextState]
	if converge(&count) {
		delete(row, nextState)
	} else {
		row[nextState] = count
	}
	if len(row) == 0 {
		delete(sm.Transitions, sm.CurrentState)
	}

	sm.CurrentState = nextState

	return nextState
}

type requestHeap []Request

func (h requestHeap) Len() int            { return len(h) }
func (h requestHeap) Less(i, j int) bool  { return h[i].Timestamp < h[j].Timestamp }
func (h requestHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *requestHeap) Push(x any)         { *h = append(*h, x.(Request)) }
func (h *requestHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Synthesiser draws a synthetic request stream out of a Profile by
// synthesizing each leaf independently and merging the results in
// timestamp order.
type Synthesiser struct {
	rng   *rand.Rand
	queue requestHeap
}

// NewSynthesiser builds and fully populates a synthesiser over p, seeded
// deterministically by seed. Every leaf is synthesized up front; draws
// afterward just pop from the merged queue.
func NewSynthesiser(p *Profile, seed int64) (*Synthesiser, error) {
	s := &Synthesiser{rng: rand.New(rand.NewSource(seed))}
	heap.Init(&s.queue)

	switch p.Type {
	case SimpleLeaf:
		for _, id := range sortedKeys(p.SimpleLeaves) {
			leaf := p.SimpleLeaves[id]
			s.populateSimple(&leaf)
		}
	case STMLeaf:
		for _, id := range sortedKeys(p.STMLeaves) {
			leaf := p.STMLeaves[id]
			s.populateSTM(&leaf)
		}
	case HRDLeaf:
		for _, id := range sortedKeys(p.HRDLeaves) {
			leaf := p.HRDLeaves[id]
			if err := s.populateHRD(&leaf); err != nil {
				return nil, err
			}
		}
	}

	return s, nil
}

func (s *Synthesiser) populateSimple(m *Model[SimpleModel]) {
	if m.Underlying == nil {
		return
	}

	runningTime := m.StartTime
	address := m.Underlying.StartAddress

	for i := uint64(0); i < m.RequestCount; i++ {
		if i > 0 {
			runningTime += generateNext(s.rng, &m.TimeModel)

			stride := generateNext(s.rng, &m.Underlying.StrideModel)
			address = uint64(int64(address) + int64(stride))
			address = keepInRange(address, m.Underlying.Footprint.Start, m.Underlying.Footprint.End)
		}

		size := generateNext(s.rng, &m.SizeModel)
		op := generateNext(s.rng, &m.Underlying.OperationModel)

		heap.Push(&s.queue, Request{Timestamp: runningTime, Op: op, Address: address, Size: size})
	}
}

func (s *Synthesiser) populateSTM(m *Model[stmpkg.Profile]) {
	if m.Underlying == nil {
		return
	}

	stmSynth := stmpkg.NewSynthesiser(m.Underlying, s.rng.Int63())

	runningTime := m.StartTime

	for i := uint64(0); i < m.RequestCount; i++ {
		if i > 0 {
			runningTime += generateNext(s.rng, &m.TimeModel)
		}

		size := generateNext(s.rng, &m.SizeModel)
		address, op := stmSynth.GenerateNextRequest()

		heap.Push(&s.queue, Request{Timestamp: runningTime, Op: fromSTMOperation(op), Address: address, Size: size})
	}
}

func (s *Synthesiser) populateHRD(m *Model[hrdpkg.Profile]) error {
	if m.Underlying == nil {
		return nil
	}

	hrdSynth := hrdpkg.NewSynthesiser(m.Underlying, s.rng.Int63())

	runningTime := m.StartTime

	for i := uint64(0); i < m.RequestCount; i++ {
		if i > 0 {
			runningTime += generateNext(s.rng, &m.TimeModel)
		}

		size := generateNext(s.rng, &m.SizeModel)

		address, op, err := hrdSynth.GenerateNextRequest()
		if err != nil {
			return err
		}

		heap.Push(&s.queue, Request{Timestamp: runningTime, Op: fromHRDOperation(op), Address: address, Size: size})
	}

	return nil
}

// HasMoreRequests reports whether GenerateNextRequest has anything left to
// return.
func (s *Synthesiser) HasMoreRequests() bool {
	return len(s.queue) > 0
}

// GenerateNextRequest pops the earliest-timestamped request still queued
// across every leaf's synthesized stream.
func (s *Synthesiser) GenerateNextRequest() Request {
	return heap.Pop(&s.queue).(Request)
}
