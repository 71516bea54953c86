package hrd

import (
	"errors"
	"math/rand"
	"sort"

	"github.com/mariobadr/statistical-simulation/reuse"
)

// ErrExhausted indicates the synthesizer could not generate an address:
// every one of its bounded redraws needed a fresh block (an unused
// coarsest-layer block, or an unused sub-block inside a reused block) and
// none was left.
var ErrExhausted = errors.New("hrd: address space exhausted")

type histogram struct {
	distances []float64
	counts    []uint64
}

type layerState struct {
	tree *reuse.Tree
	time uint64
}

type layer struct {
	blockSize uint64
	hist      histogram
	info      layerState
	// generated tracks, per block at this layer, the addresses already
	// synthesized inside it (so a second draw within the same block picks
	// a fresh sub-address rather than repeating one).
	generated map[uint64]map[uint64]struct{}
}

// Synthesiser draws a synthetic stream of (address, operation) requests from
// a previously built Profile.
type Synthesiser struct {
	rng *rand.Rand

	minAddress uint64
	maxAddress uint64

	layers []*layer

	opHist [MemoryStateCount]OperationHistogram
	states map[uint64]MemoryState
}

// NewSynthesiser builds a synthesiser over p, seeded deterministically by
// seed.
func NewSynthesiser(p *Profile, seed int64) *Synthesiser {
	s := &Synthesiser{
		rng:        rand.New(rand.NewSource(seed)),
		minAddress: p.MinAddress,
		maxAddress: p.MaxAddress,
		layers:     make([]*layer, len(p.Layers)),
		opHist:     p.OpsModel,
		states:     make(map[uint64]MemoryState),
	}

	for i, blockSize := range p.Layers {
		l := &layer{
			blockSize: blockSize,
			info:      layerState{tree: reuse.New()},
			generated: make(map[uint64]map[uint64]struct{}),
		}

		// Re-order the histogram: index 0 is the infinite-distance
		// (cold miss) bucket, the rest are finite distances ascending.
		finite := make([]float64, 0, len(p.ReuseModel[i]))
		for d := range p.ReuseModel[i] {
			if d != reuse.Infinity {
				finite = append(finite, d)
			}
		}
		sort.Float64s(finite)

		l.hist.distances = append(l.hist.distances, reuse.Infinity)
		l.hist.counts = append(l.hist.counts, p.ReuseModel[i][reuse.Infinity])
		for _, d := range finite {
			l.hist.distances = append(l.hist.distances, d)
			l.hist.counts = append(l.hist.counts, p.ReuseModel[i][d])
		}

		s.layers[i] = l
	}

	return s
}

// discreteDraw performs a weighted random choice over weights, returning an
// index. An all-zero weight vector deterministically returns index 0.
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

// randomReuse samples a distance from hist truncated to distances strictly
// less than stackSize; the infinite bucket always remains eligible.
func randomReuse(rng *rand.Rand, hist histogram, stackSize int) float64 {
	maxDistance := float64(stackSize)

	maxIndex := 1
	for maxIndex < len(hist.distances) && hist.distances[maxIndex] < maxDistance {
		maxIndex++
	}

	index := discreteDraw(rng, hist.counts[:maxIndex])
	return hist.distances[index]
}

// readHistory walks distance positions back from the most-recently-used
// node, falling back to the least-recently-used block if distance exceeds
// the stack size.
func readHistory(info layerState, distance float64) uint64 {
	offset := int(distance)

	if offset < info.tree.Size() {
		node := info.tree.MostRecentlyUsed()
		for i := 0; i < offset; i++ {
			node = info.tree.Predecessor(node)
		}
		return node.Address
	}

	return info.tree.LeastRecentlyUsed().Address
}

func updateHistory(info *layerState, block uint64) {
	reuse.Update(info.tree, block, info.time)
	info.time++
}

func uniform(rng *rand.Rand, min, max, multiple uint64) uint64 {
	span := (max - min) / multiple
	return min + uint64(rng.Int63n(int64(span)))*multiple
}

// newUniqueAcrossRange generates a fresh address in [min, max), aligned to
// targetBlockSize, whose coarsestBlockSize-aligned block is not already in
// coarsestBlocks. A range narrower than one coarsest block (such as min ==
// max, for a profile that touched a single address) holds only the block
// containing min, and min is the address generated for it.
func newUniqueAcrossRange(rng *rand.Rand, min, max, coarsestBlockSize, targetBlockSize uint64, coarsestBlocks map[uint64]map[uint64]struct{}) (uint64, bool) {
	maxBlocks := (max - min) / coarsestBlockSize
	if maxBlocks == 0 {
		if _, used := coarsestBlocks[calculateBlock(min, coarsestBlockSize)]; used {
			return 0, false
		}
		return min, true
	}
	if uint64(len(coarsestBlocks)) >= maxBlocks {
		return 0, false
	}

	for {
		address := uniform(rng, min, max, targetBlockSize)
		block := calculateBlock(address, coarsestBlockSize)
		if _, used := coarsestBlocks[block]; !used {
			return address, true
		}
	}
}

// newUniqueWithinBlock generates a fresh address inside block (sized
// parentBlockSize), aligned to targetBlockSize, not already in generated.
func newUniqueWithinBlock(rng *rand.Rand, block, parentBlockSize, targetBlockSize uint64, generated map[uint64]struct{}) (uint64, bool) {
	min := block * parentBlockSize
	max := min + parentBlockSize

	maxBlocks := parentBlockSize / targetBlockSize
	if uint64(len(generated)) >= maxBlocks {
		return 0, false
	}

	for {
		address := uniform(rng, min, max, targetBlockSize)
		if _, used := generated[address]; !used {
			return address, true
		}
	}
}

func (s *Synthesiser) tryGenerateAddress() (uint64, bool) {
	distance := reuse.Infinity
	l := 0

	for distance == reuse.Infinity && l < len(s.layers) {
		if !s.layers[l].info.tree.Empty() {
			distance = randomReuse(s.rng, s.layers[l].hist, s.layers[l].info.tree.Size())
		}
		l++
	}

	if distance == reuse.Infinity {
		// Every layer missed: mint a fresh address in an unused coarsest
		// block.
		coarsest := s.layers[len(s.layers)-1]
		finest := s.layers[0]
		return newUniqueAcrossRange(s.rng, s.minAddress, s.maxAddress, coarsest.blockSize, finest.blockSize, coarsest.generated)
	}

	target := s.layers[l-1]
	block := readHistory(target.info, distance)

	if l-1 == 0 {
		// The finest layer is reusing a block directly; no finer address
		// to pick inside it.
		return block * target.blockSize, true
	}

	generated := target.generated[block]
	below := s.layers[l-2]
	return newUniqueWithinBlock(s.rng, block, target.blockSize, below.blockSize, generated)
}

// generateAddress redraws until a draw yields an address, giving up with
// ErrExhausted after maxAttempts draws in a row have failed.
func (s *Synthesiser) generateAddress() (uint64, error) {
	const maxAttempts = 1000

	address, ok := s.tryGenerateAddress()
	for attempt := 1; !ok && attempt < maxAttempts; attempt++ {
		address, ok = s.tryGenerateAddress()
	}
	if !ok {
		return 0, ErrExhausted
	}

	for _, l := range s.layers {
		block := calculateBlock(address, l.blockSize)
		updateHistory(&l.info, block)

		if l.generated[block] == nil {
			l.generated[block] = make(map[uint64]struct{})
		}
		l.generated[block][address] = struct{}{}
	}

	return address, nil
}

func generateOperation(rng *rand.Rand, reads, writes uint64) Operation {
	if discreteDraw(rng, []uint64{reads, writes}) == 0 {
		return Read
	}
	return Write
}

// GenerateNextRequest draws the next synthesized (address, operation) pair.
// Returns ErrExhausted if every redraw of the address needed a fresh block
// and none was left.
func (s *Synthesiser) GenerateNextRequest() (uint64, Operation, error) {
	address, err := s.generateAddress()
	if err != nil {
		return 0, 0, err
	}

	state := s.states[address]

	reads := s.opHist[state][Read]
	writes := s.opHist[state][Write]

	op := generateOperation(s.rng, reads, writes)
	s.states[address] = UpdateState(state, op)

	return address, op, nil
}
