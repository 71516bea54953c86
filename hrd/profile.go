package hrd

import (
	"math"

	"github.com/mariobadr/statistical-simulation/reuse"
)

// Histogram is the distribution of reuse distances observed at one layer.
// reuse.Infinity denotes a cold miss (first-ever touch of that block).
type Histogram map[float64]uint64

// Profile builds a Hierarchical Reuse Distance model incrementally from a
// stream of (address, operation) updates, one block-size layer at a time.
type Profile struct {
	Layers     []uint64
	ReuseModel []Histogram
	OpsModel   [MemoryStateCount]OperationHistogram
	MinAddress uint64
	MaxAddress uint64

	time   uint64
	trees  []*reuse.Tree
	states map[uint64]MemoryState
}

// NewProfile creates a profile over layers, the block sizes to model reuse
// at, assumed to already be in ascending order.
func NewProfile(layers []uint64) *Profile {
	p := &Profile{
		Layers:     append([]uint64(nil), layers...),
		ReuseModel: make([]Histogram, len(layers)),
		MinAddress: math.MaxUint64,
		trees:      make([]*reuse.Tree, len(layers)),
		states:     make(map[uint64]MemoryState),
	}

	for i := range layers {
		p.ReuseModel[i] = make(Histogram)
		p.trees[i] = reuse.New()
	}

	return p
}

func calculateBlock(address, blockSize uint64) uint64 {
	return address / blockSize
}

// Update folds one (address, op) access into the profile.
func (p *Profile) Update(address uint64, op Operation) {
	if address < p.MinAddress {
		p.MinAddress = address
	}
	if address > p.MaxAddress {
		p.MaxAddress = address
	}

	p.modelReuse(address)
	p.modelOperation(address, op)
}

func (p *Profile) modelReuse(address uint64) {
	distance := reuse.Infinity
	layer := 0

	for distance == reuse.Infinity && layer < len(p.Layers) {
		block := calculateBlock(address, p.Layers[layer])
		distance = reuse.ComputeDistance(p.trees[layer], block)
		p.ReuseModel[layer][distance]++
		layer++
	}

	// Update the history of every layer, regardless of which one's
	// histogram was credited above.
	for layer := range p.Layers {
		block := calculateBlock(address, p.Layers[layer])
		reuse.Update(p.trees[layer], block, p.time)
	}

	p.time++
}

func (p *Profile) modelOperation(address uint64, op Operation) {
	state := p.states[address]

	p.OpsModel[state][op]++
	p.states[address] = UpdateState(state, op)
}

// UniqueAddresses returns the number of distinct addresses modelled.
func (p *Profile) UniqueAddresses() int {
	return len(p.states)
}

// Count returns the total number of requests modelled.
func (p *Profile) Count() uint64 {
	return p.time
}
