package mocktails

import (
	hrdpkg "github.com/mariobadr/statistical-simulation/hrd"
	stmpkg "github.com/mariobadr/statistical-simulation/stm"
)

// ModelType selects which leaf model kind a profile's partitions build.
type ModelType int

const (
	SimpleLeaf ModelType = iota
	STMLeaf
	HRDLeaf
)

func (t ModelType) String() string {
	switch t {
	case SimpleLeaf:
		return "mocktails"
	case STMLeaf:
		return "stm"
	case HRDLeaf:
		return "hrd"
	default:
		return "unknown"
	}
}

// Profile is a mocktails model: a hierarchy of partitions whose leaves each
// carry a built access model of the kind named by Type.
type Profile struct {
	ID   uint32
	Type ModelType

	SimpleLeaves map[uint32]Model[SimpleModel]
	STMLeaves    map[uint32]Model[stmpkg.Profile]
	HRDLeaves    map[uint32]Model[hrdpkg.Profile]
}

// NewProfile returns an empty profile of the given leaf kind.
func NewProfile(id uint32, t ModelType) *Profile {
	return &Profile{
		ID:           id,
		Type:         t,
		SimpleLeaves: make(map[uint32]Model[SimpleModel]),
		STMLeaves:    make(map[uint32]Model[stmpkg.Profile]),
		HRDLeaves:    make(map[uint32]Model[hrdpkg.Profile]),
	}
}

// NewProfileFromHierarchy walks h and builds a leaf model at every node
// childless in the hierarchy.
func NewProfileFromHierarchy(id uint32, t ModelType, h *Hierarchy) (*Profile, error) {
	p := NewProfile(id, t)
	if err := p.buildLeaves(h, h.RootID()); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Profile) buildLeaves(h *Hierarchy, nodeID uint32) error {
	children, err := h.Children(nodeID)
	if err != nil {
		return err
	}

	if len(children) == 0 {
		partition, err := h.Partition(nodeID)
		if err != nil {
			return err
		}

		switch p.Type {
		case SimpleLeaf:
			p.SimpleLeaves[nodeID] = CreateSimpleModel(partition.Requests)
		case STMLeaf:
			p.STMLeaves[nodeID] = CreateSTMModel(partition.Requests)
		case HRDLeaf:
			p.HRDLeaves[nodeID] = CreateHRDModel(partition.Requests)
		}

		return nil
	}

	// Children are appended in ascending split-id order by populateHierarchy,
	// so traversal here is already deterministic.
	for _, childID := range children {
		if err := p.buildLeaves(h, childID); err != nil {
			return err
		}
	}

	return nil
}

// LeafCount returns how many leaf models the profile holds, across whichever
// leaf kind it was built with.
func (p *Profile) LeafCount() int {
	return len(p.SimpleLeaves) + len(p.STMLeaves) + len(p.HRDLeaves)
}
