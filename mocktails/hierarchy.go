package mocktails

import "fmt"

// HierarchyConfiguration lists the partitioning rule applied at each level
// of the hierarchy, level 0 being the implicit monolithic root.
type HierarchyConfiguration struct {
	Levels []Configuration
}

type hierarchyNode struct {
	partition *Partition
	children  []uint32
}

// Hierarchy is a tree of partitions: an id-addressed root plus the
// descendants produced by recursively splitting it.
type Hierarchy struct {
	rootID uint32
	nextID uint32

	nodes   map[uint32]*hierarchyNode
	parents map[uint32]uint32
}

// NewHierarchy starts a hierarchy with root as the single node at id 0.
func NewHierarchy(root *Partition) *Hierarchy {
	h := &Hierarchy{
		rootID:  0,
		nextID:  1,
		nodes:   make(map[uint32]*hierarchyNode),
		parents: make(map[uint32]uint32),
	}
	h.nodes[h.rootID] = &hierarchyNode{partition: root}
	return h
}

// RootID returns the id of the hierarchy's root node.
func (h *Hierarchy) RootID() uint32 {
	return h.rootID
}

// AddPartition attaches p as a new child of parentID and returns its id.
func (h *Hierarchy) AddPartition(parentID uint32, p *Partition) (uint32, error) {
	parent, ok := h.nodes[parentID]
	if !ok {
		return 0, fmt.Errorf("mocktails: unknown parent node %d", parentID)
	}

	childID := h.nextID
	h.nextID++

	parent.children = append(parent.children, childID)
	h.parents[childID] = parentID
	h.nodes[childID] = &hierarchyNode{partition: p}

	return childID, nil
}

// Partition returns the partition stored at nodeID.
func (h *Hierarchy) Partition(nodeID uint32) (*Partition, error) {
	node, ok := h.nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("mocktails: unknown node %d", nodeID)
	}
	return node.partition, nil
}

// Children returns the ids of nodeID's direct children, empty for a leaf.
func (h *Hierarchy) Children(nodeID uint32) ([]uint32, error) {
	node, ok := h.nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("mocktails: unknown node %d", nodeID)
	}
	return node.children, nil
}

// populateHierarchy recursively splits the partition at nodeID according to
// config.Levels[levelID], attaching each resulting child and recursing into
// it. It stops at a node once the levels are exhausted or the node holds a
// single request, leaving that node a leaf.
func populateHierarchy(h *Hierarchy, nodeID uint32, config HierarchyConfiguration, levelID int) error {
	partition, err := h.Partition(nodeID)
	if err != nil {
		return err
	}

	if levelID == len(config.Levels) || len(partition.Requests) == 1 {
		return nil
	}

	children := Split(partition, config.Levels[levelID])

	for _, localID := range sortedKeys(children) {
		childID, err := h.AddPartition(nodeID, children[localID])
		if err != nil {
			return err
		}

		if err := populateHierarchy(h, childID, config, levelID+1); err != nil {
			return err
		}
	}

	return nil
}
