package mocktails

import "testing"

func TestPopulateHierarchyStopsAtSingleRequestLeaf(t *testing.T) {
	root := NewPartition(DefaultConfiguration())
	root.Requests = []Request{{Timestamp: 0, Address: 0}}

	h := NewHierarchy(root)
	config := HierarchyConfiguration{Levels: []Configuration{
		DefaultConfiguration(),
		{Scheme: Temporal, Separator: Requests, Value: 1},
	}}

	if err := populateHierarchy(h, h.RootID(), config, 1); err != nil {
		t.Fatalf("populateHierarchy: %v", err)
	}

	children, err := h.Children(h.RootID())
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(children) != 0 {
		t.Fatalf("a single-request root should remain a leaf, got %d children", len(children))
	}
}

func TestPopulateHierarchySplitsUntilLevelsExhausted(t *testing.T) {
	root := NewPartition(DefaultConfiguration())
	for i, tick := range []uint64{0, 1, 2, 3} {
		root.Requests = append(root.Requests, Request{Timestamp: tick, Address: uint64(i)})
	}

	h := NewHierarchy(root)
	config := HierarchyConfiguration{Levels: []Configuration{
		DefaultConfiguration(),
		{Scheme: Temporal, Separator: Requests, Value: 2},
	}}

	if err := populateHierarchy(h, h.RootID(), config, 1); err != nil {
		t.Fatalf("populateHierarchy: %v", err)
	}

	children, err := h.Children(h.RootID())
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("got %d children, want 2", len(children))
	}

	for _, childID := range children {
		grandchildren, err := h.Children(childID)
		if err != nil {
			t.Fatalf("Children(%d): %v", childID, err)
		}
		if len(grandchildren) != 0 {
			t.Fatalf("level list is exhausted, child %d should be a leaf", childID)
		}
	}
}

func TestAddPartitionUnknownParentFails(t *testing.T) {
	root := NewPartition(DefaultConfiguration())
	h := NewHierarchy(root)

	if _, err := h.AddPartition(999, NewPartition(DefaultConfiguration())); err == nil {
		t.Fatalf("expected an error attaching to an unknown parent")
	}
}
