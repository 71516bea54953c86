package mocktails

import "testing"

func TestSplitFixedRequests(t *testing.T) {
	parent := NewPartition(DefaultConfiguration())
	for i, tick := range []uint64{10, 11, 12, 13, 14} {
		parent.Requests = append(parent.Requests, Request{Timestamp: tick, Address: uint64(i)})
	}

	children := Split(parent, Configuration{Scheme: Temporal, Separator: Requests, Value: 2})

	if len(children) != 3 {
		t.Fatalf("got %d children, want 3", len(children))
	}

	wantSizes := map[uint32]int{0: 2, 1: 2, 2: 1}
	wantStart := map[uint32]uint64{0: 10, 1: 12, 2: 14}

	for id, want := range wantSizes {
		child, ok := children[id]
		if !ok {
			t.Fatalf("missing child %d", id)
		}
		if len(child.Requests) != want {
			t.Fatalf("child %d size = %d, want %d", id, len(child.Requests), want)
		}
		if child.StartTime != wantStart[id] {
			t.Fatalf("child %d start time = %d, want %d", id, child.StartTime, wantStart[id])
		}
	}

	if len(parent.Requests) != 0 {
		t.Fatalf("parent requests should be emptied after split")
	}
}

func TestSplitContiguous(t *testing.T) {
	parent := NewPartition(DefaultConfiguration())
	parent.Requests = []Request{
		{Timestamp: 0, Address: 0, Size: 4},
		{Timestamp: 1, Address: 4, Size: 4},
		{Timestamp: 2, Address: 100, Size: 4},
	}

	children := Split(parent, Configuration{Scheme: Spatial, Separator: Contiguous})

	if len(children) != 2 {
		t.Fatalf("got %d children, want 2", len(children))
	}

	var sizes []int
	for _, c := range children {
		sizes = append(sizes, len(c.Requests))
	}

	total := 0
	for _, s := range sizes {
		total += s
	}
	if total != 3 {
		t.Fatalf("total requests across children = %d, want 3", total)
	}
}

func TestSplitFixedTime(t *testing.T) {
	parent := NewPartition(DefaultConfiguration())
	parent.StartTime = 100
	parent.Requests = []Request{
		{Timestamp: 100, Address: 0},
		{Timestamp: 105, Address: 0},
		{Timestamp: 210, Address: 0},
	}

	children := Split(parent, Configuration{Scheme: Temporal, Separator: Cycles, Value: 50})

	if len(children) != 2 {
		t.Fatalf("got %d children, want 2", len(children))
	}
	if len(children[0].Requests) != 2 {
		t.Fatalf("bucket 0 size = %d, want 2", len(children[0].Requests))
	}
	if len(children[2].Requests) != 1 {
		t.Fatalf("bucket 2 size = %d, want 1", len(children[2].Requests))
	}
}

func TestSplitFixedBytes(t *testing.T) {
	parent := NewPartition(DefaultConfiguration())
	parent.Requests = []Request{
		{Timestamp: 0, Address: 0},
		{Timestamp: 1, Address: 60},
		{Timestamp: 2, Address: 128},
	}

	children := Split(parent, Configuration{Scheme: Spatial, Separator: Bytes, Value: 64})

	if len(children) != 2 {
		t.Fatalf("got %d children, want 2", len(children))
	}
	if len(children[0].Requests) != 2 {
		t.Fatalf("block 0 size = %d, want 2", len(children[0].Requests))
	}
	if len(children[2].Requests) != 1 {
		t.Fatalf("block 2 size = %d, want 1", len(children[2].Requests))
	}
}

func TestSplitEmptyPartitionYieldsNoChildren(t *testing.T) {
	parent := NewPartition(DefaultConfiguration())

	children := Split(parent, Configuration{Scheme: Temporal, Separator: Requests, Value: 2})

	if len(children) != 0 {
		t.Fatalf("got %d children, want 0", len(children))
	}
}
