package reuse

import "math"

// Infinity denotes a cold miss: the address has never been touched before.
var Infinity = math.Inf(1)

// ComputeDistance returns the stack (reuse) distance for address, or
// Infinity if address is not present in tree. Complexity: O(log n).
func ComputeDistance(tree *Tree, address uint64) float64 {
	node := tree.FindAddress(address)
	if node == nil {
		return Infinity
	}

	return tree.CalculatePosition(node)
}

// Update erases any pre-existing node for address and inserts (time,
// address) as the most recent reference. Complexity: O(log n).
// Callers must advance time monotonically.
func Update(tree *Tree, address uint64, time uint64) {
	if node := tree.FindAddress(address); node != nil {
		tree.Erase(node)
	}

	tree.Insert(time, address)
}
