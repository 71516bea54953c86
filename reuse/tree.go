// Package reuse implements the Olken order-statistics red-black tree used to
// compute LRU stack (reuse) distance in O(log n), and the two free functions
// that HRD and STM build their reuse-distance queries on top of.
package reuse

// Node is a node in the Olken tree, keyed by logical time and indexed by
// address. The sentinel node (tree.nilNode) is addressable like any other
// node and compares equal to it by pointer identity.
type Node struct {
	Time    uint64
	Address uint64

	size int
	red  bool

	left, right, parent *Node
}

// Size returns the weight of the node's subtree (0 for the sentinel).
func (n *Node) Size() int {
	return n.size
}

// Tree is an order-statistics red-black tree keyed by logical time, with an
// auxiliary hashmap from address to node for O(1) lookup. Follows Olken,
// "Efficient methods for calculating the success function of fixed space
// replacement policies," and the red-black maintenance from CLRS ch. 13-14.
//
// A Tree exclusively owns its nodes: they are allocated on Insert and
// released (eligible for GC) on Erase. The address index holds the only
// other reference to a node and is never the authoritative owner.
type Tree struct {
	nilNode *Node
	root    *Node

	index map[uint64]*Node
}

// New creates an empty tree with its sentinel wired up.
func New() *Tree {
	nilNode := &Node{red: false}
	nilNode.left = nilNode
	nilNode.right = nilNode
	nilNode.parent = nilNode

	return &Tree{
		nilNode: nilNode,
		root:    nilNode,
		index:   make(map[uint64]*Node),
	}
}

// Empty reports whether the tree holds no nodes.
func (t *Tree) Empty() bool {
	return len(t.index) == 0
}

// Size returns the number of nodes in the tree.
func (t *Tree) Size() int {
	return len(t.index)
}

// FindAddress returns the node last associated with address, or nil.
func (t *Tree) FindAddress(address uint64) *Node {
	return t.index[address]
}

// Successor returns the node with the next-greatest time.
func (t *Tree) Successor(x *Node) *Node {
	if x.right != t.nilNode {
		y := x.right
		for y.left != t.nilNode {
			y = y.left
		}
		return y
	}

	y := x.parent
	for y != t.nilNode && x == y.right {
		x = y
		y = y.parent
	}
	return y
}

// Predecessor returns the node with the next-smallest time.
func (t *Tree) Predecessor(x *Node) *Node {
	if x.left != t.nilNode {
		y := x.left
		for y.right != t.nilNode {
			y = y.right
		}
		return y
	}

	y := x.parent
	for y != t.nilNode && x == y.left {
		x = y
		y = y.parent
	}
	return y
}

// MostRecentlyUsed returns the node with the greatest time.
func (t *Tree) MostRecentlyUsed() *Node {
	x := t.root
	for x.right != t.nilNode {
		x = x.right
	}
	return x
}

// LeastRecentlyUsed returns the node with the smallest time.
func (t *Tree) LeastRecentlyUsed() *Node {
	x := t.root
	for x.left != t.nilNode {
		x = x.left
	}
	return x
}

// CalculatePosition returns the number of nodes with strictly greater time
// than n — the LRU stack distance of n.
func (t *Tree) CalculatePosition(n *Node) float64 {
	position := float64(n.right.size)

	i := n.parent
	for i != t.nilNode {
		if n.Time < i.Time {
			// n is in the left subtree of i.
			position += float64(i.right.size)
			position++
		}
		i = i.parent
	}

	return position
}

// Insert adds a new node keyed by time, indexed by address, and returns it.
// The caller must not insert an address that is already present; HRD and STM
// call Erase(FindAddress(a)) first.
func (t *Tree) Insert(time, address uint64) *Node {
	z := &Node{Time: time, Address: address, size: 1}
	t.index[address] = z

	y := t.nilNode
	x := t.root

	for x != t.nilNode {
		x.size++
		y = x

		if x.Time > z.Time {
			x = x.left
		} else {
			x = x.right
		}
	}

	z.parent = y
	switch {
	case y == t.nilNode:
		t.root = z
	case z.Time < y.Time:
		y.left = z
	default:
		y.right = z
	}

	z.left = t.nilNode
	z.right = t.nilNode
	z.red = true

	t.fixInsert(z)

	return z
}

// Erase removes z's entry from the tree and the address index. When z has
// two children, z's node takes over its in-order successor's time and
// address, the address index is pointed at z, and the successor's node is
// the one unlinked.
func (t *Tree) Erase(z *Node) {
	address := z.Address

	var y *Node
	if z.left == t.nilNode || z.right == t.nilNode {
		y = z
	} else {
		y = t.Successor(z)
	}

	i := y.parent
	for {
		if i.size > 0 {
			i.size--
		}
		i = i.parent
		if i == t.nilNode {
			break
		}
	}

	var x *Node
	if y.left != t.nilNode {
		x = y.left
	} else {
		x = y.right
	}

	x.parent = y.parent

	if y.parent == t.nilNode {
		t.root = x
	} else if y == y.parent.left {
		y.parent.left = x
	} else {
		y.parent.right = x
	}

	if y != z {
		z.Time = y.Time
		z.Address = y.Address
		t.index[z.Address] = z
	}

	if !y.red {
		t.fixDelete(x)
	}

	delete(t.index, address)
}

func (t *Tree) fixInsert(z *Node) {
	for z.parent.red {
		if z.parent == z.parent.parent.left {
			y := z.parent.parent.right
			if y.red {
				z.parent.red = false
				y.red = false
				z.parent.parent.red = true
				z = z.parent.parent
			} else {
				if z == z.parent.right {
					z = z.parent
					t.rotateLeft(z)
				}
				z.parent.red = false
				z.parent.parent.red = true
				t.rotateRight(z.parent.parent)
			}
		} else {
			y := z.parent.parent.left
			if y.red {
				z.parent.red = false
				y.red = false
				z.parent.parent.red = true
				z = z.parent.parent
			} else {
				if z == z.parent.left {
					z = z.parent
					t.rotateRight(z)
				}
				z.parent.red = false
				z.parent.parent.red = true
				t.rotateLeft(z.parent.parent)
			}
		}
	}

	t.root.red = false
}

func (t *Tree) fixDelete(x *Node) {
	for x != t.root && !x.red {
		if x == x.parent.left {
			w := x.parent.right

			if w.red {
				w.red = false
				x.parent.red = true
				t.rotateLeft(x.parent)
				w = x.parent.right
			}

			if !w.left.red && !w.right.red {
				w.red = true
				x = x.parent
			} else {
				if !w.right.red {
					w.left.red = false
					w.red = true
					t.rotateRight(w)
					w = x.parent.right
				}

				w.red = x.parent.red
				x.parent.red = false
				w.right.red = false
				t.rotateLeft(x.parent)
				x = t.root
			}
		} else {
			w := x.parent.left

			if w.red {
				w.red = false
				x.parent.red = true
				t.rotateRight(x.parent)
				w = x.parent.left
			}

			if !w.right.red && !w.left.red {
				w.red = true
				x = x.parent
			} else {
				if !w.left.red {
					w.right.red = false
					w.red = true
					t.rotateLeft(w)
					w = x.parent.left
				}

				w.red = x.parent.red
				x.parent.red = false
				w.left.red = false
				t.rotateRight(x.parent)
				x = t.root
			}
		}
	}

	x.red = false
}

func (t *Tree) rotateLeft(x *Node) {
	y := x.right
	x.right = y.left

	if y.left != t.nilNode {
		y.left.parent = x
	}

	y.parent = x.parent

	if x.parent == t.nilNode {
		t.root = y
	} else if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}

	y.left = x
	x.parent = y

	y.size = x.size
	x.size = x.left.size + x.right.size + 1
}

func (t *Tree) rotateRight(y *Node) {
	x := y.left
	y.left = x.right

	if x.right != t.nilNode {
		x.right.parent = y
	}

	x.parent = y.parent

	if y.parent == t.nilNode {
		t.root = x
	} else if y == y.parent.left {
		y.parent.left = x
	} else {
		y.parent.right = x
	}

	x.right = y
	y.parent = x

	x.size = y.size
	y.size = y.left.size + y.right.size + 1
}
