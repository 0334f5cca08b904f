package btree

import "cmp"

// New returns an empty tree whose root leaf has the full node capacity.
func New[K cmp.Ordered, V any]() *BTree[K, V] {
	return NewWithCapacity[K, V](NodeCapacity)
}

// NewWithCapacity returns an empty tree whose root leaf splits after capacity
// keys. Values outside [1, NodeCapacity] fall back to NodeCapacity. Nodes
// created by later splits always use NodeCapacity.
func NewWithCapacity[K cmp.Ordered, V any](capacity int) *BTree[K, V] {
	if capacity < 1 || capacity > NodeCapacity {
		capacity = NodeCapacity
	}
	return &BTree[K, V]{root: newLeaf[K, V](capacity)}
}

func newLeaf[K cmp.Ordered, V any](capacity int) *Node[K, V] {
	return &Node[K, V]{
		kind:     NodeLeaf,
		keys:     make([]K, 0, capacity+1),
		values:   make([]V, 0, capacity+1),
		capacity: capacity,
	}
}

func newInner[K cmp.Ordered, V any](capacity int) *Node[K, V] {
	return &Node[K, V]{
		kind:     NodeInner,
		keys:     make([]K, 0, capacity+1),
		children: make([]*Node[K, V], 0, capacity+2),
		capacity: capacity,
	}
}

// Len returns the number of keys stored.
func (t *BTree[K, V]) Len() int { return t.size }

// Root exposes the root node for inspection.
func (t *BTree[K, V]) Root() *Node[K, V] { return t.root }

// Height is the number of levels, 1 for a lone leaf root.
func (t *BTree[K, V]) Height() int {
	h := 1
	for n := t.root; n.kind == NodeInner; n = n.children[0] {
		h++
	}
	return h
}
