// Structure of the in-memory B+ Tree
/*
BTree
 ├── Inner Node (keys + owned child pointers)
 │      └── Child Inner Nodes ...
 │             └── Leaf Nodes (keys + values)


- keys: strictly ascending within a node
- inner nodes: len(children) == len(keys)+1
- leaf nodes: len(values) == len(keys)
- children[i] holds keys < keys[i], children[i+1] holds keys >= keys[i]
- all leaves at the same depth
- every non-root node holds at most NodeCapacity keys

*/
package btree

import (
	"KzDB/types"
	"cmp"
)

type NodeKind uint8

const (
	NodeLeaf NodeKind = iota
	NodeInner
)

func (k NodeKind) String() string {
	switch k {
	case NodeLeaf:
		return "leaf"
	case NodeInner:
		return "inner"
	default:
		return "unknown"
	}
}

// NodeCapacity is the max number of keys in a node once the tree has split.
const NodeCapacity = types.NodeCapacity

// Node is either a leaf (keys + values) or an inner node (keys + children),
// told apart by kind. Inner nodes own their children.
type Node[K cmp.Ordered, V any] struct {
	kind     NodeKind
	keys     []K
	values   []V           // leaf only
	children []*Node[K, V] // inner only
	capacity int
}

// BTree owns the root and a running count of stored keys.
type BTree[K cmp.Ordered, V any] struct {
	root *Node[K, V]
	size int
}

// splitResult is what an insert hands back to its parent. When split is
// false the child absorbed the insert; otherwise separator and right must be
// installed next to the child that split.
type splitResult[K cmp.Ordered, V any] struct {
	split     bool
	separator K
	right     *Node[K, V]
}

func (n *Node[K, V]) Kind() NodeKind { return n.kind }

func (n *Node[K, V]) Keys() []K { return n.keys }

// Values returns the values of a leaf, nil for an inner node.
func (n *Node[K, V]) Values() []V { return n.values }

// Children returns the children of an inner node, nil for a leaf.
func (n *Node[K, V]) Children() []*Node[K, V] { return n.children }

func (n *Node[K, V]) Capacity() int { return n.capacity }
