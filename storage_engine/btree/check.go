package btree

import (
	"cmp"

	"github.com/pkg/errors"
)

// Check walks the whole tree and verifies its structural invariants:
// key order inside and across nodes, capacity of non-root nodes, child
// counts of inner nodes, uniform leaf depth and the key count.
func (t *BTree[K, V]) Check() error {
	c := checker[K, V]{leafDepth: -1}
	if err := c.node(t.root, 0, nil, nil, true); err != nil {
		return err
	}
	if c.count != t.size {
		return errors.Errorf("btree: counted %d keys, tree says %d", c.count, t.size)
	}
	return nil
}

type checker[K cmp.Ordered, V any] struct {
	leafDepth int
	count     int
}

func (c *checker[K, V]) node(n *Node[K, V], depth int, lo, hi *K, isRoot bool) error {
	if !isRoot && len(n.keys) > NodeCapacity {
		return errors.Errorf("btree: %s at depth %d holds %d keys, max %d", n.kind, depth, len(n.keys), NodeCapacity)
	}
	if len(n.keys) > n.capacity {
		return errors.Errorf("btree: %s at depth %d over its capacity %d", n.kind, depth, n.capacity)
	}
	for i, k := range n.keys {
		if i > 0 && !(n.keys[i-1] < k) {
			return errors.Errorf("btree: keys out of order at depth %d index %d", depth, i)
		}
		if lo != nil && k < *lo {
			return errors.Errorf("btree: key below its subtree bound at depth %d", depth)
		}
		if hi != nil && !(k < *hi) {
			return errors.Errorf("btree: key above its subtree bound at depth %d", depth)
		}
	}

	switch n.kind {
	case NodeLeaf:
		if len(n.values) != len(n.keys) {
			return errors.Errorf("btree: leaf has %d keys but %d values", len(n.keys), len(n.values))
		}
		if c.leafDepth < 0 {
			c.leafDepth = depth
		} else if c.leafDepth != depth {
			return errors.Errorf("btree: leaves at depth %d and %d", c.leafDepth, depth)
		}
		c.count += len(n.keys)
		return nil

	case NodeInner:
		if len(n.keys) == 0 {
			return errors.Errorf("btree: empty inner node at depth %d", depth)
		}
		if len(n.children) != len(n.keys)+1 {
			return errors.Errorf("btree: inner node has %d keys but %d children", len(n.keys), len(n.children))
		}
		for i, child := range n.children {
			childLo, childHi := lo, hi
			if i > 0 {
				childLo = &n.keys[i-1]
			}
			if i < len(n.keys) {
				childHi = &n.keys[i]
			}
			if err := c.node(child, depth+1, childLo, childHi, false); err != nil {
				return err
			}
		}
		return nil

	default:
		return errors.Errorf("btree: unknown node kind %d", n.kind)
	}
}
