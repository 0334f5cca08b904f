// Index inspection for debugging.
// Use InspectTo(w) to print a human-readable dump of the tree, level by level.

package bplus

import (
	"KzDB/types"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// InspectTo writes a BFS dump of the tree to w: every node's keys and,
// for leaves, key → value (hex, truncated) plus the sibling links.
func (t *BPlusTree) InspectTo(w io.Writer) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	p := func(format string, args ...any) { fmt.Fprintf(w, format, args...) }

	p("B+ tree: root page %d, %d keys\n", t.root, t.count)
	p("  Nodes (BFS):\n")

	queue := []types.PageID{t.root}
	for level := 0; len(queue) > 0; level++ {
		p("  Level %d:\n", level)
		var nextLevel []types.PageID
		for _, pageID := range queue {
			node, err := t.fetchNode(pageID)
			if err != nil {
				p("    [page %d] read error: %v\n", pageID, err)
				continue
			}

			if node.nodeType == NodeInternal {
				p("    [page %d] INTERNAL keys=%v children=%v\n", pageID, node.keys, node.children)
				nextLevel = append(nextLevel, node.children...)
			} else {
				p("    [page %d] LEAF prev=%d next=%d keys=%d\n", pageID, node.prev, node.next, len(node.keys))
				for i, k := range node.keys {
					p("      %d → %s\n", k, shortHex(node.values[i]))
				}
			}
			t.releaseNode(node)
		}
		queue = nextLevel
	}
	return nil
}

func shortHex(b []byte) string {
	const limit = 16
	if len(b) > limit {
		return hex.EncodeToString(b[:limit]) + "…"
	}
	return hex.EncodeToString(b)
}

// Check verifies the on-page tree: key order within and across nodes,
// node capacity, child counts, uniform leaf depth, a leaf chain that visits
// every key in order, and the stored key count.
func (t *BPlusTree) Check() error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	c := &treeChecker{t: t, leafDepth: -1}
	if err := c.visit(t.root, 0, nil, nil); err != nil {
		return err
	}
	if c.count != t.count {
		return errors.Errorf("check: counted %d keys in nodes, tree says %d", c.count, t.count)
	}

	// walk the leaf chain from the leftmost leaf
	var (
		prevID  = types.InvalidPageID
		lastKey uint64
		seen    uint64
	)
	for id := c.firstLeaf; id != types.InvalidPageID; {
		node, err := t.fetchNode(id)
		if err != nil {
			return err
		}
		if node.prev != prevID {
			t.releaseNode(node)
			return errors.Errorf("check: leaf %d has prev %d, expected %d", id, node.prev, prevID)
		}
		for _, k := range node.keys {
			if seen > 0 && k <= lastKey {
				t.releaseNode(node)
				return errors.Errorf("check: leaf chain out of order at key %d", k)
			}
			lastKey = k
			seen++
		}
		prevID, id = id, node.next
		t.releaseNode(node)
	}
	if seen != t.count {
		return errors.Errorf("check: leaf chain holds %d keys, tree says %d", seen, t.count)
	}
	return nil
}

type treeChecker struct {
	t         *BPlusTree
	leafDepth int
	firstLeaf types.PageID
	count     uint64
}

func (c *treeChecker) visit(pageID types.PageID, depth int, lo, hi *uint64) error {
	node, err := c.t.fetchNode(pageID)
	if err != nil {
		return err
	}
	defer c.t.releaseNode(node)

	if len(node.keys) > MaxKeys {
		return errors.Errorf("check: page %d holds %d keys, max %d", pageID, len(node.keys), MaxKeys)
	}
	for i, k := range node.keys {
		if i > 0 && node.keys[i-1] >= k {
			return errors.Errorf("check: page %d keys out of order at %d", pageID, i)
		}
		if (lo != nil && k < *lo) || (hi != nil && k >= *hi) {
			return errors.Errorf("check: page %d key %d outside its parent's range", pageID, k)
		}
	}

	if node.nodeType == NodeLeaf {
		if c.leafDepth < 0 {
			c.leafDepth = depth
			c.firstLeaf = pageID
		} else if c.leafDepth != depth {
			return errors.Errorf("check: leaves at depth %d and %d", c.leafDepth, depth)
		}
		c.count += uint64(len(node.keys))
		return nil
	}

	if len(node.keys) == 0 || len(node.children) != len(node.keys)+1 {
		return errors.Errorf("check: page %d has %d keys and %d children", pageID, len(node.keys), len(node.children))
	}
	children := append([]types.PageID(nil), node.children...)
	keys := append([]uint64(nil), node.keys...)
	// children are visited after this node is unpinned
	c.t.releaseNode(node)

	for i, child := range children {
		childLo, childHi := lo, hi
		if i > 0 {
			childLo = &keys[i-1]
		}
		if i < len(keys) {
			childHi = &keys[i]
		}
		if err := c.visit(child, depth+1, childLo, childHi); err != nil {
			return err
		}
	}
	return nil
}
