package bplus

import (
	"KzDB/types"

	"github.com/pkg/errors"
)

// FindLeaf descends from the root to the leaf that should hold key.
// The leaf comes back pinned, caller releases it. path lists the internal
// nodes passed on the way down, root first; they are not pinned.
func (t *BPlusTree) FindLeaf(key uint64) (leaf *Node, path []types.PageID, err error) {
	nodeID := t.root
	for {
		node, err := t.fetchNode(nodeID)
		if err != nil {
			return nil, nil, errors.WithMessagef(err, "FindLeaf: failed to fetch node %d", nodeID)
		}

		// leaf found, caller unpins
		if node.nodeType == NodeLeaf {
			return node, path, nil
		}

		if len(node.children) == 0 {
			t.releaseNode(node)
			return nil, nil, errors.Wrapf(ErrCorruptNode, "FindLeaf: internal node %d has no children", nodeID)
		}
		path = append(path, nodeID)
		nextID := node.children[childIndex(node.keys, key)]
		t.releaseNode(node)
		nodeID = nextID
	}
}
