package bplus

import (
	"KzDB/types"

	"github.com/pkg/errors"
)

// newNode creates a new page in the buffer pool and returns an empty Node.
// The returned node is pinned, caller must releaseNode when done.
func (t *BPlusTree) newNode(nodeType NodeType) (*Node, error) {
	pg, err := t.bufferPool.NewPage(types.InvalidPageID)
	if err != nil {
		return nil, errors.WithMessage(err, "newNode: failed to allocate page")
	}

	n := &Node{
		pageID:   pg.ID,
		nodeType: nodeType,
		keys:     make([]uint64, 0, MaxKeys+1),
		pg:       pg,
		isDirty:  true,
	}
	if nodeType == NodeLeaf {
		n.values = make([][]byte, 0, MaxKeys+1)
	} else {
		n.children = make([]types.PageID, 0, MaxKeys+2)
	}
	return n, nil
}

// writeNode serializes a node into the frame it is pinned in.
// It does NOT unpin, caller must releaseNode when done.
func (t *BPlusTree) writeNode(n *Node) error {
	if err := SerializeNode(n, n.pg); err != nil {
		return err
	}
	n.isDirty = true
	return nil
}

// fetchNode loads a node through the buffer pool.
// The returned node is pinned, caller must releaseNode when done.
func (t *BPlusTree) fetchNode(pageID types.PageID) (*Node, error) {
	if pageID == types.InvalidPageID {
		return nil, errors.Errorf("fetchNode: invalid pageID %d", pageID)
	}

	pg, err := t.bufferPool.FetchPage(pageID)
	if err != nil {
		return nil, errors.WithMessagef(err, "fetchNode: failed to fetch page %d", pageID)
	}

	n, err := DeserializeNode(pg)
	if err != nil {
		_ = t.bufferPool.UnpinPage(pageID, false)
		return nil, errors.WithMessagef(err, "fetchNode: deserialize failed for page %d", pageID)
	}
	return n, nil
}

// releaseNode drops the node's pin, passing on whether it was written.
func (t *BPlusTree) releaseNode(n *Node) {
	if n == nil || n.pg == nil {
		return
	}
	if err := t.bufferPool.UnpinPage(n.pageID, n.isDirty); err != nil {
		t.logger.Warn("releaseNode: unpin failed", zapPage(n.pageID), zapErr(err))
	}
	n.pg = nil
}
