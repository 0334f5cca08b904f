package bplus

import (
	"KzDB/storage_engine/bufferpool"
	"KzDB/types"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// OpenBPlusTree opens the tree rooted at root inside the shared buffer pool.
// With root == InvalidPageID a fresh empty root leaf is allocated.
//
// The tree does not own a metadata page: whoever opens it persists Root()
// and Len() (the storage engine keeps them in page 0).
func OpenBPlusTree(bufferPool *bufferpool.BufferPool, root types.PageID, count uint64, logger *zap.Logger) (*BPlusTree, error) {
	if bufferPool == nil {
		return nil, errors.New("OpenBPlusTree: buffer pool not set")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	t := &BPlusTree{
		root:       root,
		count:      count,
		bufferPool: bufferPool,
		logger:     logger.Named("bplus"),
	}

	if root == types.InvalidPageID {
		leaf, err := t.newNode(NodeLeaf)
		if err != nil {
			return nil, errors.WithMessage(err, "OpenBPlusTree: failed to allocate root")
		}
		err = t.writeNode(leaf)
		t.releaseNode(leaf)
		if err != nil {
			return nil, err
		}
		t.root = leaf.pageID
		t.count = 0
		t.logger.Debug("new tree", zapPage(t.root))
		return t, nil
	}

	// make sure the root actually decodes as an index node
	node, err := t.fetchNode(root)
	if err != nil {
		return nil, errors.WithMessagef(err, "OpenBPlusTree: bad root %d", root)
	}
	t.releaseNode(node)
	t.logger.Debug("loaded tree", zapPage(t.root), zap.Uint64("count", count))
	return t, nil
}

// Root returns the page id of the current root node.
func (t *BPlusTree) Root() types.PageID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root
}

// Len returns the number of keys stored.
func (t *BPlusTree) Len() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.count
}

// Height walks the leftmost spine, 1 for a lone leaf root.
func (t *BPlusTree) Height() (int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	h := 0
	nodeID := t.root
	for {
		node, err := t.fetchNode(nodeID)
		if err != nil {
			return 0, err
		}
		h++
		isLeaf := node.nodeType == NodeLeaf
		if !isLeaf {
			nodeID = node.children[0]
		}
		t.releaseNode(node)
		if isLeaf {
			return h, nil
		}
	}
}

func zapPage(id types.PageID) zap.Field {
	return zap.Uint32("page_id", uint32(id))
}

func zapErr(err error) zap.Field {
	return zap.Error(err)
}
