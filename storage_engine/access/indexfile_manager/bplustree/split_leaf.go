package bplus

import (
	"KzDB/types"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SplitLeaf moves the upper half of an overflowing leaf into a new right
// sibling, links it into the leaf chain and pushes the separator (the first
// key of the right leaf) into the parent. Consumes the pin on leaf.
func (t *BPlusTree) SplitLeaf(leaf *Node, path []types.PageID) error {
	sepKey, rightID, err := t.splitLeafNode(leaf)
	if err != nil {
		return err
	}
	// both halves are unpinned again before walking up
	return t.insertIntoParent(path, leaf.pageID, sepKey, rightID)
}

func (t *BPlusTree) splitLeafNode(leaf *Node) (uint64, types.PageID, error) {
	defer t.releaseNode(leaf)

	mid := len(leaf.keys) / 2

	right, err := t.newNode(NodeLeaf)
	if err != nil {
		return 0, 0, errors.WithMessage(err, "splitLeaf: failed to allocate right sibling")
	}
	defer t.releaseNode(right)

	right.keys = append(right.keys, leaf.keys[mid:]...)
	right.values = append(right.values, leaf.values[mid:]...)
	right.next = leaf.next // right inherits leaf's old next pointer
	right.prev = leaf.pageID

	if leaf.next != types.InvalidPageID {
		if err := t.relinkPrev(leaf.next, right.pageID); err != nil {
			return 0, 0, err
		}
	}

	leaf.keys = leaf.keys[:mid]
	leaf.values = leaf.values[:mid]
	leaf.next = right.pageID

	if err := t.writeNode(leaf); err != nil {
		return 0, 0, err
	}
	if err := t.writeNode(right); err != nil {
		return 0, 0, err
	}

	sepKey := right.keys[0]
	t.logger.Debug("split leaf",
		zapPage(leaf.pageID),
		zap.Uint32("right", uint32(right.pageID)),
		zap.Uint64("separator", sepKey))

	return sepKey, right.pageID, nil
}

// relinkPrev points the prev link of page pageID at prev.
func (t *BPlusTree) relinkPrev(pageID, prev types.PageID) error {
	pg, err := t.bufferPool.FetchPage(pageID)
	if err != nil {
		return errors.WithMessagef(err, "splitLeaf: failed to fetch next sibling %d", pageID)
	}
	pg.SetPrev(prev)
	return t.bufferPool.UnpinPage(pageID, true)
}
