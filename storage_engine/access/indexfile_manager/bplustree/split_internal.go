package bplus

import (
	"KzDB/types"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// splitInternal splits a full internal node and promotes the middle key.
// The promoted key is kept in neither half. Consumes the pin on node.
func (t *BPlusTree) splitInternal(node *Node, path []types.PageID) error {
	promoteKey, rightID, err := t.splitInternalNode(node)
	if err != nil {
		return err
	}
	return t.insertIntoParent(path, node.pageID, promoteKey, rightID)
}

func (t *BPlusTree) splitInternalNode(node *Node) (uint64, types.PageID, error) {
	defer t.releaseNode(node)

	// mid is the index of the key to promote
	mid := len(node.keys) / 2
	promoteKey := node.keys[mid]

	right, err := t.newNode(NodeInternal)
	if err != nil {
		return 0, 0, errors.WithMessage(err, "splitInternal: failed to allocate right sibling")
	}
	defer t.releaseNode(right)

	right.keys = append(right.keys, node.keys[mid+1:]...)
	right.children = append(right.children, node.children[mid+1:]...)

	// shrink left
	node.keys = node.keys[:mid]
	node.children = node.children[:mid+1]

	if err := t.writeNode(node); err != nil {
		return 0, 0, err
	}
	if err := t.writeNode(right); err != nil {
		return 0, 0, err
	}

	t.logger.Debug("split internal",
		zapPage(node.pageID),
		zap.Uint32("right", uint32(right.pageID)),
		zap.Uint64("promoted", promoteKey))

	return promoteKey, right.pageID, nil
}
