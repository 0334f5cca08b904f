package bplus

import (
	"KzDB/types"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// createNewRoot creates a new root internal node with leftPageID and rightPageID
// as its two children, separated by promoteKey. The tree grows one level.
func (t *BPlusTree) createNewRoot(leftPageID types.PageID, promoteKey uint64, rightPageID types.PageID) error {
	root, err := t.newNode(NodeInternal)
	if err != nil {
		return errors.WithMessage(err, "createNewRoot: failed to allocate new root")
	}
	defer t.releaseNode(root)

	root.keys = append(root.keys, promoteKey)
	root.children = append(root.children, leftPageID, rightPageID)

	if err := t.writeNode(root); err != nil {
		return err
	}

	t.root = root.pageID
	t.logger.Debug("new root", zapPage(root.pageID), zap.Uint64("key", promoteKey))
	return nil
}
