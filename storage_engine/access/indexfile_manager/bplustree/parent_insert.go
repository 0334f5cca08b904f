package bplus

import (
	"KzDB/types"
	"slices"

	"github.com/pkg/errors"
)

// insertIntoParent inserts sepKey and rightID next to leftID in the last
// node of path. An empty path means leftID was the root.
// If the parent overflows, it splits and propagates upward.
func (t *BPlusTree) insertIntoParent(path []types.PageID, leftID types.PageID, sepKey uint64, rightID types.PageID) error {
	if len(path) == 0 {
		return t.createNewRoot(leftID, sepKey, rightID)
	}

	parentID := path[len(path)-1]
	parent, err := t.fetchNode(parentID)
	if err != nil {
		return errors.WithMessagef(err, "insertIntoParent: failed to fetch parent %d", parentID)
	}

	idx := slices.Index(parent.children, leftID)
	if idx < 0 {
		t.releaseNode(parent)
		return errors.Wrapf(ErrCorruptNode, "insertIntoParent: page %d is not a child of %d", leftID, parentID)
	}

	// sepKey at idx, rightID at idx+1
	parent.keys = insert(parent.keys, idx, sepKey)
	parent.children = insert(parent.children, idx+1, rightID)

	if len(parent.keys) > MaxKeys {
		return t.splitInternal(parent, path[:len(path)-1])
	}

	err = t.writeNode(parent)
	t.releaseNode(parent)
	return err
}
