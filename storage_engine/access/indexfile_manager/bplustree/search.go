package bplus

import "github.com/pkg/errors"

// Search looks for a key in the B+Tree and returns a copy of its value.
func (t *BPlusTree) Search(key uint64) ([]byte, bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	leaf, _, err := t.FindLeaf(key)
	if err != nil {
		return nil, false, errors.WithMessage(err, "failed to find leaf")
	}
	defer t.releaseNode(leaf)

	idx := binarySearch(leaf.keys, key)
	if idx == -1 {
		return nil, false, nil
	}
	return append([]byte(nil), leaf.values[idx]...), true, nil
}
