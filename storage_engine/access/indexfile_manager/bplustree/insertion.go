package bplus

import (
	"github.com/pkg/errors"
)

var ErrValueTooLarge = errors.Errorf("bplus: value larger than %d bytes", MaxValLen)

// Insertion stores value under key. An existing key is overwritten in place
// and replaced is true.
func (t *BPlusTree) Insertion(key uint64, value []byte) (replaced bool, err error) {
	if len(value) > MaxValLen {
		return false, errors.Wrapf(ErrValueTooLarge, "key %d: %d bytes", key, len(value))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	leaf, path, err := t.FindLeaf(key)
	if err != nil {
		return false, errors.WithMessage(err, "Insertion: failed to find leaf")
	}

	val := append([]byte(nil), value...)

	if idx := binarySearch(leaf.keys, key); idx != -1 {
		// key exists, overwrite in place
		leaf.values[idx] = val
		err := t.writeNode(leaf)
		t.releaseNode(leaf)
		return true, err
	}

	// insert key/value in sorted position
	pos := lowerBound(leaf.keys, key)
	leaf.keys = insert(leaf.keys, pos, key)
	leaf.values = insert(leaf.values, pos, val)

	// split if overflow
	if len(leaf.keys) > MaxKeys {
		err = t.SplitLeaf(leaf, path)
	} else {
		err = t.writeNode(leaf)
		t.releaseNode(leaf)
	}
	if err != nil {
		return false, err
	}
	t.count++
	return false, nil
}
