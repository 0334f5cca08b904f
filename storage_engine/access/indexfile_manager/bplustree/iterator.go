package bplus

import "KzDB/types"

// Iterator provides a forward-only range scan over the leaf chain.
type Iterator struct {
	tree  *BPlusTree
	leaf  *Node
	index int
	valid bool
	err   error
}

// SeekGE positions the iterator at the first key >= target.
// The iterator holds a pinned leaf; call Close() when done to release it.
// The tree's read lock is held until Close.
func (t *BPlusTree) SeekGE(target uint64) *Iterator {
	t.mu.RLock()

	it := &Iterator{tree: t}
	leaf, _, err := t.FindLeaf(target)
	if err != nil {
		it.err = err
		return it
	}

	it.leaf = leaf
	it.index = lowerBound(leaf.keys, target)
	it.valid = true
	if it.index >= len(leaf.keys) {
		it.advanceLeaf()
	}
	return it
}

// Next advances the iterator. Returns false when exhausted.
func (it *Iterator) Next() bool {
	if !it.valid {
		return false
	}
	it.index++
	if it.index < len(it.leaf.keys) {
		return true
	}
	return it.advanceLeaf()
}

// advanceLeaf moves to the first key of the next non-empty leaf.
func (it *Iterator) advanceLeaf() bool {
	for {
		nextID := it.leaf.next
		it.tree.releaseNode(it.leaf)
		it.leaf = nil
		if nextID == types.InvalidPageID {
			it.valid = false
			return false
		}

		next, err := it.tree.fetchNode(nextID)
		if err != nil {
			it.err = err
			it.valid = false
			return false
		}
		it.leaf = next
		it.index = 0
		if len(next.keys) > 0 {
			return true
		}
	}
}

// Valid reports whether Key and Value point at an entry.
func (it *Iterator) Valid() bool {
	return it.valid
}

// Err returns the error that stopped the iteration, if any.
func (it *Iterator) Err() error {
	return it.err
}

// Close releases the pinned leaf and the tree lock. Call when done with the iterator.
func (it *Iterator) Close() {
	if it.tree == nil {
		return
	}
	if it.leaf != nil {
		it.tree.releaseNode(it.leaf)
		it.leaf = nil
	}
	it.valid = false
	it.tree.mu.RUnlock()
	it.tree = nil
}

// Key returns the current key.
func (it *Iterator) Key() uint64 {
	if !it.valid {
		return 0
	}
	return it.leaf.keys[it.index]
}

// Value returns the current value.
func (it *Iterator) Value() []byte {
	if !it.valid {
		return nil
	}
	return it.leaf.values[it.index]
}

// Scan calls fn for every key in [lo, hi) in ascending order until fn returns false.
func (t *BPlusTree) Scan(lo, hi uint64, fn func(key uint64, value []byte) bool) error {
	it := t.SeekGE(lo)
	defer it.Close()

	for ok := it.Valid(); ok; ok = it.Next() {
		if it.Key() >= hi {
			break
		}
		if !fn(it.Key(), it.Value()) {
			break
		}
	}
	return it.Err()
}
