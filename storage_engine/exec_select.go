package storageengine

import (
	"KzDB/types"

	"github.com/pkg/errors"
)

// Get returns the value stored under key.
func (se *StorageEngine) Get(key uint64) ([]byte, bool, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()
	if se.closed {
		return nil, false, ErrClosed
	}

	rid, ok, err := se.Index.Lookup(key)
	if err != nil || !ok {
		return nil, false, err
	}
	value, err := se.Heap.GetRow(rid)
	if err != nil {
		return nil, false, errors.WithMessagef(err, "get %d: heap row %s", key, rid)
	}
	return value, true, nil
}

// Scan calls fn for every key in [lo, hi) in ascending order until fn returns false.
func (se *StorageEngine) Scan(lo, hi uint64, fn func(key uint64, value []byte) bool) error {
	se.mu.RLock()
	defer se.mu.RUnlock()
	if se.closed {
		return ErrClosed
	}

	var rowErr error
	err := se.Index.Scan(lo, hi, func(key uint64, rid types.RecordID) bool {
		value, err := se.Heap.GetRow(rid)
		if err != nil {
			rowErr = errors.WithMessagef(err, "scan: key %d heap row %s", key, rid)
			return false
		}
		return fn(key, value)
	})
	if err != nil {
		return err
	}
	return rowErr
}

// ScanHeap walks every stored tuple in heap chain order, including values
// that an overwrite has left unreferenced.
func (se *StorageEngine) ScanHeap(fn func(rid types.RecordID, data []byte) bool) error {
	se.mu.RLock()
	defer se.mu.RUnlock()
	if se.closed {
		return ErrClosed
	}
	return se.Heap.Scan(fn)
}
