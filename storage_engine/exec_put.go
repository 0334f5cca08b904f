package storageengine

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Put stores value under key. The value is appended to the heap and the
// index is pointed at it; an existing key is overwritten and its old heap
// tuple is left unreferenced.
func (se *StorageEngine) Put(key uint64, value []byte) (replaced bool, err error) {
	se.mu.Lock()
	defer se.mu.Unlock()
	if se.closed {
		return false, ErrClosed
	}

	rid, err := se.Heap.InsertRow(value)
	if err != nil {
		return false, errors.WithMessagef(err, "put %d", key)
	}
	replaced, err = se.Index.Insert(key, rid)
	if err != nil {
		return false, errors.WithMessagef(err, "put %d: index", key)
	}

	se.logger.Debug("put",
		zap.Uint64("key", key),
		zap.Stringer("rid", rid),
		zap.Bool("replaced", replaced))
	return replaced, nil
}
