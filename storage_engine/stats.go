package storageengine

import (
	"io"

	"github.com/pkg/errors"
)

// Stats returns a snapshot of the engine.
func (se *StorageEngine) Stats() (EngineStats, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()
	if se.closed {
		return EngineStats{}, ErrClosed
	}

	size, err := se.DiskManager.Size()
	if err != nil {
		return EngineStats{}, err
	}
	pages, err := se.DiskManager.NumPages()
	if err != nil {
		return EngineStats{}, err
	}
	height, err := se.Index.Height()
	if err != nil {
		return EngineStats{}, errors.WithMessage(err, "index height")
	}

	return EngineStats{
		Path:        se.path,
		UUID:        se.id.String(),
		Keys:        se.Index.Len(),
		FileSize:    size,
		FilePages:   pages,
		HeapPages:   se.Heap.Stats().NumPages,
		IndexRoot:   uint32(se.Index.Root()),
		IndexHeight: height,
		BufferPool:  se.BufferPool.GetStats(),
	}, nil
}

// Inspect writes a level-by-level dump of the index to w.
func (se *StorageEngine) Inspect(w io.Writer) error {
	se.mu.RLock()
	defer se.mu.RUnlock()
	if se.closed {
		return ErrClosed
	}
	return se.Index.Inspect(w)
}

// Check verifies the index structure: key order, separator bounds,
// uniform leaf depth and the leaf chain.
func (se *StorageEngine) Check() error {
	se.mu.RLock()
	defer se.mu.RUnlock()
	if se.closed {
		return ErrClosed
	}
	return se.Index.Check()
}
