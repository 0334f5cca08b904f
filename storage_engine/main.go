package storageengine

import (
	heapfile "KzDB/storage_engine/access/heapfile_manager"
	indexfile "KzDB/storage_engine/access/indexfile_manager"
	"KzDB/storage_engine/bufferpool"
	diskmanager "KzDB/storage_engine/disk_manager"
	"KzDB/types"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

/*
The main file of the storage engine. Open wires the disk manager, the buffer
pool, the heap and the primary index over a single database file, creating
the file layout on first use and restoring it from page 0 afterwards.
*/

var ErrClosed = errors.New("storageengine: engine is closed")

// Open opens or creates the database file at path.
func Open(path string, opts ...Option) (*StorageEngine, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.PoolSize <= 0 {
		return nil, errors.Errorf("storageengine: pool size must be positive, got %d", o.PoolSize)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(err, "failed to create db directory")
		}
	}

	dm, err := diskmanager.Open(path, o.Logger.Named("disk"))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to open disk manager")
	}

	bp, err := bufferpool.NewBufferPool(o.PoolSize, dm,
		bufferpool.WithLogger(o.Logger.Named("bufferpool")),
		bufferpool.WithVictimCache(o.VictimCacheBytes),
	)
	if err != nil {
		_ = dm.Close()
		return nil, errors.WithMessage(err, "failed to init buffer pool")
	}

	se := &StorageEngine{
		DiskManager: dm,
		BufferPool:  bp,
		path:        path,
		logger:      o.Logger,
	}

	pages, err := dm.NumPages()
	if err == nil {
		if pages == 0 {
			err = se.create()
		} else {
			err = se.load()
		}
	}
	if err != nil {
		_ = bp.Close()
		_ = dm.Close()
		return nil, err
	}

	se.logger.Info("storage engine opened",
		zap.String("path", path),
		zap.String("uuid", se.id.String()),
		zap.Uint64("keys", se.Index.Len()),
		zap.Int("pool_size", o.PoolSize))
	return se, nil
}

// create lays out a fresh file: heap head page, empty index root, then page 0.
func (se *StorageEngine) create() error {
	se.id = uuid.New()

	heap, err := heapfile.OpenHeapFile(se.BufferPool, types.InvalidPageID, types.InvalidPageID, se.logger)
	if err != nil {
		return err
	}
	index, err := indexfile.OpenPrimaryIndex(se.BufferPool, types.InvalidPageID, 0, se.logger.Named("index"))
	if err != nil {
		return err
	}
	se.Heap, se.Index = heap, index

	return se.flush()
}

func (se *StorageEngine) load() error {
	buf := make([]byte, types.PageSize)
	if err := se.DiskManager.ReadMetadata(buf); err != nil {
		return errors.WithMessage(err, "failed to read metadata page")
	}
	meta, err := decodeMetadata(buf)
	if err != nil {
		return err
	}
	se.id = meta.ID
	se.DiskManager.SetNextPageID(meta.NextPageID)

	heap, err := heapfile.OpenHeapFile(se.BufferPool, meta.HeapHead, meta.HeapTail, se.logger)
	if err != nil {
		return errors.WithMessage(err, "failed to open heap")
	}
	index, err := indexfile.OpenPrimaryIndex(se.BufferPool, meta.IndexRoot, meta.IndexCount, se.logger.Named("index"))
	if err != nil {
		return err
	}
	se.Heap, se.Index = heap, index
	return nil
}

// flush writes every dirty page and then the metadata page that points at them.
func (se *StorageEngine) flush() error {
	if err := se.BufferPool.FlushAllPages(); err != nil {
		return errors.WithMessage(err, "failed to flush pages")
	}
	meta := metadata{
		ID:         se.id,
		IndexRoot:  se.Index.Root(),
		IndexCount: se.Index.Len(),
		HeapHead:   se.Heap.Head(),
		HeapTail:   se.Heap.Tail(),
		NextPageID: se.DiskManager.NextPageID(),
	}
	if err := se.DiskManager.WriteMetadata(meta.encode()); err != nil {
		return errors.WithMessage(err, "failed to write metadata page")
	}
	return nil
}

// Flush makes everything written so far durable.
func (se *StorageEngine) Flush() error {
	se.mu.Lock()
	defer se.mu.Unlock()
	if se.closed {
		return ErrClosed
	}
	return se.flush()
}

// Close flushes and releases the file. Closing twice is a no-op.
func (se *StorageEngine) Close() error {
	se.mu.Lock()
	defer se.mu.Unlock()
	if se.closed {
		return nil
	}
	se.closed = true

	err := se.flush()
	if cerr := se.BufferPool.Close(); err == nil {
		err = cerr
	}
	if cerr := se.DiskManager.Close(); err == nil {
		err = cerr
	}
	se.logger.Info("storage engine closed", zap.String("path", se.path), zap.Error(err))
	return err
}

// Path returns the database file path.
func (se *StorageEngine) Path() string { return se.path }

// ID returns the database uuid stored in page 0.
func (se *StorageEngine) ID() uuid.UUID { return se.id }
