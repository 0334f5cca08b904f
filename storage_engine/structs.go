package storageengine

import (
	heapfile "KzDB/storage_engine/access/heapfile_manager"
	indexfile "KzDB/storage_engine/access/indexfile_manager"
	"KzDB/storage_engine/bufferpool"
	diskmanager "KzDB/storage_engine/disk_manager"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StorageEngine ties one database file together: the disk manager owns the
// file, the buffer pool caches its pages, the heap holds values and the
// primary index maps keys to heap records. Page 0 holds the metadata.
type StorageEngine struct {
	DiskManager *diskmanager.DiskManager
	BufferPool  *bufferpool.BufferPool
	Heap        *heapfile.HeapFile
	Index       *indexfile.PrimaryIndex

	path   string
	id     uuid.UUID
	logger *zap.Logger
	closed bool

	// the core below is single-threaded; this makes the facade safe to share
	mu sync.RWMutex
}

// EngineStats is a snapshot for the CLI and the HTTP stats endpoint.
type EngineStats struct {
	Path        string                     `json:"path"`
	UUID        string                     `json:"uuid"`
	Keys        uint64                     `json:"keys"`
	FileSize    int64                      `json:"file_size"`
	FilePages   int64                      `json:"file_pages"`
	HeapPages   uint32                     `json:"heap_pages"`
	IndexRoot   uint32                     `json:"index_root"`
	IndexHeight int                        `json:"index_height"`
	BufferPool  bufferpool.BufferPoolStats `json:"buffer_pool"`
}
