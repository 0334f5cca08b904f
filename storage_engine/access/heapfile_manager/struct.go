package heapfile

import (
	"KzDB/storage_engine/bufferpool"
	"KzDB/types"
	"sync"

	"go.uber.org/zap"
)

// HeapFile is an append-only chain of slotted pages. Pages are linked
// through the page header prev/next fields, head first.
type HeapFile struct {
	head       types.PageID // first page of the chain
	tail       types.PageID // page new tuples go to
	numPages   uint32       // pages in the chain
	bufferPool *bufferpool.BufferPool
	logger     *zap.Logger
	mu         sync.RWMutex
}

// HeapStats describes the chain.
type HeapStats struct {
	Head     types.PageID
	Tail     types.PageID
	NumPages uint32
}
