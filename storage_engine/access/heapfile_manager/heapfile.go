package heapfile

import (
	"KzDB/storage_engine/bufferpool"
	"KzDB/types"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

/*
This file is the start of the heapfile
The heap holds the tuples themselves; the index only stores their RecordID.

Heapfile only talks to the Buffer Pool: new pages come from BufferPool.NewPage
(RAM only, dirty) and reach the disk whenever the pool flushes or evicts them.

Chain of command for an insert:
 1. BufferPool.FetchPage(tail)   → pin the tail page
 2. page.InsertTuple             → ErrPageFull when the tail has no room
 3. BufferPool.NewPage(tail)     → fresh page linked after the old tail
 4. BufferPool.UnpinPage(.., true)
*/

// OpenHeapFile opens the chain head..tail. With head == InvalidPageID a new
// chain with one empty page is created. numPages is informational and is
// recounted on open of an existing chain.
func OpenHeapFile(bufferPool *bufferpool.BufferPool, head, tail types.PageID, logger *zap.Logger) (*HeapFile, error) {
	if bufferPool == nil {
		return nil, errors.New("heapfile: buffer pool not set")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	hf := &HeapFile{
		head:       head,
		tail:       tail,
		bufferPool: bufferPool,
		logger:     logger.Named("heap"),
	}

	if head == types.InvalidPageID {
		pg, err := bufferPool.NewPage(types.InvalidPageID)
		if err != nil {
			return nil, errors.WithMessage(err, "heapfile: failed to allocate first page")
		}
		hf.head, hf.tail, hf.numPages = pg.ID, pg.ID, 1
		if err := bufferPool.UnpinPage(pg.ID, true); err != nil {
			return nil, err
		}
		hf.logger.Debug("new heap", zap.Uint32("head", uint32(hf.head)))
		return hf, nil
	}

	if tail == types.InvalidPageID {
		return nil, errors.Errorf("heapfile: head %d without a tail", head)
	}

	n, err := hf.countPages()
	if err != nil {
		return nil, err
	}
	hf.numPages = n
	hf.logger.Debug("loaded heap",
		zap.Uint32("head", uint32(hf.head)),
		zap.Uint32("tail", uint32(hf.tail)),
		zap.Uint32("pages", n))
	return hf, nil
}

// countPages walks the chain from head and checks it ends at tail.
func (hf *HeapFile) countPages() (uint32, error) {
	var n uint32
	last := types.InvalidPageID
	for id := hf.head; id != types.InvalidPageID; {
		pg, err := hf.bufferPool.FetchPage(id)
		if err != nil {
			return 0, errors.WithMessagef(err, "heapfile: walking chain at page %d", id)
		}
		next := pg.Next
		if err := hf.bufferPool.UnpinPage(id, false); err != nil {
			return 0, err
		}
		last, id = id, next
		n++
	}
	if last != hf.tail {
		return 0, errors.Errorf("heapfile: chain ends at page %d, expected tail %d", last, hf.tail)
	}
	return n, nil
}

func (hf *HeapFile) Head() types.PageID {
	hf.mu.RLock()
	defer hf.mu.RUnlock()
	return hf.head
}

func (hf *HeapFile) Tail() types.PageID {
	hf.mu.RLock()
	defer hf.mu.RUnlock()
	return hf.tail
}

// Stats returns the current shape of the chain.
func (hf *HeapFile) Stats() HeapStats {
	hf.mu.RLock()
	defer hf.mu.RUnlock()
	return HeapStats{Head: hf.head, Tail: hf.tail, NumPages: hf.numPages}
}
