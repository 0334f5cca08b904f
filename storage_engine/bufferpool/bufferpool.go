package bufferpool

import (
	diskmanager "KzDB/storage_engine/disk_manager"
	"KzDB/storage_engine/page"
	"KzDB/types"
	"maps"
	"slices"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

/*
This file is the main file of the bufferpool
The buffer pool holds a fixed arena of frames, a page table (page id -> frame)
and a free-frame list. A fetched page is pinned until the caller unpins it,
only frames with pin count zero are eviction candidates, least recently
unpinned first. Dirty victims are written back through the disk manager.

Evicted pages that are clean on disk may also be parked in a ristretto cache
so a page bouncing in and out of the pool does not always cost a disk read.
The frame copy is always authoritative: a page leaves the victim cache the
moment it is loaded back into a frame.
*/

var (
	ErrNoFreeFrame     = errors.New("bufferpool: no free frame, all pages are pinned")
	ErrPageNotResident = errors.New("bufferpool: page not in buffer pool")
	ErrPageNotPinned   = errors.New("bufferpool: page is not pinned")
	ErrInvalidPageID   = errors.New("bufferpool: invalid page id")
)

// NewBufferPool creates a buffer pool with capacity frames on top of diskManager.
func NewBufferPool(capacity int, diskManager *diskmanager.DiskManager, opts ...Option) (*BufferPool, error) {
	if capacity <= 0 {
		capacity = types.BufferPoolSize
	}
	if diskManager == nil {
		return nil, errors.New("bufferpool: disk manager not set")
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	bp := &BufferPool{
		frames:      make([]*page.Page, capacity),
		pageTable:   make(map[types.PageID]types.FrameID, capacity),
		freeFrames:  make([]types.FrameID, 0, capacity),
		replacer:    newLRUReplacer(capacity),
		diskManager: diskManager,
		logger:      o.logger,
	}
	for i := range bp.frames {
		bp.frames[i] = &page.Page{Data: make([]byte, types.PageSize)}
		bp.freeFrames = append(bp.freeFrames, types.FrameID(i))
	}

	if o.victimCacheBytes > 0 {
		victims, err := ristretto.NewCache(&ristretto.Config[uint32, []byte]{
			NumCounters: int64(capacity) * 10 * 4,
			MaxCost:     o.victimCacheBytes,
			BufferItems: 64,
		})
		if err != nil {
			return nil, errors.Wrap(err, "bufferpool: victim cache")
		}
		bp.victims = victims
	}

	return bp, nil
}

// FetchPage returns the page pinned, loading it from disk if necessary.
// Every successful FetchPage must be paired with one UnpinPage.
func (bp *BufferPool) FetchPage(pageID types.PageID) (*page.Page, error) {
	if pageID == types.InvalidPageID {
		return nil, ErrInvalidPageID
	}

	bp.mu.Lock()
	defer bp.mu.Unlock()

	if frameID, ok := bp.pageTable[pageID]; ok {
		pg := bp.frames[frameID]
		bp.hits++
		pg.PinCount++
		if pg.PinCount == 1 {
			bp.replacer.Pin(frameID)
		}
		bp.logger.Debug("buffer pool hit",
			zap.Uint32("page_id", uint32(pageID)),
			zap.Int32("pin_count", pg.PinCount))
		return pg, nil
	}

	bp.misses++
	frameID, err := bp.acquireFrame()
	if err != nil {
		return nil, errors.WithMessagef(err, "fetch page %d", pageID)
	}
	pg := bp.frames[frameID]

	if err := bp.load(pageID, pg); err != nil {
		bp.freeFrames = append(bp.freeFrames, frameID)
		return nil, errors.WithMessagef(err, "fetch page %d", pageID)
	}

	pg.PinCount = 1
	pg.IsDirty = false
	bp.pageTable[pageID] = frameID

	bp.logger.Debug("buffer pool miss",
		zap.Uint32("page_id", uint32(pageID)),
		zap.Uint32("frame", uint32(frameID)))
	return pg, nil
}

// NewPage allocates a fresh page id, installs an empty page linked after prev
// in a frame without touching the disk, and returns it pinned and dirty.
func (bp *BufferPool) NewPage(prev types.PageID) (*page.Page, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameID, err := bp.acquireFrame()
	if err != nil {
		return nil, errors.WithMessage(err, "new page")
	}

	pageID, err := bp.diskManager.AllocatePage()
	if err != nil {
		bp.freeFrames = append(bp.freeFrames, frameID)
		return nil, errors.WithMessage(err, "new page")
	}

	pg := bp.frames[frameID]
	pg.Init(pageID, prev)
	pg.PinCount = 1
	pg.IsDirty = true
	bp.pageTable[pageID] = frameID

	bp.logger.Debug("buffer pool new page",
		zap.Uint32("page_id", uint32(pageID)),
		zap.Uint32("frame", uint32(frameID)))
	return pg, nil
}

// UnpinPage drops one pin on the page. isDirty is OR-ed into the page's
// dirty flag; once the pin count reaches zero the page may be evicted.
func (bp *BufferPool) UnpinPage(pageID types.PageID, isDirty bool) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameID, ok := bp.pageTable[pageID]
	if !ok {
		return errors.Wrapf(ErrPageNotResident, "unpin page %d", pageID)
	}
	pg := bp.frames[frameID]
	if pg.PinCount <= 0 {
		return errors.Wrapf(ErrPageNotPinned, "unpin page %d", pageID)
	}

	pg.PinCount--
	if isDirty {
		pg.IsDirty = true
	}
	if pg.PinCount == 0 {
		bp.replacer.Unpin(frameID)
	}
	return nil
}

// FlushPage writes a resident page to disk if it is dirty.
func (bp *BufferPool) FlushPage(pageID types.PageID) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameID, ok := bp.pageTable[pageID]
	if !ok {
		return errors.Wrapf(ErrPageNotResident, "flush page %d", pageID)
	}
	return bp.flushFrame(frameID)
}

// FlushAllPages writes every dirty resident page to disk, in page id order.
func (bp *BufferPool) FlushAllPages() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	ids := slices.Sorted(maps.Keys(bp.pageTable))
	bp.logger.Debug("buffer pool flush all", zap.Int("resident", len(ids)))

	for _, pageID := range ids {
		if err := bp.flushFrame(bp.pageTable[pageID]); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes everything and releases the victim cache.
// The disk manager is owned by the caller and stays open.
func (bp *BufferPool) Close() error {
	if err := bp.FlushAllPages(); err != nil {
		return err
	}

	bp.mu.Lock()
	defer bp.mu.Unlock()
	if bp.victims != nil {
		bp.victims.Close()
		bp.victims = nil
	}
	return nil
}

// acquireFrame returns an empty frame, evicting the LRU unpinned page if needed.
// Assumes lock is already held
func (bp *BufferPool) acquireFrame() (types.FrameID, error) {
	if n := len(bp.freeFrames); n > 0 {
		frameID := bp.freeFrames[n-1]
		bp.freeFrames = bp.freeFrames[:n-1]
		return frameID, nil
	}

	frameID, ok := bp.replacer.Victim()
	if !ok {
		return 0, ErrNoFreeFrame
	}

	victim := bp.frames[frameID]
	wasDirty := victim.IsDirty
	if err := bp.flushFrame(frameID); err != nil {
		// keep the victim resident and evictable
		bp.replacer.Unpin(frameID)
		return 0, errors.WithMessagef(err, "evict page %d", victim.ID)
	}

	if bp.victims != nil {
		buf := make([]byte, types.PageSize)
		copy(buf, victim.Data)
		bp.victims.Set(uint32(victim.ID), buf, int64(len(buf)))
		bp.victims.Wait()
	}

	bp.logger.Debug("buffer pool evict",
		zap.Uint32("page_id", uint32(victim.ID)),
		zap.Bool("dirty", wasDirty))

	delete(bp.pageTable, victim.ID)
	bp.evictions++
	return frameID, nil
}

// load fills pg with page pageID, from the victim cache when possible.
// Assumes lock is already held
func (bp *BufferPool) load(pageID types.PageID, pg *page.Page) error {
	if bp.victims != nil {
		if buf, ok := bp.victims.Get(uint32(pageID)); ok {
			copy(pg.Data, buf)
			bp.victims.Del(uint32(pageID))
			bp.victimHits++
			return pg.Parse()
		}
	}

	if err := bp.diskManager.ReadPage(pageID, pg.Data); err != nil {
		return err
	}
	return pg.Parse()
}

// flushFrame writes the frame's page back if it is dirty.
// Assumes lock is already held
func (bp *BufferPool) flushFrame(frameID types.FrameID) error {
	pg := bp.frames[frameID]
	if !pg.IsDirty {
		return nil
	}
	if err := bp.diskManager.WritePage(pg.ID, pg.Data); err != nil {
		return errors.WithMessagef(err, "flush page %d", pg.ID)
	}
	pg.IsDirty = false
	bp.logger.Debug("buffer pool flush", zap.Uint32("page_id", uint32(pg.ID)))
	return nil
}
