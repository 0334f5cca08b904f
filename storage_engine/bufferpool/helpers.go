package bufferpool

import "KzDB/types"

/*
This file holds helper functions for the bufferpool
*/

// GetStats returns current buffer pool statistics
func (bp *BufferPool) GetStats() BufferPoolStats {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	stats := BufferPoolStats{
		Capacity:   len(bp.frames),
		TotalPages: len(bp.pageTable),
		FreeFrames: len(bp.freeFrames),
		Hits:       bp.hits,
		Misses:     bp.misses,
		Evictions:  bp.evictions,
		VictimHits: bp.victimHits,
	}

	for _, frameID := range bp.pageTable {
		pg := bp.frames[frameID]
		if pg.PinCount > 0 {
			stats.PinnedPages++
		}
		if pg.IsDirty {
			stats.DirtyPages++
		}
	}

	if total := bp.hits + bp.misses; total > 0 {
		stats.HitRate = float64(bp.hits) / float64(total)
	}
	return stats
}

// Size returns the current number of pages in the buffer pool
func (bp *BufferPool) Size() int {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return len(bp.pageTable)
}

// Capacity returns the number of frames in the pool
func (bp *BufferPool) Capacity() int {
	return len(bp.frames)
}

// PinCount returns the pin count of a resident page, or -1 if it is not resident.
func (bp *BufferPool) PinCount(pageID types.PageID) int32 {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameID, ok := bp.pageTable[pageID]
	if !ok {
		return -1
	}
	return bp.frames[frameID].PinCount
}

// Contains reports whether the page is resident in a frame.
func (bp *BufferPool) Contains(pageID types.PageID) bool {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	_, ok := bp.pageTable[pageID]
	return ok
}
