package bufferpool

import (
	diskmanager "KzDB/storage_engine/disk_manager"
	"KzDB/storage_engine/page"
	"KzDB/types"
	"sync"

	"github.com/dgraph-io/ristretto/v2"
	"go.uber.org/zap"
)

// ############################################# BUFFER POOL #############################################

// BufferPool caches pages in a fixed arena of frames with LRU eviction.
// Works with heap pages, index pages, anything built on page.Page.
type BufferPool struct {
	frames      []*page.Page                   // frame arena, fixed at construction
	pageTable   map[types.PageID]types.FrameID // resident page -> frame
	freeFrames  []types.FrameID                // frames holding no page
	replacer    *lruReplacer                   // unpinned frames, LRU first
	diskManager *diskmanager.DiskManager
	victims     *ristretto.Cache[uint32, []byte] // clean bytes of evicted pages, nil when disabled
	logger      *zap.Logger

	hits       uint64
	misses     uint64
	evictions  uint64
	victimHits uint64

	mu sync.Mutex
}

// BufferPoolStats is a point-in-time snapshot of the pool.
type BufferPoolStats struct {
	Capacity    int     `json:"capacity"`
	TotalPages  int     `json:"total_pages"` // resident pages
	PinnedPages int     `json:"pinned_pages"`
	DirtyPages  int     `json:"dirty_pages"`
	FreeFrames  int     `json:"free_frames"`
	Hits        uint64  `json:"hits"`
	Misses      uint64  `json:"misses"`
	Evictions   uint64  `json:"evictions"`
	VictimHits  uint64  `json:"victim_hits"`
	HitRate     float64 `json:"hit_rate"`
}

// Option configures a BufferPool.
type Option func(*options)

type options struct {
	logger           *zap.Logger
	victimCacheBytes int64
}

// WithLogger sets the logger used for hit/miss/evict tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithVictimCache keeps up to maxBytes of evicted clean pages in a
// second-tier cache in front of the disk. Zero disables it.
func WithVictimCache(maxBytes int64) Option {
	return func(o *options) { o.victimCacheBytes = maxBytes }
}
