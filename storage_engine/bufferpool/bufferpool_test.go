package bufferpool

import (
	diskmanager "KzDB/storage_engine/disk_manager"
	"KzDB/types"
	"errors"
	"path/filepath"
	"testing"
)

func newTestPool(t *testing.T, capacity int, opts ...Option) (*BufferPool, *diskmanager.DiskManager) {
	t.Helper()
	dm, err := diskmanager.Open(filepath.Join(t.TempDir(), "pool.db"), nil)
	if err != nil {
		t.Fatalf("Failed to open disk manager: %v", err)
	}
	t.Cleanup(func() { dm.Close() })

	bp, err := NewBufferPool(capacity, dm, opts...)
	if err != nil {
		t.Fatalf("Failed to create buffer pool: %v", err)
	}
	return bp, dm
}

func TestNewPageIsPinnedAndDirty(t *testing.T) {
	bp, _ := newTestPool(t, 4)

	pg, err := bp.NewPage(types.InvalidPageID)
	if err != nil {
		t.Fatalf("Failed to create page: %v", err)
	}
	if pg.ID != 1 {
		t.Errorf("expected first page id 1, got %d", pg.ID)
	}
	if pg.PinCount != 1 || !pg.IsDirty {
		t.Errorf("new page should be pinned once and dirty, got pin=%d dirty=%v", pg.PinCount, pg.IsDirty)
	}

	again, err := bp.FetchPage(pg.ID)
	if err != nil {
		t.Fatalf("Failed to fetch resident page: %v", err)
	}
	if again != pg {
		t.Errorf("fetch of a resident page should return the same frame")
	}
	if got := bp.PinCount(pg.ID); got != 2 {
		t.Errorf("expected pin count 2, got %d", got)
	}

	stats := bp.GetStats()
	if stats.Hits != 1 || stats.Misses != 0 {
		t.Errorf("expected 1 hit 0 misses, got %d/%d", stats.Hits, stats.Misses)
	}
}

func TestNoFreeFrameWhenAllPinned(t *testing.T) {
	bp, _ := newTestPool(t, 2)

	for i := 0; i < 2; i++ {
		if _, err := bp.NewPage(types.InvalidPageID); err != nil {
			t.Fatalf("Failed to create page %d: %v", i, err)
		}
	}

	if _, err := bp.NewPage(types.InvalidPageID); !errors.Is(err, ErrNoFreeFrame) {
		t.Errorf("expected ErrNoFreeFrame from NewPage, got %v", err)
	}
	if _, err := bp.FetchPage(99); !errors.Is(err, ErrNoFreeFrame) {
		t.Errorf("expected ErrNoFreeFrame from FetchPage, got %v", err)
	}
}

func TestEvictsLeastRecentlyUnpinned(t *testing.T) {
	bp, _ := newTestPool(t, 2)

	p1, _ := bp.NewPage(types.InvalidPageID)
	p2, _ := bp.NewPage(types.InvalidPageID)
	id1, id2 := p1.ID, p2.ID

	// p2 becomes evictable first, so it is the LRU candidate
	if err := bp.UnpinPage(id2, true); err != nil {
		t.Fatalf("Failed to unpin: %v", err)
	}
	if err := bp.UnpinPage(id1, true); err != nil {
		t.Fatalf("Failed to unpin: %v", err)
	}

	p3, err := bp.NewPage(types.InvalidPageID)
	if err != nil {
		t.Fatalf("Failed to create third page: %v", err)
	}
	defer bp.UnpinPage(p3.ID, false)

	if bp.Contains(id2) {
		t.Errorf("page %d should have been evicted", id2)
	}
	if !bp.Contains(id1) {
		t.Errorf("page %d should still be resident", id1)
	}
	if got := bp.GetStats().Evictions; got != 1 {
		t.Errorf("expected 1 eviction, got %d", got)
	}
}

func TestPinnedPageIsNeverEvicted(t *testing.T) {
	bp, _ := newTestPool(t, 2)

	pinned, _ := bp.NewPage(types.InvalidPageID)
	other, _ := bp.NewPage(types.InvalidPageID)
	bp.UnpinPage(other.ID, true)

	for i := 0; i < 5; i++ {
		pg, err := bp.NewPage(types.InvalidPageID)
		if err != nil {
			t.Fatalf("Failed to create page: %v", err)
		}
		bp.UnpinPage(pg.ID, true)
		if !bp.Contains(pinned.ID) {
			t.Fatalf("pinned page %d was evicted", pinned.ID)
		}
	}
}

func TestDirtyPageSurvivesEviction(t *testing.T) {
	bp, dm := newTestPool(t, 1)

	pg, _ := bp.NewPage(types.InvalidPageID)
	id := pg.ID
	if _, err := pg.InsertTuple([]byte("persist me")); err != nil {
		t.Fatalf("Failed to insert tuple: %v", err)
	}
	bp.UnpinPage(id, true)

	// forces id out of the single frame
	other, err := bp.NewPage(types.InvalidPageID)
	if err != nil {
		t.Fatalf("Failed to create page: %v", err)
	}
	bp.UnpinPage(other.ID, true)

	if bp.Contains(id) {
		t.Fatalf("page %d should have been evicted", id)
	}

	buf := make([]byte, types.PageSize)
	if err := dm.ReadPage(id, buf); err != nil {
		t.Fatalf("evicted dirty page was not written back: %v", err)
	}

	back, err := bp.FetchPage(id)
	if err != nil {
		t.Fatalf("Failed to fetch page back: %v", err)
	}
	defer bp.UnpinPage(id, false)

	got, err := back.Tuple(0)
	if err != nil {
		t.Fatalf("Failed to read tuple: %v", err)
	}
	if string(got) != "persist me" {
		t.Errorf("expected %q, got %q", "persist me", got)
	}
	if back.IsDirty {
		t.Errorf("page loaded from disk should be clean")
	}
}

func TestVictimCacheServesEvictedPage(t *testing.T) {
	bp, _ := newTestPool(t, 1, WithVictimCache(1<<20))
	defer bp.Close()

	pg, _ := bp.NewPage(types.InvalidPageID)
	id := pg.ID
	pg.InsertTuple([]byte("cached"))
	bp.UnpinPage(id, true)

	other, _ := bp.NewPage(types.InvalidPageID)
	bp.UnpinPage(other.ID, true)

	back, err := bp.FetchPage(id)
	if err != nil {
		t.Fatalf("Failed to fetch page back: %v", err)
	}
	got, _ := back.Tuple(0)
	if string(got) != "cached" {
		t.Errorf("expected %q, got %q", "cached", got)
	}
	bp.UnpinPage(id, false)

	if hits := bp.GetStats().VictimHits; hits != 1 {
		t.Errorf("expected 1 victim cache hit, got %d", hits)
	}
}

func TestUnpinErrors(t *testing.T) {
	bp, _ := newTestPool(t, 2)

	if err := bp.UnpinPage(7, false); !errors.Is(err, ErrPageNotResident) {
		t.Errorf("expected ErrPageNotResident, got %v", err)
	}

	pg, _ := bp.NewPage(types.InvalidPageID)
	if err := bp.UnpinPage(pg.ID, false); err != nil {
		t.Fatalf("Failed to unpin: %v", err)
	}
	if err := bp.UnpinPage(pg.ID, false); !errors.Is(err, ErrPageNotPinned) {
		t.Errorf("expected ErrPageNotPinned, got %v", err)
	}
}

func TestFetchMissingPageReturnsFrame(t *testing.T) {
	bp, _ := newTestPool(t, 1)

	if _, err := bp.FetchPage(42); !diskmanager.IsIOError(err) {
		t.Fatalf("expected IO error for a page never written, got %v", err)
	}
	if free := bp.GetStats().FreeFrames; free != 1 {
		t.Errorf("failed fetch should give the frame back, free frames = %d", free)
	}
	if _, err := bp.FetchPage(types.InvalidPageID); !errors.Is(err, ErrInvalidPageID) {
		t.Errorf("expected ErrInvalidPageID for page 0, got %v", err)
	}
}

func TestFlushAllPages(t *testing.T) {
	bp, _ := newTestPool(t, 4)

	for i := 0; i < 3; i++ {
		pg, _ := bp.NewPage(types.InvalidPageID)
		bp.UnpinPage(pg.ID, true)
	}
	if dirty := bp.GetStats().DirtyPages; dirty != 3 {
		t.Fatalf("expected 3 dirty pages, got %d", dirty)
	}
	if err := bp.FlushAllPages(); err != nil {
		t.Fatalf("Failed to flush: %v", err)
	}
	if dirty := bp.GetStats().DirtyPages; dirty != 0 {
		t.Errorf("expected 0 dirty pages after flush, got %d", dirty)
	}
}

func TestReplacer(t *testing.T) {
	r := newLRUReplacer(4)
	r.Unpin(1)
	r.Unpin(2)
	r.Unpin(3)
	r.Pin(2)
	r.Unpin(1) // 1 is now most recent

	want := []types.FrameID{3, 1}
	for _, w := range want {
		got, ok := r.Victim()
		if !ok || got != w {
			t.Errorf("expected victim %d, got %d (ok=%v)", w, got, ok)
		}
	}
	if _, ok := r.Victim(); ok {
		t.Errorf("expected no victim left")
	}
}
