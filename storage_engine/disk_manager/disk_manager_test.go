package diskmanager

import (
	"KzDB/types"
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) (*DiskManager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	dm, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Failed to open disk manager: %v", err)
	}
	return dm, path
}

func TestWriteAndReadPages(t *testing.T) {
	dm, _ := openTemp(t)
	defer dm.Close()

	pageA := bytes.Repeat([]byte{'a'}, types.PageSize)
	pageB := bytes.Repeat([]byte{'b'}, types.PageSize)

	if err := dm.WritePage(1, pageA); err != nil {
		t.Fatalf("Failed to write page 1: %v", err)
	}
	if err := dm.WritePage(2, pageB); err != nil {
		t.Fatalf("Failed to write page 2: %v", err)
	}

	buf := make([]byte, types.PageSize)
	if err := dm.ReadPage(1, buf); err != nil {
		t.Fatalf("Failed to read page 1: %v", err)
	}
	if !bytes.Equal(buf, pageA) {
		t.Errorf("page 1 mismatch: got %q...", buf[:8])
	}
	if err := dm.ReadPage(2, buf); err != nil {
		t.Fatalf("Failed to read page 2: %v", err)
	}
	if !bytes.Equal(buf, pageB) {
		t.Errorf("page 2 mismatch: got %q...", buf[:8])
	}
}

func TestShortReadIsIOError(t *testing.T) {
	dm, _ := openTemp(t)
	defer dm.Close()

	buf := make([]byte, types.PageSize)
	err := dm.ReadPage(5, buf)
	if err == nil {
		t.Fatalf("expected error reading a page past end of file")
	}
	if !IsIOError(err) {
		t.Errorf("expected *IOError, got %T: %v", err, err)
	}

	var ioErr *IOError
	if errors.As(err, &ioErr) && ioErr.PageID != 5 {
		t.Errorf("expected page id 5 in error, got %d", ioErr.PageID)
	}
}

func TestWrongBufferSize(t *testing.T) {
	dm, _ := openTemp(t)
	defer dm.Close()

	if err := dm.WritePage(1, make([]byte, 100)); !errors.Is(err, ErrBadPageSize) {
		t.Errorf("expected ErrBadPageSize on write, got %v", err)
	}
	if err := dm.ReadPage(1, make([]byte, 100)); !errors.Is(err, ErrBadPageSize) {
		t.Errorf("expected ErrBadPageSize on read, got %v", err)
	}
}

func TestAllocatePage(t *testing.T) {
	dm, path := openTemp(t)

	first, err := dm.AllocatePage()
	if err != nil {
		t.Fatalf("Failed to allocate page: %v", err)
	}
	if first != 1 {
		t.Errorf("Expected first page ID to be 1, got %d", first)
	}
	second, _ := dm.AllocatePage()
	if second != 2 {
		t.Errorf("Expected second page ID to be 2, got %d", second)
	}

	if err := dm.WritePage(second, make([]byte, types.PageSize)); err != nil {
		t.Fatalf("Failed to write page: %v", err)
	}
	if err := dm.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}

	// three pages on disk (0..2), so the counter resumes at 3
	reopened, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Failed to reopen: %v", err)
	}
	defer reopened.Close()

	if next := reopened.NextPageID(); next != 3 {
		t.Errorf("Expected next page ID 3 after reopen, got %d", next)
	}
	if n, _ := reopened.NumPages(); n != 3 {
		t.Errorf("Expected 3 pages on disk, got %d", n)
	}
}

func TestClosedManager(t *testing.T) {
	dm, _ := openTemp(t)
	if err := dm.Close(); err != nil {
		t.Fatalf("Failed to close: %v", err)
	}
	if err := dm.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
	if err := dm.WritePage(1, make([]byte, types.PageSize)); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if _, err := dm.AllocatePage(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed from AllocatePage, got %v", err)
	}
}
