package diskmanager

import (
	"KzDB/types"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

/*
This is the main file for the disk manager (block store)
It owns:
The os.File of the database
Reading/writing whole pages at id*PageSize (ReadAt, WriteAt)
Page id allocation (a counter, page 0 is reserved for metadata)

Every WritePage is followed by fsync before it returns, so a page the caller
was told is written survives a crash. A short read is an error, never zero-fill:
reading a page that was never written means the caller's bookkeeping is wrong.

The buffer pool sits on top: on a miss it asks the disk manager to fill a frame,
on eviction/flush it hands the dirty frame back here.
*/

var (
	ErrClosed      = errors.New("diskmanager: file is closed")
	ErrBadPageSize = errors.New("diskmanager: buffer is not one page long")
)

// Open opens (or creates) the backing file at filePath.
// The allocation counter resumes after the last whole page already on disk.
func Open(filePath string, logger *zap.Logger) (*DiskManager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	file, err := os.OpenFile(filePath, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, &IOError{Op: "open", Err: err}
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, &IOError{Op: "stat", Err: err}
	}

	numPages := types.PageID(stat.Size() / types.PageSize)
	next := numPages
	if next < 1 {
		next = 1
	}

	logger.Debug("disk manager opened",
		zap.String("path", filePath),
		zap.Uint32("pages", uint32(numPages)))

	return &DiskManager{
		filePath:   filePath,
		file:       file,
		nextPageID: next,
		logger:     logger,
	}, nil
}

// ReadPage fills buf with the contents of page pageID.
func (dm *DiskManager) ReadPage(pageID types.PageID, buf []byte) error {
	if len(buf) != types.PageSize {
		return errors.Wrapf(ErrBadPageSize, "read page %d: got %d bytes", pageID, len(buf))
	}

	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.file == nil {
		return ErrClosed
	}

	n, err := dm.file.ReadAt(buf, offsetOf(pageID))
	if n < types.PageSize {
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return &IOError{Op: "read", PageID: pageID, Err: errors.Wrapf(err, "got %d of %d bytes", n, types.PageSize)}
	}
	return nil
}

// WritePage writes buf as page pageID and syncs the file before returning.
func (dm *DiskManager) WritePage(pageID types.PageID, buf []byte) error {
	if len(buf) != types.PageSize {
		return errors.Wrapf(ErrBadPageSize, "write page %d: got %d bytes", pageID, len(buf))
	}

	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.file == nil {
		return ErrClosed
	}

	n, err := dm.file.WriteAt(buf, offsetOf(pageID))
	if err != nil {
		return &IOError{Op: "write", PageID: pageID, Err: err}
	}
	if n != types.PageSize {
		return &IOError{Op: "write", PageID: pageID, Err: io.ErrShortWrite}
	}
	if err := dm.file.Sync(); err != nil {
		return &IOError{Op: "sync", PageID: pageID, Err: err}
	}

	// a write past the counter (metadata restore, tests) moves it forward
	if pageID >= dm.nextPageID {
		dm.nextPageID = pageID + 1
	}
	return nil
}

// AllocatePage hands out the next unused page id. Nothing touches the disk
// until the first WritePage for that id.
func (dm *DiskManager) AllocatePage() (types.PageID, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.file == nil {
		return types.InvalidPageID, ErrClosed
	}

	id := dm.nextPageID
	dm.nextPageID++
	return id, nil
}

// SetNextPageID restores the allocation counter, e.g. from the metadata page.
// It never moves the counter backwards.
func (dm *DiskManager) SetNextPageID(next types.PageID) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	if next > dm.nextPageID {
		dm.nextPageID = next
	}
}

// NextPageID returns the id the next AllocatePage call will return.
func (dm *DiskManager) NextPageID() types.PageID {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return dm.nextPageID
}

// WriteMetadata writes page 0 directly, bypassing the buffer pool.
func (dm *DiskManager) WriteMetadata(buf []byte) error {
	return dm.WritePage(types.InvalidPageID, buf)
}

// ReadMetadata reads page 0 into buf.
func (dm *DiskManager) ReadMetadata(buf []byte) error {
	return dm.ReadPage(types.InvalidPageID, buf)
}

// NumPages returns the number of whole pages currently in the file.
func (dm *DiskManager) NumPages() (int64, error) {
	size, err := dm.Size()
	if err != nil {
		return 0, err
	}
	return size / types.PageSize, nil
}

// Size returns the file size in bytes.
func (dm *DiskManager) Size() (int64, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.file == nil {
		return 0, ErrClosed
	}
	stat, err := dm.file.Stat()
	if err != nil {
		return 0, &IOError{Op: "stat", Err: err}
	}
	return stat.Size(), nil
}

func (dm *DiskManager) Path() string {
	return dm.filePath
}

// Sync flushes file buffers to disk.
func (dm *DiskManager) Sync() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.file == nil {
		return ErrClosed
	}
	if err := dm.file.Sync(); err != nil {
		return &IOError{Op: "sync", Err: err}
	}
	return nil
}

// Close syncs and closes the file. Closing twice is a no-op.
func (dm *DiskManager) Close() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.file == nil {
		return nil
	}

	var firstErr error
	if err := dm.file.Sync(); err != nil {
		firstErr = &IOError{Op: "sync", Err: err}
	}
	if err := dm.file.Close(); err != nil && firstErr == nil {
		firstErr = &IOError{Op: "close", Err: err}
	}
	dm.file = nil

	dm.logger.Debug("disk manager closed", zap.String("path", dm.filePath))
	return firstErr
}

// IsIOError reports whether err (or anything it wraps) is an *IOError.
func IsIOError(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}

func offsetOf(pageID types.PageID) int64 {
	return int64(pageID) * types.PageSize
}
