package diskmanager

import (
	"KzDB/types"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
)

// ############################################# DISK MANAGER #############################################

// DiskManager owns the single backing file and moves whole pages between it
// and caller-provided buffers. It does no caching of its own.
type DiskManager struct {
	filePath   string
	file       *os.File
	nextPageID types.PageID // next id handed out by AllocatePage
	logger     *zap.Logger
	mu         sync.Mutex // guards the file handle and the page counter
}

// ############################################# ERRORS ###################################################

// IOError is returned for any failed or short transfer against the backing file.
type IOError struct {
	Op     string // "read", "write", "sync", ...
	PageID types.PageID
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("diskmanager: %s page %d: %v", e.Op, e.PageID, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
