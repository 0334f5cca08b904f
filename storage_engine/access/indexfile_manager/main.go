package indexfile

import (
	bplus "KzDB/storage_engine/access/indexfile_manager/bplustree"
	"KzDB/storage_engine/bufferpool"
	"KzDB/types"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

/*
This file is the main file for the index that deals with the Index pages
It shares the buffer pool with the heap file

The B+ tree stores key → encoded RecordID (page, slot), so the index stays
small and fixed width while the values themselves live in the heap.
*/

// OpenPrimaryIndex opens the index rooted at root, or creates an empty one
// when root is InvalidPageID.
func OpenPrimaryIndex(bufferPool *bufferpool.BufferPool, root types.PageID, count uint64, logger *zap.Logger) (*PrimaryIndex, error) {
	tree, err := bplus.OpenBPlusTree(bufferPool, root, count, logger)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to open primary index")
	}
	return &PrimaryIndex{tree: tree}, nil
}

// Insert points key at rid. Returns true if key already existed.
func (pi *PrimaryIndex) Insert(key uint64, rid types.RecordID) (bool, error) {
	return pi.tree.Insertion(key, rid.Encode())
}

// Lookup returns the RecordID stored for key.
func (pi *PrimaryIndex) Lookup(key uint64) (types.RecordID, bool, error) {
	raw, found, err := pi.tree.Search(key)
	if err != nil || !found {
		return types.RecordID{}, found, err
	}
	rid, err := types.DecodeRecordID(raw)
	if err != nil {
		return types.RecordID{}, false, errors.Wrapf(err, "key %d", key)
	}
	return rid, true, nil
}

// Scan calls fn for keys in [lo, hi) in ascending order until fn returns false.
// fn must not modify the index.
func (pi *PrimaryIndex) Scan(lo, hi uint64, fn func(key uint64, rid types.RecordID) bool) error {
	var decodeErr error
	err := pi.tree.Scan(lo, hi, func(key uint64, raw []byte) bool {
		rid, err := types.DecodeRecordID(raw)
		if err != nil {
			decodeErr = errors.Wrapf(err, "key %d", key)
			return false
		}
		return fn(key, rid)
	})
	if err != nil {
		return err
	}
	return decodeErr
}

func (pi *PrimaryIndex) Root() types.PageID { return pi.tree.Root() }

func (pi *PrimaryIndex) Len() uint64 { return pi.tree.Len() }

func (pi *PrimaryIndex) Height() (int, error) { return pi.tree.Height() }

// Inspect dumps the tree structure to w.
func (pi *PrimaryIndex) Inspect(w io.Writer) error { return pi.tree.InspectTo(w) }

// Check verifies the tree invariants.
func (pi *PrimaryIndex) Check() error { return pi.tree.Check() }
