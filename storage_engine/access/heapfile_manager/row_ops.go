package heapfile

import (
	"KzDB/storage_engine/page"
	"KzDB/types"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrTupleTooLarge = errors.Errorf("heapfile: tuple larger than %d bytes", page.MaxTupleSize)

// InsertRow appends data to the tail page, growing the chain by one page
// when the tail is full, and returns where the tuple landed.
func (hf *HeapFile) InsertRow(data []byte) (types.RecordID, error) {
	if len(data) > page.MaxTupleSize {
		return types.RecordID{}, errors.Wrapf(ErrTupleTooLarge, "%d bytes", len(data))
	}

	hf.mu.Lock()
	defer hf.mu.Unlock()

	pg, err := hf.bufferPool.FetchPage(hf.tail)
	if err != nil {
		return types.RecordID{}, errors.WithMessagef(err, "heapfile: fetch tail %d", hf.tail)
	}

	slot, err := pg.InsertTuple(data)
	if err == nil {
		rid := types.RecordID{PageID: pg.ID, SlotID: slot}
		return rid, hf.bufferPool.UnpinPage(pg.ID, true)
	}
	if !errors.Is(err, page.ErrPageFull) {
		_ = hf.bufferPool.UnpinPage(pg.ID, false)
		return types.RecordID{}, err
	}

	// tail is full: link a fresh page after it and retry there
	next, err := hf.bufferPool.NewPage(pg.ID)
	if err != nil {
		_ = hf.bufferPool.UnpinPage(pg.ID, false)
		return types.RecordID{}, errors.WithMessage(err, "heapfile: grow chain")
	}
	pg.SetNext(next.ID)
	if err := hf.bufferPool.UnpinPage(pg.ID, true); err != nil {
		_ = hf.bufferPool.UnpinPage(next.ID, true)
		return types.RecordID{}, err
	}

	hf.tail = next.ID
	hf.numPages++
	hf.logger.Debug("heap grew",
		zap.Uint32("page_id", uint32(next.ID)),
		zap.Uint32("pages", hf.numPages))

	slot, err = next.InsertTuple(data)
	if err != nil {
		_ = hf.bufferPool.UnpinPage(next.ID, true)
		return types.RecordID{}, err
	}
	return types.RecordID{PageID: next.ID, SlotID: slot}, hf.bufferPool.UnpinPage(next.ID, true)
}

// GetRow returns a copy of the tuple at rid.
func (hf *HeapFile) GetRow(rid types.RecordID) ([]byte, error) {
	hf.mu.RLock()
	defer hf.mu.RUnlock()

	pg, err := hf.bufferPool.FetchPage(rid.PageID)
	if err != nil {
		return nil, errors.WithMessagef(err, "heapfile: get row %s", rid)
	}
	defer hf.bufferPool.UnpinPage(rid.PageID, false)

	return pg.Tuple(rid.SlotID)
}

// Scan calls fn for every tuple in chain order until fn returns false.
func (hf *HeapFile) Scan(fn func(rid types.RecordID, data []byte) bool) error {
	hf.mu.RLock()
	defer hf.mu.RUnlock()

	for id := hf.head; id != types.InvalidPageID; {
		pg, err := hf.bufferPool.FetchPage(id)
		if err != nil {
			return errors.WithMessagef(err, "heapfile: scan page %d", id)
		}

		keepGoing := true
		for slot := uint32(0); slot < pg.NumTuples && keepGoing; slot++ {
			data, err := pg.Tuple(types.SlotID(slot))
			if err != nil {
				_ = hf.bufferPool.UnpinPage(id, false)
				return err
			}
			keepGoing = fn(types.RecordID{PageID: id, SlotID: types.SlotID(slot)}, data)
		}

		next := pg.Next
		if err := hf.bufferPool.UnpinPage(id, false); err != nil {
			return err
		}
		if !keepGoing {
			return nil
		}
		id = next
	}
	return nil
}
