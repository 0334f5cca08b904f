package page

import (
	"KzDB/types"
	"encoding/binary"

	"github.com/pkg/errors"
)

/*
Slotted page. Used by both the heap file and the paged B+ tree index, the
format of the tuples themselves is up to those layers.

	[ header 20B ][ slot 0 ][ slot 1 ] ... → free ← ... [ tuple 1 ][ tuple 0 ]
	0            20                        ^                                 8192
	                                       20 + FreeOffset

	Slots grow FORWARD from the end of the header.
	Tuples grow BACKWARD from the end of the page.

A slot is 8 bytes: [ Offset uint32 ][ Length uint32 ], Offset body-relative.
Slot i lives at body offset i*SlotSize.

Invariant: NumTuples*SlotSize <= FreeOffset <= PageBodySize.
*/

// MaxTupleSize is the largest tuple an empty page can take.
const MaxTupleSize = types.PageBodySize - types.SlotSize

var (
	ErrPageFull       = errors.New("page: not enough free space")
	ErrSlotOutOfRange = errors.New("page: slot out of range")
	ErrCorruptPage    = errors.New("page: corrupt header")
)

// Page is one PageSize block in memory: its decoded header plus the raw bytes.
// IsDirty and PinCount belong to the buffer pool.
type Page struct {
	Header
	Data     []byte
	IsDirty  bool
	PinCount int32
}

// New returns a fresh empty page linked after prev.
func New(id, prev types.PageID) *Page {
	pg := &Page{Data: make([]byte, types.PageSize)}
	pg.Init(id, prev)
	return pg
}

// FromBytes rebuilds a page from a raw PageSize buffer. buf is copied.
func FromBytes(buf []byte) (*Page, error) {
	if len(buf) != types.PageSize {
		return nil, errors.Wrapf(ErrCorruptPage, "page buffer must be %d bytes, got %d", types.PageSize, len(buf))
	}
	pg := &Page{Data: make([]byte, types.PageSize)}
	copy(pg.Data, buf)
	if err := pg.Parse(); err != nil {
		return nil, err
	}
	return pg, nil
}

// Init resets the page in place to an empty page with the given id and prev link.
func (p *Page) Init(id, prev types.PageID) {
	clear(p.Data)
	p.Header = Header{
		ID:         id,
		Prev:       prev,
		Next:       types.InvalidPageID,
		FreeOffset: types.PageBodySize,
	}
	p.Header.Encode(p.Data)
}

// Parse refreshes the decoded header from Data, e.g. after a disk read.
func (p *Page) Parse() error {
	h, err := DecodeHeader(p.Data)
	if err != nil {
		return err
	}
	p.Header = h
	return nil
}

// Bytes returns the raw page buffer. Callers must not resize it.
func (p *Page) Bytes() []byte {
	return p.Data
}

// InsertTuple copies data into the page and returns its slot.
// Returns ErrPageFull when the tuple plus one new slot do not fit.
func (p *Page) InsertTuple(data []byte) (types.SlotID, error) {
	need := uint64(len(data))
	if need > uint64(p.FreeOffset) {
		return 0, errors.Wrapf(ErrPageFull, "page %d: tuple of %d bytes, %d free", p.ID, len(data), p.FreeSpace())
	}
	newOffset := p.FreeOffset - uint32(need)
	if uint64(newOffset) < uint64(p.NumTuples+1)*types.SlotSize {
		return 0, errors.Wrapf(ErrPageFull, "page %d: tuple of %d bytes, %d free", p.ID, len(data), p.FreeSpace())
	}

	copy(p.Data[types.PageHeaderSize+int(newOffset):], data)

	slot := types.SlotID(p.NumTuples)
	p.writeSlot(slot, newOffset, uint32(need))

	p.NumTuples++
	p.FreeOffset = newOffset
	p.Header.Encode(p.Data)
	p.IsDirty = true
	return slot, nil
}

// Tuple returns a copy of the tuple stored at slot.
func (p *Page) Tuple(slot types.SlotID) ([]byte, error) {
	if uint32(slot) >= p.NumTuples {
		return nil, errors.Wrapf(ErrSlotOutOfRange, "page %d: slot %d (count=%d)", p.ID, slot, p.NumTuples)
	}
	offset, length := p.readSlot(slot)
	start := types.PageHeaderSize + int(offset)
	end := start + int(length)
	if end > types.PageSize {
		return nil, errors.Wrapf(ErrCorruptPage, "page %d: slot %d runs past end of page", p.ID, slot)
	}
	out := make([]byte, length)
	copy(out, p.Data[start:end])
	return out, nil
}

// FreeSpace is the largest tuple that can still be inserted.
func (p *Page) FreeSpace() int {
	free := int(p.FreeOffset) - int(p.NumTuples+1)*types.SlotSize
	if free < 0 {
		return 0
	}
	return free
}

func (p *Page) SetPrev(id types.PageID) {
	p.Prev = id
	p.Header.Encode(p.Data)
	p.IsDirty = true
}

func (p *Page) SetNext(id types.PageID) {
	p.Next = id
	p.Header.Encode(p.Data)
	p.IsDirty = true
}

// Reset drops every tuple but keeps the page id and its links.
func (p *Page) Reset() {
	next := p.Next
	p.Init(p.ID, p.Prev)
	p.Next = next
	p.Header.Encode(p.Data)
	p.IsDirty = true
}

func (p *Page) readSlot(slot types.SlotID) (offset, length uint32) {
	pos := types.PageHeaderSize + int(slot)*types.SlotSize
	return binary.BigEndian.Uint32(p.Data[pos:]), binary.BigEndian.Uint32(p.Data[pos+4:])
}

func (p *Page) writeSlot(slot types.SlotID, offset, length uint32) {
	pos := types.PageHeaderSize + int(slot)*types.SlotSize
	binary.BigEndian.PutUint32(p.Data[pos:], offset)
	binary.BigEndian.PutUint32(p.Data[pos+4:], length)
}
