package page

import (
	"KzDB/types"
	"encoding/binary"

	"github.com/pkg/errors"
)

/*
Page header binary layout (all values big-endian uint32):

	Offset  Size  Field
	──────────────────────────────────────────────────────
	0       4     ID            this page's id
	4       4     Prev          previous page in a chain, 0 = none
	8       4     Next          next page in a chain, 0 = none
	12      4     FreeOffset    start of the tuple area, body-relative
	16      4     NumTuples     entries in the slot array
	──────────────────────────────────────────────────────
	20            PageHeaderSize

Offsets stored in the header and in slots are relative to the page body,
the byte right after the header. A fresh page has FreeOffset == PageBodySize,
which is the absolute end of the page.
*/
const (
	offID         = 0
	offPrev       = 4
	offNext       = 8
	offFreeOffset = 12
	offNumTuples  = 16
)

// Header is the decoded fixed-size prefix of every page.
type Header struct {
	ID         types.PageID
	Prev       types.PageID
	Next       types.PageID
	FreeOffset uint32
	NumTuples  uint32
}

// Encode writes the header into the first PageHeaderSize bytes of buf.
func (h Header) Encode(buf []byte) {
	binary.BigEndian.PutUint32(buf[offID:], uint32(h.ID))
	binary.BigEndian.PutUint32(buf[offPrev:], uint32(h.Prev))
	binary.BigEndian.PutUint32(buf[offNext:], uint32(h.Next))
	binary.BigEndian.PutUint32(buf[offFreeOffset:], h.FreeOffset)
	binary.BigEndian.PutUint32(buf[offNumTuples:], h.NumTuples)
}

// DecodeHeader reads a header from buf and checks it describes a sane layout.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < types.PageHeaderSize {
		return Header{}, errors.Wrapf(ErrCorruptPage, "header needs %d bytes, got %d", types.PageHeaderSize, len(buf))
	}
	h := Header{
		ID:         types.PageID(binary.BigEndian.Uint32(buf[offID:])),
		Prev:       types.PageID(binary.BigEndian.Uint32(buf[offPrev:])),
		Next:       types.PageID(binary.BigEndian.Uint32(buf[offNext:])),
		FreeOffset: binary.BigEndian.Uint32(buf[offFreeOffset:]),
		NumTuples:  binary.BigEndian.Uint32(buf[offNumTuples:]),
	}
	if h.FreeOffset > types.PageBodySize {
		return h, errors.Wrapf(ErrCorruptPage, "page %d: free offset %d past end of page", h.ID, h.FreeOffset)
	}
	if uint64(h.NumTuples)*types.SlotSize > uint64(h.FreeOffset) {
		return h, errors.Wrapf(ErrCorruptPage, "page %d: %d slots overlap tuple area at %d", h.ID, h.NumTuples, h.FreeOffset)
	}
	return h, nil
}
