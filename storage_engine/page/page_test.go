package page

import (
	"KzDB/types"
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestNewPageHeader(t *testing.T) {
	pg := New(42, 7)

	if pg.FreeOffset != types.PageSize-types.PageHeaderSize {
		t.Errorf("expected free offset %d, got %d", types.PageSize-types.PageHeaderSize, pg.FreeOffset)
	}
	if pg.NumTuples != 0 {
		t.Errorf("expected 0 tuples, got %d", pg.NumTuples)
	}

	if got := binary.BigEndian.Uint32(pg.Data[0:4]); got != 42 {
		t.Errorf("expected id 42 in bytes 0..4, got %d", got)
	}
	if got := binary.BigEndian.Uint32(pg.Data[4:8]); got != 7 {
		t.Errorf("expected prev 7 in bytes 4..8, got %d", got)
	}
	if got := binary.BigEndian.Uint32(pg.Data[8:12]); got != 0 {
		t.Errorf("expected next sentinel 0, got %d", got)
	}
	if got := binary.BigEndian.Uint32(pg.Data[12:16]); got != 8172 {
		t.Errorf("expected free offset 8172 in bytes 12..16, got %d", got)
	}
}

func TestInsertTwoTuples(t *testing.T) {
	pg := New(1, types.InvalidPageID)

	first := bytes.Repeat([]byte{1}, 50)
	second := bytes.Repeat([]byte{2}, 50)

	s0, err := pg.InsertTuple(first)
	if err != nil {
		t.Fatalf("Failed to insert first tuple: %v", err)
	}
	s1, err := pg.InsertTuple(second)
	if err != nil {
		t.Fatalf("Failed to insert second tuple: %v", err)
	}

	if s0 != 0 || s1 != 1 {
		t.Errorf("expected slots 0 and 1, got %d and %d", s0, s1)
	}
	if pg.NumTuples != 2 {
		t.Errorf("expected 2 tuples, got %d", pg.NumTuples)
	}
	if pg.FreeOffset != 8172-100 {
		t.Errorf("expected free offset %d, got %d", 8172-100, pg.FreeOffset)
	}

	off0, _ := pg.readSlot(0)
	off1, _ := pg.readSlot(1)
	if off1 >= off0 {
		t.Errorf("second tuple should sit below the first: %d >= %d", off1, off0)
	}

	got, err := pg.Tuple(1)
	if err != nil {
		t.Fatalf("Failed to read tuple: %v", err)
	}
	if !bytes.Equal(got, second) {
		t.Errorf("tuple 1 mismatch")
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{ID: 9, Prev: 3, Next: 11, FreeOffset: 4000, NumTuples: 12}
	buf := make([]byte, types.PageSize)
	h.Encode(buf)

	got, err := DecodeHeader(buf)
	if err != nil {
		t.Fatalf("Failed to decode header: %v", err)
	}
	if got != h {
		t.Errorf("header round trip: got %+v, want %+v", got, h)
	}
}

func TestPageFull(t *testing.T) {
	pg := New(1, types.InvalidPageID)

	if _, err := pg.InsertTuple(make([]byte, MaxTupleSize+1)); !errors.Is(err, ErrPageFull) {
		t.Fatalf("expected ErrPageFull for oversize tuple, got %v", err)
	}

	// exactly fills the page: one slot plus the tuple
	if _, err := pg.InsertTuple(make([]byte, MaxTupleSize)); err != nil {
		t.Fatalf("max size tuple should fit an empty page: %v", err)
	}
	if pg.FreeSpace() != 0 {
		t.Errorf("expected no free space, got %d", pg.FreeSpace())
	}

	before := pg.Header
	if _, err := pg.InsertTuple(nil); !errors.Is(err, ErrPageFull) {
		t.Errorf("expected ErrPageFull for a tuple with no room for its slot, got %v", err)
	}
	if pg.Header != before {
		t.Errorf("failed insert must not change the header")
	}
}

func TestFillPageWithSmallTuples(t *testing.T) {
	pg := New(1, types.InvalidPageID)
	tuple := make([]byte, 100)

	n := 0
	for {
		if _, err := pg.InsertTuple(tuple); err != nil {
			if !errors.Is(err, ErrPageFull) {
				t.Fatalf("unexpected error: %v", err)
			}
			break
		}
		n++
	}

	// each tuple costs 100 bytes + an 8 byte slot
	if want := types.PageBodySize / 108; n != want {
		t.Errorf("expected %d tuples to fit, got %d", want, n)
	}
	if int(pg.NumTuples)*types.SlotSize > int(pg.FreeOffset) {
		t.Errorf("slots overlap tuples: %d slots, free offset %d", pg.NumTuples, pg.FreeOffset)
	}
}

func TestFromBytes(t *testing.T) {
	pg := New(5, 4)
	pg.SetNext(6)
	if _, err := pg.InsertTuple([]byte("hello")); err != nil {
		t.Fatalf("Failed to insert: %v", err)
	}

	copyPg, err := FromBytes(pg.Bytes())
	if err != nil {
		t.Fatalf("Failed to rebuild page: %v", err)
	}
	if copyPg.Header != pg.Header {
		t.Errorf("header mismatch: got %+v, want %+v", copyPg.Header, pg.Header)
	}
	got, err := copyPg.Tuple(0)
	if err != nil || string(got) != "hello" {
		t.Errorf("expected tuple %q, got %q (err=%v)", "hello", got, err)
	}

	if _, err := copyPg.Tuple(1); !errors.Is(err, ErrSlotOutOfRange) {
		t.Errorf("expected ErrSlotOutOfRange, got %v", err)
	}
}

func TestFromBytesRejectsCorruptHeader(t *testing.T) {
	buf := make([]byte, types.PageSize)
	Header{ID: 1, FreeOffset: types.PageBodySize + 1}.Encode(buf)
	if _, err := FromBytes(buf); !errors.Is(err, ErrCorruptPage) {
		t.Errorf("expected ErrCorruptPage for free offset past the end, got %v", err)
	}

	Header{ID: 1, FreeOffset: 16, NumTuples: 3}.Encode(buf)
	if _, err := FromBytes(buf); !errors.Is(err, ErrCorruptPage) {
		t.Errorf("expected ErrCorruptPage for overlapping slots, got %v", err)
	}
}

func TestResetKeepsLinks(t *testing.T) {
	pg := New(3, 2)
	pg.SetNext(4)
	pg.InsertTuple([]byte("x"))

	pg.Reset()
	if pg.NumTuples != 0 || pg.FreeOffset != types.PageBodySize {
		t.Errorf("reset should empty the page, got %+v", pg.Header)
	}
	if pg.ID != 3 || pg.Prev != 2 || pg.Next != 4 {
		t.Errorf("reset should keep id and links, got %+v", pg.Header)
	}
}
