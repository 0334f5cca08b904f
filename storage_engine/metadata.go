package storageengine

import (
	"KzDB/types"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

/*
Metadata page (page 0) layout, big-endian:

	Offset  Size  Field
	──────────────────────────────────────
	0       4     magic "KZDB"
	4       4     format version
	8       16    database uuid
	24      4     index root page
	28      8     index key count
	36      4     heap head page
	40      4     heap tail page
	44      4     next page id
	48      8     xxhash64 of bytes [0, 48)
	──────────────────────────────────────

Page 0 is written straight through the disk manager, never via the buffer pool,
and only after every data page it refers to has been flushed.
*/

const (
	metaMagic   = "KZDB"
	metaVersion = 1
	metaSumOff  = 48
)

var ErrBadMetadata = errors.New("storageengine: bad metadata page")

type metadata struct {
	ID         uuid.UUID
	IndexRoot  types.PageID
	IndexCount uint64
	HeapHead   types.PageID
	HeapTail   types.PageID
	NextPageID types.PageID
}

func (m metadata) encode() []byte {
	buf := make([]byte, types.PageSize)
	copy(buf[0:4], metaMagic)
	binary.BigEndian.PutUint32(buf[4:8], metaVersion)
	copy(buf[8:24], m.ID[:])
	binary.BigEndian.PutUint32(buf[24:28], uint32(m.IndexRoot))
	binary.BigEndian.PutUint64(buf[28:36], m.IndexCount)
	binary.BigEndian.PutUint32(buf[36:40], uint32(m.HeapHead))
	binary.BigEndian.PutUint32(buf[40:44], uint32(m.HeapTail))
	binary.BigEndian.PutUint32(buf[44:48], uint32(m.NextPageID))
	binary.BigEndian.PutUint64(buf[metaSumOff:], xxhash.Sum64(buf[:metaSumOff]))
	return buf
}

func decodeMetadata(buf []byte) (metadata, error) {
	if len(buf) < metaSumOff+8 {
		return metadata{}, errors.Wrap(ErrBadMetadata, "page too short")
	}
	if string(buf[0:4]) != metaMagic {
		return metadata{}, errors.Wrapf(ErrBadMetadata, "magic %q", buf[0:4])
	}
	if v := binary.BigEndian.Uint32(buf[4:8]); v != metaVersion {
		return metadata{}, errors.Wrapf(ErrBadMetadata, "unsupported version %d", v)
	}
	if want, got := binary.BigEndian.Uint64(buf[metaSumOff:]), xxhash.Sum64(buf[:metaSumOff]); want != got {
		return metadata{}, errors.Wrapf(ErrBadMetadata, "checksum %x, computed %x", want, got)
	}

	var m metadata
	copy(m.ID[:], buf[8:24])
	m.IndexRoot = types.PageID(binary.BigEndian.Uint32(buf[24:28]))
	m.IndexCount = binary.BigEndian.Uint64(buf[28:36])
	m.HeapHead = types.PageID(binary.BigEndian.Uint32(buf[36:40]))
	m.HeapTail = types.PageID(binary.BigEndian.Uint32(buf[40:44]))
	m.NextPageID = types.PageID(binary.BigEndian.Uint32(buf[44:48]))
	return m, nil
}
