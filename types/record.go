package types

import (
	"encoding/binary"
	"fmt"
)

// RecordIDSize is the encoded width of a RecordID.
const RecordIDSize = 8

// RecordID points to a specific tuple: the page holding it and its slot.
type RecordID struct {
	PageID PageID `json:"page_id"`
	SlotID SlotID `json:"slot_id"`
}

// Encode packs the record id as page(4B) | slot(4B), big-endian.
func (r RecordID) Encode() []byte {
	buf := make([]byte, RecordIDSize)
	binary.BigEndian.PutUint32(buf[0:4], uint32(r.PageID))
	binary.BigEndian.PutUint32(buf[4:8], uint32(r.SlotID))
	return buf
}

// DecodeRecordID is the inverse of RecordID.Encode.
func DecodeRecordID(buf []byte) (RecordID, error) {
	if len(buf) != RecordIDSize {
		return RecordID{}, fmt.Errorf("record id must be %d bytes, got %d", RecordIDSize, len(buf))
	}
	return RecordID{
		PageID: PageID(binary.BigEndian.Uint32(buf[0:4])),
		SlotID: SlotID(binary.BigEndian.Uint32(buf[4:8])),
	}, nil
}

func (r RecordID) String() string {
	return fmt.Sprintf("(%d,%d)", r.PageID, r.SlotID)
}
