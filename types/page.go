package types

const (
	PageSize       = 8192 // 8KB page
	PageHeaderSize = 20   // id, prev, next, free offset, tuple count (uint32 each)
	PageBodySize   = PageSize - PageHeaderSize
	SlotSize       = 8 // offset: 4B, length: 4B

	BufferPoolSize = 2000 // frames in the page cache

	TreeOrder    = 16
	NodeCapacity = TreeOrder - 1 // max keys per B+ tree node
)

// PageID identifies a page inside the backing file. Page 0 holds the
// database metadata, so 0 doubles as the "no page" sentinel in headers.
type PageID uint32

const InvalidPageID PageID = 0

// FrameID is an index into the page cache frame arena.
type FrameID uint32

// SlotID is an index into a page's slot array.
type SlotID uint32

type PageType uint8

const (
	PageTypeUnknown PageType = iota
	PageTypeHeapData
	PageTypeIndexLeaf
	PageTypeIndexInner
	PageTypeMetadata
)

func (pt PageType) String() string {
	switch pt {
	case PageTypeHeapData:
		return "heap"
	case PageTypeIndexLeaf:
		return "leaf"
	case PageTypeIndexInner:
		return "inner"
	case PageTypeMetadata:
		return "meta"
	default:
		return "unknown"
	}
}
