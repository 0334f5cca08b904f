// Structure of the paged B+ Tree
/*
Tree
 ├── Inner Node page (keys + child page ids)
 │      └── Child Inner Node pages ...
 │             └── Leaf Node pages (keys + values, prev/next in the page header)


- one node per slotted page, the page lives in the buffer pool
- keys: fixed-width uint64, sorted ascending
- inner nodes: children length == len(keys)+1
- leaf nodes: values length == len(keys)
- leaves are doubly linked through the page header for range scans
- all leaf nodes at same depth

*/
package bplus

import (
	"KzDB/storage_engine/bufferpool"
	"KzDB/storage_engine/page"
	"KzDB/types"
	"sync"

	"go.uber.org/zap"
)

type NodeType int

const (
	NodeInternal NodeType = iota
	NodeLeaf
)

func (nt NodeType) String() string {
	if nt == NodeLeaf {
		return "LEAF"
	}
	return "INTERNAL"
}

const (
	MaxKeys = types.NodeCapacity

	KeySize = 8 // uint64, big-endian

	// MaxValLen keeps a full leaf of MaxKeys entries inside one page.
	MaxValLen = 512
)

// Node is the decoded, in-memory form of one index page. While a Node is in
// use its page stays pinned in the buffer pool.
type Node struct {
	pageID   types.PageID
	nodeType NodeType
	keys     []uint64
	children []types.PageID // only for internal node
	values   [][]byte       // only for leaf node
	prev     types.PageID   // only for leaf node
	next     types.PageID   // only for leaf node

	pg      *page.Page // pinned frame backing this node
	isDirty bool
}

type BPlusTree struct {
	root       types.PageID           // page id of the root node
	count      uint64                 // number of keys stored
	bufferPool *bufferpool.BufferPool // shared buffer pool
	logger     *zap.Logger
	mu         sync.RWMutex // protects tree structure during splits
}
