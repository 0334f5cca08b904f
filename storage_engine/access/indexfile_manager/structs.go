package indexfile

import (
	bplus "KzDB/storage_engine/access/indexfile_manager/bplustree"
)

// PrimaryIndex maps primary keys to the RecordID of the tuple holding the
// value. It is a thin typed layer over the paged B+ tree.
type PrimaryIndex struct {
	tree *bplus.BPlusTree
}
