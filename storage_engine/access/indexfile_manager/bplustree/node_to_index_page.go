package bplus

import (
	"KzDB/storage_engine/page"
	"KzDB/types"
	"encoding/binary"

	"github.com/pkg/errors"
)

/*
SerializeNode writes a Node into its slotted page as tuples.

Layout:

	Page header: id | prev | next | free offset | tuple count
	  prev/next link leaves into a chain, 0 for internal nodes

	Tuple 0 (meta):
	  pageType     uint8     PageTypeIndexLeaf / PageTypeIndexInner
	  leftChild    uint32    internal only, children[0]

	Tuples 1..n:
	  leaf:      key uint64 | value []byte
	  internal:  key uint64 | child uint32   (children[i+1], right of key i)

All integers big-endian.

Tree invariants:
	Internal nodes: len(children) == len(keys) + 1
	Leaf nodes: len(values) == len(keys)
	Keys sorted ascending, at most MaxKeys per node
*/

var ErrCorruptNode = errors.New("bplus: corrupt index page")

func SerializeNode(node *Node, pg *page.Page) error {
	pg.Reset()
	pg.SetPrev(node.prev)
	pg.SetNext(node.next)

	var meta []byte
	if node.nodeType == NodeLeaf {
		meta = []byte{byte(types.PageTypeIndexLeaf)}
	} else {
		if len(node.children) != len(node.keys)+1 {
			return errors.Errorf("serializeNode: page %d has %d keys but %d children", node.pageID, len(node.keys), len(node.children))
		}
		meta = make([]byte, 5)
		meta[0] = byte(types.PageTypeIndexInner)
		binary.BigEndian.PutUint32(meta[1:], uint32(node.children[0]))
	}
	if _, err := pg.InsertTuple(meta); err != nil {
		return errors.WithMessagef(err, "serializeNode: page %d meta", node.pageID)
	}

	for i, key := range node.keys {
		var tuple []byte
		if node.nodeType == NodeLeaf {
			tuple = make([]byte, KeySize+len(node.values[i]))
			binary.BigEndian.PutUint64(tuple, key)
			copy(tuple[KeySize:], node.values[i])
		} else {
			tuple = make([]byte, KeySize+4)
			binary.BigEndian.PutUint64(tuple, key)
			binary.BigEndian.PutUint32(tuple[KeySize:], uint32(node.children[i+1]))
		}
		if _, err := pg.InsertTuple(tuple); err != nil {
			return errors.WithMessagef(err, "serializeNode: page %d key %d", node.pageID, i)
		}
	}

	pg.IsDirty = true
	return nil
}

// DeserializeNode reads a Node back from its slotted page.
func DeserializeNode(pg *page.Page) (*Node, error) {
	if pg.NumTuples == 0 {
		return nil, errors.Wrapf(ErrCorruptNode, "page %d has no meta tuple", pg.ID)
	}
	meta, err := pg.Tuple(0)
	if err != nil {
		return nil, err
	}

	node := &Node{
		pageID: pg.ID,
		prev:   pg.Prev,
		next:   pg.Next,
		pg:     pg,
	}
	numKeys := int(pg.NumTuples) - 1

	switch types.PageType(meta[0]) {
	case types.PageTypeIndexLeaf:
		node.nodeType = NodeLeaf
		node.keys = make([]uint64, 0, numKeys+1)
		node.values = make([][]byte, 0, numKeys+1)
	case types.PageTypeIndexInner:
		if len(meta) != 5 {
			return nil, errors.Wrapf(ErrCorruptNode, "page %d: internal meta is %d bytes", pg.ID, len(meta))
		}
		node.nodeType = NodeInternal
		node.keys = make([]uint64, 0, numKeys+1)
		node.children = make([]types.PageID, 0, numKeys+2)
		node.children = append(node.children, types.PageID(binary.BigEndian.Uint32(meta[1:])))
	default:
		return nil, errors.Wrapf(ErrCorruptNode, "page %d: not an index page (type %d)", pg.ID, meta[0])
	}

	for slot := 1; slot <= numKeys; slot++ {
		tuple, err := pg.Tuple(types.SlotID(slot))
		if err != nil {
			return nil, err
		}
		if len(tuple) < KeySize {
			return nil, errors.Wrapf(ErrCorruptNode, "page %d: tuple %d too short", pg.ID, slot)
		}
		node.keys = append(node.keys, binary.BigEndian.Uint64(tuple))

		if node.nodeType == NodeLeaf {
			node.values = append(node.values, tuple[KeySize:])
			continue
		}
		if len(tuple) != KeySize+4 {
			return nil, errors.Wrapf(ErrCorruptNode, "page %d: internal tuple %d is %d bytes", pg.ID, slot, len(tuple))
		}
		node.children = append(node.children, types.PageID(binary.BigEndian.Uint32(tuple[KeySize:])))
	}

	return node, nil
}
