package btree

// Insert stores value under key. An existing key has its value overwritten
// and replaced is true; the key count only grows for new keys.
// Overflow is handled by splitting and never surfaces to the caller.
func (t *BTree[K, V]) Insert(key K, value V) (replaced bool) {
	res, replaced := t.root.insert(key, value)
	if res.split {
		t.newRoot(res)
	}
	if !replaced {
		t.size++
	}
	return replaced
}

func (n *Node[K, V]) insert(key K, value V) (splitResult[K, V], bool) {
	switch n.kind {
	case NodeLeaf:
		return n.insertIntoLeaf(key, value)
	case NodeInner:
		return n.insertIntoInner(key, value)
	default:
		panic("btree: unknown node kind " + n.kind.String())
	}
}

func (n *Node[K, V]) insertIntoLeaf(key K, value V) (splitResult[K, V], bool) {
	i, found := Search(n.keys, key)
	if found {
		// key exists, overwrite in place
		n.values[i] = value
		return splitResult[K, V]{}, true
	}

	n.keys = insertAt(n.keys, i, key)
	n.values = insertAt(n.values, i, value)

	if len(n.keys) > n.capacity {
		return n.splitLeaf(), false
	}
	return splitResult[K, V]{}, false
}

func (n *Node[K, V]) insertIntoInner(key K, value V) (splitResult[K, V], bool) {
	i := childIndex(n.keys, key)
	res, replaced := n.children[i].insert(key, value)
	if !res.split {
		return res, replaced
	}

	// the child at i keeps the left half, right goes in next to it
	n.keys = insertAt(n.keys, i, res.separator)
	n.children = insertAt(n.children, i+1, res.right)

	if len(n.keys) > n.capacity {
		return n.splitInner(), replaced
	}
	return splitResult[K, V]{}, replaced
}
