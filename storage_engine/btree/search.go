package btree

// Get returns the value stored under key.
func (t *BTree[K, V]) Get(key K) (V, bool) {
	n := t.root
	for {
		switch n.kind {
		case NodeInner:
			n = n.children[childIndex(n.keys, key)]
		case NodeLeaf:
			if i, found := Search(n.keys, key); found {
				return n.values[i], true
			}
			var zero V
			return zero, false
		default:
			panic("btree: unknown node kind " + n.kind.String())
		}
	}
}

// Contains reports whether key is stored.
func (t *BTree[K, V]) Contains(key K) bool {
	_, ok := t.Get(key)
	return ok
}
