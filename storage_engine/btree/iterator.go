package btree

// Ascend calls fn for every entry in ascending key order until fn returns false.
func (t *BTree[K, V]) Ascend(fn func(key K, value V) bool) {
	t.root.walk(nil, nil, fn)
}

// AscendRange calls fn for entries with lo <= key < hi in ascending order
// until fn returns false.
func (t *BTree[K, V]) AscendRange(lo, hi K, fn func(key K, value V) bool) {
	if !(lo < hi) {
		return
	}
	t.root.walk(&lo, &hi, fn)
}

// walk visits the subtree in order, skipping children that cannot hold keys
// in [lo, hi). A nil bound is open. Returns false once fn asked to stop.
func (n *Node[K, V]) walk(lo, hi *K, fn func(K, V) bool) bool {
	switch n.kind {
	case NodeLeaf:
		start := 0
		if lo != nil {
			start, _ = Search(n.keys, *lo)
		}
		for i := start; i < len(n.keys); i++ {
			if hi != nil && !(n.keys[i] < *hi) {
				return false
			}
			if !fn(n.keys[i], n.values[i]) {
				return false
			}
		}
		return true

	case NodeInner:
		start := 0
		if lo != nil {
			start = childIndex(n.keys, *lo)
		}
		for i := start; i < len(n.children); i++ {
			// children[i] only holds keys >= keys[i-1]
			if i > 0 && hi != nil && !(n.keys[i-1] < *hi) {
				return false
			}
			if !n.children[i].walk(lo, hi, fn) {
				return false
			}
		}
		return true

	default:
		panic("btree: unknown node kind " + n.kind.String())
	}
}
