package btree

// splitLeaf splits an overflowing leaf at mid = len/2. Entries [mid, len)
// move to a new right leaf and the first right key becomes the separator;
// the entry stays in the right leaf since only leaves hold values.
func (n *Node[K, V]) splitLeaf() splitResult[K, V] {
	mid := len(n.keys) / 2

	right := newLeaf[K, V](NodeCapacity)
	right.keys = append(right.keys, n.keys[mid:]...)
	right.values = append(right.values, n.values[mid:]...)

	clear(n.values[mid:])
	n.keys = n.keys[:mid]
	n.values = n.values[:mid]
	n.capacity = NodeCapacity

	return splitResult[K, V]{split: true, separator: right.keys[0], right: right}
}

// splitInner splits an overflowing inner node and promotes the middle key.
// The promoted key moves up and is kept in neither half.
func (n *Node[K, V]) splitInner() splitResult[K, V] {
	mid := len(n.keys) / 2
	promote := n.keys[mid]

	right := newInner[K, V](NodeCapacity)
	right.keys = append(right.keys, n.keys[mid+1:]...)
	right.children = append(right.children, n.children[mid+1:]...)

	clear(n.children[mid+1:])
	n.keys = n.keys[:mid]
	n.children = n.children[:mid+1]
	n.capacity = NodeCapacity

	return splitResult[K, V]{split: true, separator: promote, right: right}
}

// newRoot grows the tree by one level after the root split.
func (t *BTree[K, V]) newRoot(res splitResult[K, V]) {
	root := newInner[K, V](NodeCapacity)
	root.keys = append(root.keys, res.separator)
	root.children = append(root.children, t.root, res.right)
	t.root = root
}
