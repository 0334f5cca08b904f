package btree

import "cmp"

// Search looks for k in the sorted keys. It returns (i, true) when keys[i] == k,
// otherwise (i, false) where i is the position k would be inserted at to keep
// keys sorted. Node descent and leaf insertion both use it.
func Search[K cmp.Ordered](keys []K, k K) (int, bool) {
	lo, hi := 0, len(keys)
	for lo < hi {
		mid := lo + (hi-lo)/2
		if keys[mid] < k {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, lo < len(keys) && keys[lo] == k
}

// childIndex picks the child of an inner node to descend into for k.
// An exact match goes right, since the separator itself lives in the right subtree.
func childIndex[K cmp.Ordered](keys []K, k K) int {
	i, found := Search(keys, k)
	if found {
		return i + 1
	}
	return i
}

// insertAt inserts elem at index i in slice.
func insertAt[T any](slice []T, i int, elem T) []T {
	slice = append(slice, elem) // grow by 1
	copy(slice[i+1:], slice[i:])
	slice[i] = elem
	return slice
}
