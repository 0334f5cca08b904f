package bplus

import "KzDB/storage_engine/btree"

// lowerBound returns the first index whose key is >= target.
func lowerBound(keys []uint64, target uint64) int {
	i, _ := btree.Search(keys, target)
	return i
}

// binarySearch returns the index of target in keys, or -1.
func binarySearch(keys []uint64, target uint64) int {
	if i, found := btree.Search(keys, target); found {
		return i
	}
	return -1
}

// childIndex picks the child to descend into. Equal keys go right,
// the separator is the first key of the right subtree.
func childIndex(keys []uint64, target uint64) int {
	i, found := btree.Search(keys, target)
	if found {
		return i + 1
	}
	return i
}

// insert inserts elem at index i in slice.
func insert[T any](slice []T, i int, elem T) []T {
	slice = append(slice, elem) // grow by 1
	copy(slice[i+1:], slice[i:])
	slice[i] = elem
	return slice
}
