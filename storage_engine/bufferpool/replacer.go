package bufferpool

import (
	"KzDB/types"
	"container/list"
)

// lruReplacer tracks frames whose page has pin count zero.
// Front of the list is the least recently unpinned frame.
type lruReplacer struct {
	order *list.List
	elems map[types.FrameID]*list.Element
}

func newLRUReplacer(capacity int) *lruReplacer {
	return &lruReplacer{
		order: list.New(),
		elems: make(map[types.FrameID]*list.Element, capacity),
	}
}

// Unpin makes frame an eviction candidate, most recently used.
func (r *lruReplacer) Unpin(frame types.FrameID) {
	if elem, ok := r.elems[frame]; ok {
		r.order.MoveToBack(elem)
		return
	}
	r.elems[frame] = r.order.PushBack(frame)
}

// Pin removes frame from the candidates.
func (r *lruReplacer) Pin(frame types.FrameID) {
	if elem, ok := r.elems[frame]; ok {
		r.order.Remove(elem)
		delete(r.elems, frame)
	}
}

// Victim removes and returns the least recently unpinned frame.
func (r *lruReplacer) Victim() (types.FrameID, bool) {
	elem := r.order.Front()
	if elem == nil {
		return 0, false
	}
	frame := elem.Value.(types.FrameID)
	r.order.Remove(elem)
	delete(r.elems, frame)
	return frame, true
}

func (r *lruReplacer) Len() int {
	return r.order.Len()
}
