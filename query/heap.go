package query

// heapItem is one entry of the tentative-arrival-time priority queue:
// the node reached and the arrival time that earned it this entry.
// Stale entries (superseded by a better arrival recorded later) are
// left in place and skipped lazily on pop.
type heapItem struct {
	node    int32
	arrival float64
}

// arrivalHeap is a binary min-heap keyed on arrival time, implementing
// container/heap.Interface.
type arrivalHeap []heapItem

func (h arrivalHeap) Len() int            { return len(h) }
func (h arrivalHeap) Less(i, j int) bool  { return h[i].arrival < h[j].arrival }
func (h arrivalHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *arrivalHeap) Push(x interface{}) { *h = append(*h, x.(heapItem)) }
func (h *arrivalHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
