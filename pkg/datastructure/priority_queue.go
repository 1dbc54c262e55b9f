package datastructure

import "errors"

var ErrEmptyHeap = errors.New("heap is empty")

type PriorityQueueNode[T any] struct {
	Rank float64
	Item T
}

/*
MinHeap. binary min heap keyed by Rank.

no decrease-key: callers insert a new node when the rank of an item improves and
skip the stale node when it is extracted later (lazy deletion).

Insert O(logN), ExtractMin O(logN), GetMin O(1)
*/
type MinHeap[T any] struct {
	heap []PriorityQueueNode[T]
}

func NewMinHeap[T any]() *MinHeap[T] {
	return &MinHeap[T]{
		heap: make([]PriorityQueueNode[T], 0),
	}
}

func NewMinHeapWithCap[T any](capacity int) *MinHeap[T] {
	return &MinHeap[T]{
		heap: make([]PriorityQueueNode[T], 0, capacity),
	}
}

func (h *MinHeap[T]) parent(index int) int {
	return (index - 1) / 2
}

func (h *MinHeap[T]) leftChild(index int) int {
	return 2*index + 1
}

func (h *MinHeap[T]) rightChild(index int) int {
	return 2*index + 2
}

// heapifyUp. move the node at index up until its parent rank <= its rank.
func (h *MinHeap[T]) heapifyUp(index int) {
	for index != 0 && h.heap[index].Rank < h.heap[h.parent(index)].Rank {
		h.heap[index], h.heap[h.parent(index)] = h.heap[h.parent(index)], h.heap[index]
		index = h.parent(index)
	}
}

// heapifyDown. move the node at index down until both children ranks >= its rank.
func (h *MinHeap[T]) heapifyDown(index int) {
	n := len(h.heap)
	for {
		smallest := index
		left := h.leftChild(index)
		right := h.rightChild(index)
		if left < n && h.heap[left].Rank < h.heap[smallest].Rank {
			smallest = left
		}
		if right < n && h.heap[right].Rank < h.heap[smallest].Rank {
			smallest = right
		}
		if smallest == index {
			return
		}
		h.heap[index], h.heap[smallest] = h.heap[smallest], h.heap[index]
		index = smallest
	}
}

func (h *MinHeap[T]) Insert(node PriorityQueueNode[T]) {
	h.heap = append(h.heap, node)
	h.heapifyUp(len(h.heap) - 1)
}

func (h *MinHeap[T]) GetMin() (PriorityQueueNode[T], error) {
	if len(h.heap) == 0 {
		return PriorityQueueNode[T]{}, ErrEmptyHeap
	}
	return h.heap[0], nil
}

func (h *MinHeap[T]) ExtractMin() (PriorityQueueNode[T], error) {
	if len(h.heap) == 0 {
		return PriorityQueueNode[T]{}, ErrEmptyHeap
	}
	root := h.heap[0]
	last := len(h.heap) - 1
	h.heap[0] = h.heap[last]
	h.heap = h.heap[:last]
	if last > 0 {
		h.heapifyDown(0)
	}
	return root, nil
}

func (h *MinHeap[T]) Size() int {
	return len(h.heap)
}

func (h *MinHeap[T]) IsEmpty() bool {
	return len(h.heap) == 0
}

// Reset. empty the heap but keep the allocated backing array.
func (h *MinHeap[T]) Reset() {
	h.heap = h.heap[:0]
}
