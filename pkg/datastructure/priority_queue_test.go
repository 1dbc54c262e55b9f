package datastructure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
)

func generateRandomInteger(min int, max int) int {

	return min + rand.Intn(max-min)
}

func TestPriorityQueue(t *testing.T) {
	pq := NewMinHeap[int32]()
	if pq == nil {
		t.Errorf("PriorityQueue is nil")
	}

	for i := 0; i < 10000; i++ {
		item := PriorityQueueNode[int32]{Rank: float64(generateRandomInteger(0, 10000)), Item: int32(i)}
		pq.Insert(item)
	}
	assert.Equal(t, 10000, pq.Size())

	prevItem, err := pq.ExtractMin()
	if err != nil {
		t.Errorf("Error extract min")
	}
	for i := 1; i < 10000; i++ {
		item, err := pq.ExtractMin()
		if err != nil {
			t.Errorf("Error extract min")
		}

		if prevItem.Rank > item.Rank {
			t.Errorf("PriorityQueue is not sorted")
		}
		prevItem = item
	}
	assert.True(t, pq.IsEmpty())
}

func TestPriorityQueueGetMin(t *testing.T) {
	pq := NewMinHeapWithCap[string](4)

	_, err := pq.GetMin()
	assert.ErrorIs(t, err, ErrEmptyHeap)
	_, err = pq.ExtractMin()
	assert.ErrorIs(t, err, ErrEmptyHeap)

	pq.Insert(PriorityQueueNode[string]{Rank: 30, Item: "c"})
	pq.Insert(PriorityQueueNode[string]{Rank: 10, Item: "a"})
	pq.Insert(PriorityQueueNode[string]{Rank: 20, Item: "b"})

	min, err := pq.GetMin()
	assert.NoError(t, err)
	assert.Equal(t, "a", min.Item)
	assert.Equal(t, 3, pq.Size())

	// duplicate items are allowed (lazy deletion)
	pq.Insert(PriorityQueueNode[string]{Rank: 5, Item: "c"})
	min, _ = pq.ExtractMin()
	assert.Equal(t, "c", min.Item)
	assert.Equal(t, 5.0, min.Rank)

	pq.Reset()
	assert.Equal(t, 0, pq.Size())
}

func BenchmarkPQInsertExtract(b *testing.B) {
	pq := NewMinHeap[int32]()

	for i := 0; i < b.N; i++ {
		item := PriorityQueueNode[int32]{Rank: float64(generateRandomInteger(10000, 100000000)), Item: int32(i)}
		pq.Insert(item)
		if i%2 == 1 {
			_, err := pq.ExtractMin()
			if err != nil {
				b.Errorf("Error extract min")
			}
		}
	}
}
