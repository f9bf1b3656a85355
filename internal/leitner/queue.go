// Package leitner keeps box-mode items in per-box priority queues and
// implements the box selection and transition rules.
package leitner

import (
	"cmp"
	"container/heap"
	"slices"

	"github.com/abhisek/mio/internal/deck"
)

type entry struct {
	item  *deck.Item
	key   int64
	index int
}

type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].key != h[j].key {
		return h[i].key < h[j].key
	}
	return h[i].item.ID < h[j].item.ID
}

func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Queue is a min-heap of items ordered by priority key. Ties are broken by
// item id so the order is deterministic for a given set of keys.
type Queue struct {
	h    entryHeap
	byID map[int64]*entry
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{byID: make(map[int64]*entry)}
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	return len(q.h)
}

// Push adds an item with the given key. An item already in the queue is
// re-keyed instead.
func (q *Queue) Push(it *deck.Item, key int64) {
	if e, ok := q.byID[it.ID]; ok {
		e.item = it
		e.key = key
		heap.Fix(&q.h, e.index)
		return
	}
	e := &entry{item: it, key: key}
	heap.Push(&q.h, e)
	q.byID[it.ID] = e
}

// Pop removes and returns the item with the smallest key.
func (q *Queue) Pop() (*deck.Item, int64, bool) {
	if len(q.h) == 0 {
		return nil, 0, false
	}
	e := heap.Pop(&q.h).(*entry)
	delete(q.byID, e.item.ID)
	return e.item, e.key, true
}

// Remove takes the item with the given id out of the queue.
func (q *Queue) Remove(id int64) (*deck.Item, int64, bool) {
	e, ok := q.byID[id]
	if !ok {
		return nil, 0, false
	}
	heap.Remove(&q.h, e.index)
	delete(q.byID, id)
	return e.item, e.key, true
}

// Contains reports whether the item is queued.
func (q *Queue) Contains(id int64) bool {
	_, ok := q.byID[id]
	return ok
}

// Lowest returns the ids of the n items with the smallest keys, in order.
func (q *Queue) Lowest(n int) []int64 {
	entries := slices.Clone([]*entry(q.h))
	slices.SortFunc(entries, func(a, b *entry) int {
		if c := cmp.Compare(a.key, b.key); c != 0 {
			return c
		}
		return cmp.Compare(a.item.ID, b.item.ID)
	})
	n = min(max(n, 0), len(entries))
	ids := make([]int64, n)
	for i := range n {
		ids[i] = entries[i].item.ID
	}
	return ids
}
