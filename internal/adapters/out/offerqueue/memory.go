// Package offerqueue holds the schedules of exclusive mission offers. The
// cascade job drains due entries; an entry per mission is kept, so
// rescheduling replaces the previous expiry.
package offerqueue

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/ports"
)

var _ ports.OfferQueue = (*MemoryQueue)(nil)

type entry struct {
	missionID kernel.UUID
	at        time.Time
	index     int
}

type expiryHeap []*entry

func (h expiryHeap) Len() int { return len(h) }

func (h expiryHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].missionID.String() < h[j].missionID.String()
	}
	return h[i].at.Before(h[j].at)
}

func (h expiryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *expiryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *expiryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// MemoryQueue is a process-local OfferQueue for single-instance deployments
// and tests. Entries are lost on restart; the reconciliation sweep covers
// missions whose expiry was never processed.
type MemoryQueue struct {
	mu      sync.Mutex
	heap    expiryHeap
	entries map[kernel.UUID]*entry
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{entries: make(map[kernel.UUID]*entry)}
}

func (q *MemoryQueue) Schedule(_ context.Context, missionID kernel.UUID, at time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if e, ok := q.entries[missionID]; ok {
		e.at = at
		heap.Fix(&q.heap, e.index)
		return nil
	}
	e := &entry{missionID: missionID, at: at}
	heap.Push(&q.heap, e)
	q.entries[missionID] = e
	return nil
}

func (q *MemoryQueue) Due(_ context.Context, now time.Time, limit int) ([]kernel.UUID, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var due []kernel.UUID
	for q.heap.Len() > 0 && (limit <= 0 || len(due) < limit) {
		next := q.heap[0]
		if next.at.After(now) {
			break
		}
		heap.Pop(&q.heap)
		delete(q.entries, next.missionID)
		due = append(due, next.missionID)
	}
	return due, nil
}

func (q *MemoryQueue) Cancel(_ context.Context, missionID kernel.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if e, ok := q.entries[missionID]; ok {
		heap.Remove(&q.heap, e.index)
		delete(q.entries, missionID)
	}
	return nil
}

// Len is the number of scheduled expiries.
func (q *MemoryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.heap.Len()
}
