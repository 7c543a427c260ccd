// internal/queue/heap.go

package queue

import "github.com/emirpasic/gods/utils"

// Entry is anything the queue can order: a numeric sort key plus a
// tie-break sequence number. Smaller sorts first on both.
type Entry interface {
	SortKey() int64
	Seq() uint64
}

// Queue is an array-backed binary min-heap. The parent of index i lives at
// (i-1)/2 and its children at 2i+1 and 2i+2.
//
// Queue is not safe for concurrent use.
type Queue[E Entry] struct {
	items []E
}

// New returns an empty queue.
func New[E Entry]() *Queue[E] {
	return &Queue[E]{}
}

// Compare orders a before b when it returns a negative number.
// Sort keys are compared first, sequence numbers break ties.
func Compare(a, b Entry) int {
	if c := utils.Int64Comparator(a.SortKey(), b.SortKey()); c != 0 {
		return c
	}
	return utils.UInt64Comparator(a.Seq(), b.Seq())
}

// Len returns the number of queued entries.
func (q *Queue[E]) Len() int { return len(q.items) }

// Peek returns the minimum entry without removing it.
func (q *Queue[E]) Peek() (E, bool) {
	if len(q.items) == 0 {
		var zero E
		return zero, false
	}
	return q.items[0], true
}

// Push inserts e and restores heap order by sifting it up.
func (q *Queue[E]) Push(e E) {
	q.items = append(q.items, e)
	q.siftUp(len(q.items) - 1)
}

// Pop removes and returns the minimum entry.
func (q *Queue[E]) Pop() (E, bool) {
	var zero E
	n := len(q.items)
	switch n {
	case 0:
		return zero, false
	case 1:
		first := q.items[0]
		q.items[0] = zero
		q.items = q.items[:0]
		return first, true
	}

	first := q.items[0]
	last := q.items[n-1]
	q.items[n-1] = zero // release the reference for GC
	q.items = q.items[:n-1]
	q.items[0] = last
	q.siftDown(0)
	return first, true
}

func (q *Queue[E]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if Compare(q.items[i], q.items[parent]) >= 0 {
			return
		}
		q.items[i], q.items[parent] = q.items[parent], q.items[i]
		i = parent
	}
}

func (q *Queue[E]) siftDown(i int) {
	n := len(q.items)
	for {
		left, right := 2*i+1, 2*i+2
		smallest := i
		if left < n && Compare(q.items[left], q.items[smallest]) < 0 {
			smallest = left
		}
		if right < n && Compare(q.items[right], q.items[smallest]) < 0 {
			smallest = right
		}
		if smallest == i {
			return
		}
		q.items[i], q.items[smallest] = q.items[smallest], q.items[i]
		i = smallest
	}
}
