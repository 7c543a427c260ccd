// internal/sched/registry.go

package sched

import (
	"github.com/emirpasic/gods/maps/treemap"

	"coopsched/internal/queue"
)

// Registry owns the pending tasks: it hands out ids, keeps the priority
// queue, and indexes queued tasks by id.
type Registry struct {
	nextID TaskID
	queue  *queue.Queue[*Task]
	byID   *treemap.Map // TaskID -> *Task, queued tasks only
}

// NewRegistry returns an empty registry. The first id handed out is 1.
func NewRegistry() *Registry {
	return &Registry{
		nextID: 1,
		queue:  queue.New[*Task](),
		byID:   treemap.NewWith(idCmp),
	}
}

// Add assigns t the next id and queues it.
func (r *Registry) Add(t *Task) {
	t.ID = r.nextID
	r.nextID++
	r.queue.Push(t)
	r.byID.Put(t.ID, t)
}

// Peek returns the most urgent task, or nil when nothing is queued.
func (r *Registry) Peek() *Task {
	t, _ := r.queue.Peek()
	return t
}

// Pop removes and returns the most urgent task, or nil when nothing is queued.
func (r *Registry) Pop() *Task {
	t, ok := r.queue.Pop()
	if !ok {
		return nil
	}
	r.byID.Remove(t.ID)
	return t
}

// Len returns the number of queued tasks, tombstones included.
func (r *Registry) Len() int { return r.queue.Len() }

// Lookup finds a queued task by id.
func (r *Registry) Lookup(id TaskID) (*Task, bool) {
	v, ok := r.byID.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Task), true
}

// Pending returns the ids of all queued tasks in creation order.
func (r *Registry) Pending() []TaskID {
	keys := r.byID.Keys()
	ids := make([]TaskID, len(keys))
	for i, k := range keys {
		ids[i] = k.(TaskID)
	}
	return ids
}

// idCmp orders TaskIDs for the tree map.
func idCmp(a, b any) int {
	ia, ib := a.(TaskID), b.(TaskID)
	switch {
	case ia < ib:
		return -1
	case ia > ib:
		return 1
	default:
		return 0
	}
}
