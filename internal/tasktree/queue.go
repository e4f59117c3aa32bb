package tasktree

import (
	"sync"

	"pitasks/internal/core"
)

// taskQueue is the shared, unbounded queue of spawned task seeds.
//
// push never blocks, so a task can spawn children without waiting on the
// workers. pop blocks until a seed is available or the queue is closed.
// Seeds are popped last-in first-out, which walks the tree depth first and
// keeps the queue short.
type taskQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []core.TaskSeed
	closed bool
}

func newTaskQueue() *taskQueue {
	q := &taskQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *taskQueue) push(seed core.TaskSeed) {
	q.mu.Lock()
	q.items = append(q.items, seed)
	q.mu.Unlock()
	q.cond.Signal()
}

// pop returns false once the queue is closed and drained.
func (q *taskQueue) pop() (core.TaskSeed, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return 0, false
	}
	last := len(q.items) - 1
	seed := q.items[last]
	q.items = q.items[:last]
	return seed, true
}

func (q *taskQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

func (q *taskQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
