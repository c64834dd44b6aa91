package bridge

import (
	"iter"
	"sync"
)

// actionQueue is an unbounded FIFO with any number of producers and a single
// consumer. pop blocks while the queue is empty and open.
type actionQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []Action
	closed bool
}

func newActionQueue() *actionQueue {
	q := &actionQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends a to the tail. It reports false once the queue is closed.
func (q *actionQueue) push(a Action) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, a)
	q.cond.Signal()
	return true
}

// pop removes the head, waiting for one to arrive. It reports false when the
// queue is closed and empty.
func (q *actionQueue) pop() (Action, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return nil, false
	}
	a := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return a, true
}

// close stops accepting new actions. Queued actions are still delivered.
func (q *actionQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

func (q *actionQueue) isClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *actionQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// all yields actions in order until the queue is closed and empty.
func (q *actionQueue) all() iter.Seq[Action] {
	return func(yield func(Action) bool) {
		for {
			a, ok := q.pop()
			if !ok || !yield(a) {
				return
			}
		}
	}
}
