package taskpool

import "sync"

const (
	defaultQueueCap     = 16
	compactMinCap       = 64 // Don't compact if capacity is less than this
	compactShrinkFactor = 4  // Trigger compaction when len < cap/4
)

// runQueue is the pool's FIFO of pending runs. Popped slots are zeroed and
// the backing array shrinks again after large bursts so a one-off spike does
// not pin memory for the life of the pool.
type runQueue struct {
	mu    sync.Mutex
	items []pending
}

func newRunQueue() *runQueue {
	return &runQueue{
		items: make([]pending, 0, defaultQueueCap),
	}
}

func (q *runQueue) push(it pending) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, it)
}

func (q *runQueue) pop() (pending, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return pending{}, false
	}

	item := q.items[0]
	// Zero out the element in the underlying array to prevent memory leak
	q.items[0] = pending{}
	q.items = q.items[1:]
	q.maybeCompactLocked()

	return item, true
}

// drain removes and returns everything queued, releasing all task references.
func (q *runQueue) drain() []pending {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.items
	q.items = make([]pending, 0, defaultQueueCap)
	return out
}

func (q *runQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *runQueue) maybeCompactLocked() {
	n := len(q.items)
	c := cap(q.items)

	if c < compactMinCap {
		return
	}
	if n == 0 {
		q.items = make([]pending, 0, defaultQueueCap)
		return
	}
	if n*compactShrinkFactor >= c {
		return
	}

	newCap := max(max(c/2, defaultQueueCap), n)

	newSlice := make([]pending, n, newCap)
	copy(newSlice, q.items)
	q.items = newSlice
}
