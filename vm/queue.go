package vm

import (
	"context"
	"errors"
	"sync"
)

// ErrQueueClosed is returned by Take on a closed and drained queue.
var ErrQueueClosed = errors.New("queue closed")

// Queue is an unbounded FIFO used to hand values between machines running
// in different goroutines. Put never blocks, Take blocks until a value is
// available.
type Queue struct {
	mu     sync.Mutex
	values []int64
	closed bool
	ready  chan struct{} // Signaled when values goes from empty to non empty.
}

func NewQueue(values ...int64) *Queue {
	q := &Queue{ready: make(chan struct{}, 1)}
	q.Put(values...)
	return q
}

// Put appends values to the queue.
func (q *Queue) Put(values ...int64) {
	if len(values) == 0 {
		return
	}
	q.mu.Lock()
	q.values = append(q.values, values...)
	q.mu.Unlock()
	q.signal()
}

func (q *Queue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Close marks the end of the values. Pending values can still be taken.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

// pop returns the oldest value. Must be called with the lock held.
func (q *Queue) pop() (int64, bool) {
	if len(q.values) == 0 {
		return 0, false
	}
	v := q.values[0]
	q.values = q.values[1:]
	if len(q.values) > 0 || q.closed {
		// Wake up the next consumer.
		q.signal()
	}
	return v, true
}

// TryTake pops the oldest value without blocking.
func (q *Queue) TryTake() (int64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pop()
}

// Take pops the oldest value, waiting for one if the queue is empty.
func (q *Queue) Take(ctx context.Context) (int64, error) {
	for {
		q.mu.Lock()
		v, ok := q.pop()
		closed := q.closed
		q.mu.Unlock()
		if ok {
			return v, nil
		}
		if closed {
			q.signal()
			return 0, ErrQueueClosed
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-q.ready:
		}
	}
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.values)
}

// Source returns an InputSource blocking on the queue.
// It reports no value once ctx is done or the queue is closed and drained.
func (q *Queue) Source(ctx context.Context) InputSource {
	return InputFunc(func() (int64, bool) {
		v, err := q.Take(ctx)
		if err != nil {
			return 0, false
		}
		return v, true
	})
}
