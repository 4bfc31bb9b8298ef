package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/pders01/fred/internal/state"
)

// ErrQueueClosed is returned by Send after Close, and by Receive once a
// closed queue has been drained.
var ErrQueueClosed = errors.New("dispatch queue closed")

// Queue is an unbounded FIFO of fetch requests between the render loop
// (the only sender) and the worker (the only receiver). Send never blocks.
type Queue struct {
	mu     sync.Mutex
	items  []state.Request
	closed bool
	ready  chan struct{}
	done   chan struct{}
}

func NewQueue() *Queue {
	return &Queue{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Send appends req to the queue.
func (q *Queue) Send(req state.Request) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.items = append(q.items, req)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
	return nil
}

// Receive blocks until a request is available, the queue is closed and
// empty, or ctx is done.
func (q *Queue) Receive(ctx context.Context) (state.Request, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			req := q.items[0]
			q.items[0] = state.Request{}
			q.items = q.items[1:]
			q.mu.Unlock()
			return req, nil
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return state.Request{}, ErrQueueClosed
		}

		select {
		case <-q.ready:
		case <-q.done:
		case <-ctx.Done():
			return state.Request{}, ctx.Err()
		}
	}
}

// Len reports how many requests are waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops accepting requests. Requests already queued can still be
// received.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.done)
	}
}
