// Package queue holds accepted client connections until a worker is free
// to serve them.
package queue

import (
	"errors"
	"net"
	"sync"
)

var ErrClosed = errors.New("queue: closed")

// Queue is an unbounded FIFO of accepted connections. The accept loop
// enqueues, pool workers block on Dequeue. There is no backpressure: the
// queue grows as long as clients keep arriving faster than workers finish.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	conns  []net.Conn
	closed bool
}

func New() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends a connection and returns the resulting queue length.
func (q *Queue) Enqueue(conn net.Conn) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return 0, ErrClosed
	}

	q.conns = append(q.conns, conn)
	n := len(q.conns)
	q.cond.Signal()
	return n, nil
}

// Dequeue blocks until a connection is available and removes it. Each
// enqueued connection is returned to exactly one caller, in arrival order.
// Once the queue is closed, Dequeue returns ErrClosed; anything still
// queued at that point is handed back by Close for teardown.
func (q *Queue) Dequeue() (net.Conn, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.conns) == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.closed {
		return nil, ErrClosed
	}

	conn := q.conns[0]
	// Clear the slot so the backing array does not pin served connections.
	q.conns[0] = nil
	q.conns = q.conns[1:]
	return conn, nil
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.conns)
}

// Close wakes every blocked Dequeue and returns the connections that were
// never claimed, so the caller can notify and close them.
func (q *Queue) Close() []net.Conn {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true

	remaining := q.conns
	q.conns = nil
	q.cond.Broadcast()
	return remaining
}
