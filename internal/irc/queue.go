package irc

import (
	"context"
	"errors"
	"sync"
)

// ErrQueueClosed is returned by Pop once a closed queue has drained.
var ErrQueueClosed = errors.New("queue closed")

// Queue is an unbounded FIFO of outbound messages. Push never blocks.
//
// Queue is safe for concurrent use by many producers and one consumer.
type Queue struct {
	mu     sync.Mutex
	items  []Message
	closed bool
	ready  chan struct{}
}

// NewQueue returns an empty open queue.
func NewQueue() *Queue {
	return &Queue{ready: make(chan struct{}, 1)}
}

// Push appends m. Messages pushed after Close are dropped.
//
// Postcondition: Returns false when the queue is closed.
func (q *Queue) Push(m Message) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, m)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
	return true
}

// Pop removes the oldest message, waiting for one to arrive.
//
// Postcondition: Returns a message, ctx.Err() on cancellation, or
// ErrQueueClosed once the queue is closed and empty.
func (q *Queue) Pop(ctx context.Context) (Message, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			m := q.items[0]
			q.items[0] = ""
			q.items = q.items[1:]
			q.mu.Unlock()
			return m, nil
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return "", ErrQueueClosed
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-q.ready:
		}
	}
}

// Len returns the number of waiting messages.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops accepting messages. Waiting messages can still be popped.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Outbox sends chat replies for one channel through a queue.
type Outbox struct {
	queue   *Queue
	channel string
}

// NewOutbox binds q to channel.
func NewOutbox(q *Queue, channel string) *Outbox {
	return &Outbox{queue: q, channel: channel}
}

// Say queues text as a chat message. Empty text is not sent.
func (o *Outbox) Say(text string) {
	if text == "" {
		return
	}
	o.queue.Push(Privmsg(o.channel, text))
}

// Raw queues text as a protocol line.
func (o *Outbox) Raw(text string) {
	if text == "" {
		return
	}
	o.queue.Push(Raw(text))
}
