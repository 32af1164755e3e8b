package mpsc

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrDisconnected is returned by [Sender.Send] when the receiver is gone,
// and by [Receiver.Recv] and [Receiver.TryRecv] when every sender handle
// has been closed and the queue is drained. It is a terminal state: a
// disconnected queue never reconnects.
var ErrDisconnected = errors.New("mpsc: disconnected")

// ErrEmpty is returned by [Receiver.TryRecv] when no message is currently
// available but the queue is still connected.
var ErrEmpty = errors.New("mpsc: empty")

// channel is the shared queue state. All fields are guarded by mu.
type channel[T any] struct {
	mu       sync.Mutex
	nonEmpty *sync.Cond // signalled on enqueue, broadcast on disconnect
	buf      []T
	head     int // index of the front message within buf
	senders  int // live sender handles
	recvGone bool
}

func (c *channel[T]) size() int {
	return len(c.buf) - c.head
}

// pop removes and returns the front message. Caller holds mu and has
// checked size() > 0.
func (c *channel[T]) pop() T {
	v := c.buf[c.head]
	var zero T
	c.buf[c.head] = zero
	c.head++
	if c.head == len(c.buf) {
		// Fully drained: reuse the backing array from the start.
		c.buf = c.buf[:0]
		c.head = 0
	} else if c.head > 1024 && c.head*2 > len(c.buf) {
		// Mostly-consumed prefix: slide the tail down so append can
		// reuse the space instead of growing without bound.
		n := copy(c.buf, c.buf[c.head:])
		for i := n; i < len(c.buf); i++ {
			c.buf[i] = zero
		}
		c.buf = c.buf[:n]
		c.head = 0
	}
	return v
}

// Sender is a handle for enqueuing messages. Handles are cheap to clone
// and individually closed; the queue counts live handles and reports
// disconnect to the receiver only when the last one is closed.
//
// A single Sender is safe for concurrent use by multiple goroutines.
type Sender[T any] struct {
	c      *channel[T]
	closed atomic.Bool
	once   sync.Once
}

// Receiver is the single consuming end of the queue. It is NOT safe for
// concurrent use; callers that need multiple consumers must serialize
// access (see the parent sharedchan package).
type Receiver[T any] struct {
	c      *channel[T]
	closed atomic.Bool
	once   sync.Once
}

// New creates an unbounded queue and returns its first sender handle
// together with the receiver.
func New[T any]() (*Sender[T], *Receiver[T]) {
	c := &channel[T]{senders: 1}
	c.nonEmpty = sync.NewCond(&c.mu)
	return &Sender[T]{c: c}, &Receiver[T]{c: c}
}

// Send enqueues v. It never blocks. It returns [ErrDisconnected] if the
// receiver has been closed, or if this handle itself was closed.
func (s *Sender[T]) Send(v T) error {
	if s.closed.Load() {
		return ErrDisconnected
	}
	c := s.c
	c.mu.Lock()
	if c.recvGone {
		c.mu.Unlock()
		return ErrDisconnected
	}
	c.buf = append(c.buf, v)
	c.mu.Unlock()
	c.nonEmpty.Signal()
	return nil
}

// Clone returns a new sender handle for the same queue.
// Clone panics if called on a closed handle.
func (s *Sender[T]) Clone() *Sender[T] {
	if s.closed.Load() {
		panic("mpsc: Clone on closed Sender")
	}
	c := s.c
	c.mu.Lock()
	c.senders++
	c.mu.Unlock()
	return &Sender[T]{c: c}
}

// Close releases this handle. When the last handle is closed the queue is
// marked sender-disconnected and a blocked [Receiver.Recv] wakes up;
// messages already queued are still delivered first. Close is idempotent.
func (s *Sender[T]) Close() {
	s.once.Do(func() {
		s.closed.Store(true)
		c := s.c
		c.mu.Lock()
		c.senders--
		last := c.senders == 0
		c.mu.Unlock()
		if last {
			c.nonEmpty.Broadcast()
		}
	})
}

// Recv returns the next message in FIFO order, blocking while the queue
// is empty and at least one sender handle remains. It returns
// [ErrDisconnected] once every sender is closed and the queue is drained,
// or if the receiver itself was closed.
func (r *Receiver[T]) Recv() (T, error) {
	var zero T
	if r.closed.Load() {
		return zero, ErrDisconnected
	}
	c := r.c
	c.mu.Lock()
	for c.size() == 0 && c.senders > 0 && !c.recvGone {
		c.nonEmpty.Wait()
	}
	if c.recvGone || c.size() == 0 {
		c.mu.Unlock()
		return zero, ErrDisconnected
	}
	v := c.pop()
	c.mu.Unlock()
	return v, nil
}

// TryRecv returns the next message without blocking. It returns
// [ErrEmpty] when no message is available but senders remain, and
// [ErrDisconnected] when the queue is drained and every sender is closed.
func (r *Receiver[T]) TryRecv() (T, error) {
	var zero T
	if r.closed.Load() {
		return zero, ErrDisconnected
	}
	c := r.c
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.recvGone {
		return zero, ErrDisconnected
	}
	if c.size() > 0 {
		return c.pop(), nil
	}
	if c.senders == 0 {
		return zero, ErrDisconnected
	}
	return zero, ErrEmpty
}

// Len returns the number of messages currently queued. The value may be
// stale by the time the caller acts on it.
func (r *Receiver[T]) Len() int {
	c := r.c
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size()
}

// Close releases the receiving end. Buffered messages are dropped and
// every future [Sender.Send] returns [ErrDisconnected]. Close is
// idempotent.
func (r *Receiver[T]) Close() {
	r.once.Do(func() {
		r.closed.Store(true)
		c := r.c
		c.mu.Lock()
		c.recvGone = true
		c.buf = nil
		c.head = 0
		c.mu.Unlock()
		c.nonEmpty.Broadcast()
	})
}
