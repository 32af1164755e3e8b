package sharedchan

import (
	"sync"
	"sync/atomic"

	"github.com/baxromumarov/sharedchan/mpsc"
)

// Sentinel errors, shared with the underlying queue so that errors.Is
// holds no matter which layer produced the value.
var (
	// ErrDisconnected means no further message can ever arrive: every
	// sender handle was closed and the queue is drained, the receive
	// side was released, or a receiver panicked mid-receive and the
	// shared guard is broken. Terminal.
	ErrDisconnected = mpsc.ErrDisconnected

	// ErrEmpty is returned by [SharedReceiver.TryRecv] when no message
	// is available right now but the queue is still connected.
	ErrEmpty = mpsc.ErrEmpty
)

// shared is the state every clone of a SharedReceiver points at: the one
// underlying receiver, the mutex serializing access to it, and the clone
// refcount.
type shared[T any] struct {
	mu     sync.Mutex
	rx     *mpsc.Receiver[T]
	broken bool // a receive panicked while holding mu
	refs   atomic.Int64
}

// SharedReceiver is a cloneable receiving endpoint. All clones drain the
// same queue; at most one of them is inside a receive at any instant, so
// every message goes to exactly one clone.
//
// Each clone is an independent handle with its own [SharedReceiver.Close].
// The underlying receiver is released when the last clone closes.
type SharedReceiver[T any] struct {
	s      *shared[T]
	closed atomic.Bool
	once   sync.Once
}

// New creates an unbounded queue and returns its sender handle together
// with a receiving endpoint already wrapped for multi-consumer use. The
// sender is [mpsc.Sender], used as-is: clone it freely and close every
// handle when done sending.
func New[T any]() (*mpsc.Sender[T], *SharedReceiver[T]) {
	tx, rx := mpsc.New[T]()
	s := &shared[T]{rx: rx}
	s.refs.Store(1)
	return tx, &SharedReceiver[T]{s: s}
}

// Clone returns a new endpoint sharing the same underlying receiver.
// Clone panics if called on a closed endpoint.
func (r *SharedReceiver[T]) Clone() *SharedReceiver[T] {
	if r.closed.Load() {
		panic("sharedchan: Clone on closed SharedReceiver")
	}
	r.s.refs.Add(1)
	return &SharedReceiver[T]{s: r.s}
}

// Recv returns the next message in queue order, blocking first for the
// shared guard if another clone is mid-receive, then for a message. It
// returns [ErrDisconnected] once every sender handle is closed and the
// queue is drained.
func (r *SharedReceiver[T]) Recv() (T, error) {
	if r.closed.Load() {
		var zero T
		return zero, ErrDisconnected
	}
	s := r.s
	s.mu.Lock()
	return recvGuarded(s, s.rx.Recv)
}

// TryRecv returns the next message without blocking. [ErrEmpty] covers
// both "queue empty" and "guard currently held by another clone" -- the
// two are indistinguishable to a non-blocking caller and both mean try
// again. [ErrDisconnected] is terminal.
func (r *SharedReceiver[T]) TryRecv() (T, error) {
	var zero T
	if r.closed.Load() {
		return zero, ErrDisconnected
	}
	s := r.s
	if !s.mu.TryLock() {
		return zero, ErrEmpty
	}
	return recvGuarded(s, s.rx.TryRecv)
}

// recvGuarded runs one receive call with s.mu held, releasing it on every
// exit path. If the receive panics, the guard is marked broken before the
// panic unwinds: the faulting goroutine still crashes, but every other
// clone gets ErrDisconnected instead of blocking on a mutex nobody will
// ever release.
func recvGuarded[T any](s *shared[T], recv func() (T, error)) (T, error) {
	if s.broken {
		s.mu.Unlock()
		var zero T
		return zero, ErrDisconnected
	}
	completed := false
	defer func() {
		if !completed {
			s.broken = true
		}
		s.mu.Unlock()
	}()
	v, err := recv()
	completed = true
	return v, err
}

// Close releases this endpoint. When the last clone is closed the
// underlying receiver is released: buffered messages are dropped and
// every future Send returns [ErrDisconnected]. Close is idempotent.
func (r *SharedReceiver[T]) Close() {
	r.once.Do(func() {
		r.closed.Store(true)
		if r.s.refs.Add(-1) == 0 {
			r.s.rx.Close()
		}
	})
}

// Len returns the number of messages currently queued. The value may be
// stale in concurrent contexts.
func (r *SharedReceiver[T]) Len() int {
	return r.s.rx.Len()
}
