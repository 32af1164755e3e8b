package sharedchan

import "iter"

// Iter is a pull-style iterator over a [SharedReceiver]. Each Next call
// performs exactly one blocking receive. Iter holds no state of its own;
// obtaining several iterators from the same endpoint (or the same
// iterator from several goroutines) just means the receives race, same
// as calling Recv directly.
type Iter[T any] struct {
	rx *SharedReceiver[T]
}

// Iter returns a pull iterator bound to this endpoint.
func (r *SharedReceiver[T]) Iter() *Iter[T] {
	return &Iter[T]{rx: r}
}

// Next performs one blocking receive. ok is false once the queue is
// disconnected; a fresh iterator obtained afterwards reports false
// immediately, since disconnect is terminal.
func (it *Iter[T]) Next() (T, bool) {
	v, err := it.rx.Recv()
	return v, err == nil
}

// Seq returns a range-over-func view of the endpoint:
//
//	for v := range rx.Seq() {
//	    handle(v)
//	}
//
// The loop ends when the queue disconnects. Breaking out early loses
// nothing: messages not yet received stay in the queue for other clones
// or a later loop.
func (r *SharedReceiver[T]) Seq() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, err := r.Recv()
			if err != nil {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}
