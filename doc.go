// Package sharedchan turns a single-consumer FIFO queue into a
// multi-consumer one, keeping the multi-producer side untouched.
//
// Many goroutines can hold a clone of the same [SharedReceiver] and
// compete for messages, with the delivery semantics of a single logical
// consumer spreading work across them: every message is delivered to
// exactly one clone, in the queue's FIFO order. Which clone wins a given
// message is a race, decided by lock contention. This is the classic
// worker-pool shape:
//
//	tx, rx := sharedchan.New[int]()
//	for i := 0; i < 10; i++ {
//	    rx := rx.Clone()
//	    go func() {
//	        for v := range rx.Seq() {
//	            fmt.Println(v)
//	        }
//	    }()
//	}
//	for i := 0; i < 10; i++ {
//	    tx.Send(i)
//	}
//
// # Receiving
//
// [SharedReceiver.Recv] blocks until a message arrives or the queue
// disconnects. [SharedReceiver.TryRecv] never blocks and distinguishes
// [ErrEmpty] (try again later) from [ErrDisconnected] (terminal).
// [SharedReceiver.Iter] and [SharedReceiver.Seq] drain the queue one
// blocking receive per step, ending exactly when Recv reports disconnect.
//
// # Disconnect
//
// Disconnect is observable from both ends and is a normal result value,
// never a panic: closing the last sender handle makes Recv return
// [ErrDisconnected] once the queue is drained, and closing the last
// receiver clone makes Send return [ErrDisconnected]. A goroutine that
// panics mid-receive cannot wedge the queue for the other clones; they
// see [ErrDisconnected] from then on.
//
// # Blocking model
//
// Recv is uncancellable once entered: there is no context or timeout
// hook on the receive path. Callers that need a deadline should poll
// TryRecv. Sends never block; the underlying queue
// [github.com/baxromumarov/sharedchan/mpsc] is unbounded.
package sharedchan
