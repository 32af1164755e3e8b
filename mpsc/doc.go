// Package mpsc implements an unbounded multi-producer, single-consumer
// FIFO queue with disconnect detection on both ends.
//
// Native Go channels are bounded and give senders no way to observe that
// the receiver is gone: a send on a full channel blocks forever and a send
// on a closed channel panics. mpsc fills that gap for code that needs
// mpsc-style semantics:
//
//   - [Sender] handles are cheap to [Sender.Clone] and safe for concurrent
//     use; [Sender.Send] never blocks (the queue is unbounded) and returns
//     [ErrDisconnected] once the receiver is gone.
//   - The single [Receiver] offers [Receiver.Recv] (blocks until a message
//     arrives or every sender is closed) and [Receiver.TryRecv]
//     (non-blocking, distinguishing [ErrEmpty] from [ErrDisconnected]).
//   - Closing the last sender handle wakes a blocked receiver; messages
//     already queued are still delivered before Recv reports disconnect.
//
// The Receiver is single-consumer: concurrent Recv calls from multiple
// goroutines need external serialization. The parent package
// [github.com/baxromumarov/sharedchan] provides exactly that wrapper.
package mpsc
