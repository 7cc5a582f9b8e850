// Package push defines the sink contract of the dataflow data plane and the
// pushers built on it.
//
// A [Pusher] accepts timestamped batches and may take ownership of their
// records. A [RefPusher] only observes them. A nil message is the end of
// stream signal and is forwarded exactly once by every pusher in this
// package.
//
// # Components
//
// Relays: [MapPusher], [RefMapPusher] apply a [Transform] to every message.
//
// Fan-out: [Tee] broadcasts to every pusher registered through its [TeeHandle].
//
// Routing: [Exchange] partitions records across pushers.
//
// Batching: [Buffer] groups records given one at a time into batches.
//
// Accounting: [Counter] counts records per timestamp.
//
// Nothing in this package blocks, spawns goroutines or locks: a push runs to
// completion on the calling goroutine.
package push

import "github.com/fxsml/pushpipe/batch"

// Message is the unit of transfer: a batch of records at one timestamp.
// Timestamps are treated as immutable values and copied on fan-out.
type Message[T, D any] struct {
	Time T
	Data *batch.Batch[D]
}

// NewMessage returns a message carrying data at time.
// A nil data is replaced by an empty batch.
func NewMessage[T, D any](time T, data *batch.Batch[D]) *Message[T, D] {
	if data == nil {
		data = batch.From[D](nil)
	}
	return &Message[T, D]{Time: time, Data: data}
}

// Pusher accepts messages and may take ownership of their records.
//
// Push receives nil exactly once when the upstream closes. An implementation
// may move the records out of msg.Data with Take or Replace, but must not
// retain msg or msg.Data after it returns.
type Pusher[T, D any] interface {
	Push(msg *Message[T, D])
}

// RefPusher observes messages without taking ownership.
//
// PushRef receives nil exactly once when the upstream closes. An
// implementation must neither modify nor retain msg.
type RefPusher[T, D any] interface {
	PushRef(msg *Message[T, D])
}

// PusherFunc adapts a function to the Pusher interface.
type PusherFunc[T, D any] func(msg *Message[T, D])

// Push calls f(msg).
func (f PusherFunc[T, D]) Push(msg *Message[T, D]) {
	f(msg)
}

// RefPusherFunc adapts a function to the RefPusher interface.
type RefPusherFunc[T, D any] func(msg *Message[T, D])

// PushRef calls f(msg).
func (f RefPusherFunc[T, D]) PushRef(msg *Message[T, D]) {
	f(msg)
}
