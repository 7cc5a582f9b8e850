package dataflow

import (
	"github.com/fxsml/pushpipe/batch"
	"github.com/fxsml/pushpipe/push"
)

// InputHandle feeds records into a graph. Records are batched per time,
// counted and broadcast to every sink of the input's stream.
type InputHandle[T comparable, D any] struct {
	graph   *Graph
	buffer  *push.Buffer[T, D]
	counter *push.Counter[T, D]
	closed  bool
}

// NewInput adds an input to g.
func NewInput[T comparable, D any](g *Graph) (*InputHandle[T, D], Stream[T, D]) {
	tee, handle := push.NewTee[T, D]()
	counter := push.NewCounter[T, D](tee)
	h := &InputHandle[T, D]{
		graph:   g,
		buffer:  push.NewBuffer[T, D](counter, capacityFor[D](g.cfg)),
		counter: counter,
	}
	return h, NewStream(g, "Input", handle)
}

// Send gives records at time. Records sent at the same time are batched
// together until the time changes, the batch fills or Flush is called.
func (h *InputHandle[T, D]) Send(time T, records ...D) {
	h.start()
	h.buffer.GiveSlice(time, records)
}

// SendBatch pushes b at time as its own message, even when it is empty.
// The records of b are consumed.
func (h *InputHandle[T, D]) SendBatch(time T, b *batch.Batch[D]) {
	h.start()
	h.buffer.PushBatch(time, b)
}

// Flush pushes any records still buffered.
func (h *InputHandle[T, D]) Flush() {
	h.buffer.Flush()
}

// Close flushes and signals end of stream to every sink. Calls after the
// first are no-ops.
func (h *InputHandle[T, D]) Close() {
	if h.closed {
		return
	}
	h.graph.Seal()
	h.closed = true
	h.buffer.Cease()
}

// Closed reports whether Close has been called.
func (h *InputHandle[T, D]) Closed() bool {
	return h.closed
}

// Produced returns the number of records pushed per time since the last
// call.
func (h *InputHandle[T, D]) Produced() map[T]int64 {
	return h.counter.Drain()
}

func (h *InputHandle[T, D]) start() {
	if h.closed {
		panic(ErrInputClosed)
	}
	h.graph.Seal()
}
