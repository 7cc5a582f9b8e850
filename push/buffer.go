package push

import "github.com/fxsml/pushpipe/batch"

// Buffer groups records given one at a time into batches for a pusher.
//
// Records given for the same time accumulate until the batch reaches its
// capacity, the time changes, or Flush is called. Cease flushes and closes
// the downstream pusher.
type Buffer[T comparable, D any] struct {
	pusher   Pusher[T, D]
	capacity int
	msg      Message[T, D]
	active   bool
	ceased   bool
}

// NewBuffer returns a Buffer in front of pusher. A capacity <= 0 selects
// batch.DefaultCapacity.
func NewBuffer[T comparable, D any](pusher Pusher[T, D], capacity int) *Buffer[T, D] {
	if capacity <= 0 {
		capacity = batch.DefaultCapacity[D]()
	}
	return &Buffer[T, D]{
		pusher:   pusher,
		capacity: capacity,
		msg:      Message[T, D]{Data: batch.New[D](capacity)},
	}
}

// Time returns the time of the open session, if any.
func (b *Buffer[T, D]) Time() (T, bool) {
	return b.msg.Time, b.active
}

// Give adds one record at time.
func (b *Buffer[T, D]) Give(time T, record D) {
	b.session(time)
	b.msg.Data.Append(record)
	if b.msg.Data.Len() >= b.capacity {
		b.Flush()
	}
}

// GiveSlice adds records at time, flushing whenever the batch fills.
func (b *Buffer[T, D]) GiveSlice(time T, records []D) {
	b.session(time)
	for len(records) > 0 {
		n := min(b.capacity-b.msg.Data.Len(), len(records))
		b.msg.Data.Extend(records[:n])
		records = records[n:]
		if b.msg.Data.Len() >= b.capacity {
			b.Flush()
		}
	}
}

// PushBatch flushes buffered records and pushes data at time as a message
// of its own, even when data is empty.
func (b *Buffer[T, D]) PushBatch(time T, data *batch.Batch[D]) {
	b.Flush()
	b.pusher.Push(NewMessage(time, data))
}

// Flush pushes the buffered records, if any.
func (b *Buffer[T, D]) Flush() {
	if b.msg.Data.Len() == 0 {
		return
	}
	b.pusher.Push(&b.msg)
	b.msg.Data.Reset()
}

// Cease flushes and signals end of stream downstream. Calls after the
// first are no-ops.
func (b *Buffer[T, D]) Cease() {
	if b.ceased {
		return
	}
	b.Flush()
	b.ceased = true
	b.active = false
	b.pusher.Push(nil)
}

func (b *Buffer[T, D]) session(time T) {
	if b.active && b.msg.Time != time {
		b.Flush()
	}
	b.msg.Time = time
	b.active = true
}
