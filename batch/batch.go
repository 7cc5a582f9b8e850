// Package batch provides the reusable record container that travels through
// push channels together with a timestamp.
//
// A Batch separates borrowing from consuming: [Batch.Data] and [Batch.Each]
// borrow the records, while [Batch.Take] and [Batch.Replace] move them out.
// Storage handed back with [Batch.Recycle] is reused by the next Take, so a
// channel that pushes batches of a stable size stops allocating after warmup.
package batch

import "reflect"

// bufferSize is the byte budget of a default batch.
const bufferSize = 1 << 13

// DefaultCapacity returns the number of records of type D that fit into a
// default batch buffer. It is at least 1.
func DefaultCapacity[D any]() int {
	size := int(reflect.TypeFor[D]().Size())
	if size == 0 {
		return bufferSize
	}
	if n := bufferSize / size; n > 0 {
		return n
	}
	return 1
}

// Batch is an ordered sequence of records with a retained capacity.
// It is not safe for concurrent use.
type Batch[D any] struct {
	data  []D
	spare []D
}

// New returns an empty batch with the given capacity.
// A capacity <= 0 selects DefaultCapacity.
func New[D any](capacity int) *Batch[D] {
	if capacity <= 0 {
		capacity = DefaultCapacity[D]()
	}
	return &Batch[D]{data: make([]D, 0, capacity)}
}

// From returns a batch that adopts records without copying.
func From[D any](records []D) *Batch[D] {
	return &Batch[D]{data: records}
}

// Len returns the number of records.
func (b *Batch[D]) Len() int {
	return len(b.data)
}

// Cap returns the capacity of the current storage.
func (b *Batch[D]) Cap() int {
	return cap(b.data)
}

// Data returns the records. Elements may be modified in place, but the
// slice must not be retained past the next call that modifies the batch.
func (b *Batch[D]) Data() []D {
	return b.data
}

// Each calls fn with a pointer to every record, in order.
func (b *Batch[D]) Each(fn func(*D)) {
	for i := range b.data {
		fn(&b.data[i])
	}
}

// Append adds records to the end of the batch.
func (b *Batch[D]) Append(records ...D) {
	b.data = append(b.data, records...)
}

// Extend copies src to the end of the batch.
func (b *Batch[D]) Extend(src []D) {
	b.data = append(b.data, src...)
}

// Take moves the records out of the batch. The batch is left empty with the
// same capacity, backed by recycled storage if any was handed back.
func (b *Batch[D]) Take() []D {
	out := b.data
	b.data = b.fresh(cap(out))
	return out
}

// Replace installs records as the batch contents and returns the previous
// contents.
func (b *Batch[D]) Replace(records []D) []D {
	out := b.data
	b.data = records
	return out
}

// Recycle hands buf back to the batch so that the next Take can reuse its
// storage instead of allocating. The contents of buf are discarded.
func (b *Batch[D]) Recycle(buf []D) {
	if cap(buf) == 0 || cap(buf) < cap(b.spare) {
		return
	}
	clear(buf[:cap(buf)])
	b.spare = buf[:0]
}

// Reset empties the batch and keeps its storage.
func (b *Batch[D]) Reset() {
	clear(b.data)
	b.data = b.data[:0]
}

// Clone returns a batch holding a copy of the records.
func (b *Batch[D]) Clone() *Batch[D] {
	data := make([]D, len(b.data), cap(b.data))
	copy(data, b.data)
	return &Batch[D]{data: data}
}

func (b *Batch[D]) fresh(capacity int) []D {
	if b.spare != nil && cap(b.spare) >= capacity {
		buf := b.spare
		b.spare = nil
		return buf
	}
	if capacity == 0 {
		return nil
	}
	return make([]D, 0, capacity)
}
