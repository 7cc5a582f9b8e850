package push

import "github.com/fxsml/pushpipe/batch"

// registry is the pusher list shared by a Tee and its handles.
type registry[T, D any] struct {
	pushers    []Pusher[T, D]
	refPushers []RefPusher[T, D]
	sealed     bool
}

// Tee broadcasts every message to the pushers registered through its
// TeeHandle, in registration order.
//
// RefPushers observe each message first. Owning pushers then each receive
// their own copy of the records, except the last one, which receives the
// incoming message itself. A nil message reaches every pusher once.
type Tee[T, D any] struct {
	scratch *batch.Batch[D]
	copy    Message[T, D]
	reg     *registry[T, D]
}

// TeeHandle registers pushers with a Tee. Copies of a handle share the same
// registry.
type TeeHandle[T, D any] struct {
	reg *registry[T, D]
}

// NewTee allocates a Tee and the handle used to attach pushers to it.
func NewTee[T, D any]() (*Tee[T, D], TeeHandle[T, D]) {
	reg := &registry[T, D]{}
	tee := &Tee[T, D]{
		scratch: batch.New[D](0),
		reg:     reg,
	}
	return tee, TeeHandle[T, D]{reg: reg}
}

// Clone returns a Tee that shares the registry and has its own copy buffer.
func (t *Tee[T, D]) Clone() *Tee[T, D] {
	return &Tee[T, D]{
		scratch: batch.New[D](t.scratch.Cap()),
		reg:     t.reg,
	}
}

// Push broadcasts msg to all registered pushers.
func (t *Tee[T, D]) Push(msg *Message[T, D]) {
	for _, p := range t.reg.refPushers {
		p.PushRef(msg)
	}

	pushers := t.reg.pushers
	if msg == nil {
		for _, p := range pushers {
			p.Push(nil)
		}
		return
	}

	last := len(pushers) - 1
	for i, p := range pushers {
		if i == last {
			p.Push(msg)
			break
		}
		t.scratch.Extend(msg.Data.Data())
		t.copy.Time = msg.Time
		t.copy.Data = t.scratch
		p.Push(&t.copy)
		t.scratch.Reset()
	}
}

// AddPusher appends p to the owning pushers.
// It panics with ErrSealed once the handle is sealed.
func (h TeeHandle[T, D]) AddPusher(p Pusher[T, D]) {
	if h.reg.sealed {
		panic(ErrSealed)
	}
	h.reg.pushers = append(h.reg.pushers, p)
}

// AddRefPusher appends p to the observing pushers.
// It panics with ErrSealed once the handle is sealed.
func (h TeeHandle[T, D]) AddRefPusher(p RefPusher[T, D]) {
	if h.reg.sealed {
		panic(ErrSealed)
	}
	h.reg.refPushers = append(h.reg.refPushers, p)
}

// Seal freezes the registry. It marks the start of execution.
func (h TeeHandle[T, D]) Seal() {
	h.reg.sealed = true
}

// Sealed reports whether the registry is frozen.
func (h TeeHandle[T, D]) Sealed() bool {
	return h.reg.sealed
}

// Len returns the number of owning and observing pushers.
func (h TeeHandle[T, D]) Len() (owning, observing int) {
	return len(h.reg.pushers), len(h.reg.refPushers)
}
