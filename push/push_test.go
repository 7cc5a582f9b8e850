package push

import (
	"slices"

	"github.com/fxsml/pushpipe/batch"
)

type event[T, D any] struct {
	time    T
	records []D
	closed  bool
}

// recorder takes ownership of every batch it receives and keeps a log.
type recorder[T, D any] struct {
	events []event[T, D]
}

func (r *recorder[T, D]) Push(msg *Message[T, D]) {
	if msg == nil {
		r.events = append(r.events, event[T, D]{closed: true})
		return
	}
	r.events = append(r.events, event[T, D]{time: msg.Time, records: msg.Data.Take()})
}

func (r *recorder[T, D]) PushRef(msg *Message[T, D]) {
	if msg == nil {
		r.events = append(r.events, event[T, D]{closed: true})
		return
	}
	r.events = append(r.events, event[T, D]{time: msg.Time, records: slices.Clone(msg.Data.Data())})
}

func (r *recorder[T, D]) closed() int {
	n := 0
	for _, e := range r.events {
		if e.closed {
			n++
		}
	}
	return n
}

func (r *recorder[T, D]) records() []D {
	var out []D
	for _, e := range r.events {
		out = append(out, e.records...)
	}
	return out
}

func msgOf[T, D any](time T, records ...D) *Message[T, D] {
	return NewMessage(time, batch.From(records))
}
