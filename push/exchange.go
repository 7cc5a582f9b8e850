package push

import "github.com/fxsml/pushpipe/batch"

// Exchange partitions records across a fixed set of pushers.
//
// Each record goes to pushers[route(&record) % len(pushers)]. Records keep
// their relative order per target and their message time. Per-target
// batches are pushed when full and at the end of every incoming message.
// An empty incoming batch is forwarded as an empty batch to every target,
// so each of them sees its time. nil is forwarded to every target.
type Exchange[T, D any] struct {
	pushers  []Pusher[T, D]
	buffers  []Message[T, D]
	route    func(*D) uint64
	capacity int
}

// NewExchange returns an Exchange over pushers. It panics if pushers is
// empty.
func NewExchange[T, D any](pushers []Pusher[T, D], route func(*D) uint64) *Exchange[T, D] {
	if len(pushers) == 0 {
		panic("push: exchange needs at least one pusher")
	}
	capacity := batch.DefaultCapacity[D]()
	buffers := make([]Message[T, D], len(pushers))
	for i := range buffers {
		buffers[i].Data = batch.New[D](capacity)
	}
	return &Exchange[T, D]{
		pushers:  pushers,
		buffers:  buffers,
		route:    route,
		capacity: capacity,
	}
}

// Push routes the records of msg.
func (e *Exchange[T, D]) Push(msg *Message[T, D]) {
	if msg == nil {
		for _, p := range e.pushers {
			p.Push(nil)
		}
		return
	}
	if len(e.pushers) == 1 {
		e.pushers[0].Push(msg)
		return
	}
	if msg.Data.Len() == 0 {
		for i, p := range e.pushers {
			out := &e.buffers[i]
			out.Time = msg.Time
			p.Push(out)
			out.Data.Reset()
		}
		return
	}

	n := uint64(len(e.pushers))
	records := msg.Data.Take()
	for i := range records {
		idx := e.route(&records[i]) % n
		e.buffers[idx].Data.Append(records[i])
		if e.buffers[idx].Data.Len() >= e.capacity {
			e.flush(idx, msg.Time)
		}
	}
	msg.Data.Recycle(records)

	for i := range e.buffers {
		e.flush(uint64(i), msg.Time)
	}
}

func (e *Exchange[T, D]) flush(idx uint64, time T) {
	out := &e.buffers[idx]
	if out.Data.Len() == 0 {
		return
	}
	out.Time = time
	e.pushers[idx].Push(out)
	out.Data.Reset()
}
