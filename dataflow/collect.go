package dataflow

import "github.com/fxsml/pushpipe/push"

// Event is one message received by a Collected sink.
type Event[T, D any] struct {
	Time    T
	Records []D
}

// Collected is a terminal sink that takes ownership of every batch.
type Collected[T, D any] struct {
	Events []Event[T, D]
	Closes int
}

// Collect attaches a Collected sink to s.
func Collect[T, D any](s Stream[T, D]) *Collected[T, D] {
	c := &Collected[T, D]{}
	s.AddPusher(c)
	return c
}

func (c *Collected[T, D]) Push(msg *push.Message[T, D]) {
	if msg == nil {
		c.Closes++
		return
	}
	c.Events = append(c.Events, Event[T, D]{Time: msg.Time, Records: msg.Data.Take()})
}

// Records returns all records received, in arrival order.
func (c *Collected[T, D]) Records() []D {
	var out []D
	for _, e := range c.Events {
		out = append(out, e.Records...)
	}
	return out
}

// Closed reports whether end of stream was received.
func (c *Collected[T, D]) Closed() bool {
	return c.Closes > 0
}
