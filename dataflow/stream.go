package dataflow

import "github.com/fxsml/pushpipe/push"

// Stream is the handle of one channel: its identity, its scope and the
// registration side of its tee. Copies of a Stream attach to the same sinks.
type Stream[T, D any] struct {
	scope  Scope
	output Output
	handle push.TeeHandle[T, D]
}

// NewStream allocates an output named name in scope for handle.
func NewStream[T, D any](scope Scope, name string, handle push.TeeHandle[T, D]) Stream[T, D] {
	return Stream[T, D]{
		scope:  scope,
		output: scope.NewOutput(name, handle),
		handle: handle,
	}
}

// Output returns the identity of the stream's channel.
func (s Stream[T, D]) Output() Output { return s.output }

// Scope returns the scope the stream was built in.
func (s Stream[T, D]) Scope() Scope { return s.scope }

// Name returns the name the stream's output was allocated with.
func (s Stream[T, D]) Name() string { return s.output.Name }

// AddPusher attaches an owning sink.
func (s Stream[T, D]) AddPusher(p push.Pusher[T, D]) {
	s.handle.AddPusher(p)
}

// AddRefPusher attaches an observing sink.
func (s Stream[T, D]) AddRefPusher(p push.RefPusher[T, D]) {
	s.handle.AddRefPusher(p)
}
