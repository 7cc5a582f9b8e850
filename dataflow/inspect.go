package dataflow

import "github.com/fxsml/pushpipe/push"

// Inspect calls fn for every record of s without taking ownership and
// returns s. The end-of-stream signal is not reported.
func Inspect[T, D any](s Stream[T, D], fn func(time T, record *D)) Stream[T, D] {
	s.AddRefPusher(push.RefPusherFunc[T, D](func(msg *push.Message[T, D]) {
		if msg == nil {
			return
		}
		for i := range msg.Data.Data() {
			fn(msg.Time, &msg.Data.Data()[i])
		}
	}))
	return s
}

// InspectBatch calls fn for every data message of s, including empty ones,
// and returns s. The end-of-stream signal is not reported. fn must not
// retain records.
func InspectBatch[T, D any](s Stream[T, D], fn func(time T, records []D)) Stream[T, D] {
	s.AddRefPusher(push.RefPusherFunc[T, D](func(msg *push.Message[T, D]) {
		if msg != nil {
			fn(msg.Time, msg.Data.Data())
		}
	}))
	return s
}
