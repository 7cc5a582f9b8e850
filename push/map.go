package push

import "github.com/fxsml/pushpipe/batch"

// MapPusher applies a Transform to every message and forwards the result to
// the next pusher. It is a 1:1 relay: one message in, one message out, with
// nil forwarded as nil. Chains of transforms nest MapPushers.
type MapPusher[T, D, D2 any] struct {
	relay[T, D, D2]
}

// NewMapPusher returns a MapPusher that applies t before pushing to next.
// t may drain the incoming batch.
func NewMapPusher[T, D, D2 any](t Transform[D, D2], next Pusher[T, D2]) *MapPusher[T, D, D2] {
	return &MapPusher[T, D, D2]{relay: newRelay[T](t, next)}
}

// Push transforms msg and forwards it.
func (p *MapPusher[T, D, D2]) Push(msg *Message[T, D]) {
	p.forward(msg)
}

// RefMapPusher is the by-reference form of MapPusher. It observes messages
// through PushRef and forwards owned results to the next pusher, so its
// Transform must leave the incoming batch untouched.
type RefMapPusher[T, D, D2 any] struct {
	relay[T, D, D2]
}

// NewRefMapPusher returns a RefMapPusher that applies t before pushing to
// next.
func NewRefMapPusher[T, D, D2 any](t Transform[D, D2], next Pusher[T, D2]) *RefMapPusher[T, D, D2] {
	return &RefMapPusher[T, D, D2]{relay: newRelay[T](t, next)}
}

// PushRef transforms msg and forwards the result.
func (p *RefMapPusher[T, D, D2]) PushRef(msg *Message[T, D]) {
	p.forward(msg)
}

type relay[T, D, D2 any] struct {
	transform Transform[D, D2]
	next      Pusher[T, D2]
	out       Message[T, D2]
}

func newRelay[T, D, D2 any](t Transform[D, D2], next Pusher[T, D2]) relay[T, D, D2] {
	return relay[T, D, D2]{
		transform: t,
		next:      next,
		out:       Message[T, D2]{Data: batch.From[D2](nil)},
	}
}

func (r *relay[T, D, D2]) forward(msg *Message[T, D]) {
	if msg == nil {
		r.next.Push(nil)
		return
	}
	r.out.Time = msg.Time
	r.transform.Apply(msg.Data, r.out.Data)
	r.next.Push(&r.out)
	r.out.Data.Reset()
}
