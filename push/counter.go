package push

// Counter counts the records pushed through it per time before forwarding
// each message unchanged. Drain hands the counts to a progress tracker.
type Counter[T comparable, D any] struct {
	pusher   Pusher[T, D]
	produced map[T]int64
}

// NewCounter returns a Counter in front of pusher.
func NewCounter[T comparable, D any](pusher Pusher[T, D]) *Counter[T, D] {
	return &Counter[T, D]{
		pusher:   pusher,
		produced: make(map[T]int64),
	}
}

// Push records the size of msg and forwards it.
func (c *Counter[T, D]) Push(msg *Message[T, D]) {
	if msg != nil {
		if n := msg.Data.Len(); n > 0 {
			c.produced[msg.Time] += int64(n)
		}
	}
	c.pusher.Push(msg)
}

// Drain returns the counts accumulated since the last Drain and resets them.
func (c *Counter[T, D]) Drain() map[T]int64 {
	out := c.produced
	c.produced = make(map[T]int64)
	return out
}
