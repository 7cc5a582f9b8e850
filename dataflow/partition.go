package dataflow

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/fxsml/pushpipe/push"
)

// Partition splits s into n streams. Records with equal keys land in the
// same stream, in their original order. An empty batch reaches every
// partition, so each partition observes every time sent into s.
func Partition[T, D any](s Stream[T, D], n int, key func(*D) string) []Stream[T, D] {
	if n <= 0 {
		panic(fmt.Sprintf("dataflow: invalid partition count %d", n))
	}
	pushers := make([]push.Pusher[T, D], n)
	streams := make([]Stream[T, D], n)
	for i := range n {
		tee, handle := push.NewTee[T, D]()
		pushers[i] = tee
		streams[i] = NewStream(s.Scope(), fmt.Sprintf("Partition[%d]", i), handle)
	}
	s.AddPusher(push.NewExchange(pushers, func(d *D) uint64 {
		return xxhash.Sum64String(key(d))
	}))
	return streams
}
