package dataflow

import (
	"github.com/fxsml/pushpipe/batch"
	"github.com/fxsml/pushpipe/push"
)

// Map applies fn to every record, consuming the upstream batch.
func Map[T, D, D2 any](s Stream[T, D], fn func(D) D2) Stream[T, D2] {
	return attach(s, "Map", push.Map(fn))
}

// MapRef applies fn to every record without taking ownership, so other
// sinks of s see the records unchanged.
func MapRef[T, D, D2 any](s Stream[T, D], fn func(*D) D2) Stream[T, D2] {
	return attachRef(s, "MapRef", push.MapRef(fn))
}

// MapInPlace mutates every record and forwards the same storage.
func MapInPlace[T, D any](s Stream[T, D], fn func(*D)) Stream[T, D] {
	return attach(s, "MapInPlace", push.InPlace(fn))
}

// FlatMap replaces every record with the records fn returns for it.
func FlatMap[T, D, D2 any](s Stream[T, D], fn func(D) []D2) Stream[T, D2] {
	return attach(s, "FlatMap", push.FlatMap(fn))
}

// MapBatch hands the whole batch to fn. fn may reuse the batch it is given.
func MapBatch[T, D, D2 any](s Stream[T, D], fn func(*batch.Batch[D]) *batch.Batch[D2]) Stream[T, D2] {
	return attach(s, "MapBatch", push.BatchFunc(fn))
}

// MapBatchRef hands the whole batch to fn, which must not modify it.
func MapBatchRef[T, D, D2 any](s Stream[T, D], fn func(*batch.Batch[D]) *batch.Batch[D2]) Stream[T, D2] {
	return attachRef(s, "MapBatchRef", push.BatchRefFunc(fn))
}

func attach[T, D, D2 any](s Stream[T, D], name string, t push.Transform[D, D2]) Stream[T, D2] {
	tee, handle := push.NewTee[T, D2]()
	s.AddPusher(push.NewMapPusher[T, D, D2](t, tee))
	return NewStream(s.Scope(), name, handle)
}

func attachRef[T, D, D2 any](s Stream[T, D], name string, t push.Transform[D, D2]) Stream[T, D2] {
	tee, handle := push.NewTee[T, D2]()
	s.AddRefPusher(push.NewRefMapPusher[T, D, D2](t, tee))
	return NewStream(s.Scope(), name, handle)
}
