package push

import "github.com/fxsml/pushpipe/batch"

// Transform rewrites the records of one batch into another.
//
// Apply fills out, which is empty on entry, from in. Transforms built for
// owning pushers may drain in; transforms built for RefMapPusher leave it
// untouched.
type Transform[D, D2 any] interface {
	Apply(in *batch.Batch[D], out *batch.Batch[D2])
}

// TransformFunc adapts a function to the Transform interface.
type TransformFunc[D, D2 any] func(in *batch.Batch[D], out *batch.Batch[D2])

// Apply calls f(in, out).
func (f TransformFunc[D, D2]) Apply(in *batch.Batch[D], out *batch.Batch[D2]) {
	f(in, out)
}

// Map returns a Transform that replaces every record r with fn(r).
// When D and D2 are the same type the records are rewritten in place and
// the storage moves to out.
func Map[D, D2 any](fn func(D) D2) Transform[D, D2] {
	return mapTransform[D, D2]{fn: fn}
}

type mapTransform[D, D2 any] struct {
	fn func(D) D2
}

func (t mapTransform[D, D2]) Apply(in *batch.Batch[D], out *batch.Batch[D2]) {
	data := in.Data()
	if same, ok := any(data).([]D2); ok {
		for i := range data {
			same[i] = t.fn(data[i])
		}
		prev := out.Replace(same)
		in.Replace(any(prev[:0]).([]D))
		return
	}
	records := in.Take()
	for _, r := range records {
		out.Append(t.fn(r))
	}
	in.Recycle(records)
}

// MapRef returns a Transform that produces fn(&r) for every record r and
// leaves in unchanged. fn must not modify the record.
func MapRef[D, D2 any](fn func(*D) D2) Transform[D, D2] {
	return mapRefTransform[D, D2]{fn: fn}
}

type mapRefTransform[D, D2 any] struct {
	fn func(*D) D2
}

func (t mapRefTransform[D, D2]) Apply(in *batch.Batch[D], out *batch.Batch[D2]) {
	data := in.Data()
	for i := range data {
		out.Append(t.fn(&data[i]))
	}
}

// InPlace returns a Transform that calls fn on every record and moves the
// updated storage to out without copying.
func InPlace[D any](fn func(*D)) Transform[D, D] {
	return inPlaceTransform[D]{fn: fn}
}

type inPlaceTransform[D any] struct {
	fn func(*D)
}

func (t inPlaceTransform[D]) Apply(in *batch.Batch[D], out *batch.Batch[D]) {
	in.Each(t.fn)
	prev := out.Replace(in.Data())
	in.Replace(prev[:0])
}

// FlatMap returns a Transform that drains in and appends fn(r) to out for
// every record r, preserving order.
func FlatMap[D, D2 any](fn func(D) []D2) Transform[D, D2] {
	return flatMapTransform[D, D2]{fn: fn}
}

type flatMapTransform[D, D2 any] struct {
	fn func(D) []D2
}

func (t flatMapTransform[D, D2]) Apply(in *batch.Batch[D], out *batch.Batch[D2]) {
	records := in.Take()
	for _, r := range records {
		out.Extend(t.fn(r))
	}
	in.Recycle(records)
}

// BatchFunc returns a Transform that hands the whole batch to fn and
// forwards the records of the batch it returns. fn may consume in or build
// the result on its storage, for example by filtering in place. A nil
// result forwards an empty batch.
func BatchFunc[D, D2 any](fn func(*batch.Batch[D]) *batch.Batch[D2]) Transform[D, D2] {
	return batchTransform[D, D2]{fn: fn}
}

type batchTransform[D, D2 any] struct {
	fn func(*batch.Batch[D]) *batch.Batch[D2]
}

func (t batchTransform[D, D2]) Apply(in *batch.Batch[D], out *batch.Batch[D2]) {
	res := t.fn(in)
	if res == nil {
		return
	}
	var prev []D2
	if same, ok := any(res).(*batch.Batch[D]); ok && same == in {
		prev = out.Replace(res.Data())
	} else {
		// res may be a view of in's storage, so in must let go of it.
		prev = out.Replace(res.Replace(nil))
	}
	// out's previous storage is unshared and becomes in's next buffer.
	if spare, ok := any(prev[:0]).([]D); ok {
		in.Replace(spare)
	} else {
		in.Replace(nil)
	}
}

// BatchRefFunc returns a Transform that hands the whole batch to fn for
// reading and forwards a copy of the records of the batch it returns. fn
// must not modify in but may return in or a view of it.
func BatchRefFunc[D, D2 any](fn func(*batch.Batch[D]) *batch.Batch[D2]) Transform[D, D2] {
	return batchRefTransform[D, D2]{fn: fn}
}

type batchRefTransform[D, D2 any] struct {
	fn func(*batch.Batch[D]) *batch.Batch[D2]
}

func (t batchRefTransform[D, D2]) Apply(in *batch.Batch[D], out *batch.Batch[D2]) {
	if res := t.fn(in); res != nil {
		out.Extend(res.Data())
	}
}
