package push

import (
	"slices"
	"testing"

	"github.com/fxsml/pushpipe/batch"
)

func TestBuffer_FlushesOnCapacity(t *testing.T) {
	sink := &recorder[int, int]{}
	b := NewBuffer[int, int](sink, 2)

	for i := range 5 {
		b.Give(0, i)
	}
	if len(sink.events) != 2 {
		t.Fatalf("expected 2 full batches before flush, got %d", len(sink.events))
	}
	b.Flush()

	if len(sink.events) != 3 {
		t.Fatalf("expected 3 batches after flush, got %d", len(sink.events))
	}
	if !slices.Equal(sink.records(), []int{0, 1, 2, 3, 4}) {
		t.Errorf("expected [0 1 2 3 4], got %v", sink.records())
	}
}

func TestBuffer_TimeChangeFlushes(t *testing.T) {
	sink := &recorder[int, string]{}
	b := NewBuffer[int, string](sink, 0)

	b.Give(1, "a")
	b.Give(1, "b")
	b.Give(2, "c")
	b.Flush()

	if len(sink.events) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(sink.events))
	}
	if sink.events[0].time != 1 || !slices.Equal(sink.events[0].records, []string{"a", "b"}) {
		t.Errorf("expected [a b] at 1, got %v at %d", sink.events[0].records, sink.events[0].time)
	}
	if sink.events[1].time != 2 || !slices.Equal(sink.events[1].records, []string{"c"}) {
		t.Errorf("expected [c] at 2, got %v at %d", sink.events[1].records, sink.events[1].time)
	}
}

func TestBuffer_GiveSliceChunks(t *testing.T) {
	sink := &recorder[int, int]{}
	b := NewBuffer[int, int](sink, 3)

	b.GiveSlice(0, []int{1, 2, 3, 4, 5, 6, 7})
	b.Flush()

	var sizes []int
	for _, e := range sink.events {
		sizes = append(sizes, len(e.records))
	}
	if !slices.Equal(sizes, []int{3, 3, 1}) {
		t.Errorf("expected batch sizes [3 3 1], got %v", sizes)
	}
}

func TestBuffer_PushBatchKeepsEmpty(t *testing.T) {
	sink := &recorder[int, int]{}
	b := NewBuffer[int, int](sink, 0)

	b.Give(1, 1)
	b.PushBatch(2, batch.New[int](0))

	if len(sink.events) != 2 {
		t.Fatalf("expected buffered batch and empty batch, got %d events", len(sink.events))
	}
	if sink.events[1].time != 2 || len(sink.events[1].records) != 0 {
		t.Errorf("expected empty batch at 2, got %+v", sink.events[1])
	}
}

func TestBuffer_CeaseOnce(t *testing.T) {
	sink := &recorder[int, int]{}
	b := NewBuffer[int, int](sink, 0)

	b.Give(0, 1)
	b.Cease()
	b.Cease()

	if !slices.Equal(sink.records(), []int{1}) {
		t.Errorf("expected buffered record to be flushed, got %v", sink.records())
	}
	if sink.closed() != 1 {
		t.Errorf("expected exactly one close, got %d", sink.closed())
	}
	if _, active := b.Time(); active {
		t.Error("expected no open session after Cease")
	}
}
