package dataflow

import (
	"slices"
	"testing"

	"github.com/fxsml/pushpipe/batch"
)

func TestInspect(t *testing.T) {
	g := NewGraph(Config{})
	input, in := NewInput[int, int](g)
	var seen []int
	var batches int
	out := Collect(InspectBatch(Inspect(in, func(_ int, x *int) {
		seen = append(seen, *x)
	}), func(_ int, records []int) {
		batches++
	}))

	input.Send(0, 1, 2)
	input.Send(1, 3)
	input.Close()

	if !slices.Equal(seen, []int{1, 2, 3}) {
		t.Errorf("expected [1 2 3], got %v", seen)
	}
	if batches != 2 {
		t.Errorf("expected 2 batches, got %d", batches)
	}
	if !slices.Equal(out.Records(), []int{1, 2, 3}) {
		t.Errorf("expected inspected stream to keep its records, got %v", out.Records())
	}
}

func TestPartition(t *testing.T) {
	g := NewGraph(Config{})
	input, in := NewInput[int, string](g)
	parts := Partition(in, 3, func(s *string) string { return *s })
	outs := make([]*Collected[int, string], len(parts))
	for i, p := range parts {
		outs[i] = Collect(p)
	}

	keys := []string{"a", "b", "c", "d", "a", "b", "e", "a"}
	input.Send(0, keys...)
	input.Close()

	total := 0
	owner := map[string]int{}
	for i, out := range outs {
		if out.Closes != 1 {
			t.Errorf("partition %d: expected one close, got %d", i, out.Closes)
		}
		for _, k := range out.Records() {
			if prev, ok := owner[k]; ok && prev != i {
				t.Errorf("key %q seen in partitions %d and %d", k, prev, i)
			}
			owner[k] = i
			total++
		}
	}
	if total != len(keys) {
		t.Errorf("expected %d records, got %d", len(keys), total)
	}
}

func TestPartition_InvalidCountPanics(t *testing.T) {
	g := NewGraph(Config{})
	_, in := NewInput[int, int](g)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Partition(in, 0, func(*int) string { return "" })
}

func TestPartition_EmptyBatchReachesEveryPartition(t *testing.T) {
	g := NewGraph(Config{})
	input, in := NewInput[int, string](g)
	var outs []*Collected[int, string]
	for _, p := range Partition(in, 3, func(s *string) string { return *s }) {
		outs = append(outs, Collect(p))
	}
	var seen []int
	InspectBatch(in, func(time int, records []string) {
		seen = append(seen, len(records))
	})

	input.SendBatch(2, batch.New[string](0))
	input.Close()

	for i, out := range outs {
		if len(out.Events) != 1 || out.Events[0].Time != 2 || len(out.Events[0].Records) != 0 {
			t.Errorf("partition %d: expected one empty batch at 2, got %+v", i, out.Events)
		}
	}
	if !slices.Equal(seen, []int{0}) {
		t.Errorf("expected InspectBatch to report the empty batch only, got %v", seen)
	}
}
