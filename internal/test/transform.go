// Package test holds behaviour suites shared by the stream combinators.
package test

import (
	"slices"
	"strconv"
	"testing"

	"github.com/fxsml/pushpipe/batch"
	"github.com/fxsml/pushpipe/dataflow"
)

// MapFunc builds a stream carrying handle(x) for every record x of s.
type MapFunc func(
	s dataflow.Stream[int, int],
	handle func(int) string,
) dataflow.Stream[int, string]

func format(val int) string {
	return "Number: " + strconv.Itoa(val)
}

// RunMap runs every suite against f.
func RunMap(t *testing.T, f MapFunc) {
	RunMap_Success(t, f)
	RunMap_FanOut(t, f)
	RunMap_Close(t, f)
	RunMap_EmptyBatch(t, f)
}

func RunMap_Success(t *testing.T, f MapFunc) {
	t.Run("map success", func(t *testing.T) {
		g := dataflow.NewGraph(dataflow.Config{})
		input, in := dataflow.NewInput[int, int](g)
		out := dataflow.Collect(f(in, format))

		input.Send(1, 1, 2, 3)
		input.Send(2, 4, 5)
		input.Close()

		expected := []string{"Number: 1", "Number: 2", "Number: 3", "Number: 4", "Number: 5"}
		if !slices.Equal(out.Records(), expected) {
			t.Errorf("Expected %v, got %v", expected, out.Records())
		}
		if len(out.Events) != 2 || out.Events[0].Time != 1 || out.Events[1].Time != 2 {
			t.Errorf("Expected batches at times 1 and 2, got %+v", out.Events)
		}
	})
}

func RunMap_FanOut(t *testing.T, f MapFunc) {
	t.Run("map fan-out", func(t *testing.T) {
		g := dataflow.NewGraph(dataflow.Config{})
		input, in := dataflow.NewInput[int, int](g)
		mapped := f(in, format)
		sinks := []*dataflow.Collected[int, string]{
			dataflow.Collect(mapped),
			dataflow.Collect(mapped),
			dataflow.Collect(mapped),
		}
		raw := dataflow.Collect(in)

		input.Send(0, 7, 8)
		input.Close()

		for i, s := range sinks {
			if !slices.Equal(s.Records(), []string{"Number: 7", "Number: 8"}) {
				t.Errorf("Sink %d: unexpected records %v", i, s.Records())
			}
		}
		if !slices.Equal(raw.Records(), []int{7, 8}) {
			t.Errorf("Expected upstream sink to see [7 8], got %v", raw.Records())
		}
	})
}

func RunMap_Close(t *testing.T, f MapFunc) {
	t.Run("map close", func(t *testing.T) {
		g := dataflow.NewGraph(dataflow.Config{})
		input, in := dataflow.NewInput[int, int](g)
		mapped := f(in, format)
		a, b := dataflow.Collect(mapped), dataflow.Collect(mapped)

		input.Close()

		if a.Closes != 1 || b.Closes != 1 {
			t.Errorf("Expected exactly one close per sink, got %d and %d", a.Closes, b.Closes)
		}
		if len(a.Events) != 0 || len(b.Events) != 0 {
			t.Errorf("Expected no data, got %+v and %+v", a.Events, b.Events)
		}
	})
}

func RunMap_EmptyBatch(t *testing.T, f MapFunc) {
	t.Run("map empty batch", func(t *testing.T) {
		g := dataflow.NewGraph(dataflow.Config{})
		input, in := dataflow.NewInput[int, int](g)
		out := dataflow.Collect(f(in, format))

		input.SendBatch(5, batch.New[int](0))

		if len(out.Events) != 1 || out.Events[0].Time != 5 || len(out.Events[0].Records) != 0 {
			t.Errorf("Expected one empty batch at 5, got %+v", out.Events)
		}
	})
}
