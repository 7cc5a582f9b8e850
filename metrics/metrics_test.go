package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/fxsml/pushpipe/batch"
	"github.com/fxsml/pushpipe/dataflow"
)

func TestObserve_CountsTraffic(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("test", reg)

	g := dataflow.NewGraph(dataflow.Config{})
	input, in := dataflow.NewInput[int, int](g)
	observed := Observe(c, in)
	dataflow.Collect(observed)

	input.Send(0, 1, 2, 3)
	input.SendBatch(1, batch.New[int](0))
	input.Send(2, 4)
	input.Close()

	label := in.Output().String()
	if got := testutil.ToFloat64(c.records.WithLabelValues(label)); got != 4 {
		t.Errorf("expected 4 records, got %v", got)
	}
	if got := testutil.ToFloat64(c.batches.WithLabelValues(label)); got != 3 {
		t.Errorf("expected 3 batches, got %v", got)
	}
	if got := testutil.ToFloat64(c.closed.WithLabelValues(label)); got != 1 {
		t.Errorf("expected 1 close, got %v", got)
	}
	if n := testutil.CollectAndCount(c.records, "test_records_total"); n != 1 {
		t.Errorf("expected 1 labelled series, got %d", n)
	}
}

func TestObserve_SeparatesStreams(t *testing.T) {
	c := NewCollector("test", nil)

	g := dataflow.NewGraph(dataflow.Config{})
	input, in := dataflow.NewInput[int, int](g)
	doubled := dataflow.Map(Observe(c, in), func(x int) int { return x * 2 })
	dataflow.Collect(Observe(c, dataflow.FlatMap(doubled, func(x int) []int { return []int{x, x} })))

	input.Send(0, 1, 2)
	input.Close()

	if n := testutil.CollectAndCount(c.records); n != 2 {
		t.Errorf("expected 2 labelled series, got %d", n)
	}
	if got := testutil.ToFloat64(c.records.WithLabelValues(in.Output().String())); got != 2 {
		t.Errorf("expected 2 input records, got %v", got)
	}
}
