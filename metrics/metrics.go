// Package metrics exports per-stream traffic counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fxsml/pushpipe/dataflow"
	"github.com/fxsml/pushpipe/push"
)

// Collector holds the counters shared by every observed stream.
type Collector struct {
	records *prometheus.CounterVec
	batches *prometheus.CounterVec
	closed  *prometheus.CounterVec
}

// NewCollector creates the counters under namespace and registers them
// with reg. A nil reg leaves them unregistered.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	c := &Collector{
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Records pushed through a stream.",
		}, []string{"stream"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Batches pushed through a stream, including empty ones.",
		}, []string{"stream"}),
		closed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "closed_total",
			Help:      "End of stream signals seen on a stream.",
		}, []string{"stream"}),
	}
	if reg != nil {
		reg.MustRegister(c.records, c.batches, c.closed)
	}
	return c
}

// Observe counts every message of s under the label of its output and
// returns s.
func Observe[T, D any](c *Collector, s dataflow.Stream[T, D]) dataflow.Stream[T, D] {
	label := s.Output().String()
	records := c.records.WithLabelValues(label)
	batches := c.batches.WithLabelValues(label)
	closed := c.closed.WithLabelValues(label)

	s.AddRefPusher(push.RefPusherFunc[T, D](func(msg *push.Message[T, D]) {
		if msg == nil {
			closed.Inc()
			return
		}
		batches.Inc()
		records.Add(float64(msg.Data.Len()))
	}))
	return s
}
