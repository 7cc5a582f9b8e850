package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/fxsml/pushpipe/capture"
	"github.com/fxsml/pushpipe/config"
	"github.com/fxsml/pushpipe/dataflow"
	"github.com/fxsml/pushpipe/metrics"
	"github.com/fxsml/pushpipe/worker"
)

func init() {
	runCmd.Flags().IntP("workers", "w", 0, "number of workers (overrides settings)")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the demo dataflow",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings(cmd)
		if err != nil {
			return err
		}
		if n, _ := cmd.Flags().GetInt("workers"); n > 0 {
			s.Workers = n
		}
		return run(cmd.Context(), s)
	},
}

// reading is the record type of the demo dataflow.
type reading struct {
	Sensor string `json:"sensor"`
	Value  int    `json:"value"`
}

func run(ctx context.Context, s config.Settings) error {
	if ctx == nil {
		ctx = context.Background()
	}
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(s.Metrics.Namespace, reg)

	if s.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              s.Metrics.Addr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("[PUSHPIPE] Metrics server failed", slog.Any("error", err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		slog.Info("[PUSHPIPE] Serving metrics", slog.String("addr", s.Metrics.Addr))
	}

	var total atomic.Int64
	start := time.Now()
	err := worker.Execute(ctx, worker.Config{
		Workers:       s.Workers,
		Name:          "pushpipe",
		BatchCapacity: s.BatchCapacity,
	}, func(ctx context.Context, w *worker.Worker) error {
		n, err := runWorker(ctx, w, s, collector)
		total.Add(n)
		return err
	})
	if err != nil {
		return err
	}

	slog.Info("[PUSHPIPE] Dataflow finished",
		slog.Int("workers", s.Workers),
		slog.Int64("records", total.Load()),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

// runWorker sends Epochs batches of Records readings through
//
//	input -> MapInPlace(scale) -> Partition(sensor, 2) -> Map(label) -> Collect
//
// and returns the number of records collected.
func runWorker(ctx context.Context, w *worker.Worker, s config.Settings, collector *metrics.Collector) (int64, error) {
	var log *capture.Log
	if s.Capture.Dir != "" {
		var err error
		log, err = capture.Open(filepath.Join(s.Capture.Dir, "worker-"+strconv.Itoa(w.Index)))
		if err != nil {
			return 0, err
		}
		defer log.Close()
	}

	var input *dataflow.InputHandle[int, reading]
	var sinks []*dataflow.Collected[int, string]
	w.Dataflow(func(g *dataflow.Graph) {
		var in dataflow.Stream[int, reading]
		input, in = dataflow.NewInput[int, reading](g)
		scaled := metrics.Observe(collector, dataflow.MapInPlace(in, func(r *reading) {
			r.Value *= w.Peers
		}))
		if log != nil {
			capture.Capture(log, scaled)
		}
		for _, part := range dataflow.Partition(scaled, 2, func(r *reading) string { return r.Sensor }) {
			labelled := dataflow.Map(part, func(r reading) string {
				return fmt.Sprintf("%s=%d", r.Sensor, r.Value)
			})
			sinks = append(sinks, dataflow.Collect(metrics.Observe(collector, labelled)))
		}
	})

	var collected int64
	for epoch := range s.Epochs {
		if err := ctx.Err(); err != nil {
			return collected, err
		}
		for i := range s.Records {
			sensor := "sensor-" + strconv.Itoa((i+w.Index)%4)
			input.Send(epoch, reading{Sensor: sensor, Value: i})
		}
		input.Flush()
		for _, sink := range sinks {
			collected += int64(len(sink.Records()))
			sink.Events = sink.Events[:0]
		}
		w.Logger().Debug("[PUSHPIPE] Epoch done", slog.Int("epoch", epoch), slog.Any("produced", input.Produced()))
	}
	input.Close()

	if log != nil && log.Err() != nil {
		return collected, fmt.Errorf("capture: %w", log.Err())
	}
	return collected, nil
}
