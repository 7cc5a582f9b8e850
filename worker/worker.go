// Package worker runs one dataflow graph per goroutine.
//
// Graphs are single-threaded: each worker builds and drives its own graph
// and workers share nothing but the context. A failing or panicking worker
// cancels the context of the others.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fxsml/pushpipe/dataflow"
)

// Config configures Execute.
type Config struct {
	// Workers sets the number of workers.
	// Default is 1.
	Workers int

	// Name prefixes the names of worker graphs.
	// Default is "pushpipe".
	Name string

	// BatchCapacity is passed to every worker graph.
	BatchCapacity int

	// Logger receives worker lifecycle events.
	// Default is slog.Default().
	Logger *slog.Logger
}

func (c Config) parse() Config {
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Name == "" {
		c.Name = "pushpipe"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Worker is the execution context handed to each worker function.
type Worker struct {
	Index int
	Peers int
	ID    uuid.UUID

	cfg    Config
	logger *slog.Logger
}

// Logger returns the worker's logger.
func (w *Worker) Logger() *slog.Logger {
	return w.logger
}

// Dataflow builds a graph named after the worker and seals it.
func (w *Worker) Dataflow(build func(g *dataflow.Graph)) *dataflow.Graph {
	g := dataflow.NewGraph(dataflow.Config{
		Name:          fmt.Sprintf("%s-%d", w.cfg.Name, w.Index),
		BatchCapacity: w.cfg.BatchCapacity,
		Logger:        w.logger,
	})
	build(g)
	g.Seal()
	return g
}

// Execute runs fn once per worker and waits for all of them. It returns the
// first error, with panics converted to *RecoveryError.
func Execute(ctx context.Context, cfg Config, fn func(ctx context.Context, w *Worker) error) error {
	cfg = cfg.parse()
	g, gctx := errgroup.WithContext(ctx)
	for i := range cfg.Workers {
		w := &Worker{
			Index: i,
			Peers: cfg.Workers,
			ID:    uuid.New(),
			cfg:   cfg,
		}
		w.logger = cfg.Logger.With(slog.Int("worker", i), slog.String("id", w.ID.String()))
		g.Go(func() error {
			return run(gctx, w, fn)
		})
	}
	return g.Wait()
}

func run(ctx context.Context, w *Worker, fn func(context.Context, *Worker) error) (err error) {
	w.logger.Info("[PUSHPIPE] Worker started", slog.Int("peers", w.Peers))
	defer func() {
		if err != nil {
			w.logger.Error("[PUSHPIPE] Worker failed", slog.Any("error", err))
			return
		}
		w.logger.Info("[PUSHPIPE] Worker finished")
	}()
	defer recoverInto(w.Index, &err)
	return fn(ctx, w)
}
