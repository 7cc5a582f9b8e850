package dataflow

import (
	"log/slog"

	"github.com/google/uuid"
)

// Graph is a single-threaded dataflow scope.
type Graph struct {
	id      uuid.UUID
	cfg     Config
	outputs []Output
	regs    []Registrar
	sealed  bool
}

// NewGraph returns an empty graph.
func NewGraph(cfg Config) *Graph {
	return &Graph{
		id:  uuid.New(),
		cfg: cfg.parse(),
	}
}

func (g *Graph) ID() uuid.UUID        { return g.id }
func (g *Graph) Name() string         { return g.cfg.Name }
func (g *Graph) Logger() *slog.Logger { return g.cfg.Logger }
func (g *Graph) Config() Config       { return g.cfg }

// Outputs returns the outputs allocated so far, in allocation order.
func (g *Graph) Outputs() []Output {
	return append([]Output(nil), g.outputs...)
}

// NewOutput allocates the identity of a new channel and keeps reg so Seal
// can reach it. It panics with ErrSealed once the graph is sealed.
func (g *Graph) NewOutput(name string, reg Registrar) Output {
	if g.sealed {
		panic(ErrSealed)
	}
	o := Output{Graph: g.id, Index: len(g.outputs), Name: name}
	g.outputs = append(g.outputs, o)
	if reg != nil {
		g.regs = append(g.regs, reg)
	}
	g.cfg.Logger.Debug("[PUSHPIPE] Output allocated",
		slog.String("graph", g.cfg.Name),
		slog.Int("index", o.Index),
		slog.String("name", name))
	return o
}

// Seal ends construction: every registered channel stops accepting sinks.
// Calls after the first are no-ops.
func (g *Graph) Seal() {
	if g.sealed {
		return
	}
	g.sealed = true
	for _, reg := range g.regs {
		reg.Seal()
	}
	g.cfg.Logger.Debug("[PUSHPIPE] Graph sealed",
		slog.String("graph", g.cfg.Name),
		slog.Int("outputs", len(g.outputs)))
}

// Sealed reports whether Seal has been called.
func (g *Graph) Sealed() bool {
	return g.sealed
}
