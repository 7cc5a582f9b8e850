package dataflow

import (
	"log/slog"

	"github.com/fxsml/pushpipe/batch"
)

// Config configures a Graph.
type Config struct {
	// Name identifies the graph in logs and output identities.
	// Default is "dataflow".
	Name string

	// BatchCapacity sets the capacity of batches built by inputs.
	// Default is 0 (batch.DefaultCapacity of the record type).
	BatchCapacity int

	// Logger receives construction events.
	// Default is slog.Default().
	Logger *slog.Logger
}

func (c Config) parse() Config {
	if c.Name == "" {
		c.Name = "dataflow"
	}
	if c.BatchCapacity < 0 {
		c.BatchCapacity = 0
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

func capacityFor[D any](c Config) int {
	if c.BatchCapacity > 0 {
		return c.BatchCapacity
	}
	return batch.DefaultCapacity[D]()
}
