// Package dataflow assembles push channels into a dataflow graph.
//
// A [Graph] is the scope every [Stream] belongs to. Streams are built by
// combinators ([Map], [MapRef], [MapInPlace], [FlatMap], [MapBatch],
// [MapBatchRef]) that attach a transforming pusher to an upstream tee and
// return the stream of a freshly allocated downstream tee. Inputs feed
// records into a graph; [Collect], [Inspect] and [Partition] consume them.
//
// Construction is single-threaded. Once the graph is sealed, which happens
// on the first send into any input, no further sinks can be attached.
package dataflow

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Output identifies one producible channel of a graph.
type Output struct {
	Graph uuid.UUID
	Index int
	Name  string
}

func (o Output) String() string {
	return fmt.Sprintf("%s/%d:%s", o.Graph, o.Index, o.Name)
}

// Registrar is the registration side of a channel. Sealing it forbids
// further attachments.
type Registrar interface {
	Seal()
}

// Scope mints outputs for the streams built inside it.
type Scope interface {
	Name() string
	Logger() *slog.Logger
	NewOutput(name string, reg Registrar) Output
}
