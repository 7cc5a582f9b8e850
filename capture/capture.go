package capture

import (
	"encoding/json"
	"fmt"

	"github.com/fxsml/pushpipe/batch"
	"github.com/fxsml/pushpipe/dataflow"
	"github.com/fxsml/pushpipe/push"
)

// Capture appends every message of s to l without taking ownership and
// returns s. Write errors are kept and reported by l.Err.
func Capture[T, D any](l *Log, s dataflow.Stream[T, D]) dataflow.Stream[T, D] {
	s.AddRefPusher(push.RefPusherFunc[T, D](func(msg *push.Message[T, D]) {
		if l.err != nil {
			return
		}
		env, err := encode(msg)
		if err == nil {
			err = l.Append(env)
		}
		if err != nil {
			l.fail(err)
		}
	}))
	return s
}

// Replay pushes the captured messages of l into p in order. Records must
// decode into D and times into T.
func Replay[T, D any](l *Log, p push.Pusher[T, D]) error {
	return l.scan(func(env Envelope) error {
		switch env.Kind {
		case KindClosed:
			p.Push(nil)
		case KindData:
			msg, err := decode[T, D](env)
			if err != nil {
				return fmt.Errorf("capture: replay %d: %w", env.Seq, err)
			}
			p.Push(msg)
		default:
			return fmt.Errorf("capture: replay %d: unknown kind %q", env.Seq, env.Kind)
		}
		return nil
	})
}

// Replayer drives a replayed stream.
type Replayer[T, D any] struct {
	graph *dataflow.Graph
	log   *Log
	tee   *push.Tee[T, D]
}

// NewReplay adds a stream to g that carries the messages captured in l.
// Nothing flows until Run is called.
func NewReplay[T, D any](g *dataflow.Graph, l *Log) (dataflow.Stream[T, D], *Replayer[T, D]) {
	tee, handle := push.NewTee[T, D]()
	s := dataflow.NewStream(g, "Replay", handle)
	return s, &Replayer[T, D]{graph: g, log: l, tee: tee}
}

// Run seals the graph and replays the log into the stream.
func (r *Replayer[T, D]) Run() error {
	r.graph.Seal()
	return Replay[T, D](r.log, r.tee)
}

func encode[T, D any](msg *push.Message[T, D]) (Envelope, error) {
	if msg == nil {
		return Envelope{Kind: KindClosed}, nil
	}
	time, err := json.Marshal(msg.Time)
	if err != nil {
		return Envelope{}, fmt.Errorf("capture: encode time: %w", err)
	}
	records, err := json.Marshal(msg.Data.Data())
	if err != nil {
		return Envelope{}, fmt.Errorf("capture: encode records: %w", err)
	}
	return Envelope{Kind: KindData, Time: time, Records: records}, nil
}

func decode[T, D any](env Envelope) (*push.Message[T, D], error) {
	var time T
	if err := json.Unmarshal(env.Time, &time); err != nil {
		return nil, fmt.Errorf("decode time: %w", err)
	}
	var records []D
	if len(env.Records) > 0 {
		if err := json.Unmarshal(env.Records, &records); err != nil {
			return nil, fmt.Errorf("decode records: %w", err)
		}
	}
	return push.NewMessage(time, batch.From(records)), nil
}
