// Package capture records the traffic of a stream into a pebble-backed log
// and replays it into a dataflow graph.
package capture

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
)

// ErrClosed is returned by a Log after Close.
var ErrClosed = errors.New("capture: log closed")

// Envelope kinds.
const (
	KindData   = "data"
	KindClosed = "closed"
)

// Envelope is one captured message. Time and Records hold the JSON
// encoding of the message time and records.
type Envelope struct {
	Seq     uint64          `json:"-"`
	Kind    string          `json:"kind"`
	Time    json.RawMessage `json:"time,omitempty"`
	Records json.RawMessage `json:"records,omitempty"`
}

// Log is an append-only sequence of envelopes keyed by an 8-byte big-endian
// sequence number. It is not safe for concurrent use.
type Log struct {
	db     *pebble.DB
	next   uint64
	err    error
	closed bool
}

// Open opens or creates a log in dir. Appends continue after the last
// stored envelope.
func Open(dir string) (*Log, error) {
	return open(dir, &pebble.Options{})
}

// OpenInMemory returns a log that lives only as long as the process.
func OpenInMemory() (*Log, error) {
	return open("", &pebble.Options{FS: vfs.NewMem()})
}

// OpenReadOnly opens an existing log in dir for reading.
func OpenReadOnly(dir string) (*Log, error) {
	return open(dir, &pebble.Options{ReadOnly: true})
}

func open(dir string, opts *pebble.Options) (*Log, error) {
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("capture: open %q: %w", dir, err)
	}
	l := &Log{db: db}

	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("capture: open iterator: %w", err)
	}
	if iter.Last() {
		l.next = binary.BigEndian.Uint64(iter.Key()) + 1
	}
	if err := iter.Close(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("capture: close iterator: %w", err)
	}
	return l, nil
}

// Append stores env under the next sequence number.
func (l *Log) Append(env Envelope) error {
	if l.closed {
		return ErrClosed
	}
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("capture: encode envelope: %w", err)
	}
	opts := pebble.NoSync
	if env.Kind == KindClosed {
		opts = pebble.Sync
	}
	if err := l.db.Set(seqKey(l.next), value, opts); err != nil {
		return fmt.Errorf("capture: append %d: %w", l.next, err)
	}
	l.next++
	return nil
}

// Len returns the number of envelopes stored.
func (l *Log) Len() uint64 {
	return l.next
}

// Events returns every stored envelope in sequence order.
func (l *Log) Events() ([]Envelope, error) {
	var out []Envelope
	err := l.scan(func(env Envelope) error {
		out = append(out, env)
		return nil
	})
	return out, err
}

// Err returns the first error hit while capturing a stream.
func (l *Log) Err() error {
	return l.err
}

// Close closes the underlying store. Calls after the first return nil.
func (l *Log) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	return l.db.Close()
}

func (l *Log) scan(fn func(Envelope) error) error {
	if l.closed {
		return ErrClosed
	}
	iter, err := l.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return fmt.Errorf("capture: open iterator: %w", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		var env Envelope
		if err := json.Unmarshal(iter.Value(), &env); err != nil {
			return fmt.Errorf("capture: decode envelope: %w", err)
		}
		env.Seq = binary.BigEndian.Uint64(iter.Key())
		if err := fn(env); err != nil {
			return err
		}
	}
	return iter.Error()
}

func (l *Log) fail(err error) {
	if l.err == nil {
		l.err = err
	}
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
