package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fxsml/pushpipe/capture"
	"github.com/fxsml/pushpipe/config"
)

func TestRun_CapturesEveryWorker(t *testing.T) {
	dir := t.TempDir()
	s := config.Default()
	s.Workers = 2
	s.Epochs = 3
	s.Records = 10
	s.Capture.Dir = dir

	if err := run(context.Background(), s); err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, name := range []string{"worker-0", "worker-1"} {
		log, err := capture.OpenReadOnly(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		events, err := log.Events()
		_ = log.Close()
		if err != nil {
			t.Fatalf("events %s: %v", name, err)
		}
		if len(events) != 4 || events[3].Kind != capture.KindClosed {
			t.Errorf("%s: expected 3 batches and a close, got %d envelopes", name, len(events))
		}
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := config.Default()
	if err := run(ctx, s); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestInspect_PrintsSummary(t *testing.T) {
	dir := t.TempDir()
	log, err := capture.Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	envs := []capture.Envelope{
		{Kind: capture.KindData, Time: []byte("1"), Records: []byte(`[1,2,3]`)},
		{Kind: capture.KindData, Time: []byte("2"), Records: []byte(`[]`)},
		{Kind: capture.KindClosed},
	}
	for _, env := range envs {
		if err := log.Append(env); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := log.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	var out bytes.Buffer
	inspectCmd.SetOut(&out)
	if err := inspect(inspectCmd, dir, 0); err != nil {
		t.Fatalf("inspect: %v", err)
	}

	got := out.String()
	for _, want := range []string{"time=1 records=3", "closed", "3 envelopes, 3 records, 1 closed"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, got)
		}
	}
}
