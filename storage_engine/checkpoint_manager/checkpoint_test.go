package checkpoint

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
)

type fakeFlusher struct {
	calls atomic.Int32
	fail  atomic.Bool
}

func (f *fakeFlusher) Flush() error {
	f.calls.Add(1)
	if f.fail.Load() {
		return errors.New("disk full")
	}
	return nil
}

func TestSaveCheckpoint(t *testing.T) {
	f := &fakeFlusher{}
	cm, err := NewCheckpointManager(f, time.Second, nil)
	if err != nil {
		t.Fatalf("NewCheckpointManager failed: %v", err)
	}

	cp, err := cm.SaveCheckpoint()
	if err != nil {
		t.Fatalf("SaveCheckpoint failed: %v", err)
	}
	if cp.Seq != 1 || cp.Timestamp.IsZero() {
		t.Errorf("checkpoint = %+v", cp)
	}

	f.fail.Store(true)
	if _, err := cm.SaveCheckpoint(); err == nil {
		t.Errorf("SaveCheckpoint with failing flusher succeeded")
	}
	if got := cm.LastCheckpoint().Seq; got != 1 {
		t.Errorf("failed checkpoint advanced seq to %d", got)
	}
	if cm.Failures() != 1 {
		t.Errorf("Failures = %d, want 1", cm.Failures())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	f := &fakeFlusher{}
	cm, err := NewCheckpointManager(f, 5*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewCheckpointManager failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cm.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for f.calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
	if f.calls.Load() < 3 {
		t.Errorf("flushed %d times, want at least 3", f.calls.Load())
	}
}

func TestBadInterval(t *testing.T) {
	if _, err := NewCheckpointManager(&fakeFlusher{}, 0, nil); err == nil {
		t.Errorf("zero interval accepted")
	}
}
