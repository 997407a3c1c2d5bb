package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewRejectsInvalidSpec(t *testing.T) {
	if _, err := New("not a schedule", func() {}); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}

func TestRunFiresAndStopsOnCancel(t *testing.T) {
	var runs atomic.Int32
	s, err := New("@every 1s", func() { runs.Add(1) })
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.After(5 * time.Second)
	for runs.Load() == 0 {
		select {
		case <-deadline:
			cancel()
			t.Fatal("job never ran")
		case <-time.After(50 * time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
