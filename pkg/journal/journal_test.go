package journal

import (
	"context"
	"testing"
	"time"

	"github.com/slotwire/slotwire/pkg/signals"
)

var _ signals.Observer = (*Journal)(nil)

type toggle struct {
	signals.Base
}

func TestJournalRecordsAndReplays(t *testing.T) {
	dir := t.TempDir()

	j, err := Open(Config{Path: dir})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	reg := signals.NewRegistry(signals.WithObserver(j))
	sw := &toggle{signals.NewBase(reg)}
	lamp := &toggle{signals.NewBase(reg)}

	flipped := signals.NewSignal[*toggle, bool]("flipped")
	light := signals.NewSlot[*toggle, bool]("light", func(*toggle, bool) {})

	signals.Connect(reg, sw, lamp, flipped, light)
	signals.Emit(reg, sw, flipped, true)
	signals.Disconnect(reg, sw, lamp, flipped, light)

	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopen and replay what was persisted.
	j2, err := Open(Config{Path: dir})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer j2.Close()

	var kinds []signals.ActivityKind
	err = j2.Replay(context.Background(), func(act signals.Activity) error {
		kinds = append(kinds, act.Kind)
		return nil
	})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}

	want := []signals.ActivityKind{
		signals.ActivityConnect,
		signals.ActivityEmit,
		signals.ActivityDisconnect,
	}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d entries, got %v", len(want), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("replay order wrong: %v", kinds)
		}
	}
}

func TestJournalLen(t *testing.T) {
	j, err := Open(Config{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer j.Close()

	for i := 0; i < 5; i++ {
		j.ObserveActivity(signals.Activity{Kind: signals.ActivityEmit, At: time.Now()})
	}

	// The writer is asynchronous; poll until flushed.
	deadline := time.Now().Add(5 * time.Second)
	for {
		n, err := j.Len()
		if err != nil {
			t.Fatalf("len: %v", err)
		}
		if n == 5 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected 5 entries, got %d", n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestJournalRequiresPath(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestObserveAfterCloseIsNoop(t *testing.T) {
	j, err := Open(Config{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Must not panic or block.
	j.ObserveActivity(signals.Activity{Kind: signals.ActivityEmit})

	// Idempotent close.
	if err := j.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}

func TestReplayStopsOnCallbackError(t *testing.T) {
	j, err := Open(Config{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer j.Close()

	for i := 0; i < 3; i++ {
		j.ObserveActivity(signals.Activity{Kind: signals.ActivityEmit})
	}
	deadline := time.Now().Add(5 * time.Second)
	for {
		if n, _ := j.Len(); n == 3 || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	calls := 0
	err = j.Replay(context.Background(), func(signals.Activity) error {
		calls++
		return context.Canceled
	})
	if err == nil {
		t.Error("expected callback error to surface")
	}
	if calls != 1 {
		t.Errorf("expected replay to stop after first callback, got %d", calls)
	}
}
