package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, path, level string) {
	t.Helper()
	content := "log:\n  level: " + level + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatcherReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slotwire.yaml")
	writeConfig(t, path, "info")

	w, err := NewWatcher(path, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Stop()

	reloaded := make(chan *Config, 1)
	w.OnReload(func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = w.Watch(ctx)
	}()

	// Give the watcher time to install before mutating the file.
	time.Sleep(100 * time.Millisecond)
	writeConfig(t, path, "debug")

	select {
	case cfg := <-reloaded:
		if cfg.Log.Level != "debug" {
			t.Errorf("expected reloaded level debug, got %q", cfg.Log.Level)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for config reload")
	}
}

func TestWatcherInvalidReloadKeepsRunning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slotwire.yaml")
	writeConfig(t, path, "info")

	w, err := NewWatcher(path, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Stop()

	reloaded := make(chan *Config, 4)
	w.OnReload(func(cfg *Config) {
		reloaded <- cfg
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = w.Watch(ctx)
	}()

	time.Sleep(100 * time.Millisecond)

	// An invalid file must not invoke callbacks.
	if err := os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)
	select {
	case <-reloaded:
		t.Fatal("callback invoked for invalid config")
	default:
	}

	// A subsequent valid write still reloads.
	writeConfig(t, path, "warn")
	select {
	case cfg := <-reloaded:
		if cfg.Log.Level != "warn" {
			t.Errorf("expected warn after recovery, got %q", cfg.Log.Level)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not recover after invalid reload")
	}
}

func TestWatcherStopCancelsPendingReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slotwire.yaml")
	writeConfig(t, path, "info")

	w, err := NewWatcher(path, WithDebounce(200*time.Millisecond))
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	reloaded := make(chan *Config, 1)
	w.OnReload(func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})

	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		_ = w.Watch(context.Background())
	}()
	time.Sleep(100 * time.Millisecond)

	// Arm the debounce timer, then stop before it can fire.
	writeConfig(t, path, "debug")
	time.Sleep(50 * time.Millisecond)
	if err := w.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}

	select {
	case <-watchDone:
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not return after stop")
	}

	// No callback may run once Watch has returned.
	time.Sleep(400 * time.Millisecond)
	select {
	case <-reloaded:
		t.Fatal("reload callback fired after stop")
	default:
	}
}

func TestWatcherRequiresPath(t *testing.T) {
	if _, err := NewWatcher(""); err == nil {
		t.Error("expected error for empty config path")
	}
}

func TestWatcherDoubleStart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slotwire.yaml")
	writeConfig(t, path, "info")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = w.Watch(ctx)
	}()
	time.Sleep(100 * time.Millisecond)

	if err := w.Watch(ctx); err == nil {
		t.Error("expected error starting an already-running watcher")
	}
}
