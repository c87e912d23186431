package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"madnotify/pkg/logx"
)

func TestWatchPublishesValidatedUpdates(t *testing.T) {
	setRequiredEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	write := func(debug bool) {
		t.Helper()
		body := "system:\n  port: 8080\n  debug: "
		if debug {
			body += "true\n"
		} else {
			body += "false\n"
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
	}
	write(false)

	m := NewManager(path, logx.Nop())
	if _, err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- m.Watch(ctx) }()

	sub := m.Subscribe(1)
	defer m.Unsubscribe(sub)

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	write(true)

	select {
	case cfg := <-sub:
		if !cfg.System.Debug {
			t.Fatal("expected updated debug flag")
		}
		if got := m.Get(); !got.System.Debug {
			t.Fatal("Get() not updated after reload")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no config update published")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatchWithoutFileReturnsImmediately(t *testing.T) {
	m := NewManager("", logx.Nop())
	if err := m.Watch(context.Background()); err != nil {
		t.Fatalf("Watch: %v", err)
	}
}

func TestReloadKeepsPreviousConfigOnError(t *testing.T) {
	setRequiredEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("system:\n  port: 8080\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	m := NewManager(path, logx.Nop())
	if _, err := m.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	before := m.Get()

	// Break the file on disk; a direct parse now fails but the committed
	// config must survive.
	if err := os.WriteFile(path, []byte("system: ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := m.parse(); err == nil {
		t.Fatal("expected parse error for broken file")
	}
	if m.Get() != before {
		t.Fatal("committed config changed without a successful reload")
	}
}
