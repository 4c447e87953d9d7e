package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"desknotify/internal/config"
	"desknotify/internal/logging"
)

func TestWatchConfig_AppliesReloadedSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("timeout = 1000\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(config.WithPaths(path), config.WithEnvPrefix(""))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	debug = true // keep the process log level untouched
	t.Cleanup(func() { debug = false })

	ctx, cancel := context.WithCancel(context.Background())
	applied := make(chan config.Settings, 4)
	done := make(chan struct{})
	go func() {
		watchConfig(ctx, cfg, logging.Nop(), func(s config.Settings) { applied <- s })
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("timeout = 4200\nurgency = \"low\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case s := <-applied:
		if s.Timeout != 4200 || s.Urgency != "low" {
			t.Errorf("applied timeout=%d urgency=%q, want 4200 low", s.Timeout, s.Urgency)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload within 5s")
	}

	cancel()
	<-done
}
