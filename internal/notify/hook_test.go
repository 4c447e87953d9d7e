package notify

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func writeScript(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatalf("failed to create script: %v", err)
	}
	return path
}

func TestHookRunner_Execute(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on Windows")
	}

	outputFile := filepath.Join(t.TempDir(), "output.json")
	runner := NewHookRunner(writeScript(t, "hook.sh", "cat > "+outputFile+"\n"))

	n := Notification{ID: "build-42", Title: "Build finished", Message: "Open the report?"}
	res := Result{Success: true, Outcome: OutcomeAction, Action: "open", Backend: "dunst"}
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := runner.Execute(context.Background(), NewHookPayload(n, res, at)); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	data, err := os.ReadFile(outputFile)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}

	var received HookPayload
	if err := json.Unmarshal(data, &received); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}

	if received.ID != "build-42" {
		t.Errorf("ID = %q, want %q", received.ID, "build-42")
	}
	if received.Title != "Build finished" {
		t.Errorf("Title = %q, want %q", received.Title, "Build finished")
	}
	if received.Action != "open" {
		t.Errorf("Action = %q, want %q", received.Action, "open")
	}
	if received.Backend != "dunst" {
		t.Errorf("Backend = %q, want %q", received.Backend, "dunst")
	}
	if received.Timestamp != "2026-01-01T00:00:00Z" {
		t.Errorf("Timestamp = %q, want %q", received.Timestamp, "2026-01-01T00:00:00Z")
	}
}

func TestHookRunner_Timeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on Windows")
	}

	runner := NewHookRunner(writeScript(t, "slow.sh", "sleep 60\n"))
	runner.Timeout = 200 * time.Millisecond

	err := runner.Execute(context.Background(), HookPayload{Action: "open"})
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout-related error, got: %v", err)
	}
}

func TestHookRunner_NonExistent(t *testing.T) {
	runner := NewHookRunner("/nonexistent/path/hook.sh")
	if err := runner.Execute(context.Background(), HookPayload{Action: "open"}); err == nil {
		t.Fatal("expected error for non-existent script, got nil")
	}
}

func TestHookRunner_ExitError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on Windows")
	}

	runner := NewHookRunner(writeScript(t, "fail.sh", "echo nope\nexit 1\n"))
	err := runner.Execute(context.Background(), HookPayload{Action: "open"})
	if err == nil {
		t.Fatal("expected error for exit code 1, got nil")
	}
	if !strings.Contains(err.Error(), "nope") {
		t.Errorf("error should carry script output, got: %v", err)
	}
}
