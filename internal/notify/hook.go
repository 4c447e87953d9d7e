package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultHookTimeout bounds one hook run.
const DefaultHookTimeout = 30 * time.Second

// HookPayload is the JSON structure passed to action hooks via stdin.
type HookPayload struct {
	ID        string `json:"id,omitempty"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Action    string `json:"action"`
	Backend   string `json:"backend"`
	Timestamp string `json:"timestamp"`
}

// NewHookPayload describes the action the user picked on n.
func NewHookPayload(n Notification, res Result, at time.Time) HookPayload {
	return HookPayload{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Action:    res.Action,
		Backend:   res.Backend,
		Timestamp: at.UTC().Format(time.RFC3339),
	}
}

// HookRunner executes a script with a JSON payload on stdin.
type HookRunner struct {
	ScriptPath string
	Timeout    time.Duration
}

// NewHookRunner creates a HookRunner for the given script path.
func NewHookRunner(scriptPath string) *HookRunner {
	return &HookRunner{ScriptPath: scriptPath, Timeout: DefaultHookTimeout}
}

// Execute runs the hook script. The script's combined output is returned
// in the error when it fails.
func (h *HookRunner) Execute(ctx context.Context, payload HookPayload) error {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = DefaultHookTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("hook marshal payload: %w", err)
	}

	cmd := exec.CommandContext(ctx, h.ScriptPath)
	cmd.Stdin = strings.NewReader(string(data))
	cmd.WaitDelay = time.Second

	output, err := cmd.CombinedOutput()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("hook timed out after %s: %s", timeout, h.ScriptPath)
	}
	if err != nil {
		return fmt.Errorf("hook execution failed: %w (output: %s)", err, string(output))
	}
	return nil
}
