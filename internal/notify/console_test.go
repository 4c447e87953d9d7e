package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"desknotify/internal/config"
)

func newTestConsole(buf *bytes.Buffer, timestamp bool) *Console {
	c := NewConsole(config.ConsoleSettings{UseColors: false, Timestamp: timestamp}, buf)
	c.now = func() time.Time { return time.Date(2026, 3, 1, 10, 30, 5, 0, time.Local) }
	return c
}

func TestConsole_Send(t *testing.T) {
	var buf bytes.Buffer
	c := newTestConsole(&buf, true)

	res, err := c.Send(context.Background(), Notification{
		Icon: "mic", Title: "Recording", Message: "Audio recording in progress",
		ID: "rec", Urgency: UrgencyCritical,
	})
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if !res.Success || res.Outcome != OutcomeSent || res.Backend != "console" {
		t.Fatalf("unexpected result: %+v", res)
	}

	want := "[10:30:05] [ALERT] 🎤 Recording (ID: rec)\n" +
		"    Audio recording in progress\n" +
		"    " + strings.Repeat("─", 27) + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestConsole_Actions(t *testing.T) {
	var buf bytes.Buffer
	c := newTestConsole(&buf, false)

	res, err := c.Send(context.Background(), Notification{
		Title: "Save?", Message: "Unsaved changes", Urgency: UrgencyLow,
		Actions: []Action{{"save", "Save"}, {"discard", "Discard"}},
	})
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if res.Outcome != OutcomeDismissed || res.Action != "" {
		t.Fatalf("console with actions should report no selection, got %+v", res)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	want := []string{
		"[INFO] 📢 Save?",
		"    Unsaved changes",
		"    Available actions:",
		"      - Save (save)",
		"      - Discard (discard)",
		"    Note: Console backend does not support interactive actions",
		"    " + strings.Repeat("─", 15),
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestConsole_SeparatorCappedAt50(t *testing.T) {
	var buf bytes.Buffer
	c := newTestConsole(&buf, false)
	lines := c.Format(Notification{Title: "t", Message: strings.Repeat("x", 80)})
	if got := lines[len(lines)-1]; got != "    "+strings.Repeat("─", 50) {
		t.Fatalf("separator = %q", got)
	}
}

func TestConsoleGlyph(t *testing.T) {
	tests := map[string]string{
		"info":         "ℹ️",
		"delete":       "🗑️",
		"notification": "🔔",
		"🚀":            "🚀",
		"unknown-icon": "📢",
		"":             "📢",
	}
	for in, want := range tests {
		if got := ConsoleGlyph(in); got != want {
			t.Errorf("ConsoleGlyph(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConsole_Indicators(t *testing.T) {
	for u, want := range map[Urgency]string{
		UrgencyLow:      "[INFO]",
		UrgencyNormal:   "[NOTIFY]",
		UrgencyCritical: "[ALERT]",
		"whatever":      "[NOTIFY]",
	} {
		var buf bytes.Buffer
		c := newTestConsole(&buf, false)
		if got := c.Format(Notification{Title: "t", Urgency: u})[0]; !strings.HasPrefix(got, want+" ") {
			t.Errorf("urgency %q header = %q, want prefix %q", u, got, want)
		}
	}
}
