package commands

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"desknotify/internal/config"
	"desknotify/internal/icons"
	"desknotify/internal/notify"
	"desknotify/internal/output"
)

// scriptedBackend answers every Send with res.
type scriptedBackend struct {
	res  notify.Result
	err  error
	sent []notify.Notification
}

func (b *scriptedBackend) Name() string    { return "scripted" }
func (b *scriptedBackend) Priority() int   { return 10 }
func (b *scriptedBackend) Available() bool { return true }
func (b *scriptedBackend) Info() notify.BackendInfo {
	return notify.BackendInfo{Name: "scripted", Available: true}
}

func (b *scriptedBackend) Send(_ context.Context, n notify.Notification) (notify.Result, error) {
	b.sent = append(b.sent, n)
	return b.res, b.err
}

func testManager(t *testing.T, b *scriptedBackend) *notify.Manager {
	t.Helper()
	r := notify.NewRegistry()
	r.Register("scripted", func() (notify.Backend, error) { return b, nil })
	s := config.DefaultSettings()
	s.Timeout = 3000
	s.Urgency = "normal"
	return notify.NewManager(s, notify.WithRegistry(r), notify.WithIcons(icons.NewManager("minimal", 0)))
}

func TestBuildNotification(t *testing.T) {
	n, err := buildNotification(SendOptions{
		Title: "Deploy?", Message: "prod", Icon: "rocket", Urgency: "CRITICAL",
		Actions: "yes:Deploy, no:Cancel", ID: "deploy", Timeout: notify.Timeout(0),
	})
	if err != nil {
		t.Fatalf("buildNotification() error: %v", err)
	}
	want := notify.Notification{
		Title: "Deploy?", Message: "prod", Icon: "rocket", Urgency: notify.UrgencyCritical, ID: "deploy",
		Timeout: notify.Timeout(0),
		Actions: []notify.Action{{Key: "yes", Label: "Deploy"}, {Key: "no", Label: "Cancel"}},
	}
	if diff := cmp.Diff(want, n); diff != "" {
		t.Errorf("notification mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildNotification_Errors(t *testing.T) {
	tests := []struct {
		name string
		o    SendOptions
		want string
	}{
		{"no title", SendOptions{Message: "x"}, "title is required"},
		{"bad urgency", SendOptions{Title: "x", Urgency: "urgent"}, "invalid urgency"},
		{"negative timeout", SendOptions{Title: "x", Timeout: notify.Timeout(-1)}, "must not be negative"},
		{"unparseable actions", SendOptions{Title: "x", Actions: "nocolon,:empty"}, "no valid actions parsed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildNotification(tt.o)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestActionLine(t *testing.T) {
	tests := []struct {
		res  notify.Result
		want string
	}{
		{notify.Result{Outcome: notify.OutcomeAction, Action: "yes"}, "User selected: yes"},
		{notify.Result{Outcome: notify.OutcomeTimeout}, "No action selected (timeout or dismissed)"},
		{notify.Result{Outcome: notify.OutcomeDismissed}, "No action selected (timeout or dismissed)"},
		{notify.Result{Outcome: notify.OutcomeSent}, "No action selected (timeout or dismissed)"},
	}
	for _, tt := range tests {
		if got := actionLine(tt.res); got != tt.want {
			t.Errorf("actionLine(%s) = %q, want %q", tt.res.Outcome, got, tt.want)
		}
	}
}

func TestSendNotification(t *testing.T) {
	prev := output.JSONMode
	output.JSONMode = false
	t.Cleanup(func() { output.JSONMode = prev })

	tests := []struct {
		name     string
		o        SendOptions
		res      notify.Result
		err      error
		wantCode int
		wantOut  string
	}{
		{
			name:    "plain",
			o:       SendOptions{Title: "hi", Icon: "info"},
			res:     notify.Result{Success: true, Outcome: notify.OutcomeSent},
			wantOut: "",
		},
		{
			name:    "action selected",
			o:       SendOptions{Title: "q", Actions: "yes:Yes,no:No"},
			res:     notify.Result{Success: true, Outcome: notify.OutcomeAction, Action: "no"},
			wantOut: "User selected: no\n",
		},
		{
			name:    "no selection",
			o:       SendOptions{Title: "q", Actions: "yes:Yes"},
			res:     notify.Result{Success: true, Outcome: notify.OutcomeTimeout},
			wantOut: "No action selected (timeout or dismissed)\n",
		},
		{
			name:     "backend error",
			o:        SendOptions{Title: "x"},
			res:      notify.Result{Outcome: notify.OutcomeFailed, Error: "scripted: boom"},
			err:      errors.New("boom"),
			wantCode: 1,
		},
		{
			name:     "invalid actions",
			o:        SendOptions{Title: "x", Actions: "broken"},
			wantCode: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &scriptedBackend{res: tt.res, err: tt.err}
			var buf bytes.Buffer
			code := sendNotification(context.Background(), testManager(t, b), tt.o, &buf)
			if code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d", code, tt.wantCode)
			}
			if buf.String() != tt.wantOut {
				t.Errorf("output = %q, want %q", buf.String(), tt.wantOut)
			}
		})
	}
}

func TestSendNotification_AppliesDefaults(t *testing.T) {
	b := &scriptedBackend{res: notify.Result{Success: true, Outcome: notify.OutcomeSent}}
	var buf bytes.Buffer
	if code := sendNotification(context.Background(), testManager(t, b), SendOptions{Title: "x", Icon: "info"}, &buf); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if len(b.sent) != 1 {
		t.Fatalf("backend got %d notifications", len(b.sent))
	}
	n := b.sent[0]
	if n.Urgency != notify.UrgencyNormal || n.Timeout == nil || *n.Timeout != 3000 {
		t.Fatalf("defaults not applied: urgency %q timeout %v", n.Urgency, n.Timeout)
	}
	if n.Icon != "ℹ️" {
		t.Fatalf("icon = %q, want resolved glyph", n.Icon)
	}
}
