package notify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"desknotify/internal/config"
)

// fakeDunstify writes an executable that records its argv one per line,
// prints stdout and exits with code.
func fakeDunstify(t *testing.T, stdout string, code int) (*Dunst, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on Windows")
	}
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args")
	script := "#!/bin/sh\n" +
		"for a in \"$@\"; do printf '%s\\n' \"$a\"; done > " + argsFile + "\n" +
		"printf '%s' '" + stdout + "'\n" +
		"echo 'daemon said no' >&2\n" +
		"exit " + strconv.Itoa(code) + "\n"
	path := filepath.Join(dir, "dunstify")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("failed to create script: %v", err)
	}
	return NewDunst(config.DunstSettings{Command: path, MaxTimeout: 60000}), argsFile
}

func readArgs(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestDunst_Args(t *testing.T) {
	icon := filepath.Join(t.TempDir(), "info.svg")
	if err := os.WriteFile(icon, []byte("<svg/>"), 0644); err != nil {
		t.Fatal(err)
	}
	d := NewDunst(config.DunstSettings{Command: "definitely-not-dunstify", MaxTimeout: 10000})

	tests := []struct {
		name string
		n    Notification
		want []string
	}{
		{
			name: "minimal",
			n:    Notification{Title: "Hello", Message: "World"},
			want: []string{"-u", "normal", "Hello", "World"},
		},
		{
			name: "everything",
			n: Notification{
				ID:           "42",
				Urgency:      "urgent",
				Timeout:      Timeout(90000),
				Icon:         icon,
				Category:     "email.arrived",
				DesktopEntry: "thunderbird",
				Sound:        true,
				Actions:      []Action{{"open", "Open"}, {"later", "Read later"}},
				Title:        "Mail",
				Message:      "2 new messages",
			},
			want: []string{
				"-r", "42", "-u", "critical", "-t", "10000", "-i", icon,
				"-h", "string:category:email.arrived",
				"-h", "string:desktop-entry:thunderbird",
				"-h", "int:suppress-sound:0",
				"-A", "open,Open", "-A", "later,Read later",
				"Mail", "2 new messages",
			},
		},
		{
			name: "theme icon name kept",
			n:    Notification{Icon: "dialog-information", Title: "t"},
			want: []string{"-u", "normal", "-i", "dialog-information", "t", ""},
		},
		{
			name: "glyph dropped",
			n:    Notification{Icon: "🎤", Title: "t", Urgency: UrgencyLow},
			want: []string{"-u", "low", "t", ""},
		},
		{
			name: "missing absolute path dropped",
			n:    Notification{Icon: "/nonexistent/icon.svg", Title: "t"},
			want: []string{"-u", "normal", "t", ""},
		},
		{
			name: "negative timeout clamps to persistent",
			n:    Notification{Timeout: Timeout(-1), Title: "t"},
			want: []string{"-u", "normal", "-t", "0", "t", ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, d.Args(tt.n)); diff != "" {
				t.Errorf("Args() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReplaceID(t *testing.T) {
	if got := replaceID("1234"); got != "1234" {
		t.Fatalf("replaceID(1234) = %q, want passthrough", got)
	}
	if got := replaceID(""); got != "" {
		t.Fatalf("replaceID(\"\") = %q, want empty", got)
	}
	a, b := replaceID("recording"), replaceID("recording")
	if a != b {
		t.Fatalf("hashed ids differ: %q vs %q", a, b)
	}
	if a == replaceID("playback") {
		t.Fatalf("distinct ids hashed to the same value %q", a)
	}
	for _, id := range []string{"recording", "0", "-3", "x"} {
		got := replaceID(id)
		if got == "" || got == "0" || len(got) > 6 {
			t.Errorf("replaceID(%q) = %q, want value in [1, 1000000)", id, got)
		}
	}
}

func TestDunst_Unavailable(t *testing.T) {
	d := NewDunst(config.DunstSettings{Command: "/nonexistent/dunstify"})
	if d.Path() == "/nonexistent/dunstify" {
		t.Fatal("nonexistent command was resolved")
	}
	if d.Available() {
		t.Skip("a real dunstify is installed")
	}
	res, err := d.Send(context.Background(), Notification{Title: "x"})
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("Send() error = %v, want ErrBackendUnavailable", err)
	}
	if res.Success || res.Outcome != OutcomeFailed {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestDunst_ExitCodes(t *testing.T) {
	actions := []Action{{"yes", "Yes"}, {"no", "No"}}

	tests := []struct {
		name        string
		stdout      string
		code        int
		actions     []Action
		wantOutcome Outcome
		wantAction  string
		wantErr     bool
	}{
		{name: "sent", code: 0, wantOutcome: OutcomeSent},
		{name: "action selected", stdout: "no\n", code: 0, actions: actions, wantOutcome: OutcomeAction, wantAction: "no"},
		{name: "closed reason expired", stdout: "1", code: 0, actions: actions, wantOutcome: OutcomeTimeout},
		{name: "closed reason dismissed", stdout: "2", code: 0, actions: actions, wantOutcome: OutcomeDismissed},
		{name: "timeout", code: 1, actions: actions, wantOutcome: OutcomeTimeout},
		{name: "dismissed", code: 2, wantOutcome: OutcomeDismissed},
		{name: "error", code: 3, wantOutcome: OutcomeFailed, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := fakeDunstify(t, tt.stdout, tt.code)
			res, err := d.Send(context.Background(), Notification{
				Title: "Question", Message: "Continue?", Actions: tt.actions, Timeout: Timeout(1000),
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Send() error = %v, wantErr %v", err, tt.wantErr)
			}
			if res.Outcome != tt.wantOutcome {
				t.Errorf("Outcome = %q, want %q", res.Outcome, tt.wantOutcome)
			}
			if res.Action != tt.wantAction {
				t.Errorf("Action = %q, want %q", res.Action, tt.wantAction)
			}
			if res.Success == tt.wantErr {
				t.Errorf("Success = %v with err %v", res.Success, err)
			}
			if tt.wantErr && !strings.Contains(res.Error, "daemon said no") {
				t.Errorf("Error = %q, want stderr included", res.Error)
			}
		})
	}
}

func TestDunst_SendPassesArgs(t *testing.T) {
	d, argsFile := fakeDunstify(t, "", 0)
	res, err := d.Send(context.Background(), Notification{
		ID: "rec", Title: "Recording", Message: "in progress", Urgency: UrgencyCritical,
	})
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	want := []string{"-r", replaceID("rec"), "-u", "critical", "Recording", "in progress"}
	if diff := cmp.Diff(want, readArgs(t, argsFile)); diff != "" {
		t.Errorf("argv mismatch (-want +got):\n%s", diff)
	}
	if res.NotificationID != replaceID("rec") {
		t.Errorf("NotificationID = %q, want %q", res.NotificationID, replaceID("rec"))
	}
}

func TestDunst_RunLimit(t *testing.T) {
	d := NewDunst(config.DunstSettings{Command: "x", MaxTimeout: 5000})
	act := []Action{{"k", "K"}}
	tests := []struct {
		name string
		n    Notification
		want string
	}{
		{"no actions", Notification{Timeout: Timeout(0)}, "10s"},
		{"actions persistent", Notification{Actions: act, Timeout: Timeout(0)}, "0s"},
		{"actions default timeout", Notification{Actions: act}, "0s"},
		{"actions clamped", Notification{Actions: act, Timeout: Timeout(90000)}, "15s"},
	}
	for _, tt := range tests {
		if got := d.runLimit(tt.n).String(); got != tt.want {
			t.Errorf("%s: runLimit = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestDunst_Info(t *testing.T) {
	d := NewDunst(config.DunstSettings{Command: "definitely-not-dunstify", SupportsMarkup: true})
	info := d.Info()
	if info.Name != "dunst" || info.Priority != 90 {
		t.Fatalf("unexpected info: %+v", info)
	}
	if !Supports(d, FeatureActions) || !Supports(d, FeatureMarkup) {
		t.Fatalf("features = %v, want actions and markup", info.Features)
	}
}
