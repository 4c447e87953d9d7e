package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"desknotify/internal/notify"
	"desknotify/internal/output"
	"desknotify/internal/ui"
)

// SendOptions are the root command's notification flags.
type SendOptions struct {
	Title   string
	Message string
	Icon    string
	Urgency string
	Timeout *int // nil keeps the configured default
	Actions string
	ID      string
	Sound   bool
}

// buildNotification validates o. Urgency must be one of the three levels,
// and an --actions value that yields no action is an error.
func buildNotification(o SendOptions) (notify.Notification, error) {
	if strings.TrimSpace(o.Title) == "" {
		return notify.Notification{}, errors.New("title is required")
	}
	var urgency notify.Urgency
	if o.Urgency != "" {
		urgency = notify.Urgency(strings.ToLower(o.Urgency))
		switch urgency {
		case notify.UrgencyLow, notify.UrgencyNormal, notify.UrgencyCritical:
		default:
			return notify.Notification{}, fmt.Errorf("invalid urgency %q (choose from low, normal, critical)", o.Urgency)
		}
	}
	if o.Timeout != nil && *o.Timeout < 0 {
		return notify.Notification{}, fmt.Errorf("invalid timeout %d: must not be negative", *o.Timeout)
	}

	n := notify.Notification{
		Icon:    o.Icon,
		Title:   o.Title,
		Message: o.Message,
		ID:      o.ID,
		Urgency: urgency,
		Timeout: o.Timeout,
		Sound:   o.Sound,
	}
	if o.Actions != "" {
		n.Actions = notify.ParseActions(o.Actions)
		if len(n.Actions) == 0 {
			return notify.Notification{}, errors.New("no valid actions parsed")
		}
	}
	return n, nil
}

// actionLine is what the CLI prints after a notification with actions.
func actionLine(res notify.Result) string {
	if res.Outcome == notify.OutcomeAction && res.Action != "" {
		return "User selected: " + res.Action
	}
	return "No action selected (timeout or dismissed)"
}

// sendNotification delivers o through m and writes the outcome to w. The
// returned code is the process exit status.
func sendNotification(ctx context.Context, m *notify.Manager, o SendOptions, w io.Writer) int {
	n, err := buildNotification(o)
	if err != nil {
		output.PrintFailure(nil, err, func() { fmt.Fprintf(os.Stderr, "Error: %v\n", err) })
		return 1
	}

	res := m.Send(ctx, n)
	if !res.Success {
		err := errors.New(res.Error)
		output.PrintFailure(res, err, func() { fmt.Fprintf(os.Stderr, "Error: %v\n", err) })
		return 1
	}

	output.Print(res, func() {
		if len(n.Actions) > 0 {
			fmt.Fprintln(w, actionLine(res))
		}
	})
	return 0
}

// RunSend is the root command: send one notification.
func RunSend(o SendOptions) {
	m := loadManager()
	ctx, cancel := signalContext()
	code := sendNotification(ctx, m, o, os.Stdout)
	cancel()
	os.Exit(code)
}

// RunCheck reports whether any backend can deliver. It exits 1 when none
// can.
func RunCheck() {
	m := loadManager()
	available := m.Available()
	data := map[string]any{"available": available, "backend": m.BackendName()}

	if !available {
		output.PrintFailure(data, notify.ErrNoBackend, func() {
			ui.ShowError("Notification system is not available", nil)
		})
		os.Exit(1)
	}
	output.Print(data, func() {
		ui.ShowSuccess("Notification system is available (backend: %s)", m.BackendName())
	})
}
