//go:build linux

package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

func (*Desktop) tool() string { return "notify-send" }

func (*Desktop) available() bool {
	_, err := exec.LookPath("notify-send")
	return err == nil
}

func (*Desktop) features() []string {
	return []string{FeatureIcons, FeatureUrgency, FeatureTimeout, FeatureSound}
}

func notifySendArgs(appName string, n Notification) []string {
	args := []string{"-u", string(NormalizeUrgency(string(n.Urgency))), "-a", appName}
	if n.Timeout != nil {
		args = append(args, "-t", strconv.Itoa(ClampTimeout(*n.Timeout, 0)))
	}
	if icon := iconArg(n.Icon); icon != "" {
		args = append(args, "-i", icon)
	}
	if n.Sound {
		args = append(args, "--hint=string:sound-name:message-new-instant")
	}
	return append(args, n.Title, n.Message)
}

func (d *Desktop) deliver(ctx context.Context, n Notification) error {
	path, err := exec.LookPath("notify-send")
	if err != nil {
		return fmt.Errorf("%w: notify-send not found", ErrBackendUnavailable)
	}
	ctx, cancel := context.WithTimeout(ctx, dunstRunTimeout)
	defer cancel()
	if out, err := exec.CommandContext(ctx, path, notifySendArgs(d.appName, n)...).CombinedOutput(); err != nil {
		return fmt.Errorf("notify-send: %w (output: %s)", err, string(out))
	}
	return nil
}
