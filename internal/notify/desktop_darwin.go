//go:build darwin

package notify

import (
	"context"
	"fmt"
	"os/exec"
)

func (*Desktop) tool() string { return "osascript" }

func (*Desktop) available() bool {
	_, err := exec.LookPath("osascript")
	return err == nil
}

func (*Desktop) features() []string { return []string{FeatureSound} }

func (d *Desktop) deliver(ctx context.Context, n Notification) error {
	script := fmt.Sprintf(`display notification %q with title %q`, n.Message, n.Title)
	if n.Sound {
		script += ` sound name "default"`
	}
	ctx, cancel := context.WithTimeout(ctx, dunstRunTimeout)
	defer cancel()
	if out, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput(); err != nil {
		return fmt.Errorf("osascript: %w (output: %s)", err, string(out))
	}
	return nil
}
