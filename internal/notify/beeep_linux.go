//go:build linux

package notify

import "os/exec"

// beeep on Linux goes through the notification daemon on the session bus
// and falls back to notify-send, then kdialog.
func beeepUsable() bool {
	for _, tool := range []string{"notify-send", "kdialog"} {
		if _, err := exec.LookPath(tool); err == nil {
			return true
		}
	}
	return daemonOnBus()
}
