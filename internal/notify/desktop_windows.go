//go:build windows

package notify

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/go-toast/toast"
)

func (*Desktop) tool() string { return "toast" }

func (*Desktop) available() bool { return true }

func (*Desktop) features() []string { return []string{FeatureIcons, FeatureUrgency, FeatureSound} }

func (d *Desktop) deliver(_ context.Context, n Notification) error {
	t := toast.Notification{
		AppID:   d.appName,
		Title:   n.Title,
		Message: n.Message,
	}
	if p := n.Icon; filepath.IsAbs(p) && fileExists(p) {
		t.Icon = p
	}
	if NormalizeUrgency(string(n.Urgency)) == UrgencyCritical {
		t.Duration = toast.Long
	}
	if !n.Sound {
		t.Audio = toast.Silent
	}
	if err := t.Push(); err != nil {
		return fmt.Errorf("toast: %w", err)
	}
	return nil
}
