//go:build !darwin && !linux && !windows

package notify

import (
	"context"

	"github.com/gen2brain/beeep"
)

func (*Desktop) tool() string { return "beeep" }

func (*Desktop) available() bool { return true }

func (*Desktop) features() []string { return []string{FeatureIcons} }

func (d *Desktop) deliver(_ context.Context, n Notification) error {
	beeep.AppName = d.appName
	return beeep.Notify(n.Title, n.Message, iconArg(n.Icon))
}
