package notify

import (
	"context"
	"sync"

	"github.com/gen2brain/beeep"
)

var beeepMu sync.Mutex

// Beeep delivers through gen2brain/beeep, which picks a platform mechanism
// on its own. Sound requests use beeep.Alert.
type Beeep struct {
	appName string
}

func NewBeeep(appName string) *Beeep {
	if appName == "" {
		appName = "desktop-notify"
	}
	return &Beeep{appName: appName}
}

func (*Beeep) Name() string  { return "beeep" }
func (*Beeep) Priority() int { return 20 }

// Available reports whether beeep has a mechanism to deliver through on
// this host.
func (*Beeep) Available() bool { return beeepUsable() }

func (b *Beeep) Send(_ context.Context, n Notification) (Result, error) {
	if !b.Available() {
		return failed(b.Name(), ErrBackendUnavailable)
	}
	// beeep.AppName is a package global.
	beeepMu.Lock()
	defer beeepMu.Unlock()
	beeep.AppName = b.appName

	send := beeep.Notify
	if n.Sound {
		send = beeep.Alert
	}
	if err := send(n.Title, n.Message, iconArg(n.Icon)); err != nil {
		return failed(b.Name(), err)
	}
	res := delivered(b.Name(), OutcomeSent)
	res.NotificationID = n.ID
	return res, nil
}

func (b *Beeep) Info() BackendInfo {
	return BackendInfo{
		Name:        b.Name(),
		Priority:    b.Priority(),
		Available:   b.Available(),
		Description: "Cross-platform notifications via beeep",
		Features:    []string{FeatureIcons, FeatureSound},
		Urgencies:   Urgencies,
		Extra:       map[string]string{"app_name": b.appName},
	}
}
