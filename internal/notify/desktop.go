package notify

import (
	"context"
	"runtime"

	"github.com/rs/zerolog"

	"desknotify/internal/config"
	"desknotify/internal/logging"
)

// Desktop uses whatever notifier the host OS ships: notify-send on Linux,
// osascript on macOS, toast notifications on Windows and beeep elsewhere.
// It offers no actions.
type Desktop struct {
	appName string
	log     *zerolog.Logger
}

func NewDesktop(s config.DBusSettings) *Desktop {
	name := s.AppName
	if name == "" {
		name = "desktop-notify"
	}
	return &Desktop{appName: name, log: logging.For("backend")}
}

func (*Desktop) Name() string      { return "desktop" }
func (*Desktop) Priority() int     { return 50 }
func (d *Desktop) Available() bool { return d.available() }

func (d *Desktop) Send(ctx context.Context, n Notification) (Result, error) {
	if !d.Available() {
		return failed(d.Name(), ErrBackendUnavailable)
	}
	if len(n.Actions) > 0 {
		d.log.Debug().Msg("desktop backend ignores actions")
	}
	if err := d.deliver(ctx, n); err != nil {
		return failed(d.Name(), err)
	}
	res := delivered(d.Name(), OutcomeSent)
	res.NotificationID = n.ID
	return res, nil
}

func (d *Desktop) Info() BackendInfo {
	return BackendInfo{
		Name:        d.Name(),
		Priority:    d.Priority(),
		Available:   d.Available(),
		Description: "Native notifier of the host OS (" + d.tool() + ")",
		Features:    d.features(),
		Urgencies:   Urgencies,
		Extra:       map[string]string{"os": runtime.GOOS, "tool": d.tool(), "app_name": d.appName},
	}
}
