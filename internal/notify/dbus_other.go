//go:build !linux

package notify

import (
	"context"

	"desknotify/internal/config"
)

// DBus is only functional on Linux.
type DBus struct{}

func NewDBus(config.DBusSettings, int) *DBus { return &DBus{} }

func (*DBus) Name() string    { return "dbus" }
func (*DBus) Priority() int   { return 85 }
func (*DBus) Available() bool { return false }

func (d *DBus) Send(context.Context, Notification) (Result, error) {
	return failed(d.Name(), ErrBackendUnavailable)
}

func (d *DBus) Info() BackendInfo {
	return BackendInfo{
		Name:        d.Name(),
		Priority:    d.Priority(),
		Description: "Native org.freedesktop.Notifications (Linux only)",
		Urgencies:   Urgencies,
	}
}
