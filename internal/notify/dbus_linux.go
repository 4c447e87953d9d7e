//go:build linux

package notify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	dbusnotify "github.com/esiqveland/notify"
	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"

	"desknotify/internal/config"
	"desknotify/internal/logging"
)

const notificationsName = "org.freedesktop.Notifications"

// DBus talks to org.freedesktop.Notifications directly on the session bus.
// Each send opens a private connection so signals for one notification
// never leak into another.
type DBus struct {
	appName    string
	maxTimeout int
	log        *zerolog.Logger
}

func NewDBus(s config.DBusSettings, maxTimeout int) *DBus {
	name := s.AppName
	if name == "" {
		name = "desktop-notify"
	}
	return &DBus{appName: name, maxTimeout: maxTimeout, log: logging.For("backend")}
}

func (*DBus) Name() string  { return "dbus" }
func (*DBus) Priority() int { return 85 }

func sessionConn() (*dbus.Conn, error) {
	conn, err := dbus.SessionBusPrivate()
	if err != nil {
		return nil, err
	}
	if err := conn.Auth(nil); err != nil {
		conn.Close()
		return nil, err
	}
	if err := conn.Hello(); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// Available reports whether a notification daemon owns the bus name.
func (d *DBus) Available() bool { return daemonOnBus() }

func daemonOnBus() bool {
	conn, err := sessionConn()
	if err != nil {
		return false
	}
	defer conn.Close()
	var owned bool
	err = conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, notificationsName).Store(&owned)
	return err == nil && owned
}

func urgencyByte(u Urgency) byte {
	switch u {
	case UrgencyLow:
		return 0
	case UrgencyCritical:
		return 2
	default:
		return 1
	}
}

func (d *DBus) message(n Notification) dbusnotify.Notification {
	msg := dbusnotify.Notification{
		AppName:       d.appName,
		AppIcon:       iconArg(n.Icon),
		Summary:       n.Title,
		Body:          n.Message,
		ExpireTimeout: dbusnotify.ExpireTimeoutSetByNotificationServer,
		Hints: map[string]dbus.Variant{
			"urgency": dbus.MakeVariant(urgencyByte(NormalizeUrgency(string(n.Urgency)))),
		},
	}
	if id := replaceID(n.ID); id != "" {
		v, _ := strconv.ParseUint(id, 10, 32)
		msg.ReplacesID = uint32(v)
	}
	if n.Timeout != nil {
		msg.ExpireTimeout = time.Duration(ClampTimeout(*n.Timeout, d.maxTimeout)) * time.Millisecond
	}
	if n.Category != "" {
		msg.Hints["category"] = dbus.MakeVariant(n.Category)
	}
	if n.DesktopEntry != "" {
		msg.Hints["desktop-entry"] = dbus.MakeVariant(n.DesktopEntry)
	}
	if n.Sound {
		msg.Hints["suppress-sound"] = dbus.MakeVariant(false)
	}
	for _, a := range n.Actions {
		msg.Actions = append(msg.Actions, dbusnotify.Action{Key: a.Key, Label: a.Label})
	}
	return msg
}

type signal struct {
	id     uint32
	action string
	reason dbusnotify.Reason
}

func (d *DBus) Send(ctx context.Context, n Notification) (Result, error) {
	conn, err := sessionConn()
	if err != nil {
		return failed(d.Name(), fmt.Errorf("%w: session bus: %v", ErrBackendUnavailable, err))
	}
	defer conn.Close()

	if len(n.Actions) == 0 {
		id, err := dbusnotify.SendNotification(conn, d.message(n))
		if err != nil {
			return failed(d.Name(), fmt.Errorf("send notification: %w", err))
		}
		res := delivered(d.Name(), OutcomeSent)
		res.NotificationID = strconv.FormatUint(uint64(id), 10)
		return res, nil
	}

	events := make(chan signal, 8)
	emit := func(s signal) {
		select {
		case events <- s:
		default:
		}
	}
	notifier, err := dbusnotify.New(conn,
		dbusnotify.WithOnAction(func(s *dbusnotify.ActionInvokedSignal) {
			emit(signal{id: s.ID, action: s.ActionKey})
		}),
		dbusnotify.WithOnClosed(func(s *dbusnotify.NotificationClosedSignal) {
			emit(signal{id: s.ID, reason: s.Reason})
		}),
	)
	if err != nil {
		return failed(d.Name(), fmt.Errorf("subscribe to signals: %w", err))
	}
	defer notifier.Close()

	id, err := notifier.SendNotification(d.message(n))
	if err != nil {
		return failed(d.Name(), fmt.Errorf("send notification: %w", err))
	}

	if n.Timeout != nil {
		if ms := ClampTimeout(*n.Timeout, d.maxTimeout); ms > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(ms)*time.Millisecond+dunstRunTimeout)
			defer cancel()
		}
	}

	d.log.Debug().Uint32("id", id).Int("actions", len(n.Actions)).Msg("waiting for notification signals")
	res := delivered(d.Name(), OutcomeSent)
	res.NotificationID = strconv.FormatUint(uint64(id), 10)
	for {
		select {
		case ev := <-events:
			if ev.id != id {
				continue
			}
			switch {
			case ev.action != "":
				res.Outcome, res.Action = OutcomeAction, ev.action
				return res, nil
			case ev.reason == dbusnotify.ReasonExpired:
				res.Outcome = OutcomeTimeout
				return res, nil
			case ev.reason == dbusnotify.ReasonDismissedByUser:
				res.Outcome = OutcomeDismissed
				return res, nil
			default:
				// Closed by a call or for an undefined reason.
				res.Outcome = OutcomeDismissed
				return res, nil
			}
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				res.Outcome = OutcomeTimeout
				return res, nil
			}
			return failed(d.Name(), ctx.Err())
		}
	}
}

// Capabilities asks the daemon which optional features it implements.
func (d *DBus) Capabilities() ([]string, error) {
	conn, err := sessionConn()
	if err != nil {
		return nil, &BackendError{Backend: d.Name(), Err: err}
	}
	defer conn.Close()
	return dbusnotify.GetCapabilities(conn)
}

func (d *DBus) Info() BackendInfo {
	info := BackendInfo{
		Name:        d.Name(),
		Priority:    d.Priority(),
		Available:   d.Available(),
		Description: "Native org.freedesktop.Notifications over the session bus",
		Features: []string{FeatureActions, FeatureIcons, FeatureUrgency, FeatureTimeout,
			FeatureReplace, FeatureHints, FeatureSound},
		Urgencies: Urgencies,
		Extra:     map[string]string{"app_name": d.appName},
	}
	if info.Available {
		if caps, err := d.Capabilities(); err == nil {
			info.Extra["capabilities"] = fmt.Sprint(caps)
		}
	}
	return info
}
