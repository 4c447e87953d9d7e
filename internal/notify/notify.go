// Package notify turns notification requests into calls on one of several
// delivery backends and reports what happened to them.
//
// A Backend delivers a Notification and returns a Result. The Registry knows
// every backend that can be built on this host and picks the best one; the
// Manager ties a backend to the icon resolver and the configured defaults.
package notify

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"desknotify/internal/icons"
	"desknotify/internal/logging"
)

var (
	// ErrBackendUnavailable is returned when a named backend cannot run here.
	ErrBackendUnavailable = errors.New("backend not available")
	// ErrNoBackend is returned when no backend at all can deliver.
	ErrNoBackend = errors.New("no notification backend available")
	// ErrUnknownBackend is returned for names nobody registered.
	ErrUnknownBackend = errors.New("unknown backend")
)

// BackendError is a delivery failure attributed to one backend.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Urgency is the tri-level priority hint passed to the daemon.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyNormal   Urgency = "normal"
	UrgencyCritical Urgency = "critical"
)

// Urgencies lists the accepted levels in ascending order.
var Urgencies = []Urgency{UrgencyLow, UrgencyNormal, UrgencyCritical}

// NormalizeUrgency maps free-form input onto a valid level. Anything it does
// not recognise becomes normal.
func NormalizeUrgency(s string) Urgency {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return UrgencyLow
	case "critical", "error", "high", "urgent":
		return UrgencyCritical
	default:
		// normal, info, information, warn, warning
		return UrgencyNormal
	}
}

// DefaultMaxTimeout caps timeouts when no backend-specific cap is set.
const DefaultMaxTimeout = 60000

// ClampTimeout bounds ms to [0, max]. A non-positive max means
// DefaultMaxTimeout.
func ClampTimeout(ms, max int) int {
	if max <= 0 {
		max = DefaultMaxTimeout
	}
	if ms < 0 {
		return 0
	}
	if ms > max {
		return max
	}
	return ms
}

// Action is one button offered on a notification.
type Action struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ParseActions parses "key:Label,key2:Label 2". Pairs without a colon or
// with an empty key are skipped.
func ParseActions(s string) []Action {
	var out []Action
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, label, ok := strings.Cut(pair, ":")
		key, label = strings.TrimSpace(key), strings.TrimSpace(label)
		if !ok || key == "" {
			logging.For("notify").Warn().Str("pair", pair).Msg("ignoring malformed action")
			continue
		}
		if label == "" {
			label = key
		}
		out = append(out, Action{Key: key, Label: label})
	}
	return out
}

// Notification is one request. Timeout is in milliseconds; nil means the
// backend default and zero means persistent.
type Notification struct {
	Icon         string   `json:"icon,omitempty"`
	Title        string   `json:"title"`
	Message      string   `json:"message,omitempty"`
	ID           string   `json:"id,omitempty"`
	Urgency      Urgency  `json:"urgency,omitempty"`
	Timeout      *int     `json:"timeout,omitempty"`
	Actions      []Action `json:"actions,omitempty"`
	Category     string   `json:"category,omitempty"`
	DesktopEntry string   `json:"desktop_entry,omitempty"`
	Sound        bool     `json:"sound,omitempty"`
}

// Timeout returns a pointer to ms, for building Notifications inline.
func Timeout(ms int) *int { return &ms }

// HasAction reports whether key is one of the offered actions.
func (n Notification) HasAction(key string) bool {
	return slices.ContainsFunc(n.Actions, func(a Action) bool { return a.Key == key })
}

// Outcome says how a delivered notification ended.
type Outcome string

const (
	OutcomeSent      Outcome = "sent"
	OutcomeAction    Outcome = "action"
	OutcomeTimeout   Outcome = "timeout"
	OutcomeDismissed Outcome = "dismissed"
	OutcomeFailed    Outcome = "failed"
)

// Result reports a send. Success means the notification was delivered, even
// when the user then let it expire or dismissed it.
type Result struct {
	Success        bool          `json:"success"`
	Outcome        Outcome       `json:"outcome"`
	Action         string        `json:"action,omitempty"`
	Backend        string        `json:"backend"`
	NotificationID string        `json:"notification_id,omitempty"`
	Icon           *icons.Info   `json:"icon,omitempty"`
	SendTime       time.Duration `json:"send_time"`
	TotalTime      time.Duration `json:"total_time"`
	Error          string        `json:"error,omitempty"`
}

func delivered(backend string, o Outcome) Result {
	return Result{Success: true, Outcome: o, Backend: backend}
}

func failed(backend string, err error) (Result, error) {
	var be *BackendError
	if !errors.As(err, &be) {
		err = &BackendError{Backend: backend, Err: err}
	}
	return Result{Outcome: OutcomeFailed, Backend: backend, Error: err.Error()}, err
}

// Feature names reported in BackendInfo.
const (
	FeatureActions     = "actions"
	FeatureIcons       = "icons"
	FeatureUrgency     = "urgency"
	FeatureTimeout     = "timeout"
	FeatureReplace     = "replace"
	FeatureMarkup      = "markup"
	FeatureHints       = "hints"
	FeatureSound       = "sound"
	FeatureColors      = "colors"
	FeatureRemote      = "remote"
	FeatureInteractive = "interactive"
)

// BackendInfo describes a backend for listings.
type BackendInfo struct {
	Name        string            `json:"name"`
	Priority    int               `json:"priority"`
	Available   bool              `json:"available"`
	Description string            `json:"description"`
	Features    []string          `json:"features"`
	Urgencies   []Urgency         `json:"urgency_levels"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// Backend delivers notifications through one mechanism.
type Backend interface {
	Name() string
	Priority() int
	Available() bool
	Send(ctx context.Context, n Notification) (Result, error)
	Info() BackendInfo
}

// Supports reports whether b advertises feature.
func Supports(b Backend, feature string) bool {
	return slices.Contains(b.Info().Features, feature)
}
