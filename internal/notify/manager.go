package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"desknotify/internal/config"
	"desknotify/internal/icons"
	"desknotify/internal/logging"
)

// Option adjusts a Manager before it picks its backend.
type Option func(*Manager)

// WithRegistry replaces DefaultRegistry, e.g. to add more backends.
func WithRegistry(r *Registry) Option { return func(m *Manager) { m.registry = r } }

// WithBackend overrides the configured backend preference.
func WithBackend(name string) Option { return func(m *Manager) { m.preferred = name } }

// WithIconSet overrides the configured icon set.
func WithIconSet(name string) Option { return func(m *Manager) { m.iconSet = name } }

// WithIcons supplies a ready icon manager instead of building one.
func WithIcons(im *icons.Manager) Option { return func(m *Manager) { m.icons = im } }

// WithTimeout overrides the default timeout in milliseconds.
func WithTimeout(ms int) Option { return func(m *Manager) { m.timeout = ms } }

// WithUrgency overrides the default urgency.
func WithUrgency(u Urgency) Option { return func(m *Manager) { m.urgency = u } }

// WithHook runs script whenever the user picks an action. Empty disables.
func WithHook(script string) Option { return func(m *Manager) { m.hookPath = script } }

// Manager sends notifications through one selected backend, resolving icons
// and filling in configured defaults on the way.
type Manager struct {
	mu       sync.RWMutex
	registry *Registry
	backend  Backend
	icons    *icons.Manager
	fallback bool
	sound    bool
	hook     *HookRunner
	log      *zerolog.Logger

	preferred string
	iconSet   string
	timeout   int
	urgency   Urgency
	hookPath  string
}

// NewManager builds a manager from s and opts. When no backend can deliver
// the manager is still returned; Available reports false and Send fails.
func NewManager(s config.Settings, opts ...Option) *Manager {
	m := &Manager{
		preferred: s.Backend,
		iconSet:   s.Icons.IconSet,
		timeout:   s.Timeout,
		urgency:   NormalizeUrgency(s.Urgency),
		hookPath:  s.Actions.Hook,
		fallback:  s.Icons.FallbackEnabled,
		sound:     s.EnableSound,
		log:       logging.For("notify"),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = DefaultRegistry(s)
	}
	if m.icons == nil {
		is := s.Icons
		is.IconSet = m.iconSet
		m.icons = icons.FromSettings(is, s.LogIconResolution)
	}
	if m.hookPath != "" {
		m.hook = NewHookRunner(m.hookPath)
	}

	b, err := m.registry.Best(m.preferred)
	if err != nil {
		m.log.Error().Err(err).Msg("failed to initialize backend")
	} else {
		m.backend = b
		m.log.Debug().Str("backend", b.Name()).Str("icons", m.icons.Active()).Msg("notification manager ready")
	}
	return m
}

func (m *Manager) current() Backend {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.backend
}

// Reconfigure rebuilds the manager from s and opts in place, so holders of
// m pick up a reloaded config. Runtime backend switches are reset.
func (m *Manager) Reconfigure(s config.Settings, opts ...Option) {
	next := NewManager(s, opts...)

	m.mu.Lock()
	m.registry, m.backend, m.icons = next.registry, next.backend, next.icons
	m.fallback, m.sound, m.hook = next.fallback, next.sound, next.hook
	m.preferred, m.iconSet = next.preferred, next.iconSet
	m.timeout, m.urgency, m.hookPath = next.timeout, next.urgency, next.hookPath
	m.mu.Unlock()

	m.log.Info().Str("backend", m.BackendName()).Str("icons", next.icons.Active()).Msg("notification manager reconfigured")
}

// RawIconBackend is implemented by backends that map icon names
// themselves, or forward them to something that does.
type RawIconBackend interface{ RawIcons() bool }

func wantsRawIcons(b Backend) bool {
	r, ok := b.(RawIconBackend)
	return ok && r.RawIcons()
}

// Send delivers n. Missing urgency and timeout take the configured
// defaults. Failures are logged and reported in the Result; the returned
// Result is never left without an Outcome.
func (m *Manager) Send(ctx context.Context, n Notification) Result {
	start := time.Now()
	m.mu.RLock()
	b, im, fallback, sound, hook := m.backend, m.icons, m.fallback, m.sound, m.hook
	timeout, urgency := m.timeout, m.urgency
	m.mu.RUnlock()
	if b == nil {
		m.log.Error().Str("title", n.Title).Msg("no notification backend available")
		return Result{Outcome: OutcomeFailed, Error: ErrNoBackend.Error(), TotalTime: time.Since(start)}
	}

	var resolved *icons.Info
	if n.Icon != "" && im != nil {
		info := im.Lookup(n.Icon, fallback)
		resolved = &info
		if info.Value != "" && !wantsRawIcons(b) {
			n.Icon = info.Value
		}
	}
	if n.Urgency == "" {
		n.Urgency = urgency
	}
	n.Urgency = NormalizeUrgency(string(n.Urgency))
	if n.Timeout == nil {
		n.Timeout = Timeout(timeout)
	}
	n.Sound = n.Sound && sound

	sendStart := time.Now()
	res, err := b.Send(ctx, n)
	res.SendTime = time.Since(sendStart)
	res.Icon = resolved
	if res.Backend == "" {
		res.Backend = b.Name()
	}
	if err != nil {
		res.Success, res.Outcome = false, OutcomeFailed
		if res.Error == "" {
			res.Error = err.Error()
		}
		m.log.Warn().Err(err).Str("backend", b.Name()).Str("title", n.Title).Msg("failed to send notification")
	} else {
		m.log.Debug().Str("backend", b.Name()).Str("title", n.Title).
			Str("outcome", string(res.Outcome)).Dur("took", res.SendTime).Msg("sent notification")
	}

	if res.Outcome == OutcomeAction && hook != nil {
		if err := hook.Execute(ctx, NewHookPayload(n, res, time.Now())); err != nil {
			m.log.Warn().Err(err).Str("action", res.Action).Msg("action hook failed")
		}
	}
	res.TotalTime = time.Since(start)
	return res
}

// Available reports whether a backend was selected.
func (m *Manager) Available() bool {
	b := m.current()
	return b != nil && b.Available()
}

// BackendName is the selected backend, "" when none.
func (m *Manager) BackendName() string {
	if b := m.current(); b != nil {
		return b.Name()
	}
	return ""
}

// BackendInfo describes the selected backend.
func (m *Manager) BackendInfo() (BackendInfo, error) {
	b := m.current()
	if b == nil {
		return BackendInfo{}, ErrNoBackend
	}
	return b.Info(), nil
}

// ListBackends returns the available backends, highest priority first.
func (m *Manager) ListBackends() []string { return m.Registry().Discover() }

// Registry exposes the backend registry.
func (m *Manager) Registry() *Registry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.registry
}

// Icons exposes the icon manager.
func (m *Manager) Icons() *icons.Manager {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.icons
}

// SwitchBackend selects another backend by name.
func (m *Manager) SwitchBackend(name string) error {
	b, err := m.Registry().Get(name)
	if err != nil {
		return fmt.Errorf("switch backend: %w", err)
	}
	if !b.Available() {
		return fmt.Errorf("switch backend: %w", &BackendError{Backend: name, Err: ErrBackendUnavailable})
	}
	m.mu.Lock()
	m.backend, m.preferred = b, name
	m.mu.Unlock()
	m.log.Info().Str("backend", name).Msg("switched backend")
	return nil
}

// SwitchIconSet activates another icon set.
func (m *Manager) SwitchIconSet(name string) error {
	if err := m.Icons().SetActive(name); err != nil {
		return fmt.Errorf("switch icon set: %w", err)
	}
	return nil
}

// ListIconSets returns the available icon sets, highest priority first.
func (m *Manager) ListIconSets() []string { return m.Icons().ListAvailable() }

// Test sends the standard test notification.
func (m *Manager) Test(ctx context.Context) Result {
	return m.Send(ctx, TestNotification(m.BackendName()))
}

var (
	defaultMu      sync.Mutex
	defaultManager *Manager
)

// Default returns the process-wide manager, building it from the default
// config files and environment on first use.
func Default() *Manager {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultManager == nil {
		s := config.DefaultSettings()
		if cfg, err := config.Load(); err == nil {
			if loaded, err := cfg.Settings(); err == nil {
				s = loaded
			}
		} else {
			logging.For("notify").Warn().Err(err).Msg("using default settings")
		}
		defaultManager = NewManager(s)
	}
	return defaultManager
}

// SetDefault replaces the process-wide manager.
func SetDefault(m *Manager) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultManager = m
}

// Send delivers n through the default manager.
func Send(ctx context.Context, n Notification) Result { return Default().Send(ctx, n) }

// IsAvailable reports whether the default manager can deliver at all.
func IsAvailable() bool { return Default().Available() }

// BackendName is the default manager's backend.
func BackendName() string { return Default().BackendName() }
