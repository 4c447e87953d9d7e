package notify

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"desknotify/internal/config"
	"desknotify/internal/logging"
)

// Factory builds a backend. It is called at most once per name until the
// registry cache is cleared.
type Factory func() (Backend, error)

// Registry holds backend factories and the instances built from them.
type Registry struct {
	mu        sync.Mutex
	factories map[string]Factory
	instances map[string]Backend
	available []string // nil until discovered
	log       *zerolog.Logger
}

func NewRegistry() *Registry {
	return &Registry{
		factories: map[string]Factory{},
		instances: map[string]Backend{},
		log:       logging.For("backend"),
	}
}

// DefaultRegistry registers every backend this package provides, configured
// from s. The console writes to stderr.
func DefaultRegistry(s config.Settings) *Registry {
	r := NewRegistry()
	b := s.Backends
	r.Register("dunst", func() (Backend, error) { return NewDunst(b.Dunst), nil })
	r.Register("dbus", func() (Backend, error) { return NewDBus(b.DBus, b.Dunst.MaxTimeout), nil })
	r.Register("desktop", func() (Backend, error) { return NewDesktop(b.DBus), nil })
	r.Register("beeep", func() (Backend, error) { return NewBeeep(b.DBus.AppName), nil })
	r.Register("webhook", func() (Backend, error) { return NewWebhook(b.Webhook), nil })
	r.Register("console", func() (Backend, error) { return NewConsole(b.Console, nil), nil })
	return r
}

// Register adds or replaces a factory and forgets previous discovery.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
	delete(r.instances, name)
	r.available = nil
	r.log.Debug().Str("backend", name).Msg("registered backend")
}

// Get returns the backend called name, building it on first use.
func (r *Registry) Get(name string) (Backend, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getLocked(name)
}

func (r *Registry) getLocked(name string) (Backend, error) {
	if b, ok := r.instances[name]; ok {
		return b, nil
	}
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, name)
	}
	b, err := f()
	if err != nil {
		r.log.Warn().Err(err).Str("backend", name).Msg("failed to initialize backend")
		return nil, &BackendError{Backend: name, Err: err}
	}
	r.instances[name] = b
	return b, nil
}

// Discover returns the available backends, highest priority first. The
// answer is cached until ClearCache or Register.
func (r *Registry) Discover() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.available != nil {
		return append([]string(nil), r.available...)
	}

	type entry struct {
		name     string
		priority int
	}
	var found []entry
	for name := range r.factories {
		b, err := r.getLocked(name)
		if err != nil || !b.Available() {
			r.log.Debug().Str("backend", name).Msg("backend not available")
			continue
		}
		found = append(found, entry{name, b.Priority()})
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].priority != found[j].priority {
			return found[i].priority > found[j].priority
		}
		return found[i].name < found[j].name
	})

	r.available = make([]string, len(found))
	for i, e := range found {
		r.available[i] = e.name
	}
	r.log.Debug().Strs("backends", r.available).Msg("discovered backends")
	return append([]string(nil), r.available...)
}

// Best returns preferred when it is available, otherwise the highest
// priority available backend. An empty or "auto" preference skips straight
// to the latter.
func (r *Registry) Best(preferred string) (Backend, error) {
	avail := r.Discover()
	if len(avail) == 0 {
		return nil, ErrNoBackend
	}
	if preferred != "" && preferred != "auto" {
		for _, name := range avail {
			if name == preferred {
				return r.Get(name)
			}
		}
		r.log.Warn().Str("backend", preferred).Str("using", avail[0]).Msg("preferred backend not available")
	}
	return r.Get(avail[0])
}

// ListAll returns every registered name, sorted.
func (r *Registry) ListAll() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Info describes one backend.
func (r *Registry) Info(name string) (BackendInfo, error) {
	b, err := r.Get(name)
	if err != nil {
		return BackendInfo{}, err
	}
	return b.Info(), nil
}

// AllInfo describes every backend that could be built, by priority.
func (r *Registry) AllInfo() []BackendInfo {
	var out []BackendInfo
	for _, name := range r.ListAll() {
		if info, err := r.Info(name); err == nil {
			out = append(out, info)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}

// TestNotification is the notification sent by backend and manager tests.
func TestNotification(backend string) Notification {
	return Notification{
		Icon:    "info",
		Title:   "Desktop Notify Test",
		Message: "Test notification from desktop-notify: the " + backend + " backend is working correctly",
		Timeout: Timeout(3000),
	}
}

// Test sends a test notification through one backend.
func (r *Registry) Test(ctx context.Context, name string) (Result, error) {
	b, err := r.Get(name)
	if err != nil {
		return failed(name, err)
	}
	if !b.Available() {
		return failed(name, ErrBackendUnavailable)
	}
	res, err := b.Send(ctx, TestNotification(name))
	if err != nil {
		r.log.Error().Err(err).Str("backend", name).Msg("backend test failed")
	}
	return res, err
}

// TestAll tests every available backend.
func (r *Registry) TestAll(ctx context.Context) map[string]Result {
	out := map[string]Result{}
	for _, name := range r.Discover() {
		out[name], _ = r.Test(ctx, name)
	}
	return out
}

// ClearCache drops built instances and the discovery result.
func (r *Registry) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances = map[string]Backend{}
	r.available = nil
	r.log.Debug().Msg("cleared backend cache")
}
