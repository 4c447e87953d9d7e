package icons

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/golang/groupcache/lru"
	"github.com/rs/zerolog"

	"desknotify/internal/config"
	"desknotify/internal/logging"
)

// ErrUnavailable is returned when activating a set that is not installed.
var ErrUnavailable = errors.New("icon set not available")

// DefaultCacheSize bounds the resolution cache when no size is configured.
const DefaultCacheSize = 256

// Info is the detailed record of one resolution.
type Info struct {
	Name      string        `json:"name"`
	Value     string        `json:"value"`
	Kind      Kind          `json:"kind"`
	Set       string        `json:"set,omitempty"`
	Theme     string        `json:"theme,omitempty"`
	Size      int           `json:"size,omitempty"`
	Fallback  bool          `json:"fallback"`
	Attempted []string      `json:"attempted,omitempty"`
	Duration  time.Duration `json:"duration"`
	Cached    bool          `json:"cached"`
}

type cacheKey struct {
	name     string
	fallback bool
}

// Manager owns the registered sets, the active selection and a bounded
// resolution cache. It is safe for concurrent use.
type Manager struct {
	mu        sync.Mutex
	sets      map[string]Set
	preferred string
	active    string
	cache     *lru.Cache // nil disables memoization
	log       *zerolog.Logger
	verbose   bool
}

// NewManager returns a manager holding only the minimal set. preferred is a
// set name or "auto". A cacheSize of zero disables memoization.
func NewManager(preferred string, cacheSize int) *Manager {
	m := &Manager{
		sets:      map[string]Set{},
		preferred: preferred,
		log:       logging.For("icons"),
	}
	if cacheSize > 0 {
		m.cache = lru.New(cacheSize)
	}
	m.sets["minimal"] = NewMinimal()
	m.selectActive()
	return m
}

// FromSettings registers the system, material, material-complete and
// minimal sets configured by s.
func FromSettings(s config.IconSettings, verbose bool) *Manager {
	m := NewManager(s.IconSet, s.CacheSize)
	m.verbose = verbose

	sys := NewSystem(SystemOptions{
		Theme:          s.SystemTheme,
		Size:           s.SystemSize,
		PreferScalable: s.SystemPreferScalable,
		Mode:           s.SystemMode,
		MappingFile:    s.SystemMappingFile,
	})
	sys.SetVerbose(verbose)

	dir := s.MaterialPath()
	m.Register(sys)
	m.Register(NewMaterial(dir))
	m.Register(NewMaterialComplete(dir))

	if p := s.IconSet; p != "" && p != "auto" {
		if _, ok := m.Get(p); !ok {
			m.log.Warn().Str("set", p).Msg("unknown icon set, using minimal")
		}
	}
	return m
}

// Register adds or replaces a set and re-runs the active selection.
func (m *Manager) Register(s Set) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[s.Name()] = s
	m.selectActive()
	m.purge()
	m.log.Debug().Str("set", s.Name()).Int("priority", s.Priority()).Msg("registered icon set")
}

// selectActive must be called with mu held.
func (m *Manager) selectActive() {
	if m.preferred == "" || m.preferred == "auto" {
		if avail := m.availableLocked(); len(avail) > 0 {
			m.active = avail[0].Name()
			return
		}
		m.active = ""
		m.log.Warn().Msg("no icon sets available")
		return
	}
	if s, ok := m.sets[m.preferred]; ok && s.Available() {
		m.active = m.preferred
		return
	}
	// Registration happens one set at a time, so only warn about a
	// preferred set once it is registered and still unusable.
	if _, ok := m.sets[m.preferred]; ok {
		m.log.Warn().Str("set", m.preferred).Msg("preferred icon set not available, using minimal")
	}
	if s, ok := m.sets["minimal"]; ok && s.Available() {
		m.active = "minimal"
	}
}

func (m *Manager) availableLocked() []Set {
	var out []Set
	for _, s := range m.sets {
		if s.Available() {
			out = append(out, s)
		}
	}
	byPriority(out)
	return out
}

func (m *Manager) purge() {
	if m.cache != nil {
		m.cache.Clear()
	}
}

// Active returns the active set name, "" when none.
func (m *Manager) Active() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// SetActive switches the active set.
func (m *Manager) SetActive(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sets[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownIconSet, name)
	}
	if !s.Available() {
		return fmt.Errorf("%w: %s", ErrUnavailable, name)
	}
	m.active, m.preferred = name, name
	m.purge()
	m.log.Info().Str("set", name).Msg("switched icon set")
	return nil
}

// Get returns a registered set.
func (m *Manager) Get(name string) (Set, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sets[name]
	return s, ok
}

// ClearCache drops memoized resolutions.
func (m *Manager) ClearCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purge()
	for _, s := range m.sets {
		if c, ok := s.(interface{ ClearCache() }); ok {
			c.ClearCache()
		}
	}
}

// Icon resolves name through the active set and, when fallback is set,
// the other available sets by priority and finally the minimal question
// glyph. Existing absolute file paths and glyphs pass through. It returns
// "" only when nothing at all matched.
func (m *Manager) Icon(name string, fallback bool) string {
	return m.resolve(name, fallback).Value
}

// Resolve is Icon with fallback, returning the full resolution record.
func (m *Manager) Resolve(name string) Info {
	return m.resolve(name, true)
}

// Lookup is Resolve with the fallback chain under the caller's control.
func (m *Manager) Lookup(name string, fallback bool) Info {
	return m.resolve(name, fallback)
}

func (m *Manager) resolve(name string, fallback bool) Info {
	start := time.Now()
	key := cacheKey{name, fallback}

	m.mu.Lock()
	if m.cache != nil {
		if v, ok := m.cache.Get(key); ok {
			m.mu.Unlock()
			info := v.(Info)
			info.Cached = true
			info.Duration = time.Since(start)
			return info
		}
	}
	active := m.active
	var chain []Set
	if s, ok := m.sets[active]; ok {
		chain = append(chain, s)
	}
	if fallback {
		for _, s := range m.availableLocked() {
			if s.Name() != active {
				chain = append(chain, s)
			}
		}
	}
	minimal, hasMinimal := m.sets["minimal"]
	m.mu.Unlock()

	info := Info{Name: name, Kind: KindNotFound}
	switch {
	case filepath.IsAbs(name) && fileExists(name):
		info.Value, info.Kind = name, KindFilePath
	case IsGlyph(name):
		info.Value, info.Kind = name, KindUnicode
	default:
		m.walk(&info, chain, active)
		if info.Value == "" && fallback && hasMinimal {
			info.Value, _ = minimal.Icon("question")
			info.Kind, info.Set, info.Fallback = KindFallback, "minimal", true
		}
	}
	info.Duration = time.Since(start)

	m.mu.Lock()
	if m.cache != nil {
		m.cache.Add(key, info)
	}
	verbose := m.verbose
	m.mu.Unlock()

	ev := m.log.Debug()
	if verbose {
		ev = m.log.Info()
	}
	ev.Str("icon", name).Str("value", info.Value).Str("set", info.Set).
		Str("kind", string(info.Kind)).Bool("fallback", info.Fallback).
		Dur("took", info.Duration).Msg("icon resolved")
	return info
}

func (m *Manager) walk(info *Info, chain []Set, active string) {
	for _, s := range chain {
		info.Attempted = append(info.Attempted, s.Name())
		v, ok := s.Icon(info.Name)
		if !ok || v == "" {
			continue
		}
		info.Value = v
		info.Set = s.Name()
		info.Fallback = s.Name() != active
		switch set := s.(type) {
		case *System:
			info.Kind, info.Theme, info.Size = KindSystemTheme, set.Theme(), set.Size()
		case *Material, *MaterialComplete:
			info.Kind = KindMaterial
		case *Minimal:
			info.Kind = KindMinimal
			if !set.Known(info.Name) {
				info.Kind = KindFallback
			}
		default:
			info.Kind = KindFilePath
			if IsGlyph(v) {
				info.Kind = KindUnicode
			}
		}
		return
	}
}

// ListAvailable returns available set names, highest priority first.
func (m *Manager) ListAvailable() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, s := range m.availableLocked() {
		out = append(out, s.Name())
	}
	return out
}

// ListAll returns every registered set name, highest priority first.
func (m *Manager) ListAll() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]Set, 0, len(m.sets))
	for _, s := range m.sets {
		all = append(all, s)
	}
	byPriority(all)
	out := make([]string, len(all))
	for i, s := range all {
		out[i] = s.Name()
	}
	return out
}

// SetInfo describes a registered set.
func (m *Manager) SetInfo(name string) (SetInfo, error) {
	m.mu.Lock()
	s, ok := m.sets[name]
	active := m.active
	m.mu.Unlock()
	if !ok {
		return SetInfo{}, fmt.Errorf("%w: %s", ErrUnknownIconSet, name)
	}
	return SetInfo{
		Name:      s.Name(),
		Priority:  s.Priority(),
		Available: s.Available(),
		IconCount: len(s.List()),
		Active:    s.Name() == active,
	}, nil
}

// Infos describes every registered set, highest priority first.
func (m *Manager) Infos() []SetInfo {
	var out []SetInfo
	for _, name := range m.ListAll() {
		if info, err := m.SetInfo(name); err == nil {
			out = append(out, info)
		}
	}
	return out
}

// Preview resolves up to limit names of one set.
func (m *Manager) Preview(name string, limit int) (map[string]string, error) {
	s, ok := m.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownIconSet, name)
	}
	return Preview(s, limit), nil
}

// IsGlyph reports whether s looks like an emoji or symbol rather than an
// icon name: short and not plain ASCII.
func IsGlyph(s string) bool {
	if s == "" || utf8.RuneCountInString(s) > 4 {
		return false
	}
	for _, r := range s {
		if r >= utf8.RuneSelf {
			return true
		}
	}
	return false
}

func fileExists(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}
