// Package config merges desktop-notify settings from schema defaults, TOML or
// YAML files, DESKTOP_NOTIFY_* environment variables and runtime overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"desknotify/internal/logging"
)

// Well-known value sources reported by Source. Files report their path.
const (
	SourceDefault = "schema_default"
	SourceEnv     = "environment"
	SourceRuntime = "runtime"
)

// Manager holds the merged configuration tree.
type Manager struct {
	mu sync.RWMutex

	paths     []string
	envPrefix string
	schema    *Schema
	log       *zerolog.Logger

	k       *koanf.Koanf
	loaded  *koanf.Koanf // files and environment, before defaults
	runtime map[string]any
	sources map[string]string
	files   []string // files that were actually read
}

// Option customizes a Manager.
type Option func(*Manager)

// WithPaths replaces the default search paths.
func WithPaths(paths ...string) Option {
	return func(m *Manager) { m.paths = append([]string(nil), paths...) }
}

// WithEnvPrefix changes the environment prefix. An empty prefix disables
// environment overrides.
func WithEnvPrefix(prefix string) Option {
	return func(m *Manager) { m.envPrefix = prefix }
}

// WithSchema replaces DefaultSchema.
func WithSchema(s *Schema) Option {
	return func(m *Manager) { m.schema = s }
}

// New returns an unloaded Manager. Call Load before reading values.
func New(opts ...Option) *Manager {
	m := &Manager{
		paths:     DefaultPaths(),
		envPrefix: EnvPrefix,
		schema:    DefaultSchema(),
		log:       logging.For("config"),
		k:         koanf.New("."),
		loaded:    koanf.New("."),
		runtime:   map[string]any{},
		sources:   map[string]string{},
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Load is New followed by Load, the usual entry point for commands.
func Load(opts ...Option) (*Manager, error) {
	m := New(opts...)
	if err := m.Load(); err != nil {
		return nil, err
	}
	return m, nil
}

// AddPath appends a file to the search list. It takes effect on the next
// Load or Reload.
func (m *Manager) AddPath(path string) {
	m.mu.Lock()
	m.paths = append(m.paths, path)
	m.mu.Unlock()
}

// Paths returns the search list in merge order.
func (m *Manager) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.paths...)
}

// LoadedFiles returns the files that contributed to the current tree.
func (m *Manager) LoadedFiles() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.files...)
}

// Load reads every file and the environment and rebuilds the tree. Broken
// files are skipped with a warning; only a validation failure is an error.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	loaded := koanf.New(".")
	sources := map[string]string{}
	var files []string

	for _, path := range m.paths {
		layer, err := readFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			m.log.Debug().Str("path", path).Msg("config file not found")
			continue
		}
		if err != nil {
			m.log.Warn().Err(err).Str("path", path).Msg("skipping config file")
			continue
		}
		for _, key := range layer.Keys() {
			sources[key] = path
		}
		if err := loaded.Merge(layer); err != nil {
			m.log.Warn().Err(err).Str("path", path).Msg("skipping config file")
			continue
		}
		files = append(files, path)
		m.log.Debug().Str("path", path).Msg("loaded config file")
	}

	if m.envPrefix != "" {
		layer := koanf.New(".")
		if err := layer.Load(env.ProviderWithValue(m.envPrefix, ".", m.envKey), nil); err != nil {
			return fmt.Errorf("load environment: %w", err)
		}
		for _, key := range layer.Keys() {
			sources[key] = SourceEnv
		}
		if err := loaded.Merge(layer); err != nil {
			return fmt.Errorf("merge environment: %w", err)
		}
	}

	k, err := m.build(loaded, m.runtime)
	if err != nil {
		return err
	}
	for key := range m.runtime {
		sources[key] = SourceRuntime
	}
	m.k, m.loaded, m.sources, m.files = k, loaded, sources, files
	return nil
}

// Reload re-reads files and environment. Runtime overrides survive.
func (m *Manager) Reload() error {
	return m.Load()
}

// envKey maps DESKTOP_NOTIFY_ICONS__ICON_SET to icons.icon_set. Declared
// string and list fields take the raw value; everything else is coerced.
func (m *Manager) envKey(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, m.envPrefix))
	if key == "" {
		return "", nil
	}
	key = strings.ReplaceAll(key, "__", ".")
	if f, ok := m.schema.Lookup(key); ok {
		switch f.Type {
		case String:
			return key, value
		case List:
			return key, splitList(value)
		}
	}
	return key, CoerceEnv(value)
}

// build layers defaults, loaded values and runtime overrides and validates
// the result.
func (m *Manager) build(loaded *koanf.Koanf, runtime map[string]any) (*koanf.Koanf, error) {
	merged := koanf.New(".")
	if err := merged.Load(confmap.Provider(m.schema.Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}
	if err := merged.Merge(loaded); err != nil {
		return nil, fmt.Errorf("merge config: %w", err)
	}
	if len(runtime) > 0 {
		if err := merged.Load(confmap.Provider(runtime, "."), nil); err != nil {
			return nil, fmt.Errorf("apply overrides: %w", err)
		}
	}

	valid, err := m.schema.Validate(merged.Raw())
	if err != nil {
		return nil, err
	}
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(valid, "."), nil); err != nil {
		return nil, fmt.Errorf("load validated config: %w", err)
	}
	return k, nil
}

func readFile(path string) (*koanf.Koanf, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	k := koanf.New(".")
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var tree map[string]any
		if err := yaml.Unmarshal(b, &tree); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if err := k.Load(confmap.Provider(tree, "."), nil); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return k, nil
}

// Get returns the value at a dot-notation key, or nil.
func (m *Manager) Get(key string) any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.k.Get(key)
}

// String returns the string at key ("" when unset).
func (m *Manager) String(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.k.String(key)
}

// Int returns the int at key (0 when unset).
func (m *Manager) Int(key string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.k.Int(key)
}

// Bool returns the bool at key (false when unset).
func (m *Manager) Bool(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.k.Bool(key)
}

// Has reports whether key is set by any source.
func (m *Manager) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.k.Exists(key)
}

// Set overrides a dot-notation key for the lifetime of the Manager. The
// value is validated against the schema; on failure nothing changes.
func (m *Manager) Set(key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	runtime := make(map[string]any, len(m.runtime)+1)
	for k, v := range m.runtime {
		runtime[k] = v
	}
	runtime[key] = value

	k, err := m.build(m.loaded, runtime)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	m.k, m.runtime = k, runtime
	m.sources[key] = SourceRuntime
	return nil
}

// Source reports where the value at key came from: a file path,
// "environment", "schema_default" or "runtime". Unknown keys return "".
func (m *Manager) Source(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sources[key]; ok {
		return s
	}
	if _, ok := m.schema.Defaults()[key]; ok {
		return SourceDefault
	}
	return ""
}

// Sources returns the source of every leaf key.
func (m *Manager) Sources() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := map[string]string{}
	for _, key := range m.k.Keys() {
		if s, ok := m.sources[key]; ok {
			out[key] = s
		} else {
			out[key] = SourceDefault
		}
	}
	return out
}

// All returns a copy of the whole nested tree.
func (m *Manager) All() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.k.Raw()
}

// Keys returns every leaf key in dot notation.
func (m *Manager) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.k.Keys()
}

// Settings decodes the tree into a typed snapshot.
func (m *Manager) Settings() (Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var s Settings
	if err := m.k.Unmarshal("", &s); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}
