package config

import "path/filepath"

// Settings is a typed snapshot of the configuration tree.
type Settings struct {
	Backend           string          `koanf:"backend" json:"backend"`
	Timeout           int             `koanf:"timeout" json:"timeout"`
	Urgency           string          `koanf:"urgency" json:"urgency"`
	EnableSound       bool            `koanf:"enable_sound" json:"enable_sound"`
	LogLevel          string          `koanf:"log_level" json:"log_level"`
	LogIconResolution bool            `koanf:"log_icon_resolution" json:"log_icon_resolution"`
	Icons             IconSettings    `koanf:"icons" json:"icons"`
	Backends          BackendSettings `koanf:"backends" json:"backends"`
	Relay             RelaySettings   `koanf:"relay" json:"relay"`
	Actions           ActionSettings  `koanf:"actions" json:"actions"`
}

type IconSettings struct {
	IconSet              string `koanf:"icon_set" json:"icon_set"`
	SystemTheme          string `koanf:"system_theme" json:"system_theme"`
	SystemSize           int    `koanf:"system_size" json:"system_size"`
	SystemPreferScalable bool   `koanf:"system_prefer_scalable" json:"system_prefer_scalable"`
	SystemMode           string `koanf:"system_mode" json:"system_mode"`
	SystemMappingFile    string `koanf:"system_mapping_file" json:"system_mapping_file"`
	MaterialDir          string `koanf:"material_dir" json:"material_dir"`
	FallbackEnabled      bool   `koanf:"fallback_enabled" json:"fallback_enabled"`
	CacheSize            int    `koanf:"cache_size" json:"cache_size"`
}

// MaterialPath is MaterialDir, or the bundled-icon install location when it
// is empty.
func (s IconSettings) MaterialPath() string {
	if s.MaterialDir != "" {
		return s.MaterialDir
	}
	return filepath.Join(DataDir(), "icons", "material")
}

type BackendSettings struct {
	Dunst   DunstSettings   `koanf:"dunst" json:"dunst"`
	Console ConsoleSettings `koanf:"console" json:"console"`
	DBus    DBusSettings    `koanf:"dbus" json:"dbus"`
	Webhook WebhookSettings `koanf:"webhook" json:"webhook"`
	Relay   RelayClient     `koanf:"relay" json:"relay"`
}

type DunstSettings struct {
	Command        string `koanf:"command" json:"command"`
	SupportsMarkup bool   `koanf:"supports_markup" json:"supports_markup"`
	MaxTimeout     int    `koanf:"max_timeout" json:"max_timeout"`
}

type ConsoleSettings struct {
	UseColors bool `koanf:"use_colors" json:"use_colors"`
	Timestamp bool `koanf:"timestamp" json:"timestamp"`
}

type DBusSettings struct {
	AppName string `koanf:"app_name" json:"app_name"`
}

type WebhookSettings struct {
	URL      string `koanf:"url" json:"url"`
	Format   string `koanf:"format" json:"format"`
	Template string `koanf:"template" json:"template,omitempty"`
	ChatID   string `koanf:"chat_id" json:"chat_id,omitempty"`
}

type RelayClient struct {
	URL   string `koanf:"url" json:"url"`
	Token string `koanf:"token" json:"-"`
}

type RelaySettings struct {
	Addr   string   `koanf:"addr" json:"addr"`
	Tokens []string `koanf:"tokens" json:"-"`
	Rate   float64  `koanf:"rate" json:"rate"`
}

type ActionSettings struct {
	Hook string `koanf:"hook" json:"hook"`
}

// DefaultSettings decodes DefaultSchema's defaults.
func DefaultSettings() Settings {
	m := New(WithPaths(), WithEnvPrefix(""))
	if err := m.Load(); err != nil {
		return Settings{}
	}
	s, _ := m.Settings()
	return s
}
