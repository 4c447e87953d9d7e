package config

import (
	"os"
	"path/filepath"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "DESKTOP_NOTIFY_"

// DefaultSchema returns the schema of the desktop-notify configuration.
func DefaultSchema() *Schema {
	icons := NewSchema().
		Add("icon_set", Field{Type: String, Default: "auto"}).
		Add("system_theme", Field{Type: String, Default: ""}).
		Add("system_size", Field{Type: Int, Default: 48, NonNegative: true}).
		Add("system_prefer_scalable", Field{Type: Bool, Default: false}).
		Add("system_mode", Field{Type: String, Default: "auto", OneOf: []string{"auto", "explicit", "hybrid"}}).
		Add("system_mapping_file", Field{Type: String, Default: ""}).
		Add("material_dir", Field{Type: String, Default: ""}).
		Add("fallback_enabled", Field{Type: Bool, Default: true}).
		Add("cache_size", Field{Type: Int, Default: 256, NonNegative: true})

	dunst := NewSchema().
		Add("command", Field{Type: String, Default: "dunstify"}).
		Add("supports_markup", Field{Type: Bool, Default: true}).
		Add("max_timeout", Field{Type: Int, Default: 60000, NonNegative: true})

	console := NewSchema().
		Add("use_colors", Field{Type: Bool, Default: true}).
		Add("timestamp", Field{Type: Bool, Default: true})

	dbus := NewSchema().
		Add("app_name", Field{Type: String, Default: "desktop-notify"})

	webhook := NewSchema().
		Add("url", Field{Type: String, Default: ""}).
		Add("format", Field{Type: String, Default: "slack",
			OneOf: []string{"slack", "feishu", "dingtalk", "telegram", "custom"}}).
		Add("template", Field{Type: String, Default: ""}).
		Add("chat_id", Field{Type: String, Default: ""})

	relayClient := NewSchema().
		Add("url", Field{Type: String, Default: ""}).
		Add("token", Field{Type: String, Default: ""})

	backends := NewSchema().
		Section("dunst", dunst).
		Section("console", console).
		Section("dbus", dbus).
		Section("webhook", webhook).
		Section("relay", relayClient)

	relay := NewSchema().
		Add("addr", Field{Type: String, Default: "127.0.0.1:8750"}).
		Add("tokens", Field{Type: List, Default: []any{}}).
		Add("rate", Field{Type: Float, Default: 5.0, NonNegative: true})

	actions := NewSchema().
		Add("hook", Field{Type: String, Default: ""})

	return NewSchema().
		Add("backend", Field{Type: String, Default: "auto"}).
		Add("timeout", Field{Type: Int, Default: 3000, NonNegative: true}).
		Add("urgency", Field{Type: String, Default: "normal", OneOf: []string{"low", "normal", "critical"}}).
		Add("enable_sound", Field{Type: Bool, Default: true}).
		Add("log_level", Field{Type: String, Default: "INFO"}).
		Add("log_icon_resolution", Field{Type: Bool, Default: false}).
		Section("icons", icons).
		Section("backends", backends).
		Section("relay", relay).
		Section("actions", actions)
}

// DefaultPaths lists the config files searched by default, lowest priority
// first.
func DefaultPaths() []string {
	return []string{
		"/etc/desktop-notify/config.toml",
		filepath.Join(ConfigDir(), "config.toml"),
		"desktop-notify.toml",
	}
}

// ConfigDir is $XDG_CONFIG_HOME/desktop-notify (~/.config/desktop-notify).
func ConfigDir() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "desktop-notify")
}

// DataDir is $XDG_DATA_HOME/desktop-notify (~/.local/share/desktop-notify).
func DataDir() string {
	return filepath.Join(xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")), "desktop-notify")
}

func xdgDir(env, fallback string) string {
	if d := os.Getenv(env); d != "" {
		return d
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return fallback
	}
	return filepath.Join(home, fallback)
}
