package commands

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"desknotify/internal/config"
	"desknotify/internal/output"
	"desknotify/internal/ui"
)

// secretKeys are masked by `config show` and `config get`.
var secretKeys = map[string]bool{
	"relay.tokens":         true,
	"backends.relay.token": true,
	"backends.webhook.url": true,
}

func masked(key string, v any) any {
	if !secretKeys[key] {
		return v
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return t
		}
	case []any:
		if len(t) == 0 {
			return t
		}
	}
	return "********"
}

// maskTree masks secret leaves of a nested config tree in place.
func maskTree(prefix string, tree map[string]any) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			maskTree(key, sub)
			continue
		}
		tree[k] = masked(key, v)
	}
}

// RunConfigShow prints the merged configuration as YAML.
func RunConfigShow() {
	cfg, _ := mustLoadConfig()
	tree := cfg.All()
	maskTree("", tree)

	output.Print(tree, func() {
		data, err := yaml.Marshal(tree)
		if err != nil {
			ui.ShowError("Failed to encode config", err)
			os.Exit(1)
		}
		fmt.Print(string(data))
	})
}

// RunConfigGet prints one value and where it came from.
func RunConfigGet(key string) {
	cfg, _ := mustLoadConfig()
	if !cfg.Has(key) {
		output.PrintError(fmt.Errorf("unknown configuration key: %s", key))
		return
	}
	value := masked(key, cfg.Get(key))
	source := cfg.Source(key)

	output.Print(map[string]any{"key": key, "value": value, "source": source}, func() {
		fmt.Println(value)
		if debug {
			ui.ShowInfo("source: %s", source)
		}
	})
}

// RunConfigPath lists the search path in merge order and marks the files
// that were read.
func RunConfigPath() {
	cfg, _ := mustLoadConfig()
	loaded := map[string]bool{}
	for _, f := range cfg.LoadedFiles() {
		loaded[f] = true
	}
	paths := cfg.Paths()

	output.Print(map[string]any{"paths": paths, "loaded": cfg.LoadedFiles(), "config_dir": config.ConfigDir()}, func() {
		ui.ShowHeader("Config Files (lowest priority first)")
		for _, p := range paths {
			if loaded[p] {
				ui.ShowItem(true, "✓ %s", p)
			} else {
				ui.ShowItem(false, "  %s (not found)", p)
			}
		}
		fmt.Println()
		ui.ShowInfo("Environment overrides use the %s prefix", config.EnvPrefix)
	})
}

// RunConfigSources lists every key with the source of its value.
func RunConfigSources() {
	cfg, _ := mustLoadConfig()
	sources := cfg.Sources()
	keys := make([]string, 0, len(sources))
	for k := range sources {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	output.Print(sources, func() {
		for _, k := range keys {
			ui.ShowItem(sources[k] != config.SourceDefault, "%-40s %s", k, sources[k])
		}
	})
}
