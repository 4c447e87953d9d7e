package commands

import (
	"github.com/spf13/cobra"

	"desknotify/internal/config"
	"desknotify/internal/logging"
	"desknotify/internal/notify"
	"desknotify/internal/output"
	"desknotify/internal/relay"
)

// Flags shared by every command.
var (
	configFile  string
	debug       bool
	jsonFlag    bool
	backendFlag string
	iconSetFlag string
)

// BindGlobalFlags registers the persistent flags on root.
func BindGlobalFlags(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Extra config file, merged last")
	pf.BoolVar(&debug, "debug", false, "Enable debug logging")
	pf.BoolVar(&jsonFlag, "json", false, "Output in JSON format")
	pf.StringVarP(&backendFlag, "backend", "b", "", "Force a backend (e.g. dunst, console)")
	pf.StringVar(&iconSetFlag, "icon-set", "", "Force an icon set (e.g. system, material, minimal)")

	_ = root.RegisterFlagCompletionFunc("backend", completeBackendNames)
	_ = root.RegisterFlagCompletionFunc("icon-set", completeIconSetNames)

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		output.JSONMode = jsonFlag
		if debug {
			logging.SetLevel("DEBUG")
		}
	}
}

// loadConfig reads the default files, the environment and --config.
func loadConfig() (*config.Manager, config.Settings, error) {
	cfg := config.New()
	if configFile != "" {
		cfg.AddPath(configFile)
	}
	if err := cfg.Load(); err != nil {
		return nil, config.Settings{}, err
	}
	s, err := cfg.Settings()
	if err != nil {
		return nil, config.Settings{}, err
	}

	level := s.LogLevel
	if debug {
		level = "DEBUG"
	}
	logging.SetLevel(level)
	return cfg, s, nil
}

// mustLoadConfig is loadConfig that exits on failure.
func mustLoadConfig() (*config.Manager, config.Settings) {
	cfg, s, err := loadConfig()
	if err != nil {
		output.PrintError(err)
	}
	return cfg, s
}

// newManager builds the notification manager with every backend, honoring
// --backend and --icon-set. withRelay adds the relay client backend; a relay
// server must not, or it could forward to itself.
func newManager(s config.Settings, withRelay bool) *notify.Manager {
	m := notify.NewManager(s, managerOptions(s, withRelay)...)
	notify.SetDefault(m)
	return m
}

func managerOptions(s config.Settings, withRelay bool) []notify.Option {
	reg := notify.DefaultRegistry(s)
	if withRelay {
		relay.Register(reg, s.Backends.Relay)
	}
	opts := []notify.Option{notify.WithRegistry(reg)}
	if backendFlag != "" {
		opts = append(opts, notify.WithBackend(backendFlag))
	}
	if iconSetFlag != "" {
		opts = append(opts, notify.WithIconSet(iconSetFlag))
	}
	return opts
}

func loadManager() *notify.Manager {
	_, s := mustLoadConfig()
	return newManager(s, true)
}

func completeBackendNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	s := config.DefaultSettings()
	reg := notify.DefaultRegistry(s)
	relay.Register(reg, s.Backends.Relay)
	return reg.ListAll(), cobra.ShellCompDirectiveNoFileComp
}

func completeIconSetNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"auto", "system", "material", "material-complete", "minimal"}, cobra.ShellCompDirectiveNoFileComp
}
