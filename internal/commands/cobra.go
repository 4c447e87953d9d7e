package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show desktop-notify version",
	Run: func(cmd *cobra.Command, args []string) {
		RunVersion()
	},
}

// BackendsCmd is the parent command for backend inspection.
var BackendsCmd = &cobra.Command{
	Use:     "backends",
	Aliases: []string{"backend"},
	Short:   "Inspect notification backends",
	Long:    "List, describe and test the backends that can deliver notifications",
}

var backendsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backends",
	Long:  "List every backend with its priority and availability; * marks the one in use",
	Run: func(cmd *cobra.Command, args []string) {
		RunBackendsList()
	},
}

var backendsInfoCmd = &cobra.Command{
	Use:               "info [name]",
	Short:             "Show backend details",
	Long:              "Show features, urgency levels and settings of a backend (the current one by default)",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeBackendNames,
	Run: func(cmd *cobra.Command, args []string) {
		RunBackendsInfo(firstArg(args))
	},
}

var backendsTestCmd = &cobra.Command{
	Use:               "test [name]",
	Short:             "Send a test notification",
	Long:              "Send a test notification through one backend, or through every available backend",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeBackendNames,
	Run: func(cmd *cobra.Command, args []string) {
		RunBackendsTest(firstArg(args))
	},
}

// IconsCmd is the parent command for icon sets.
var IconsCmd = &cobra.Command{
	Use:     "icons",
	Aliases: []string{"icon"},
	Short:   "Browse and resolve icons",
	Long:    "List icon sets, resolve icon names and install the bundled Material icons",
}

var iconsSetsCmd = &cobra.Command{
	Use:   "sets",
	Short: "List icon sets",
	Run: func(cmd *cobra.Command, args []string) {
		RunIconsSets()
	},
}

var iconsListCmd = &cobra.Command{
	Use:               "list [set]",
	Short:             "List icons of a set",
	Long:              "List every icon of a set (the active one by default) with its resolved value",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeIconSetNames,
	Run: func(cmd *cobra.Command, args []string) {
		RunIconsList(firstArg(args))
	},
}

var iconsPreviewCmd = &cobra.Command{
	Use:               "preview <set>",
	Short:             "Preview a few icons of a set",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeIconSetNames,
	Run: func(cmd *cobra.Command, args []string) {
		RunIconsPreview(args[0])
	},
}

var iconsResolveCmd = &cobra.Command{
	Use:   "resolve <name>...",
	Short: "Resolve icon names",
	Long:  "Show what each icon name resolves to through the active set and its fallbacks",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		RunIconsResolve(args)
	},
}

var iconsInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the bundled Material icons",
	Long:  "Copy the bundled Material Design SVGs into the material icon directory",
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("dir")
		force, _ := cmd.Flags().GetBool("force")
		RunIconsInstall(dir, force)
	},
}

var iconsBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse icons interactively",
	Long:  "Browse icon sets in a terminal UI; enter sends a test notification with the selected icon",
	Run: func(cmd *cobra.Command, args []string) {
		RunIconsBrowse()
	},
}

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"c"},
	Short:   "Inspect configuration",
	Long:    "Show the merged configuration from files, environment and defaults",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the merged configuration",
	Run: func(cmd *cobra.Command, args []string) {
		RunConfigShow()
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long:  "Get a configuration value by dot-notation key (e.g. backends.dunst.max_timeout)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		RunConfigGet(args[0])
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "List config file locations",
	Run: func(cmd *cobra.Command, args []string) {
		RunConfigPath()
	},
}

var configSourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Show where each value comes from",
	Run: func(cmd *cobra.Command, args []string) {
		RunConfigSources()
	},
}

// RelayCmd groups the relay server.
var RelayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Forward notifications between machines",
	Long:  "Run a relay server that shows notifications sent by remote desktop-notify clients",
}

var relayServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the relay server",
	Long:  "Accept notifications on /ws and /notify and show them with the local backend",
	Run: func(cmd *cobra.Command, args []string) {
		addr, _ := cmd.Flags().GetString("addr")
		tokens, _ := cmd.Flags().GetStringSlice("token")
		RunRelayServe(addr, tokens)
	},
}

// MCPCmd serves the MCP tools over stdio.
var MCPCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server on stdio",
	Long:  "Expose send_notification, resolve_icon, list_icon_sets and list_backends as MCP tools",
	Run: func(cmd *cobra.Command, args []string) {
		RunMCP()
	},
}

// CompletionCmd generates shell completion scripts
var CompletionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for the specified shell.

Usage examples:
  # Bash
  source <(desktop-notify completion bash)

  # Zsh
  source <(desktop-notify completion zsh)

  # Fish
  desktop-notify completion fish | source

  # PowerShell
  desktop-notify completion powershell | Out-String | Invoke-Expression`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletionV2(os.Stdout, true)
		case "zsh":
			return cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return fmt.Errorf("unsupported shell: %s", args[0])
	},
}

func init() {
	BackendsCmd.AddCommand(backendsListCmd, backendsInfoCmd, backendsTestCmd)

	iconsInstallCmd.Flags().String("dir", "", "Target directory (default: icons.material_dir)")
	iconsInstallCmd.Flags().Bool("force", false, "Overwrite existing files")
	IconsCmd.AddCommand(iconsSetsCmd, iconsListCmd, iconsPreviewCmd, iconsResolveCmd, iconsInstallCmd, iconsBrowseCmd)

	ConfigCmd.AddCommand(configShowCmd, configGetCmd, configPathCmd, configSourcesCmd)

	relayServeCmd.Flags().String("addr", "", "Listen address (default: relay.addr)")
	relayServeCmd.Flags().StringSlice("token", nil, "Accepted bearer token (repeatable; default: relay.tokens)")
	RelayCmd.AddCommand(relayServeCmd)
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
