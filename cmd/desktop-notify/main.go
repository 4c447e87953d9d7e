package main

import (
	"os"

	"github.com/spf13/cobra"

	"desknotify/internal/commands"
)

var rootCmd = &cobra.Command{
	Use:   "desktop-notify TITLE [MESSAGE]",
	Short: "Send desktop notifications",
	Long: `Send a desktop notification through dunst, D-Bus, the platform notifier,
a webhook, a remote relay or the console, with friendly icon names.

Examples:
  desktop-notify "Build finished" "All tests passed" -i success
  desktop-notify "Deploy?" "Push to production" -a "yes:Deploy,no:Cancel" -t 0
  desktop-notify --check`,
	Args:          cobra.RangeArgs(0, 2),
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		if check, _ := cmd.Flags().GetBool("check"); check {
			commands.RunCheck()
			return
		}
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(1)
		}

		o := commands.SendOptions{Title: args[0]}
		if len(args) > 1 {
			o.Message = args[1]
		}
		o.Icon, _ = cmd.Flags().GetString("icon")
		o.Urgency, _ = cmd.Flags().GetString("urgency")
		o.Actions, _ = cmd.Flags().GetString("actions")
		o.ID, _ = cmd.Flags().GetString("notification-id")
		o.Sound, _ = cmd.Flags().GetBool("sound")
		if cmd.Flags().Changed("timeout") {
			ms, _ := cmd.Flags().GetInt("timeout")
			o.Timeout = &ms
		}
		commands.RunSend(o)
	},
}

func init() {
	commands.BindGlobalFlags(rootCmd)

	f := rootCmd.Flags()
	f.StringP("icon", "i", "info", "Icon name or emoji")
	f.StringP("urgency", "u", "", "Urgency level: low, normal or critical (default: config urgency)")
	f.IntP("timeout", "t", 0, "Timeout in milliseconds, 0 to keep until dismissed (default: config timeout)")
	f.StringP("actions", "a", "", `Interactive actions as "key1:Label1,key2:Label2"`)
	f.StringP("notification-id", "n", "", "Notification ID for updates/replacements")
	f.Bool("sound", false, "Request a notification sound")
	f.Bool("check", false, "Check if the notification system is available")

	_ = rootCmd.RegisterFlagCompletionFunc("urgency", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"low", "normal", "critical"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.Version = commands.Version
	rootCmd.SetVersionTemplate(commands.VersionString() + "\n")

	rootCmd.AddCommand(commands.BackendsCmd)
	rootCmd.AddCommand(commands.IconsCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.RelayCmd)
	rootCmd.AddCommand(commands.MCPCmd)
	rootCmd.AddCommand(commands.VersionCmd)
	rootCmd.AddCommand(commands.CompletionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
