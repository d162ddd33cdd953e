package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// version can be overridden at build time via:
	// go build -ldflags "-X github.com/slackclaw/slackclaw/internal/cli.version=1.2.3"
	version = "0.3.0"
	logo    = "\n" +
		"  ____  _            _     ____ _\n" +
		" / ___|| | __ _  ___| | __/ ___| | __ ___      __\n" +
		" \\___ \\| |/ _` |/ __| |/ / |   | |/ _` \\ \\ /\\ / /\n" +
		"  ___) | | (_| | (__|   <| |___| | (_| |\\ V  V /\n" +
		" |____/|_|\\__,_|\\___|_|\\_\\\\____|_|\\__,_| \\_/\\_/\n"
)

var rootCmd = &cobra.Command{
	Use:   "slackclaw",
	Short: "SlackClaw - Slack agent bot",
	Long:  color.CyanString(logo) + "\nA Slack bot that relays prompts to an LLM agent, one conversation per thread.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
}
