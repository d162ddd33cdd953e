package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/slackclaw/slackclaw/internal/config"
	"github.com/slackclaw/slackclaw/internal/transcript"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("🏷️ SlackClaw Version")
		fmt.Printf("Version: %s\n", version)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader("📊 SlackClaw Status")
		fmt.Printf("Version: %s\n", version)

		// Check config
		home, _ := os.UserHomeDir()
		configPath := filepath.Join(home, ".slackclaw", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			fmt.Println("Config:  ✓ Found (" + configPath + ")")
		} else {
			fmt.Println("Config:  ✗ Not found (using defaults)")
		}

		var cfg *config.Config
		if c, err := config.Load(); err == nil {
			cfg = c
			if cfg.Slack.BotToken != "" {
				fmt.Println("Slack Bot Token: ✓ Found")
			} else {
				fmt.Println("Slack Bot Token: ✗ Not found (set SLACK_BOT_TOKEN)")
			}
			if cfg.Slack.AppToken != "" {
				fmt.Println("Slack App Token: ✓ Found")
			} else {
				fmt.Println("Slack App Token: ✗ Not found (set SLACK_APP_TOKEN)")
			}
			if cfg.Providers.OpenAI.APIKey != "" {
				fmt.Println("API Key: ✓ Found")
			} else {
				fmt.Println("API Key: ✗ Not found")
			}
			fmt.Printf("Command: %s\n", cfg.Slack.Command)
			fmt.Printf("Model:   %s\n", cfg.Agent.Model)
		} else {
			fmt.Println("Config:  ? Unable to load config")
		}

		if cfg != nil && cfg.Transcript.Enabled {
			if store, err := transcript.NewStore(cfg.Transcript.Path); err == nil {
				if stats, err := store.GetStats(); err == nil {
					fmt.Printf("Transcript: %d invocations in last 24h, %d tokens total\n",
						stats.Last24h, stats.TotalTokens)
					for status, n := range stats.ByStatus {
						fmt.Printf("  %s: %d\n", status, n)
					}
				}
				store.Close()
			} else {
				fmt.Println("Transcript: ? Unable to open " + cfg.Transcript.Path)
			}
		}

		fmt.Println("Status:  Ready")
	},
}
