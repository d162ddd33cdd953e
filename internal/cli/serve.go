package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/slackclaw/slackclaw/internal/agent"
	"github.com/slackclaw/slackclaw/internal/config"
	"github.com/slackclaw/slackclaw/internal/provider"
	"github.com/slackclaw/slackclaw/internal/session"
	"github.com/slackclaw/slackclaw/internal/slackbot"
	"github.com/slackclaw/slackclaw/internal/transcript"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to Slack and serve agent invocations",
	Run:   runServe,
}

var serveSignalNotify = signal.Notify

func runServe(cmd *cobra.Command, args []string) {
	printHeader("🤖 SlackClaw Serve")

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Config error: %v\n", err)
		os.Exit(1)
	}

	bot, cleanup, err := buildRuntime(cfg)
	if err != nil {
		fmt.Printf("Startup error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	serveSignalNotify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	fmt.Printf("🤖 SlackClaw (%s) listening for %s\n", cfg.Agent.Model, cfg.Slack.Command)

	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Printf("Bot error: %v\n", err)
		os.Exit(1)
	}
}

// buildRuntime assembles the serving stack from configuration: session
// store, provider, optional transcript, invoker and bot. The returned
// cleanup closes whatever was opened.
func buildRuntime(cfg *config.Config) (*slackbot.Bot, func(), error) {
	if cfg.Slack.BotToken == "" || cfg.Slack.AppToken == "" {
		return nil, nil, fmt.Errorf("SLACK_BOT_TOKEN and SLACK_APP_TOKEN are required")
	}

	if err := config.EnsureDir(cfg.Paths.SessionsDir); err != nil {
		return nil, nil, fmt.Errorf("create sessions dir: %w", err)
	}
	sessions := session.NewManager(cfg.Paths.SessionsDir)

	prov := provider.NewOpenAIProvider(
		cfg.Providers.OpenAI.APIKey,
		cfg.Providers.OpenAI.APIBase,
		cfg.Agent.Model,
	)

	cleanup := func() {}
	var store *transcript.Store
	if cfg.Transcript.Enabled {
		if err := config.EnsureDir(filepath.Dir(cfg.Transcript.Path)); err != nil {
			return nil, nil, fmt.Errorf("create transcript dir: %w", err)
		}
		s, err := transcript.NewStore(cfg.Transcript.Path)
		if err != nil {
			fmt.Printf("Transcript warning: %v (continuing without transcript)\n", err)
		} else {
			store = s
			cleanup = func() { s.Close() }
		}
	}

	invoker := agent.NewInvoker(agent.InvokerOptions{
		Provider:     prov,
		Sessions:     sessions,
		Transcript:   store,
		Model:        cfg.Agent.Model,
		MaxTokens:    cfg.Agent.MaxTokens,
		Temperature:  cfg.Agent.Temperature,
		SystemPrompt: cfg.Agent.SystemPrompt,
		Timeout:      cfg.Agent.Timeout,
	})

	bot, err := slackbot.NewBot(slackbot.Options{
		BotToken: cfg.Slack.BotToken,
		AppToken: cfg.Slack.AppToken,
		Command:  cfg.Slack.Command,
		Invoker:  invoker,
		Debug:    cfg.Slack.Debug,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return bot, cleanup, nil
}
