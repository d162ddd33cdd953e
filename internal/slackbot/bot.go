// Package slackbot connects Slack to the agent invoker over Socket Mode.
// It listens for the bot's slash command and for replies inside threads
// the bot started, admitting at most one agent invocation per thread.
package slackbot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/slackclaw/slackclaw/internal/agent"
)

// AgentInvoker runs one agent invocation and returns the reply text.
// *agent.Invoker satisfies it.
type AgentInvoker interface {
	Invoke(ctx context.Context, req agent.Request) (string, error)
}

// Options configures the bot.
type Options struct {
	BotToken string
	AppToken string
	Command  string // slash command, e.g. "/agent"
	Invoker  AgentInvoker
	Registry *Registry
	Debug    bool
}

// Bot is the Slack front-end of the agent.
type Bot struct {
	client     SlackAPI
	socketMode *socketmode.Client
	identity   *identityResolver
	registry   *Registry
	invoker    AgentInvoker
	command    string

	ctxMu sync.RWMutex
	ctx   context.Context

	workers sync.WaitGroup
}

// NewBot creates a new bot. It validates credentials but does not connect.
func NewBot(opts Options) (*Bot, error) {
	if opts.BotToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if !strings.HasPrefix(opts.BotToken, "xoxb-") {
		return nil, fmt.Errorf("bot token must start with xoxb-")
	}
	if opts.AppToken == "" {
		return nil, fmt.Errorf("app token is required for Socket Mode")
	}
	if !strings.HasPrefix(opts.AppToken, "xapp-") {
		return nil, fmt.Errorf("app token must start with xapp-")
	}
	if opts.Invoker == nil {
		return nil, fmt.Errorf("agent invoker is required")
	}

	client := slack.New(
		opts.BotToken,
		slack.OptionDebug(opts.Debug),
		slack.OptionAppLevelToken(opts.AppToken),
	)
	socketClient := socketmode.New(
		client,
		socketmode.OptionDebug(opts.Debug),
	)

	registry := opts.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	command := opts.Command
	if command == "" {
		command = "/agent"
	}

	return &Bot{
		client:     client,
		socketMode: socketClient,
		identity:   newIdentityResolver(client),
		registry:   registry,
		invoker:    opts.Invoker,
		command:    command,
	}, nil
}

// newBotForTest creates a Bot with an injected fake client and no Socket
// Mode connection.
func newBotForTest(client SlackAPI, invoker AgentInvoker) *Bot {
	return &Bot{
		client:   client,
		identity: newIdentityResolver(client),
		registry: NewRegistry(),
		invoker:  invoker,
		command:  "/agent",
	}
}

// Run resolves the bot identity and serves Slack events until ctx is
// canceled. In-flight agent invocations are waited for on shutdown.
func (b *Bot) Run(ctx context.Context) error {
	identity, err := b.identity.Resolve()
	if err != nil {
		return fmt.Errorf("resolve bot identity: %w", err)
	}
	slog.Info("Slack bot identity resolved", "user_id", identity.UserID, "bot_id", identity.BotID)

	b.setCtx(ctx)
	defer b.workers.Wait()

	go b.consumeEvents(ctx, b.socketMode.Events)

	return b.socketMode.RunContext(ctx)
}

// consumeEvents dispatches Socket Mode events until ctx is canceled or
// the channel is closed.
func (b *Bot) consumeEvents(ctx context.Context, events chan socketmode.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			b.handleEvent(evt)
		}
	}
}

func (b *Bot) setCtx(ctx context.Context) {
	b.ctxMu.Lock()
	defer b.ctxMu.Unlock()
	b.ctx = ctx
}

func (b *Bot) runCtx() context.Context {
	b.ctxMu.RLock()
	defer b.ctxMu.RUnlock()
	if b.ctx != nil {
		return b.ctx
	}
	return context.Background()
}

// handleEvent dispatches one Socket Mode event. Requests are acked before
// any handler work so Slack doesn't retry.
func (b *Bot) handleEvent(evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		slog.Info("Connecting to Slack Socket Mode")

	case socketmode.EventTypeConnected:
		slog.Info("Connected to Slack Socket Mode")

	case socketmode.EventTypeConnectionError:
		slog.Error("Socket Mode connection error", "data", evt.Data)

	case socketmode.EventTypeEventsAPI:
		eventsAPIEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			return
		}
		b.socketMode.Ack(*evt.Request)
		b.handleEventsAPI(eventsAPIEvent)

	case socketmode.EventTypeSlashCommand:
		cmd, ok := evt.Data.(slack.SlashCommand)
		if !ok {
			return
		}
		b.socketMode.Ack(*evt.Request)
		b.handleSlashCommand(cmd)
	}
}

func (b *Bot) handleEventsAPI(event slackevents.EventsAPIEvent) {
	if event.Type != slackevents.CallbackEvent {
		return
	}
	switch ev := event.InnerEvent.Data.(type) {
	case *slackevents.MessageEvent:
		b.handleMessageEvent(ev)
	}
}
