package slackbot

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

const (
	placeholderText = "Thinking..."
	busyReaction    = "hourglass_flowing_sand"
	busyNotice      = "I'm still working on the previous message in this thread. Please wait for the reply before sending another."
)

// Decision is the outcome of classifying a thread reply.
type Decision int

const (
	// DecisionIgnore drops the event silently.
	DecisionIgnore Decision = iota
	// DecisionAdmit starts a new agent invocation for the thread.
	DecisionAdmit
	// DecisionBusy rejects the reply because the thread already has an
	// invocation in flight.
	DecisionBusy
)

// decideReply classifies a message event as a thread-reply trigger.
// ownsThread and busy are supplied by the caller so the decision logic
// stays a pure function over its inputs.
func decideReply(ev *slackevents.MessageEvent, identity Identity, ownsThread func(channel, rootTS string) bool, busy func(key string) bool) Decision {
	// Bot-authored messages, including our own placeholders and replies.
	if ev.BotID != "" || (identity.UserID != "" && ev.User == identity.UserID) {
		return DecisionIgnore
	}
	// Edits, deletions, joins and other non-user subtypes.
	if ev.SubType != "" {
		return DecisionIgnore
	}
	// Only replies inside a thread count; top-level messages have no
	// thread timestamp (or carry their own ts as the root).
	if ev.ThreadTimeStamp == "" || ev.ThreadTimeStamp == ev.TimeStamp {
		return DecisionIgnore
	}
	if strings.TrimSpace(ev.Text) == "" {
		return DecisionIgnore
	}
	if !ownsThread(ev.Channel, ev.ThreadTimeStamp) {
		return DecisionIgnore
	}
	if busy(ThreadKey(ev.Channel, ev.ThreadTimeStamp)) {
		return DecisionBusy
	}
	return DecisionAdmit
}

// handleSlashCommand handles the bot's slash command: echo the prompt to
// the channel (starting a new thread), post a placeholder in that thread,
// and kick off the agent invocation.
func (b *Bot) handleSlashCommand(cmd slack.SlashCommand) {
	if cmd.Command != b.command {
		b.postEphemeral(cmd.ChannelID, cmd.UserID, fmt.Sprintf("Unknown command: %s", cmd.Command))
		return
	}

	// An empty prompt is still admitted; the agent gets an empty message.
	prompt := strings.TrimSpace(cmd.Text)
	echo := "Working on the prompt... " + prompt
	rootTS, err := b.postWithRecovery(cmd.ChannelID, cmd.UserID, echo, "")
	if err != nil {
		// The recovery policy already notified the user.
		return
	}

	key := ThreadKey(cmd.ChannelID, rootTS)
	if !b.registry.TryAcquire(key) {
		// A freshly created thread cannot be busy; a collision here means
		// Slack reused a timestamp and the other invocation owns it.
		slog.Warn("Fresh thread key already held", "thread", key)
		return
	}

	if _, err := b.postWithRecovery(cmd.ChannelID, cmd.UserID, placeholderText, rootTS); err != nil {
		slog.Warn("Failed to post placeholder", "thread", key, "error", err)
	}

	b.startWorker(key, cmd.ChannelID, rootTS, cmd.UserID, prompt)
}

// handleMessageEvent handles follow-up replies inside threads the bot started.
func (b *Bot) handleMessageEvent(ev *slackevents.MessageEvent) {
	identity, err := b.identity.Resolve()
	if err != nil {
		slog.Warn("Dropping message event, identity unavailable", "error", err)
		return
	}

	decision := decideReply(ev, identity, b.isBotThread, b.registry.Contains)
	switch decision {
	case DecisionIgnore:
		return

	case DecisionBusy:
		b.rejectBusyReply(ev)
		return
	}

	key := ThreadKey(ev.Channel, ev.ThreadTimeStamp)
	if !b.registry.TryAcquire(key) {
		// Lost the race against a concurrent reply in the same thread.
		b.rejectBusyReply(ev)
		return
	}

	if _, err := b.postWithRecovery(ev.Channel, ev.User, placeholderText, ev.ThreadTimeStamp); err != nil {
		slog.Warn("Failed to post placeholder", "thread", key, "error", err)
	}

	b.startWorker(key, ev.Channel, ev.ThreadTimeStamp, ev.User, ev.Text)
}

// rejectBusyReply marks a colliding reply with a reaction and tells the
// author privately to wait.
func (b *Bot) rejectBusyReply(ev *slackevents.MessageEvent) {
	if err := b.client.AddReaction(busyReaction, slack.NewRefToMessage(ev.Channel, ev.TimeStamp)); err != nil {
		slog.Warn("Failed to add busy reaction", "channel", ev.Channel, "ts", ev.TimeStamp, "error", err)
	}
	b.postEphemeral(ev.Channel, ev.User, busyNotice)
}
