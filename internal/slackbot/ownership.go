package slackbot

import (
	"log/slog"

	"github.com/slack-go/slack"
)

// isBotThread reports whether the thread rooted at rootTS was started by
// the bot. It fetches only the root message; any lookup failure counts as
// not ours, so a degraded API never makes the bot answer foreign threads.
func (b *Bot) isBotThread(channel, rootTS string) bool {
	identity, err := b.identity.Resolve()
	if err != nil {
		slog.Warn("Thread ownership check skipped, identity unavailable", "error", err)
		return false
	}

	msgs, _, _, err := b.client.GetConversationReplies(&slack.GetConversationRepliesParameters{
		ChannelID: channel,
		Timestamp: rootTS,
		Limit:     1,
	})
	if err != nil {
		slog.Warn("Thread ownership lookup failed", "channel", channel, "thread", rootTS, "error", err)
		return false
	}
	if len(msgs) == 0 {
		return false
	}

	root := msgs[0]
	if identity.UserID != "" && root.User == identity.UserID {
		return true
	}
	return identity.BotID != "" && root.BotID == identity.BotID
}
