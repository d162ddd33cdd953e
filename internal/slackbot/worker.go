package slackbot

import (
	"log/slog"

	"github.com/slackclaw/slackclaw/internal/agent"
)

const failureNotice = "Sorry, something went wrong while working on this. Please try again."

// startWorker runs the agent invocation for an admitted trigger in its own
// goroutine. The thread key is released on every exit path, including
// panics, so a crashed invocation never wedges the thread.
func (b *Bot) startWorker(key, channel, rootTS, userID, prompt string) {
	b.workers.Add(1)
	go func() {
		defer b.workers.Done()
		defer b.registry.Release(key)

		reply, err := b.invoker.Invoke(b.runCtx(), agent.Request{
			SessionID: key,
			Channel:   channel,
			UserID:    userID,
			Prompt:    prompt,
		})
		if err != nil {
			slog.Error("Agent invocation failed", "thread", key, "error", err)
			if _, perr := b.postWithRecovery(channel, userID, failureNotice, rootTS); perr != nil {
				slog.Warn("Failed to post failure notice", "thread", key, "error", perr)
			}
			return
		}

		if _, err := b.postWithRecovery(channel, userID, reply, rootTS); err != nil {
			slog.Warn("Failed to post agent reply", "thread", key, "error", err)
		}
	}()
}
