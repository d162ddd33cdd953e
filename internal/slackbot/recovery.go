package slackbot

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/slack-go/slack"
)

// Slack API error codes the bot recovers from.
const (
	errCodeNotInChannel    = "not_in_channel"
	errCodeChannelNotFound = "channel_not_found"
)

const inviteNotice = "I cannot access that channel. Please invite me and try again."

// classifySlackError maps a slack-go error to the API error code it
// carries. The web API reports errors as short code strings, which
// slack-go surfaces via Error().
func classifySlackError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, errCodeNotInChannel):
		return errCodeNotInChannel
	case strings.Contains(msg, errCodeChannelNotFound):
		return errCodeChannelNotFound
	}
	return msg
}

// postWithRecovery posts text to channel (threaded under threadTS when
// non-empty) applying the membership recovery policy:
//
//   - not_in_channel: join the channel and retry once; a second failure
//     falls through to the generic branch.
//   - channel_not_found: tell the user privately to invite the bot.
//   - anything else: relay the error code privately, full error in logs.
//
// On success it returns the posted message's timestamp.
func (b *Bot) postWithRecovery(channel, userID, text, threadTS string) (string, error) {
	ts, err := b.postMessage(channel, text, threadTS)
	if err == nil {
		return ts, nil
	}

	code := classifySlackError(err)
	switch code {
	case errCodeNotInChannel:
		if _, _, _, jerr := b.client.JoinConversation(channel); jerr != nil {
			slog.Error("Failed to join channel", "channel", channel, "error", jerr)
			b.notifyPostFailure(channel, userID, jerr)
			return "", fmt.Errorf("join channel %s: %w", channel, jerr)
		}
		ts, err = b.postMessage(channel, text, threadTS)
		if err == nil {
			return ts, nil
		}
		slog.Error("Post failed after joining channel", "channel", channel, "error", err)
		b.notifyPostFailure(channel, userID, err)
		return "", err

	case errCodeChannelNotFound:
		slog.Warn("Channel not found", "channel", channel)
		b.postEphemeral(channel, userID, inviteNotice)
		return "", err

	default:
		slog.Error("Failed to post message", "channel", channel, "error", err)
		b.notifyPostFailure(channel, userID, err)
		return "", err
	}
}

// notifyPostFailure relays the Slack error code to the user privately;
// the full error only goes to the logs.
func (b *Bot) notifyPostFailure(channel, userID string, err error) {
	b.postEphemeral(channel, userID,
		fmt.Sprintf("Something went wrong talking to Slack (%s).", classifySlackError(err)))
}

func (b *Bot) postMessage(channel, text, threadTS string) (string, error) {
	options := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if threadTS != "" {
		options = append(options, slack.MsgOptionTS(threadTS))
	}
	_, ts, err := b.client.PostMessage(channel, options...)
	return ts, err
}

func (b *Bot) postEphemeral(channel, userID, text string) {
	if userID == "" {
		return
	}
	if _, err := b.client.PostEphemeral(channel, userID, slack.MsgOptionText(text, false)); err != nil {
		slog.Warn("Failed to post ephemeral", "channel", channel, "user", userID, "error", err)
	}
}
