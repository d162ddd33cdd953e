package slackbot

import "github.com/slack-go/slack"

// SlackAPI is the subset of *slack.Client the bot uses. It exists so tests
// can inject a fake client.
type SlackAPI interface {
	AuthTest() (*slack.AuthTestResponse, error)
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
	PostEphemeral(channelID, userID string, options ...slack.MsgOption) (string, error)
	AddReaction(name string, item slack.ItemRef) error
	JoinConversation(channelID string) (*slack.Channel, string, []string, error)
	GetConversationReplies(params *slack.GetConversationRepliesParameters) ([]slack.Message, bool, string, error)
}
