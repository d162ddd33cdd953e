package slackbot

import (
	"context"
	"fmt"
	"sync"

	"github.com/slack-go/slack"

	"github.com/slackclaw/slackclaw/internal/agent"
)

// fakePost captures a message the fake client "posted".
type fakePost struct {
	channel  string
	user     string
	text     string
	threadTS string
}

// fakeSlack is an in-memory SlackAPI for tests.
type fakeSlack struct {
	mu sync.Mutex

	authResp  *slack.AuthTestResponse
	authErr   error
	authCalls int

	// postErrs is popped once per PostMessage call; a nil entry (or an
	// exhausted queue) means success.
	postErrs []error
	posts    []fakePost
	nextTS   int

	ephemerals []fakePost
	reactions  []string
	joins      []string
	joinErr    error

	rootMsgs   map[string]slack.Message // channel+"|"+ts -> thread root
	repliesErr error
}

func newFakeSlack() *fakeSlack {
	return &fakeSlack{
		authResp: &slack.AuthTestResponse{UserID: "UBOT", BotID: "BBOT"},
		rootMsgs: make(map[string]slack.Message),
	}
}

func (f *fakeSlack) AuthTest() (*slack.AuthTestResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authCalls++
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.authResp, nil
}

func (f *fakeSlack) PostMessage(channelID string, options ...slack.MsgOption) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.postErrs) > 0 {
		err := f.postErrs[0]
		f.postErrs = f.postErrs[1:]
		if err != nil {
			return "", "", err
		}
	}

	_, values, err := slack.UnsafeApplyMsgOptions("xoxb-test", channelID, "https://slack.com/api/", options...)
	if err != nil {
		return "", "", err
	}

	f.nextTS++
	ts := fmt.Sprintf("1718000000.%06d", f.nextTS)
	f.posts = append(f.posts, fakePost{
		channel:  channelID,
		text:     values.Get("text"),
		threadTS: values.Get("thread_ts"),
	})
	return channelID, ts, nil
}

func (f *fakeSlack) PostEphemeral(channelID, userID string, options ...slack.MsgOption) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, values, err := slack.UnsafeApplyMsgOptions("xoxb-test", channelID, "https://slack.com/api/", options...)
	if err != nil {
		return "", err
	}
	f.ephemerals = append(f.ephemerals, fakePost{
		channel: channelID,
		user:    userID,
		text:    values.Get("text"),
	})
	return "1718000000.999999", nil
}

func (f *fakeSlack) AddReaction(name string, item slack.ItemRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactions = append(f.reactions, name+" "+item.Channel+" "+item.Timestamp)
	return nil
}

func (f *fakeSlack) JoinConversation(channelID string) (*slack.Channel, string, []string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.joinErr != nil {
		return nil, "", nil, f.joinErr
	}
	f.joins = append(f.joins, channelID)
	return &slack.Channel{}, "", nil, nil
}

func (f *fakeSlack) GetConversationReplies(params *slack.GetConversationRepliesParameters) ([]slack.Message, bool, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.repliesErr != nil {
		return nil, false, "", f.repliesErr
	}
	msg, ok := f.rootMsgs[params.ChannelID+"|"+params.Timestamp]
	if !ok {
		return nil, false, "", nil
	}
	return []slack.Message{msg}, false, "", nil
}

// setBotRoot marks a thread root as authored by the fake bot identity.
func (f *fakeSlack) setBotRoot(channel, ts string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg := slack.Message{}
	msg.User = "UBOT"
	msg.BotID = "BBOT"
	f.rootMsgs[channel+"|"+ts] = msg
}

// setUserRoot marks a thread root as authored by a regular user.
func (f *fakeSlack) setUserRoot(channel, ts, user string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg := slack.Message{}
	msg.User = user
	f.rootMsgs[channel+"|"+ts] = msg
}

func (f *fakeSlack) snapshotPosts() []fakePost {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]fakePost, len(f.posts))
	copy(out, f.posts)
	return out
}

func (f *fakeSlack) snapshotEphemerals() []fakePost {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]fakePost, len(f.ephemerals))
	copy(out, f.ephemerals)
	return out
}

// fakeInvoker records invocations and returns a canned reply.
type fakeInvoker struct {
	mu    sync.Mutex
	reqs  []agent.Request
	reply string
	err   error
}

func (f *fakeInvoker) Invoke(ctx context.Context, req agent.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeInvoker) requests() []agent.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]agent.Request, len(f.reqs))
	copy(out, f.reqs)
	return out
}
