package slackbot

import (
	"fmt"
	"sync"
)

// Identity is the bot's own Slack identity, used to recognize messages
// and threads authored by the bot.
type Identity struct {
	UserID string
	BotID  string
}

// identityResolver memoizes the bot identity. Concurrent callers share a
// single auth.test lookup; the result (or error) is cached for the
// process lifetime.
type identityResolver struct {
	client   SlackAPI
	once     sync.Once
	identity Identity
	err      error
}

func newIdentityResolver(client SlackAPI) *identityResolver {
	return &identityResolver{client: client}
}

// Resolve returns the memoized identity, performing the lookup on first call.
func (r *identityResolver) Resolve() (Identity, error) {
	r.once.Do(func() {
		resp, err := r.client.AuthTest()
		if err != nil {
			r.err = fmt.Errorf("auth.test: %w", err)
			return
		}
		r.identity = Identity{UserID: resp.UserID, BotID: resp.BotID}
	})
	return r.identity, r.err
}
