// Package agent implements the agent invocation engine.
package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/slackclaw/slackclaw/internal/provider"
	"github.com/slackclaw/slackclaw/internal/session"
	"github.com/slackclaw/slackclaw/internal/transcript"
)

const defaultMaxHistory = 40

// InvokerOptions contains configuration for the invoker.
type InvokerOptions struct {
	Provider     provider.LLMProvider
	Sessions     *session.Manager
	Transcript   *transcript.Store // optional
	Model        string
	MaxTokens    int
	Temperature  float64
	SystemPrompt string
	MaxHistory   int
	Timeout      time.Duration // per-invocation deadline, 0 disables
}

// Invoker runs agent invocations: it resolves the per-thread session,
// sends the accumulated history to the provider, and records the outcome.
type Invoker struct {
	provider     provider.LLMProvider
	sessions     *session.Manager
	store        *transcript.Store
	model        string
	maxTokens    int
	temperature  float64
	systemPrompt string
	maxHistory   int
	timeout      time.Duration
}

// Request identifies one invocation. SessionID is the thread key of the
// Slack thread the conversation lives in.
type Request struct {
	SessionID string
	Channel   string
	UserID    string
	Prompt    string
}

// NewInvoker creates a new invoker.
func NewInvoker(opts InvokerOptions) *Invoker {
	maxHistory := opts.MaxHistory
	if maxHistory <= 0 {
		maxHistory = defaultMaxHistory
	}
	return &Invoker{
		provider:     opts.Provider,
		sessions:     opts.Sessions,
		store:        opts.Transcript,
		model:        opts.Model,
		maxTokens:    opts.MaxTokens,
		temperature:  opts.Temperature,
		systemPrompt: opts.SystemPrompt,
		maxHistory:   maxHistory,
		timeout:      opts.Timeout,
	}
}

// Invoke sends the prompt plus the session's history to the provider and
// returns the reply text. The user turn is always appended to the session;
// on success the assistant turn is appended and the session persisted.
func (inv *Invoker) Invoke(ctx context.Context, req Request) (string, error) {
	if inv.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.timeout)
		defer cancel()
	}

	sess := inv.sessions.GetOrCreate(req.SessionID)
	sess.AddMessage("user", req.Prompt)

	var invocationID string
	if inv.store != nil {
		rec, err := inv.store.Begin(&transcript.Invocation{
			ThreadKey: req.SessionID,
			Channel:   req.Channel,
			UserID:    req.UserID,
			Prompt:    req.Prompt,
		})
		if err != nil {
			slog.Warn("Failed to record invocation", "session", req.SessionID, "error", err)
		} else {
			invocationID = rec.InvocationID
		}
	}

	history := sess.GetHistory(inv.maxHistory)
	messages := make([]provider.Message, 0, len(history)+1)
	if inv.systemPrompt != "" {
		messages = append(messages, provider.Message{Role: "system", Content: inv.systemPrompt})
	}
	for _, m := range history {
		messages = append(messages, provider.Message{Role: m.Role, Content: m.Content})
	}

	start := time.Now()
	resp, err := inv.provider.Chat(ctx, &provider.ChatRequest{
		Messages:    messages,
		Model:       inv.model,
		MaxTokens:   inv.maxTokens,
		Temperature: inv.temperature,
	})
	if err != nil {
		if invocationID != "" {
			if ferr := inv.store.Fail(invocationID, err.Error()); ferr != nil {
				slog.Warn("Failed to record invocation failure", "id", invocationID, "error", ferr)
			}
		}
		return "", fmt.Errorf("agent invocation: %w", err)
	}

	sess.AddMessage("assistant", resp.Content)
	if err := inv.sessions.Save(sess); err != nil {
		slog.Warn("Failed to persist session", "session", req.SessionID, "error", err)
	}

	if invocationID != "" {
		if cerr := inv.store.Complete(invocationID, resp.Content,
			resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens); cerr != nil {
			slog.Warn("Failed to record invocation result", "id", invocationID, "error", cerr)
		}
	}

	slog.Info("Agent invocation completed",
		"session", req.SessionID,
		"duration", time.Since(start).Round(time.Millisecond),
		"tokens", resp.Usage.TotalTokens)

	return resp.Content, nil
}
