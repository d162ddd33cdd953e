// Package config provides configuration types and loading for slackclaw.
package config

import "time"

// Config is the root configuration struct.
// Top-level groups: Paths, Agent, Slack, Providers, Transcript.
type Config struct {
	Paths      PathsConfig      `json:"paths"`
	Agent      AgentConfig      `json:"agent"`
	Slack      SlackConfig      `json:"slack"`
	Providers  ProvidersConfig  `json:"providers"`
	Transcript TranscriptConfig `json:"transcript"`
}

// ---------------------------------------------------------------------------
// Paths – filesystem locations
// ---------------------------------------------------------------------------

// PathsConfig groups all filesystem path settings.
type PathsConfig struct {
	StateDir    string `json:"stateDir" envconfig:"STATE_DIR"`
	SessionsDir string `json:"sessionsDir" envconfig:"SESSIONS_DIR"`
}

// ---------------------------------------------------------------------------
// Agent – LLM behaviour
// ---------------------------------------------------------------------------

// AgentConfig groups model and prompt settings for the agent collaborator.
type AgentConfig struct {
	Model        string        `json:"model" envconfig:"MODEL"`
	MaxTokens    int           `json:"maxTokens" envconfig:"MAX_TOKENS"`
	Temperature  float64       `json:"temperature" envconfig:"TEMPERATURE"`
	SystemPrompt string        `json:"systemPrompt" envconfig:"SYSTEM_PROMPT"`
	Timeout      time.Duration `json:"timeout" envconfig:"TIMEOUT"`
}

// ---------------------------------------------------------------------------
// Slack – transport credentials and behaviour
// ---------------------------------------------------------------------------

// SlackConfig configures the Slack Socket Mode connection.
type SlackConfig struct {
	BotToken string `json:"botToken" envconfig:"BOT_TOKEN"`
	AppToken string `json:"appToken" envconfig:"APP_TOKEN"`
	Command  string `json:"command" envconfig:"COMMAND"`
	Debug    bool   `json:"debug" envconfig:"DEBUG"`
}

// ---------------------------------------------------------------------------
// Providers – LLM API keys & endpoints
// ---------------------------------------------------------------------------

// ProvidersConfig contains LLM provider configurations.
type ProvidersConfig struct {
	OpenAI ProviderConfig `json:"openai"`
}

// ProviderConfig contains settings for a single LLM provider.
type ProviderConfig struct {
	APIKey  string `json:"apiKey" envconfig:"API_KEY"`
	APIBase string `json:"apiBase,omitempty" envconfig:"API_BASE"`
}

// ---------------------------------------------------------------------------
// Transcript – invocation log
// ---------------------------------------------------------------------------

// TranscriptConfig configures the sqlite invocation transcript.
type TranscriptConfig struct {
	Enabled bool   `json:"enabled" envconfig:"ENABLED"`
	Path    string `json:"path" envconfig:"PATH"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			StateDir:    "~/.slackclaw",
			SessionsDir: "~/.slackclaw/sessions",
		},
		Agent: AgentConfig{
			Model:        "gpt-4o-mini",
			MaxTokens:    4096,
			Temperature:  0.7,
			SystemPrompt: "You are a helpful assistant replying inside a Slack thread. Keep answers concise.",
			Timeout:      120 * time.Second,
		},
		Slack: SlackConfig{
			Command: "/agent",
		},
		Transcript: TranscriptConfig{
			Enabled: true,
			Path:    "~/.slackclaw/transcript.db",
		},
	}
}
