package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects the backend: "groq", "gemini", "openai",
	// "anthropic", "openrouter" or "mock".
	Provider string

	Anthropic  EndpointConfig
	OpenAI     EndpointConfig
	Gemini     EndpointConfig
	OpenRouter EndpointConfig
	Groq       EndpointConfig
	Retry      RetryConfig

	// Timeout bounds a single attempt. Default: 30s.
	Timeout time.Duration
}

// EndpointConfig is the per-provider part of Config. Model may be an alias
// from the provider's table or a raw model ID. BaseURL overrides the host's
// endpoint, which is mostly useful for proxies and tests.
type EndpointConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// host describes one provider: where its key lives and which model it
// uses when none is configured.
type host struct {
	name         string
	envKey       string
	defaultModel string
	aliases      map[string]string
	endpoint     func(*Config) *EndpointConfig
}

// hosts is ordered by discovery priority.
var hosts = []host{
	{
		name: "groq", envKey: "GROQ_API_KEY", defaultModel: "llama-3.3-70b-versatile",
		endpoint: func(c *Config) *EndpointConfig { return &c.Groq },
	},
	{
		name: "gemini", envKey: "GEMINI_API_KEY", defaultModel: "gemini-flash",
		aliases:  map[string]string{"gemini-flash": "gemini-2.0-flash", "gemini-pro": "gemini-2.5-pro"},
		endpoint: func(c *Config) *EndpointConfig { return &c.Gemini },
	},
	{
		name: "openai", envKey: "OPENAI_API_KEY", defaultModel: "gpt-4o-mini",
		endpoint: func(c *Config) *EndpointConfig { return &c.OpenAI },
	},
	{
		name: "anthropic", envKey: "ANTHROPIC_API_KEY", defaultModel: "claude-haiku",
		aliases:  map[string]string{"claude-haiku": "claude-haiku-4-5-20251001", "claude-sonnet": "claude-sonnet-4-5-20250929"},
		endpoint: func(c *Config) *EndpointConfig { return &c.Anthropic },
	},
	{
		name: "openrouter", envKey: "OPENROUTER_API_KEY", defaultModel: "google/gemini-2.0-flash-exp",
		endpoint: func(c *Config) *EndpointConfig { return &c.OpenRouter },
	},
}

func lookupHost(name string) (host, bool) {
	for _, h := range hosts {
		if h.name == name {
			return h, true
		}
	}
	return host{}, false
}

// model resolves the configured model for h, applying its aliases.
func (h host) model(cfg EndpointConfig) string {
	m := cfg.Model
	if m == "" {
		m = h.defaultModel
	}
	if id, ok := h.aliases[m]; ok {
		return id
	}
	return m
}

// DefaultConfig returns a Config with every provider's default model set.
func DefaultConfig() Config {
	cfg := Config{
		Provider: "groq",
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
	for _, h := range hosts {
		h.endpoint(&cfg).Model = h.defaultModel
	}
	return cfg
}

// DiscoverConfig picks the first provider whose API key is set in the
// environment, in the order Groq, Gemini, OpenAI, Anthropic, OpenRouter.
// It reports false when no key is found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	for _, h := range hosts {
		if k := os.Getenv(h.envKey); k != "" {
			cfg.Provider = h.name
			h.endpoint(&cfg).APIKey = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	h, ok := lookupHost(c.Provider)
	if !ok {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if h.endpoint(&c).APIKey == "" {
		return fmt.Errorf("llm.%s.api_key (or %s) is required for the %s provider", h.name, h.envKey, h.name)
	}
	return nil
}
