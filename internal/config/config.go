// Package config loads careerpath settings from defaults, an optional YAML
// file and CAREERPATH_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/abhisek/careerpath/internal/llm"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendRemote = "remote"
)

// Config holds all application configuration.
type Config struct {
	Storage  StorageConfig  `mapstructure:"storage"`
	Log      LogConfig      `mapstructure:"log"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Remote   RemoteConfig   `mapstructure:"remote"`
	Server   ServerConfig   `mapstructure:"server"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Autosave AutosaveConfig `mapstructure:"autosave"`

	// File is the config file that was read, empty when none was.
	File string `mapstructure:"-"`
}

// StorageConfig selects where progress snapshots live.
type StorageConfig struct {
	Backend     string `mapstructure:"backend"`      // sqlite, redis, remote
	DBPath      string `mapstructure:"db_path"`      // empty = default data dir
	RedisURL    string `mapstructure:"redis_url"`    // redis://host:port/db
	RedisPrefix string `mapstructure:"redis_prefix"` // key prefix
}

// LogConfig for logging behavior.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	File   string `mapstructure:"file"`   // empty = stderr
}

// LLMConfig mirrors llm.Config with file and env friendly keys.
type LLMConfig struct {
	Provider   string         `mapstructure:"provider"` // empty = discover from *_API_KEY
	Anthropic  ProviderConfig `mapstructure:"anthropic"`
	OpenAI     ProviderConfig `mapstructure:"openai"`
	Gemini     ProviderConfig `mapstructure:"gemini"`
	OpenRouter ProviderConfig `mapstructure:"openrouter"`
	Groq       ProviderConfig `mapstructure:"groq"`
	Timeout    time.Duration  `mapstructure:"timeout"`
}

// ProviderConfig holds one provider's credentials and model.
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// RemoteConfig points at the hosted REST backend. UserID and PlanID also
// identify plan and progress rows in the local store.
type RemoteConfig struct {
	URL     string        `mapstructure:"url"`
	AnonKey string        `mapstructure:"anon_key"`
	UserID  string        `mapstructure:"user_id"`
	PlanID  string        `mapstructure:"plan_id"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ServerConfig for the HTTP API.
type ServerConfig struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// CatalogConfig selects the roadmap content.
type CatalogConfig struct {
	Path string `mapstructure:"path"` // YAML file; empty = built-in roadmap
}

// AutosaveConfig tunes the debounced autosave.
type AutosaveConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

// Default returns config with sensible defaults.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:     BackendSQLite,
			RedisPrefix: "careerpath:",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		LLM: LLMConfig{
			Timeout: 60 * time.Second,
		},
		Remote: RemoteConfig{
			UserID:  "local",
			Timeout: 15 * time.Second,
		},
		Server: ServerConfig{
			Addr:        "127.0.0.1:8000",
			CORSOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		},
		Autosave: AutosaveConfig{
			Delay: 2 * time.Second,
		},
	}
}

var (
	logLevels    = []string{"debug", "info", "warn", "error"}
	logFormats   = []string{"json", "console"}
	backends     = []string{BackendSQLite, BackendRedis, BackendRemote}
	llmProviders = []string{"", "groq", "anthropic", "openai", "gemini", "openrouter", "mock"}
)

// Validate checks configuration validity.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(backends, c.Storage.Backend) {
		errs = append(errs, fmt.Errorf("invalid storage.backend %q (want sqlite, redis or remote)", c.Storage.Backend))
	}
	if c.Storage.Backend == BackendRedis && c.Storage.RedisURL == "" {
		errs = append(errs, errors.New("storage.redis_url is required for the redis backend"))
	}
	if c.Storage.Backend == BackendRemote && (c.Remote.URL == "" || c.Remote.AnonKey == "") {
		errs = append(errs, errors.New("remote.url and remote.anon_key are required for the remote backend"))
	}
	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Log.Level))
	}
	if !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		errs = append(errs, fmt.Errorf("invalid log format %q", c.Log.Format))
	}
	if !slices.Contains(llmProviders, c.LLM.Provider) {
		errs = append(errs, fmt.Errorf("unknown llm.provider %q", c.LLM.Provider))
	}
	if c.LLM.Timeout <= 0 {
		errs = append(errs, errors.New("llm.timeout must be positive"))
	}
	if c.Remote.Timeout <= 0 {
		errs = append(errs, errors.New("remote.timeout must be positive"))
	}
	if strings.TrimSpace(c.Remote.UserID) == "" {
		errs = append(errs, errors.New("remote.user_id is required"))
	}
	if c.Autosave.Delay < 0 {
		errs = append(errs, errors.New("autosave.delay must not be negative"))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}

	return errors.Join(errs...)
}

// LLMProviderConfig resolves the LLM settings into an llm.Config. With no
// provider and no key configured it falls back to llm.DiscoverConfig.
// Otherwise missing keys come from the standard *_API_KEY variables and an
// empty provider picks the first configured key. It returns false when no
// provider can be used.
func (c *Config) LLMProviderConfig() (llm.Config, bool) {
	l := c.LLM

	if l.Provider == "" && !l.hasKey() {
		cfg, ok := llm.DiscoverConfig()
		if !ok {
			return llm.Config{}, false
		}
		cfg.Timeout = l.Timeout
		return cfg, true
	}

	cfg := llm.DefaultConfig()
	cfg.Timeout = l.Timeout
	cfg.Anthropic.APIKey = pick(l.Anthropic.APIKey, os.Getenv("ANTHROPIC_API_KEY"))
	cfg.Anthropic.Model = pick(l.Anthropic.Model, cfg.Anthropic.Model)
	cfg.OpenAI.APIKey = pick(l.OpenAI.APIKey, os.Getenv("OPENAI_API_KEY"))
	cfg.OpenAI.Model = pick(l.OpenAI.Model, cfg.OpenAI.Model)
	cfg.OpenAI.BaseURL = l.OpenAI.BaseURL
	cfg.Gemini.APIKey = pick(l.Gemini.APIKey, os.Getenv("GEMINI_API_KEY"))
	cfg.Gemini.Model = pick(l.Gemini.Model, cfg.Gemini.Model)
	cfg.OpenRouter.APIKey = pick(l.OpenRouter.APIKey, os.Getenv("OPENROUTER_API_KEY"))
	cfg.OpenRouter.Model = pick(l.OpenRouter.Model, cfg.OpenRouter.Model)
	cfg.OpenRouter.BaseURL = l.OpenRouter.BaseURL
	cfg.Groq.APIKey = pick(l.Groq.APIKey, os.Getenv("GROQ_API_KEY"))
	cfg.Groq.Model = pick(l.Groq.Model, cfg.Groq.Model)
	cfg.Groq.BaseURL = l.Groq.BaseURL

	switch {
	case l.Provider != "":
		cfg.Provider = l.Provider
	case l.Groq.APIKey != "":
		cfg.Provider = "groq"
	case l.Gemini.APIKey != "":
		cfg.Provider = "gemini"
	case l.OpenAI.APIKey != "":
		cfg.Provider = "openai"
	case l.Anthropic.APIKey != "":
		cfg.Provider = "anthropic"
	default:
		cfg.Provider = "openrouter"
	}

	if cfg.Validate() != nil {
		return llm.Config{}, false
	}
	return cfg, true
}

func (l LLMConfig) hasKey() bool {
	return pick(l.Groq.APIKey, l.Gemini.APIKey, l.OpenAI.APIKey, l.Anthropic.APIKey, l.OpenRouter.APIKey) != ""
}

func pick(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// DefaultPath returns the config file location under the XDG config dir.
func DefaultPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "careerpath", "config.yaml")
}

// DefaultLogPath returns the log file location under the XDG state dir.
func DefaultLogPath() string {
	return filepath.Join(xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state")), "careerpath", "careerpath.log")
}

func xdgDir(env, homeRel string) string {
	if d := os.Getenv(env); d != "" {
		return d
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, homeRel)
}
