package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g.
// CAREERPATH_STORAGE_BACKEND or CAREERPATH_LLM_GROQ_API_KEY.
const EnvPrefix = "CAREERPATH"

// Load reads configuration from defaults, the YAML file at path (or
// DefaultPath when path is empty and that file exists) and the environment,
// then validates it.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := path
	if file == "" {
		if _, err := os.Stat(DefaultPath()); err == nil {
			file = DefaultPath()
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = file

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that
// the config file does not mention.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.db_path", d.Storage.DBPath)
	v.SetDefault("storage.redis_url", d.Storage.RedisURL)
	v.SetDefault("storage.redis_prefix", d.Storage.RedisPrefix)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	for _, name := range []string{"anthropic", "openai", "gemini", "openrouter", "groq"} {
		v.SetDefault("llm."+name+".api_key", "")
		v.SetDefault("llm."+name+".model", "")
		v.SetDefault("llm."+name+".base_url", "")
	}

	v.SetDefault("remote.url", d.Remote.URL)
	v.SetDefault("remote.anon_key", d.Remote.AnonKey)
	v.SetDefault("remote.user_id", d.Remote.UserID)
	v.SetDefault("remote.plan_id", d.Remote.PlanID)
	v.SetDefault("remote.timeout", d.Remote.Timeout)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)

	v.SetDefault("catalog.path", d.Catalog.Path)
	v.SetDefault("autosave.delay", d.Autosave.Delay)
}

// ErrExists is returned by WriteDefault when the target file exists.
var ErrExists = errors.New("config file already exists")

// WriteDefault writes a commented starter config to path.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s: %w", path, ErrExists)
	}
	if err := ensureParent(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(starterConfig), 0o600)
}

const starterConfig = `# careerpath configuration. Every key can be overridden with
# CAREERPATH_<SECTION>_<KEY>, e.g. CAREERPATH_STORAGE_BACKEND=redis.
storage:
  backend: sqlite        # sqlite, redis or remote
  db_path: ""            # empty = $XDG_DATA_HOME/careerpath/careerpath.db
  redis_url: ""          # redis://localhost:6379/0
log:
  level: info
  format: json
  file: ""
llm:
  provider: ""           # empty = first of GROQ/GEMINI/OPENAI/ANTHROPIC/OPENROUTER_API_KEY
  timeout: 60s
  groq:
    api_key: ""
    model: llama-3.3-70b-versatile
remote:
  url: ""                # https://<project>.supabase.co
  anon_key: ""
  user_id: local
  plan_id: ""
  timeout: 15s
server:
  addr: 127.0.0.1:8000
  cors_origins: ["http://localhost:5173", "http://localhost:3000"]
catalog:
  path: ""               # YAML roadmap; empty = built-in
autosave:
  delay: 2s
`

func ensureParent(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	return nil
}
