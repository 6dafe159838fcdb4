package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"

	"github.com/smallnest/transpilegraph/llm"
	"github.com/smallnest/transpilegraph/log"
	"github.com/smallnest/transpilegraph/syntax"
	"github.com/smallnest/transpilegraph/transpile"
)

// Checkpoint store backends.
const (
	StoreNone     = "none"
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreRedis    = "redis"
	StoreSqlite   = "sqlite"
	StorePostgres = "postgres"
)

// Config holds all configuration for the transpile command.
type Config struct {
	LogLevel string `env:"TRANSPILE_LOG_LEVEL" envDefault:"info"`
	// MetricsTextfile, when set, receives the run metrics on exit.
	MetricsTextfile string `env:"TRANSPILE_METRICS_TEXTFILE"`

	Workflow WorkflowConfig
	LLM      LLMConfig
	Store    StoreConfig
	Check    CheckConfig
}

// WorkflowConfig shapes the graph of a run.
type WorkflowConfig struct {
	SourceLanguage string        `env:"TRANSPILE_SOURCE_LANGUAGE" envDefault:"java"`
	TargetLanguage string        `env:"TRANSPILE_TARGET_LANGUAGE" envDefault:"python"`
	Layout         string        `env:"TRANSPILE_LAYOUT" envDefault:"direct"`
	MaxIterations  int           `env:"TRANSPILE_MAX_ITERATIONS" envDefault:"3"`
	StageTimeout   time.Duration `env:"TRANSPILE_STAGE_TIMEOUT" envDefault:"5m"`
	Debug          bool          `env:"TRANSPILE_DEBUG" envDefault:"false"`
	PromptsPath    string        `env:"TRANSPILE_PROMPTS"`
	Interpreter    string        `env:"TRANSPILE_PYTHON" envDefault:"python3"`
	Concurrency    int           `env:"TRANSPILE_CONCURRENCY" envDefault:"4"`
}

// LLMConfig selects the model provider.
type LLMConfig struct {
	Provider   string `env:"LLM_PROVIDER" envDefault:"openai"`
	Model      string `env:"LLM_MODEL"`
	APIKey     string `env:"LLM_API_KEY"`
	BaseURL    string `env:"LLM_BASE_URL"`
	APIVersion string `env:"LLM_API_VERSION"`
}

// StoreConfig selects where run checkpoints go.
type StoreConfig struct {
	Backend     string        `env:"TRANSPILE_STORE" envDefault:"none"`
	Dir         string        `env:"TRANSPILE_STORE_DIR" envDefault:".transpile/checkpoints"`
	SqlitePath  string        `env:"TRANSPILE_SQLITE_PATH" envDefault:".transpile/checkpoints.db"`
	PostgresURL string        `env:"TRANSPILE_POSTGRES_URL"`
	RedisAddr   string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass   string        `env:"REDIS_PASS"`
	RedisDB     int           `env:"REDIS_DB" envDefault:"0"`
	RedisTTL    time.Duration `env:"TRANSPILE_REDIS_TTL" envDefault:"0s"`
}

// CheckConfig configures the behavioural comparison of the original and the
// candidate. It is off unless both commands are set.
type CheckConfig struct {
	OriginalCommand  []string      `env:"TRANSPILE_CHECK_ORIGINAL" envSeparator:" "`
	OriginalFile     string        `env:"TRANSPILE_CHECK_ORIGINAL_FILE" envDefault:"original"`
	CandidateCommand []string      `env:"TRANSPILE_CHECK_CANDIDATE" envSeparator:" "`
	CandidateFile    string        `env:"TRANSPILE_CHECK_CANDIDATE_FILE" envDefault:"candidate"`
	CasesDir         string        `env:"TRANSPILE_CHECK_CASES"`
	Timeout          time.Duration `env:"TRANSPILE_CHECK_TIMEOUT" envDefault:"10s"`
}

// Enabled reports whether an equivalence check is configured.
func (c CheckConfig) Enabled() bool {
	return len(c.OriginalCommand) > 0 && len(c.CandidateCommand) > 0
}

// Parse reads configuration from environment variables without validating it.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg, err := Parse()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	if _, err := transpile.ParseLayout(c.Workflow.Layout); err != nil {
		return err
	}
	if !slices.Contains(syntax.Languages(), strings.ToLower(c.Workflow.TargetLanguage)) {
		return fmt.Errorf("unsupported target language: %s (must be one of %s)",
			c.Workflow.TargetLanguage, strings.Join(syntax.Languages(), ", "))
	}
	if c.Workflow.SourceLanguage == "" {
		return fmt.Errorf("source language is required")
	}
	if c.Workflow.StageTimeout < 0 {
		return fmt.Errorf("invalid stage timeout: %s", c.Workflow.StageTimeout)
	}
	if c.Workflow.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	if !slices.Contains(llm.Providers(), strings.ToLower(c.LLM.Provider)) {
		return fmt.Errorf("unsupported LLM provider: %s (must be one of %s)",
			c.LLM.Provider, strings.Join(llm.Providers(), ", "))
	}

	switch c.Store.Backend {
	case StoreNone, StoreMemory:
	case StoreFile:
		if c.Store.Dir == "" {
			return fmt.Errorf("checkpoint directory is required for the file store")
		}
	case StoreSqlite:
		if c.Store.SqlitePath == "" {
			return fmt.Errorf("sqlite path is required for the sqlite store")
		}
	case StoreRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("redis address is required")
		}
	case StorePostgres:
		if c.Store.PostgresURL == "" {
			return fmt.Errorf("postgres url is required")
		}
	default:
		return fmt.Errorf("unsupported checkpoint store: %s", c.Store.Backend)
	}

	if (len(c.Check.OriginalCommand) > 0) != (len(c.Check.CandidateCommand) > 0) {
		return fmt.Errorf("equivalence check needs both the original and the candidate command")
	}
	if c.Check.Enabled() && c.Check.Timeout <= 0 {
		return fmt.Errorf("invalid check timeout: %s", c.Check.Timeout)
	}

	return nil
}

// ModelConfig converts the provider settings for llm.New.
func (c *Config) ModelConfig() llm.Config {
	return llm.Config{
		Provider:   c.LLM.Provider,
		Model:      c.LLM.Model,
		APIKey:     c.LLM.APIKey,
		BaseURL:    c.LLM.BaseURL,
		APIVersion: c.LLM.APIVersion,
	}
}
