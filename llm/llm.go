package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

// Supported providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderAzure     = "azure"
)

// ErrUnknownProvider is returned by New for a provider it cannot build.
var ErrUnknownProvider = errors.New("unknown llm provider")

// Config selects and configures a chat model.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	// BaseURL overrides the provider endpoint. For azure it is the resource
	// endpoint and is required; for ollama it is the server URL.
	BaseURL    string
	APIVersion string
}

// New builds the model described by cfg.
func New(cfg Config) (llms.Model, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if name == "" {
		name = ProviderOpenAI
	}
	switch name {
	case ProviderOpenAI:
		opts := []lcopenai.Option{}
		if cfg.APIKey != "" {
			opts = append(opts, lcopenai.WithToken(cfg.APIKey))
		}
		if cfg.Model != "" {
			opts = append(opts, lcopenai.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, lcopenai.WithBaseURL(cfg.BaseURL))
		}
		m, err := lcopenai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create %s llm: %w", name, err)
		}
		return m, nil

	case ProviderAnthropic:
		opts := []anthropic.Option{}
		if cfg.APIKey != "" {
			opts = append(opts, anthropic.WithToken(cfg.APIKey))
		}
		if cfg.Model != "" {
			opts = append(opts, anthropic.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		m, err := anthropic.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create %s llm: %w", name, err)
		}
		return m, nil

	case ProviderOllama:
		opts := []ollama.Option{}
		if cfg.Model != "" {
			opts = append(opts, ollama.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
		}
		m, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create %s llm: %w", name, err)
		}
		return m, nil

	case ProviderAzure:
		opts := []AzureOption{}
		if cfg.APIKey != "" {
			opts = append(opts, WithAPIKey(cfg.APIKey))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, WithEndpoint(cfg.BaseURL))
		}
		if cfg.Model != "" {
			opts = append(opts, WithDeployment(cfg.Model))
		}
		if cfg.APIVersion != "" {
			opts = append(opts, WithAPIVersion(cfg.APIVersion))
		}
		m, err := NewAzure(opts...)
		if err != nil {
			return nil, fmt.Errorf("create %s llm: %w", name, err)
		}
		return m, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
}

// Providers lists the names accepted by New.
func Providers() []string {
	return []string{ProviderAnthropic, ProviderAzure, ProviderOllama, ProviderOpenAI}
}
