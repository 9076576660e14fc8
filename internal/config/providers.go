package config

import (
	"fmt"
	"time"

	"github.com/buildply/intake/internal/providers"
)

// BuildClient constructs an LLM client from a named provider entry,
// resolving ${ENV_VAR} references in credentials.
func (c *Config) BuildClient(name string) (providers.LLMClient, error) {
	cfg, ok := c.GetProvider(name)
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
	if !cfg.Enabled {
		return nil, fmt.Errorf("provider %s is disabled", name)
	}

	timeout := time.Duration(cfg.TimeoutSecs) * time.Second

	switch cfg.Type {
	case "openai", "azure-openai":
		return providers.NewOpenAIClient(providers.OpenAIConfig{
			APIKey:        ResolveEnvVars(cfg.APIKey),
			Model:         cfg.Model,
			BaseURL:       cfg.BaseURL,
			AzureEndpoint: ResolveEnvVars(cfg.AzureEndpoint),
			APIVersion:    cfg.APIVersion,
			Timeout:       timeout,
			RPS:           cfg.RateLimit,
			MaxRetries:    cfg.MaxRetries,
		}), nil
	case "openrouter":
		return providers.NewOpenRouterClient(providers.OpenRouterConfig{
			APIKey:       ResolveEnvVars(cfg.APIKey),
			BaseURL:      cfg.BaseURL,
			DefaultModel: cfg.Model,
			Timeout:      timeout,
			RPS:          cfg.RateLimit,
			MaxRetries:   cfg.MaxRetries,
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Type)
	}
}

// BuildRegistry constructs a provider registry holding every enabled
// provider.
func (c *Config) BuildRegistry() (*providers.Registry, error) {
	registry := providers.NewRegistry()
	for name := range c.EnabledProviders() {
		client, err := c.BuildClient(name)
		if err != nil {
			return nil, fmt.Errorf("failed to build provider %s: %w", name, err)
		}
		registry.RegisterLLM(name, client)
	}
	return registry, nil
}
