package config

// Config holds intake configuration.
// Stored at: ~/.intake/config.yaml
type Config struct {
	Providers  map[string]ProviderCfg `mapstructure:"providers" yaml:"providers"`
	Defaults   DefaultsCfg            `mapstructure:"defaults" yaml:"defaults"`
	Extraction ExtractionCfg          `mapstructure:"extraction" yaml:"extraction"`
	Output     OutputCfg              `mapstructure:"output" yaml:"output"`
}

// ProviderCfg configures an LLM provider.
type ProviderCfg struct {
	Type          string  `mapstructure:"type" yaml:"type"`                     // "openai", "azure-openai", "openrouter"
	Model         string  `mapstructure:"model" yaml:"model"`                   // Model or deployment name
	APIKey        string  `mapstructure:"api_key" yaml:"api_key"`               // API key (supports ${ENV_VAR} syntax)
	BaseURL       string  `mapstructure:"base_url" yaml:"base_url,omitempty"`   // Optional endpoint override
	AzureEndpoint string  `mapstructure:"azure_endpoint" yaml:"azure_endpoint,omitempty"` // Azure resource endpoint
	APIVersion    string  `mapstructure:"api_version" yaml:"api_version,omitempty"`       // Azure API version
	RateLimit     float64 `mapstructure:"rate_limit" yaml:"rate_limit"`         // Requests per second
	TimeoutSecs   int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MaxRetries    int     `mapstructure:"max_retries" yaml:"max_retries"` // Transport-level retries
	Enabled       bool    `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default selections.
type DefaultsCfg struct {
	Provider string `mapstructure:"provider" yaml:"provider"` // Default LLM provider
}

// ExtractionCfg tunes the extraction loop.
type ExtractionCfg struct {
	MaxAttempts     int  `mapstructure:"max_attempts" yaml:"max_attempts"`           // LLM invocations per input
	RetryDelaySecs  int  `mapstructure:"retry_delay_seconds" yaml:"retry_delay_seconds"` // Base backoff between attempts
	DeadlineFirst   bool `mapstructure:"deadline_first" yaml:"deadline_first"`       // Deadline proximity outranks keywords
}

// OutputCfg controls where records land.
type OutputCfg struct {
	Path string `mapstructure:"path" yaml:"path"` // JSONL output path (empty: ~/.intake/outputs/orders.jsonl)
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Providers: map[string]ProviderCfg{
			"openai": {
				Type:        "openai",
				Model:       "gpt-4o-mini",
				APIKey:      "${OPENAI_API_KEY}",
				RateLimit:   2.0,
				TimeoutSecs: 120,
				MaxRetries:  2,
				Enabled:     true,
			},
			"azure": {
				Type:          "azure-openai",
				Model:         "gpt-4o-mini",
				APIKey:        "${AZURE_OPENAI_API_KEY}",
				AzureEndpoint: "${AZURE_OPENAI_ENDPOINT}",
				APIVersion:    "2024-02-15-preview",
				RateLimit:     2.0,
				TimeoutSecs:   120,
				MaxRetries:    2,
				Enabled:       false,
			},
			"openrouter": {
				Type:        "openrouter",
				Model:       "openai/gpt-4o-mini",
				APIKey:      "${OPENROUTER_API_KEY}",
				RateLimit:   2.0,
				TimeoutSecs: 120,
				MaxRetries:  3,
				Enabled:     false,
			},
		},
		Defaults: DefaultsCfg{
			Provider: "openai",
		},
		Extraction: ExtractionCfg{
			MaxAttempts:    3,
			RetryDelaySecs: 2,
		},
		Output: OutputCfg{},
	}
}

// GetProvider returns a provider config by name.
func (c *Config) GetProvider(name string) (ProviderCfg, bool) {
	cfg, ok := c.Providers[name]
	return cfg, ok
}

// EnabledProviders returns all enabled providers.
func (c *Config) EnabledProviders() map[string]ProviderCfg {
	result := make(map[string]ProviderCfg)
	for name, cfg := range c.Providers {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}
