package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const envPrefix = "STUDYDESK_"

// Config selects and configures the completion provider. Credentials are
// read once here and handed to providers at construction.
type Config struct {
	// Provider is one of anthropic, openai, gemini, openrouter or mock.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one completion, retries included.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig also serves any OpenAI-compatible endpoint through BaseURL.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig is the exponential backoff applied to transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

func DefaultConfig() Config {
	return Config{
		Provider:   "openai",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "openai/gpt-4o-mini"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 60 * time.Second,
	}
}

// envBindings maps STUDYDESK_* variables, without the prefix, onto fields.
func (c *Config) envBindings() map[string]*string {
	return map[string]*string{
		"LLM_PROVIDER":        &c.Provider,
		"ANTHROPIC_API_KEY":   &c.Anthropic.APIKey,
		"ANTHROPIC_MODEL":     &c.Anthropic.Model,
		"OPENAI_API_KEY":      &c.OpenAI.APIKey,
		"OPENAI_MODEL":        &c.OpenAI.Model,
		"OPENAI_BASE_URL":     &c.OpenAI.BaseURL,
		"GEMINI_API_KEY":      &c.Gemini.APIKey,
		"GEMINI_MODEL":        &c.Gemini.Model,
		"OPENROUTER_API_KEY":  &c.OpenRouter.APIKey,
		"OPENROUTER_MODEL":    &c.OpenRouter.Model,
		"OPENROUTER_BASE_URL": &c.OpenRouter.BaseURL,
	}
}

// ConfigFromEnv applies STUDYDESK_* variables over DefaultConfig. Unset or
// empty variables keep the default, as does an unparsable timeout.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for name, field := range cfg.envBindings() {
		if v := os.Getenv(envPrefix + name); v != "" {
			*field = v
		}
	}
	if d, err := time.ParseDuration(os.Getenv(envPrefix + "LLM_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}
	return cfg
}

// vendorKeys lists the providers' own API key variables in discovery order.
var vendorKeys = []struct{ provider, env string }{
	{"openai", "OPENAI_API_KEY"},
	{"gemini", "GEMINI_API_KEY"},
	{"anthropic", "ANTHROPIC_API_KEY"},
	{"openrouter", "OPENROUTER_API_KEY"},
}

// DiscoverConfig picks the first provider whose vendor API key variable is
// set. It reports false when none is.
func DiscoverConfig() (Config, bool) {
	for _, vk := range vendorKeys {
		key := os.Getenv(vk.env)
		if key == "" {
			continue
		}
		cfg := DefaultConfig()
		cfg.Provider = vk.provider
		*cfg.apiKey() = key
		return cfg, true
	}
	return Config{}, false
}

// apiKey points at the key field of the selected provider, or nil for
// providers without one.
func (c *Config) apiKey() *string {
	switch c.Provider {
	case "anthropic":
		return &c.Anthropic.APIKey
	case "openai":
		return &c.OpenAI.APIKey
	case "gemini":
		return &c.Gemini.APIKey
	case "openrouter":
		return &c.OpenRouter.APIKey
	}
	return nil
}

// Validate checks that the provider is known and has its API key.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	key := c.apiKey()
	if key == nil {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if *key == "" {
		return fmt.Errorf("%s%s_API_KEY is required for the %s provider", envPrefix, strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}
