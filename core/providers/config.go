package providers

import (
	"fmt"
	"time"
)

// BaseConfig contains configuration common to all providers.
type BaseConfig struct {
	// APIKey is the authentication key for the provider
	APIKey string `json:"api_key" yaml:"api_key"`

	// Model is the default model to use
	Model string `json:"model" yaml:"model"`

	// MaxTokens is the default maximum tokens to generate
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature is the default sampling temperature
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// Timeout for API requests
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// DefaultBaseConfig returns sensible defaults.
func DefaultBaseConfig() BaseConfig {
	return BaseConfig{
		MaxTokens:   4096,
		Temperature: 0.7,
		Timeout:     2 * time.Minute,
	}
}

// Validate checks the base configuration.
func (c *BaseConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api_key is required")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	return nil
}

// AnthropicConfig contains Anthropic-specific configuration.
type AnthropicConfig struct {
	BaseConfig `json:",inline" yaml:",inline"`

	// BaseURL overrides the default API endpoint
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	SystemPrompt string `json:"system_prompt" yaml:"system_prompt"`
}

// DefaultAnthropicConfig returns Anthropic defaults.
func DefaultAnthropicConfig() AnthropicConfig {
	base := DefaultBaseConfig()
	base.Model = "claude-sonnet-4-5-20250901"
	base.MaxTokens = 8192

	return AnthropicConfig{BaseConfig: base}
}

// Validate checks Anthropic-specific configuration.
func (c *AnthropicConfig) Validate() error {
	if err := c.BaseConfig.Validate(); err != nil {
		return fmt.Errorf("anthropic config: %w", err)
	}
	return nil
}

// OpenAIConfig contains OpenAI-specific configuration.
type OpenAIConfig struct {
	BaseConfig `json:",inline" yaml:",inline"`

	// BaseURL overrides the default API endpoint (proxies, gateways)
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Organization ID for OpenAI
	Organization string `json:"organization,omitempty" yaml:"organization,omitempty"`

	// ReasoningEffort for reasoning-capable models
	ReasoningEffort string `json:"reasoning_effort,omitempty" yaml:"reasoning_effort,omitempty"`

	SystemPrompt string `json:"system_prompt" yaml:"system_prompt"`
}

// DefaultOpenAIConfig returns OpenAI defaults.
func DefaultOpenAIConfig() OpenAIConfig {
	base := DefaultBaseConfig()
	base.Model = "gpt-4o"
	base.MaxTokens = 8192

	return OpenAIConfig{BaseConfig: base}
}

// Validate checks OpenAI-specific configuration.
func (c *OpenAIConfig) Validate() error {
	if err := c.BaseConfig.Validate(); err != nil {
		return fmt.Errorf("openai config: %w", err)
	}
	if c.ReasoningEffort != "" {
		switch c.ReasoningEffort {
		case "low", "medium", "high":
		default:
			return fmt.Errorf("openai config: reasoning_effort must be low, medium, or high")
		}
	}
	return nil
}

// GoogleConfig contains Google/Gemini-specific configuration.
type GoogleConfig struct {
	BaseConfig `json:",inline" yaml:",inline"`

	// ProjectID for Vertex AI (optional, uses Gemini API if not set)
	ProjectID string `json:"project_id,omitempty" yaml:"project_id,omitempty"`

	// Location for Vertex AI (e.g., "us-central1")
	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	// UseVertexAI switches from Gemini API to Vertex AI
	UseVertexAI bool `json:"use_vertex_ai" yaml:"use_vertex_ai"`

	SystemPrompt string `json:"system_prompt" yaml:"system_prompt"`
}

// DefaultGoogleConfig returns Google/Gemini defaults.
func DefaultGoogleConfig() GoogleConfig {
	base := DefaultBaseConfig()
	base.Model = "gemini-2.5-flash"
	base.MaxTokens = 8192

	return GoogleConfig{
		BaseConfig: base,
		Location:   "us-central1",
	}
}

// Validate checks Google-specific configuration.
func (c *GoogleConfig) Validate() error {
	if err := c.BaseConfig.Validate(); err != nil {
		return fmt.Errorf("google config: %w", err)
	}
	if c.UseVertexAI && c.ProjectID == "" {
		return fmt.Errorf("google config: project_id required for Vertex AI")
	}
	return nil
}

// ProviderType identifies the provider.
type ProviderType string

const (
	ProviderTypeAnthropic ProviderType = "anthropic"
	ProviderTypeOpenAI    ProviderType = "openai"
	ProviderTypeGoogle    ProviderType = "google"
)
