package llm

import (
	"context"

	"github.com/verifact/verifact/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Classify sends a prompt to the model and returns its raw text output.
	// Callers parse the output themselves; providers never interpret it.
	Classify(ctx context.Context, req ClassifyRequest) (*ClassifyResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// ClassifyRequest contains the input for one model call
type ClassifyRequest struct {
	// System frames the model's role and output contract
	System string

	// Prompt is the user-turn content
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature; zero means the provider default (0.2)
	Temperature float64
}

// ClassifyResponse contains the model's raw output
type ClassifyResponse struct {
	// Text is the model output, untrimmed of any JSON wrapping
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// TrainingCutoff is the approximate knowledge window of the configured
	// model, ISO date; the prompt builder frames temporal caveats with it
	TrainingCutoff string

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:       "", // Disabled by default
		Model:          "",
		Timeout:        30,
		MaxTokens:      1000,
		TrainingCutoff: "2024-06-30",
	}
}

// ConfigFromModel converts runtime configuration into a provider Config
func ConfigFromModel(llmCfg model.LLMConfig, httpCfg model.HTTPConfig) Config {
	cfg := Config{
		Provider:       llmCfg.Provider,
		Model:          llmCfg.Model,
		APIKey:         llmCfg.APIKey,
		BaseURL:        llmCfg.BaseURL,
		Timeout:        llmCfg.Timeout,
		MaxTokens:      llmCfg.MaxTokens,
		TrainingCutoff: llmCfg.TrainingCutoff,
		HTTPProxy:      httpCfg.HTTPProxy,
		HTTPSProxy:     httpCfg.HTTPSProxy,
		NoProxy:        httpCfg.NoProxy,
	}
	if cfg.TrainingCutoff == "" {
		cfg.TrainingCutoff = DefaultConfig().TrainingCutoff
	}
	return cfg
}
