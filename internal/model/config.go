package model

import "time"

// Config is the complete runtime configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Router      RouterConfig      `yaml:"router" mapstructure:"router"`
	Evidence    EvidenceConfig    `yaml:"evidence" mapstructure:"evidence"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Risk        RiskConfig        `yaml:"risk" mapstructure:"risk"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls outbound HTTP behaviour
type HTTPConfig struct {
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent  string        `yaml:"user_agent" mapstructure:"user_agent"`
	HTTPProxy  string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// RouterConfig controls the topic/temporal router
type RouterConfig struct {
	// UseClassifier enables the zero-shot classifier path; when false or the
	// classifier is unavailable, the keyword fallback produces the decision.
	UseClassifier bool `yaml:"use_classifier" mapstructure:"use_classifier"`
	// MinClaimLength below which the classifier is skipped entirely
	MinClaimLength int `yaml:"min_claim_length" mapstructure:"min_claim_length"`
}

// EvidenceConfig controls evidence acquisition
type EvidenceConfig struct {
	WikipediaBaseURL     string        `yaml:"wikipedia_base_url" mapstructure:"wikipedia_base_url"`
	GoogleAPIKey         string        `yaml:"google_api_key" mapstructure:"google_api_key"`
	GoogleSearchEngineID string        `yaml:"google_search_engine_id" mapstructure:"google_search_engine_id"`
	AdapterTimeout       time.Duration `yaml:"adapter_timeout" mapstructure:"adapter_timeout"`
	WikiLimit            int           `yaml:"wiki_limit" mapstructure:"wiki_limit"`
	WebLimit             int           `yaml:"web_limit" mapstructure:"web_limit"`
	Validate             bool          `yaml:"validate" mapstructure:"validate"`
	RequestsPerSecond    float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// LLMConfig selects and configures the language model provider
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "openai", "anthropic", "ollama", ""
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	// TrainingCutoff is the approximate knowledge window of the model,
	// ISO date, used to frame temporal caveats in the prompt
	TrainingCutoff string `yaml:"training_cutoff" mapstructure:"training_cutoff"`
}

// RiskConfig controls the risk assessor
type RiskConfig struct {
	StrictMode bool `yaml:"strict_mode" mapstructure:"strict_mode"`
}

// CacheConfig controls result caching
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ConcurrencyConfig controls worker counts
type ConcurrencyConfig struct {
	ValidationWorkers int `yaml:"validation_workers" mapstructure:"validation_workers"`
	BatchWorkers      int `yaml:"batch_workers" mapstructure:"batch_workers"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "Verifact/0.1 (+https://github.com/verifact/verifact)",
		},
		Router: RouterConfig{
			UseClassifier:  true,
			MinClaimLength: 8,
		},
		Evidence: EvidenceConfig{
			WikipediaBaseURL:  "https://en.wikipedia.org",
			AdapterTimeout:    8 * time.Second,
			WikiLimit:         3,
			WebLimit:          6,
			RequestsPerSecond: 2,
		},
		LLM: LLMConfig{
			Provider:       "",
			Timeout:        30,
			MaxTokens:      1000,
			TrainingCutoff: "2024-06-30",
		},
		Risk: RiskConfig{
			StrictMode: false,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     15 * time.Minute,
		},
		Concurrency: ConcurrencyConfig{
			ValidationWorkers: 10,
			BatchWorkers:      4,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
