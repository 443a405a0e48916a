package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/verifact/verifact/internal/model"
	"github.com/verifact/verifact/internal/pipeline"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	userAgent   string
	noCache     bool
	noFooter    bool
	doValidate  bool
	strictMode  bool
	pageURL     string
	pageTitle   string
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <claim>",
	Short: "Verify a single claim against retrievable evidence",
	Long: `Check runs one claim through the full verification pipeline:
- Normalize the claim and classify its topic and time-sensitivity
- Acquire evidence from Wikipedia and web search
- Synthesize a structured verdict with citations
- Assess risk and grounding independently of the model's confidence

Example:
  verifact check "The Eiffel Tower is located in Paris"
  verifact check "Unemployment fell last quarter" --llm openai --llm-model gpt-4o-mini
  verifact check "..." --json result.json --md result.md --validate`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Output flags
	checkCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	checkCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	// HTTP flags
	checkCmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "overall verification timeout")
	checkCmd.Flags().StringVar(&userAgent, "ua", "Verifact/0.1 (+https://github.com/verifact/verifact)", "HTTP User-Agent")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result cache (force fresh verification)")
	checkCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	checkCmd.Flags().BoolVar(&doValidate, "validate", false, "check reachability of cited sources")
	checkCmd.Flags().BoolVar(&strictMode, "strict", false, "bias the risk assessment toward caution")

	// Page context flags
	checkCmd.Flags().StringVar(&pageURL, "page-url", "", "URL of the page the claim was taken from")
	checkCmd.Flags().StringVar(&pageTitle, "page-title", "", "title of the page the claim was taken from")

	// LLM flags
	checkCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable model-backed verdicts")
	checkCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	checkCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

// loadConfig merges the config file and environment over the defaults
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid configuration, using defaults: %v\n", err)
		cfg = model.DefaultConfig()
	}

	// Search API keys are only read from the environment
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		cfg.Evidence.GoogleAPIKey = key
	}
	if id := os.Getenv("GOOGLE_SEARCH_ENGINE_ID"); id != "" {
		cfg.Evidence.GoogleSearchEngineID = id
	}

	return cfg
}

// configureLLM resolves the provider API key from the environment
func configureLLM(cfg *model.Config) error {
	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel

	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		baseURL := os.Getenv("OLLAMA_BASE_URL")
		if baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	claim := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Build configuration from config file, env, and flags
	cfg := loadConfig()
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.Cache.Enabled = !noCache
	cfg.Evidence.Validate = doValidate
	cfg.Risk.StrictMode = strictMode
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter

	if llmEnabled {
		if err := configureLLM(cfg); err != nil {
			return err
		}
	} else {
		cfg.LLM.Provider = ""
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", claim)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	// Build the page context; fetch the page title if only a URL was given
	vctx := model.VerificationContext{PageURL: pageURL, PageTitle: pageTitle}
	if pageURL != "" && pageTitle == "" {
		fetcher := pipeline.NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent, 0, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)
		vctx = fetcher.PageContext(ctx, pageURL)
	}

	// Create pipeline and verify
	p := pipeline.NewPipeline(cfg)

	result, err := p.Verify(ctx, claim, vctx)
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Routed as %s (temporal: %v)\n", result.Router.TopLabel, result.Router.IsTemporal)
		fmt.Fprintf(os.Stderr, "✓ Retrieved %d sources\n", len(result.Structured.Proof.Sources))
		if result.Quality != nil {
			fmt.Fprintf(os.Stderr, "✓ Source quality index: %d/100\n", result.Quality.Index)
		}
		fmt.Fprintln(os.Stderr)
	}

	// Render outputs
	if err := p.RenderResult(result, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}
