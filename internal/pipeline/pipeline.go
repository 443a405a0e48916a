// Package pipeline orchestrates a complete verification run: normalize,
// route, acquire evidence, synthesize a verdict, and assess risk.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/verifact/verifact/internal/cache"
	"github.com/verifact/verifact/internal/evidence"
	"github.com/verifact/verifact/internal/evidence/adapters"
	"github.com/verifact/verifact/internal/llm"
	"github.com/verifact/verifact/internal/model"
	"github.com/verifact/verifact/internal/normalize"
	"github.com/verifact/verifact/internal/policy"
	"github.com/verifact/verifact/internal/risk"
	"github.com/verifact/verifact/internal/router"
	"github.com/verifact/verifact/internal/score"
	"github.com/verifact/verifact/internal/validate"
	"github.com/verifact/verifact/internal/verdict"
	"github.com/verifact/verifact/internal/worker"
)

// Pipeline orchestrates the complete verification process
type Pipeline struct {
	deduper     *normalize.Deduper
	router      *router.Router
	acquirer    *evidence.Acquirer
	validator   *validate.Validator
	synthesizer *verdict.Synthesizer
	assessor    *risk.Assessor
	scorer      *score.Scorer
	renderer    *Renderer
	provider    llm.Provider // nil in evidence-only mode
	cache       cache.Cache  // nil when caching is disabled
	config      *model.Config
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	// Create LLM provider if configured
	var provider llm.Provider
	if cfg.LLM.Provider != "" {
		p, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		} else {
			provider = p
		}
	}

	// The classifier shares the provider with the synthesizer
	var classifier router.Classifier
	if provider != nil && cfg.Router.UseClassifier {
		classifier = llm.NewZeroShotClassifier(provider)
	}

	limiter := worker.NewLimiter(cfg.Evidence.RequestsPerSecond, 5)
	wiki := adapters.NewWikipediaAdapter(cfg.Evidence.WikipediaBaseURL, cfg.Evidence.AdapterTimeout, cfg.HTTP.UserAgent, limiter)
	web := adapters.NewWebSearchAdapter(cfg.Evidence.GoogleAPIKey, cfg.Evidence.GoogleSearchEngineID, cfg.Evidence.AdapterTimeout, limiter)
	acquirer := evidence.NewAcquirer(wiki, web, cfg.Evidence, cfg.Output.Verbose)

	var resultCache cache.Cache
	if cfg.Cache.Enabled {
		resultCache = cache.NewMemoryCache(cfg.Cache.TTL, 5*time.Minute)
	}

	p := &Pipeline{
		deduper:   normalize.NewDeduper(normalize.DefaultDedupeWindow),
		router:    router.New(classifier, cfg.Router),
		acquirer:  acquirer,
		validator: validate.NewValidator(10*time.Second, cfg.Concurrency.ValidationWorkers, cfg.HTTP.UserAgent, cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy),
		assessor:  risk.NewAssessor(cfg.Risk.StrictMode),
		scorer:    score.NewScorer(),
		renderer:  NewRenderer(cfg.Output.IncludeFooter),
		provider:  provider,
		cache:     resultCache,
		config:    cfg,
	}
	p.synthesizer = verdict.New(provider, cfg.LLM.TrainingCutoff, p.backupFetch, cfg.Output.Verbose)

	return p
}

// Verify runs a single claim through the complete pipeline
func (p *Pipeline) Verify(ctx context.Context, claimText string, vctx model.VerificationContext) (*model.VerificationResult, error) {
	// 1. Normalize
	norm, err := normalize.Normalize(claimText, normalize.MaxClaimLen)
	if err != nil {
		return nil, fmt.Errorf("normalize claim: %w", err)
	}

	// 2. Serve from cache when an identical claim was checked recently
	key := cache.CacheKey(norm)
	if p.cache != nil {
		if data, found := p.cache.Get(key); found {
			var cached model.VerificationResult
			if err := json.Unmarshal(data, &cached); err == nil {
				cached.Cached = true
				return &cached, nil
			}
		}
	}

	// 3. Suppress duplicate in-flight runs of the same claim
	if !p.deduper.ShouldRun(norm) {
		return nil, fmt.Errorf("verification of this claim is already in progress")
	}
	defer p.deduper.Forget(norm)

	// 4. Route and derive the evidence policy
	decision := p.router.Route(ctx, norm)
	pol := policy.Compute(decision)

	// 5. Acquire and enrich evidence
	sources := p.acquirer.Acquire(ctx, norm, pol)
	sources = evidence.Enrich(sources)

	// 6. Validate source reachability (optional)
	var validation []model.ValidationResult
	if p.config.Evidence.Validate {
		validation, err = p.validator.Validate(ctx, sources)
		if err != nil {
			return nil, fmt.Errorf("validate sources: %w", err)
		}
	}

	// 7. Synthesize the verdict. Never errors: degradation is encoded in
	// the verdict itself.
	sv := p.synthesizer.Synthesize(ctx, norm, sources, pol, vctx)

	// 8. Attach grounding and risk annotations
	risk.AnalyzeGrounding(&sv)
	assessment := p.assessor.Assess(sv, validation)
	sv.Risk = &assessment

	// 9. Summarize source quality for the report
	quality := p.scorer.Calculate(sv.Claims, sv.Proof.Sources, validation)

	result := &model.VerificationResult{
		ID:         uuid.New().String(),
		Claim:      model.Claim{Text: claimText, Normalized: norm},
		CheckedAt:  time.Now().UTC(),
		Router:     decision,
		Policy:     pol,
		Structured: sv,
		Validation: validation,
		Quality:    &quality,
		Mode:       p.Mode(),
	}

	// 10. Cache the finished result
	if p.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			_ = p.cache.Set(key, data, p.config.Cache.TTL)
		}
	}

	return result, nil
}

// Mode reports how verdicts are being produced: "local" for an on-host
// model, "cloud" for a hosted API, "evidence-only" when no model is
// configured.
func (p *Pipeline) Mode() string {
	if p.provider == nil {
		return "evidence-only"
	}
	if p.provider.Name() == "ollama" {
		return "local"
	}
	return "cloud"
}

// backupFetch is the citation-of-last-resort evidence fetch used when the
// model produced a verdict with no retrievable sources
func (p *Pipeline) backupFetch(ctx context.Context, claimText string, limit int) []model.EvidenceSource {
	pol := model.RoutingPolicy{EvidenceMode: model.ModeMixed}
	sources := evidence.Enrich(p.acquirer.Acquire(ctx, claimText, pol))
	if limit > 0 && len(sources) > limit {
		sources = sources[:limit]
	}
	return sources
}

// RenderResult renders the result to the specified outputs
func (p *Pipeline) RenderResult(result *model.VerificationResult, jsonPath string, mdPath string, verbose bool) error {
	// Render JSON
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(result, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	// Render Markdown
	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(result, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	// Print summary to stdout
	p.renderer.RenderSummary(result)

	return nil
}
