// Package verdict turns a claim, its evidence and a model response into a
// structured verdict. The synthesizer never returns an error: every failure
// mode degrades to an explicit ABSTAIN or NEEDS_REVIEW result so callers
// always have something to show.
package verdict

import (
	"context"
	"fmt"
	"os"

	"github.com/verifact/verifact/internal/evidence"
	"github.com/verifact/verifact/internal/llm"
	"github.com/verifact/verifact/internal/model"
)

// Synthesizer produces structured verdicts from claims and evidence
type Synthesizer struct {
	provider       llm.Provider
	trainingCutoff string
	backupFetch    BackupFetch
	verbose        bool
}

// New creates a synthesizer. A nil provider selects evidence-only mode.
func New(provider llm.Provider, trainingCutoff string, backupFetch BackupFetch, verbose bool) *Synthesizer {
	return &Synthesizer{
		provider:       provider,
		trainingCutoff: trainingCutoff,
		backupFetch:    backupFetch,
		verbose:        verbose,
	}
}

// rawVerdict mirrors the JSON contract the prompt demands from the model
type rawVerdict struct {
	Verdict    string   `json:"verdict"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons"`
	Summary    string   `json:"summary"`
	Spans      []struct {
		Start   int    `json:"start"`
		End     int    `json:"end"`
		Snippet string `json:"snippet"`
	} `json:"spans"`
	Claims []struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
		Citations  []int   `json:"citations"`
	} `json:"claims"`
	Flags struct {
		OutdatedModel bool `json:"outdated_model"`
		FutureEvent   bool `json:"future_event"`
	} `json:"flags"`
}

// Synthesize builds the final verdict for one claim. Model errors and
// unparseable output degrade to ABSTAIN; a missing provider degrades to an
// evidence-only NEEDS_REVIEW. The post-processing passes then run in a fixed
// order: temporal override, outdated-reasoning patch, confidence shaping,
// clamp, citation enforcement.
func (s *Synthesizer) Synthesize(ctx context.Context, claimText string, sources []model.EvidenceSource, pol model.RoutingPolicy, vctx model.VerificationContext) model.StructuredVerdict {
	var sv model.StructuredVerdict

	switch {
	case s.provider == nil:
		sv = s.evidenceOnly(claimText, sources)
	default:
		sv = s.fromModel(ctx, claimText, sources)
	}

	sv.Proof.Flags.IsTemporal = pol.RouterIsTemporal
	sv.Proof.Flags.RouterCategory = pol.RouterCategory
	sv.Proof.Flags.RouterConfidence = pol.RouterConfidence
	sv.Proof.Flags.RouterMode = pol.EvidenceMode

	applyTemporalOverride(&sv.Proof, pol.RouterIsTemporal)
	patchOutdatedReasons(&sv.Proof)

	hasURLs := DetectURLs(claimText)
	hasCitations := DetectCitations(claimText)
	hasMultiScript := DetectMultiScript(claimText)
	sv.Proof.Confidence = shapeConfidence(sv.Proof.Confidence, hasURLs, hasCitations, hasMultiScript)
	sv.Proof.Flags.HasURLs = hasURLs
	sv.Proof.Flags.HasCitations = hasCitations
	sv.Proof.Flags.HasMultiLang = hasMultiScript

	sv.Proof.Confidence = clamp01(sv.Proof.Confidence)
	if sv.Proof.Verdict == model.VerdictAbstain {
		sv.Proof.Abstain = true
	}

	if len(sv.Claims) == 0 {
		sv.Claims = []model.VerdictClaim{{Text: claimText, Confidence: sv.Proof.Confidence}}
	}
	for i := range sv.Claims {
		sv.Claims[i].Confidence = clamp01(sv.Claims[i].Confidence)
	}

	enforceCitations(ctx, &sv, claimText, vctx, s.backupFetch)

	return sv
}

// fromModel runs the verification prompt and parses the response
func (s *Synthesizer) fromModel(ctx context.Context, claimText string, sources []model.EvidenceSource) model.StructuredVerdict {
	system, user := llm.BuildVerifyPrompt(claimText, sources, s.trainingCutoff)

	resp, err := s.provider.Classify(ctx, llm.ClassifyRequest{
		System: system,
		Prompt: user,
	})
	if err != nil {
		if s.verbose {
			fmt.Fprintf(os.Stderr, "Warning: model call failed: %v\n", err)
		}
		return s.abstainVerdict(sources, "The model could not be reached; the claim was not verified.")
	}

	var raw rawVerdict
	if err := llm.ExtractJSON(resp.Text, &raw); err != nil {
		if s.verbose {
			fmt.Fprintf(os.Stderr, "Warning: unparseable model output: %v\n", err)
		}
		return s.abstainVerdict(sources, "The model returned an unreadable answer; the claim was not verified.")
	}

	return s.fromRaw(raw, sources)
}

func (s *Synthesizer) fromRaw(raw rawVerdict, sources []model.EvidenceSource) model.StructuredVerdict {
	sv := model.StructuredVerdict{
		Summary: raw.Summary,
		Proof: model.Proof{
			Verdict:    normalizeVerdict(raw.Verdict),
			Confidence: raw.Confidence,
			Reasons:    raw.Reasons,
			Sources:    sources,
			Flags: model.Flags{
				OutdatedModel: raw.Flags.OutdatedModel,
				FutureEvent:   raw.Flags.FutureEvent,
			},
		},
	}
	for _, sp := range raw.Spans {
		if sp.End > sp.Start && sp.Start >= 0 {
			sv.Proof.Spans = append(sv.Proof.Spans, model.Span{Start: sp.Start, End: sp.End, Snippet: sp.Snippet})
		}
	}
	for _, c := range raw.Claims {
		if c.Text == "" {
			continue
		}
		sv.Claims = append(sv.Claims, model.VerdictClaim{
			Text:       c.Text,
			Confidence: c.Confidence,
			Citations:  c.Citations,
		})
	}
	return sv
}

// evidenceOnly builds a verdict without a model: retrieval results are shown
// as-is and the verdict never rises above NEEDS_REVIEW
func (s *Synthesizer) evidenceOnly(claimText string, sources []model.EvidenceSource) model.StructuredVerdict {
	if len(sources) == 0 {
		sv := s.abstainVerdict(nil, "No language model is configured and no evidence could be retrieved.")
		sv.Proof.Flags.NoModelAvailable = true
		return sv
	}

	reasons := []string{"No language model is configured; this verdict reflects retrieved evidence only."}
	for i, src := range sources {
		title := src.Title
		if title == "" {
			title = src.URL
		}
		reasons = append(reasons, fmt.Sprintf("[S%d] %s (%s)", i+1, title, src.Domain))
	}

	// Evidence quality stands in for model confidence, biased low so the
	// result reads as a lead to follow, not a verified fact.
	confidence := clamp01(0.3 + 0.4*evidence.AverageAuthority(sources))

	return model.StructuredVerdict{
		Proof: model.Proof{
			Verdict:    model.VerdictNeedsReview,
			Confidence: confidence,
			Reasons:    reasons,
			Sources:    sources,
			Flags:      model.Flags{NoModelAvailable: true},
		},
	}
}

func (s *Synthesizer) abstainVerdict(sources []model.EvidenceSource, reason string) model.StructuredVerdict {
	return model.StructuredVerdict{
		Proof: model.Proof{
			Verdict:    model.VerdictAbstain,
			Confidence: 0.3,
			Reasons:    []string{reason},
			Sources:    sources,
			Abstain:    true,
		},
	}
}

func normalizeVerdict(v string) model.Verdict {
	switch model.Verdict(v) {
	case model.VerdictOK, model.VerdictNeedsReview, model.VerdictAbstain:
		return model.Verdict(v)
	default:
		// An off-contract verdict string is treated as uncertainty
		return model.VerdictNeedsReview
	}
}
