package model

import "time"

// Verdict is the final disposition of a claim
type Verdict string

const (
	VerdictOK          Verdict = "OK"
	VerdictNeedsReview Verdict = "NEEDS_REVIEW"
	VerdictAbstain     Verdict = "ABSTAIN"
)

// Span marks a suspicious phrase inside the claim text
type Span struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Snippet string `json:"snippet,omitempty"`
}

// VerdictClaim is one atomic claim inside a structured verdict. Citations is
// never empty once the synthesizer has finalized the verdict: the enforcement
// chain falls back to the full source list, a last-resort evidence fetch, or
// a pseudo-source built from the page context.
type VerdictClaim struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Citations  []int   `json:"citations"`
}

// Flags carries boolean and diagnostic annotations on a verdict
type Flags struct {
	OutdatedModel    bool `json:"outdated_model,omitempty"`
	FutureEvent      bool `json:"future_event,omitempty"`
	NoModelAvailable bool `json:"no_model_available,omitempty"`
	IsTemporal       bool `json:"isTemporal,omitempty"`
	HasURLs          bool `json:"hasUrls,omitempty"`
	HasCitations     bool `json:"hasCitations,omitempty"`
	HasMultiLang     bool `json:"hasMultiLang,omitempty"`

	// Router metadata attached for the risk assessor and reports
	RouterCategory   TopicLabel   `json:"routerCategory,omitempty"`
	RouterConfidence float64      `json:"routerConfidence,omitempty"`
	RouterMode       EvidenceMode `json:"routerEvidenceMode,omitempty"`

	// Grounding annotations attached by the grounding analyzer
	GroundingScore float64 `json:"groundingScore,omitempty"`
	GroundingLabel string  `json:"groundingLabel,omitempty"`
	Hallucination  bool    `json:"hallucination,omitempty"`
}

// Proof is the evidence-bearing section of a structured verdict
type Proof struct {
	Verdict    Verdict          `json:"verdict"`
	Confidence float64          `json:"confidence"`
	Reasons    []string         `json:"reasons"`
	Spans      []Span           `json:"spans,omitempty"`
	Sources    []EvidenceSource `json:"sources"`
	Flags      Flags            `json:"flags"`
	Abstain    bool             `json:"abstain,omitempty"`
}

// StructuredVerdict is the single owned artifact of one verification run.
// The RiskAssessment and source quality annotations are attachments that can
// be recomputed from it without re-running retrieval.
type StructuredVerdict struct {
	Summary string            `json:"summary,omitempty"`
	Claims  []VerdictClaim    `json:"claims"`
	Proof   Proof             `json:"proof"`
	Risk    *RiskAssessment   `json:"risk,omitempty"`
}

// RiskLabel buckets a risk score for display
type RiskLabel string

const (
	RiskLow    RiskLabel = "low"
	RiskMedium RiskLabel = "medium"
	RiskHigh   RiskLabel = "high"
)

// RiskAssessment is a post-hoc heuristic scoring of a verdict, independent of
// the model's own confidence. Pure and recomputable from the same inputs.
type RiskAssessment struct {
	Score   float64   `json:"score"`
	Label   RiskLabel `json:"label"`
	Reasons []string  `json:"reasons"`
}

// VerificationContext carries the page surroundings of a verification request.
// It is used only as citation-of-last-resort and as the OCR/image flag input,
// never as part of the decision logic.
type VerificationContext struct {
	SelectedText string `json:"selectedText,omitempty"`
	PageURL      string `json:"pageUrl,omitempty"`
	PageTitle    string `json:"pageTitle,omitempty"`
	ImageInfo    string `json:"imageInfo,omitempty"`
}

// VerificationResult is the complete output of Pipeline.Verify
type VerificationResult struct {
	ID         string             `json:"id"`
	Claim      Claim              `json:"claim"`
	CheckedAt  time.Time          `json:"checked_at"`
	Router     RouterDecision     `json:"router"`
	Policy     RoutingPolicy      `json:"policy"`
	Structured StructuredVerdict  `json:"structured"`
	Validation []ValidationResult `json:"validation,omitempty"`
	Quality    *SourceQuality     `json:"quality,omitempty"`
	Mode       string             `json:"mode"` // "local", "cloud", or "evidence-only"
	Cached     bool               `json:"cached,omitempty"`
}
