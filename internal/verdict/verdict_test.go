package verdict

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/verifact/verifact/internal/llm"
	"github.com/verifact/verifact/internal/model"
)

type stubProvider struct {
	text string
	err  error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) IsAvailable(context.Context) bool { return true }

func (s *stubProvider) Classify(context.Context, llm.ClassifyRequest) (*llm.ClassifyResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llm.ClassifyResponse{Text: s.text, Model: "stub"}, nil
}

func webSource(id int) model.EvidenceSource {
	return model.EvidenceSource{
		ID:     id,
		Title:  "Jobs report",
		URL:    "https://reuters.com/jobs",
		Domain: "reuters.com",
		Type:   model.SourceWeb,
	}
}

func temporalPolicy() model.RoutingPolicy {
	return model.RoutingPolicy{
		EvidenceMode:     model.ModeWebFirst,
		RouterCategory:   model.LabelJobMarket,
		RouterIsTemporal: true,
	}
}

func TestSynthesize_TemporalOverrideWithoutStrongEvidence(t *testing.T) {
	// Model is overconfident about a post-cutoff event with no real evidence.
	provider := &stubProvider{
		text: `{"verdict": "OK", "confidence": 0.95, "reasons": ["The market improved."]}`,
	}
	s := New(provider, "2024-06-30", nil, false)

	fallback := model.EvidenceSource{ID: 1, Title: "Live search", Type: model.SourceFallback}
	got := s.Synthesize(context.Background(), "Unemployment fell sharply this month",
		[]model.EvidenceSource{fallback}, temporalPolicy(), model.VerificationContext{})

	if got.Proof.Verdict != model.VerdictNeedsReview {
		t.Errorf("expected NEEDS_REVIEW, got %s", got.Proof.Verdict)
	}
	if got.Proof.Confidence > 0.9 {
		t.Errorf("confidence must be capped, got %f", got.Proof.Confidence)
	}
	if !got.Proof.Flags.OutdatedModel || !got.Proof.Flags.FutureEvent {
		t.Errorf("expected outdated_model and future_event flags, got %+v", got.Proof.Flags)
	}
	if len(got.Proof.Reasons) == 0 || !strings.HasPrefix(got.Proof.Reasons[0], llm.TimeWindowMarker) {
		t.Errorf("first reason must carry the time-window marker, got %v", got.Proof.Reasons)
	}
	// The model's own reason survives after the notice
	if got.Proof.Reasons[len(got.Proof.Reasons)-1] != "The market improved." {
		t.Errorf("model reasons must be preserved, got %v", got.Proof.Reasons)
	}
}

func TestSynthesize_TemporalWithStrongEvidenceKeepsVerdict(t *testing.T) {
	provider := &stubProvider{
		text: `{"verdict": "OK", "confidence": 0.8, "reasons": ["Supported by the jobs report."], "claims": [{"text": "Unemployment fell", "confidence": 0.8, "citations": [1]}]}`,
	}
	s := New(provider, "2024-06-30", nil, false)

	got := s.Synthesize(context.Background(), "Unemployment fell sharply this month",
		[]model.EvidenceSource{webSource(1)}, temporalPolicy(), model.VerificationContext{})

	if got.Proof.Verdict != model.VerdictOK {
		t.Errorf("expected OK with strong evidence, got %s", got.Proof.Verdict)
	}
	if got.Proof.Flags.OutdatedModel {
		t.Error("outdated_model must not be set when strong evidence exists")
	}
	if len(got.Claims) != 1 || len(got.Claims[0].Citations) != 1 || got.Claims[0].Citations[0] != 1 {
		t.Errorf("model citations must be preserved, got %+v", got.Claims)
	}
}

func TestSynthesize_OutdatedReasoningPatched(t *testing.T) {
	orig := nowFunc
	nowFunc = func() time.Time { return time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC) }
	defer func() { nowFunc = orig }()

	provider := &stubProvider{
		text: `{"verdict": "OK", "confidence": 0.8, "reasons": ["The 2024 election has not yet occurred, so this cannot be confirmed."]}`,
	}
	s := New(provider, "2024-06-30", nil, false)

	got := s.Synthesize(context.Background(), "The 2024 election was won by the incumbent",
		[]model.EvidenceSource{webSource(1)}, model.RoutingPolicy{RouterCategory: model.LabelPolitics}, model.VerificationContext{})

	if got.Proof.Verdict != model.VerdictNeedsReview {
		t.Errorf("expected NEEDS_REVIEW, got %s", got.Proof.Verdict)
	}
	if !got.Proof.Abstain {
		t.Error("expected abstain on outdated reasoning")
	}
	if !got.Proof.Flags.OutdatedModel {
		t.Error("expected outdated_model flag")
	}
	if !strings.Contains(got.Proof.Reasons[0], "outdated model knowledge") {
		t.Errorf("expected warning as first reason, got %v", got.Proof.Reasons[0])
	}
}

func TestSynthesize_FutureYearNotPatched(t *testing.T) {
	orig := nowFunc
	nowFunc = func() time.Time { return time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC) }
	defer func() { nowFunc = orig }()

	// "will take place" about a genuinely future year is correct reasoning
	provider := &stubProvider{
		text: `{"verdict": "NEEDS_REVIEW", "confidence": 0.7, "reasons": ["The 2028 election will take place after today."]}`,
	}
	s := New(provider, "2024-06-30", nil, false)

	got := s.Synthesize(context.Background(), "The 2028 election will be close",
		[]model.EvidenceSource{webSource(1)}, model.RoutingPolicy{}, model.VerificationContext{})

	if got.Proof.Abstain {
		t.Error("future-year reasoning must not trigger the outdated patch")
	}
}

func TestSynthesize_MalformedModelOutputAbstains(t *testing.T) {
	provider := &stubProvider{text: "Sure! ```json {\"verdict\": \"OK\", \"confi"}
	s := New(provider, "2024-06-30", nil, false)

	got := s.Synthesize(context.Background(), "The speed of light is constant",
		[]model.EvidenceSource{webSource(1)}, model.RoutingPolicy{}, model.VerificationContext{})

	if got.Proof.Verdict != model.VerdictAbstain {
		t.Errorf("expected ABSTAIN, got %s", got.Proof.Verdict)
	}
	if got.Proof.Confidence != 0.3 {
		t.Errorf("expected confidence 0.3, got %f", got.Proof.Confidence)
	}
	if !got.Proof.Abstain {
		t.Error("expected abstain flag")
	}
}

func TestSynthesize_ModelErrorAbstains(t *testing.T) {
	provider := &stubProvider{err: errors.New("connection refused")}
	s := New(provider, "2024-06-30", nil, false)

	got := s.Synthesize(context.Background(), "The speed of light is constant",
		nil, model.RoutingPolicy{}, model.VerificationContext{})

	if got.Proof.Verdict != model.VerdictAbstain || got.Proof.Confidence != 0.3 {
		t.Errorf("expected ABSTAIN 0.3, got %s %f", got.Proof.Verdict, got.Proof.Confidence)
	}
}

func TestSynthesize_EvidenceOnlyMode(t *testing.T) {
	s := New(nil, "2024-06-30", nil, false)

	got := s.Synthesize(context.Background(), "The speed of light is constant",
		[]model.EvidenceSource{webSource(1)}, model.RoutingPolicy{}, model.VerificationContext{})

	if got.Proof.Verdict != model.VerdictNeedsReview {
		t.Errorf("expected NEEDS_REVIEW in evidence-only mode, got %s", got.Proof.Verdict)
	}
	if !got.Proof.Flags.NoModelAvailable {
		t.Error("expected no_model_available flag")
	}
	if len(got.Claims) != 1 || len(got.Claims[0].Citations) == 0 {
		t.Errorf("expected one claim citing the evidence, got %+v", got.Claims)
	}
}

func TestSynthesize_ConfidenceShaping(t *testing.T) {
	tests := []struct {
		name  string
		claim string
		want  float64
	}{
		{"url boost", "See https://example.com/study for details", 0.55},
		{"citation boost", "The effect was shown by Smith et al. (2019)", 0.5},
		{"plain claim unshaped", "The sky is sometimes green", 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &stubProvider{
				text: `{"verdict": "NEEDS_REVIEW", "confidence": 0.4, "reasons": ["unsure"]}`,
			}
			s := New(provider, "2024-06-30", nil, false)
			got := s.Synthesize(context.Background(), tt.claim,
				[]model.EvidenceSource{webSource(1)}, model.RoutingPolicy{}, model.VerificationContext{})

			if diff := got.Proof.Confidence - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("expected confidence %f, got %f", tt.want, got.Proof.Confidence)
			}
		})
	}
}

func TestSynthesize_HighConfidenceNotShaped(t *testing.T) {
	provider := &stubProvider{
		text: `{"verdict": "OK", "confidence": 0.7, "reasons": ["clear"]}`,
	}
	s := New(provider, "2024-06-30", nil, false)
	got := s.Synthesize(context.Background(), "See https://example.com for details",
		[]model.EvidenceSource{webSource(1)}, model.RoutingPolicy{}, model.VerificationContext{})

	if got.Proof.Confidence != 0.7 {
		t.Errorf("confidence above 0.6 must not be boosted, got %f", got.Proof.Confidence)
	}
	if !got.Proof.Flags.HasURLs {
		t.Error("hasUrls flag must still be recorded")
	}
}

func TestSynthesize_CitationEnforcement(t *testing.T) {
	// Model cites a source index that does not exist
	provider := &stubProvider{
		text: `{"verdict": "OK", "confidence": 0.8, "reasons": ["ok"], "claims": [{"text": "claim a", "confidence": 0.8, "citations": [9]}]}`,
	}
	s := New(provider, "2024-06-30", nil, false)

	got := s.Synthesize(context.Background(), "claim a",
		[]model.EvidenceSource{webSource(1), webSource(2)}, model.RoutingPolicy{}, model.VerificationContext{})

	if len(got.Claims) != 1 {
		t.Fatalf("expected 1 claim, got %d", len(got.Claims))
	}
	if len(got.Claims[0].Citations) != 2 {
		t.Errorf("out-of-range citations must fall back to all sources, got %v", got.Claims[0].Citations)
	}
}

func TestSynthesize_BackupFetchChain(t *testing.T) {
	provider := &stubProvider{
		text: `{"verdict": "NEEDS_REVIEW", "confidence": 0.5, "reasons": ["no evidence"]}`,
	}
	fetched := false
	backup := func(_ context.Context, _ string, limit int) []model.EvidenceSource {
		fetched = true
		return []model.EvidenceSource{webSource(1)}
	}
	s := New(provider, "2024-06-30", backup, false)

	got := s.Synthesize(context.Background(), "claim with no evidence",
		nil, model.RoutingPolicy{}, model.VerificationContext{})

	if !fetched {
		t.Fatal("expected backup fetch to run when no sources exist")
	}
	if len(got.Proof.Sources) != 1 {
		t.Errorf("expected fetched source attached, got %d", len(got.Proof.Sources))
	}
	if len(got.Claims[0].Citations) != 1 {
		t.Errorf("claims must cite the fetched source, got %v", got.Claims[0].Citations)
	}
}

func TestSynthesize_PageContextLastResort(t *testing.T) {
	provider := &stubProvider{
		text: `{"verdict": "NEEDS_REVIEW", "confidence": 0.5, "reasons": ["no evidence"]}`,
	}
	backup := func(context.Context, string, int) []model.EvidenceSource { return nil }
	s := New(provider, "2024-06-30", backup, false)

	vctx := model.VerificationContext{PageURL: "https://blog.example.com/post", PageTitle: "A blog post"}
	got := s.Synthesize(context.Background(), "claim with no evidence",
		nil, model.RoutingPolicy{}, vctx)

	if len(got.Proof.Sources) != 1 {
		t.Fatalf("expected page-context pseudo-source, got %d sources", len(got.Proof.Sources))
	}
	src := got.Proof.Sources[0]
	if src.URL != "https://blog.example.com/post" || src.Type != model.SourceFallback {
		t.Errorf("unexpected pseudo-source: %+v", src)
	}
	if src.Domain != "blog.example.com" {
		t.Errorf("expected domain from page URL, got %s", src.Domain)
	}
}

func TestSynthesize_ClaimTextLastResort(t *testing.T) {
	// No provider, no sources, backup returns nothing, no page context: the
	// claim's own text becomes the citation of last resort.
	backup := func(context.Context, string, int) []model.EvidenceSource { return nil }
	s := New(nil, "2024-06-30", backup, false)

	got := s.Synthesize(context.Background(), "The moon is made of rock.",
		nil, model.RoutingPolicy{}, model.VerificationContext{})

	if len(got.Proof.Sources) != 1 {
		t.Fatalf("expected claim-text pseudo-source, got %d sources", len(got.Proof.Sources))
	}
	src := got.Proof.Sources[0]
	if src.Type != model.SourceFallback {
		t.Errorf("expected fallback source, got %+v", src)
	}
	if src.Snippet != "The moon is made of rock." {
		t.Errorf("expected claim text as snippet, got %q", src.Snippet)
	}
	if len(got.Claims) == 0 {
		t.Fatal("expected at least one claim")
	}
	for i, c := range got.Claims {
		if len(c.Citations) == 0 {
			t.Errorf("claim %d has empty citations: %+v", i, c)
		}
	}
}

func TestSynthesize_SelectedTextLastResort(t *testing.T) {
	backup := func(context.Context, string, int) []model.EvidenceSource { return nil }
	s := New(nil, "2024-06-30", backup, false)

	vctx := model.VerificationContext{SelectedText: "  the moon's crust is basalt  "}
	got := s.Synthesize(context.Background(), "The moon is made of rock.",
		nil, model.RoutingPolicy{}, vctx)

	if len(got.Proof.Sources) != 1 {
		t.Fatalf("expected pseudo-source, got %d sources", len(got.Proof.Sources))
	}
	if got.Proof.Sources[0].Snippet != "the moon's crust is basalt" {
		t.Errorf("expected selected text as snippet, got %q", got.Proof.Sources[0].Snippet)
	}
}

func TestSynthesize_PageContextCarriesSelectedText(t *testing.T) {
	provider := &stubProvider{
		text: `{"verdict": "NEEDS_REVIEW", "confidence": 0.5, "reasons": ["no evidence"]}`,
	}
	s := New(provider, "2024-06-30", nil, false)

	vctx := model.VerificationContext{
		PageURL:      "https://blog.example.com/post",
		SelectedText: "quoted passage from the page",
	}
	got := s.Synthesize(context.Background(), "claim with no evidence",
		nil, model.RoutingPolicy{}, vctx)

	if len(got.Proof.Sources) != 1 {
		t.Fatalf("expected page-context pseudo-source, got %d sources", len(got.Proof.Sources))
	}
	if got.Proof.Sources[0].Snippet != "quoted passage from the page" {
		t.Errorf("expected selected text as snippet, got %q", got.Proof.Sources[0].Snippet)
	}
}

func TestSynthesize_UnknownVerdictNormalized(t *testing.T) {
	provider := &stubProvider{
		text: `{"verdict": "TRUE", "confidence": 0.9, "reasons": ["sure"]}`,
	}
	s := New(provider, "2024-06-30", nil, false)
	got := s.Synthesize(context.Background(), "some claim",
		[]model.EvidenceSource{webSource(1)}, model.RoutingPolicy{}, model.VerificationContext{})

	if got.Proof.Verdict != model.VerdictNeedsReview {
		t.Errorf("off-contract verdicts must normalize to NEEDS_REVIEW, got %s", got.Proof.Verdict)
	}
}

func TestDetectSignals(t *testing.T) {
	if !DetectURLs("see www.example.com now") {
		t.Error("expected URL detection")
	}
	if DetectURLs("no links here") {
		t.Error("unexpected URL detection")
	}
	if !DetectCitations("shown in [3]") {
		t.Error("expected citation detection")
	}
	if !DetectMultiScript("факт about the economy") {
		t.Error("expected multi-script detection")
	}
	if DetectMultiScript("plain english") {
		t.Error("unexpected multi-script detection")
	}
}
