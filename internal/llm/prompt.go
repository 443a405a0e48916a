package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/verifact/verifact/internal/model"
)

// nowFunc can be overridden in tests
var nowFunc = time.Now

// TimeWindowMarker prefixes the mandatory first reason when a verdict is
// capped by the model's training window. The synthesizer keys on it, so the
// prompt and the enforcement pass must agree on the exact string.
const TimeWindowMarker = "⏳ Time-window notice: "

// BuildVerifyPrompt constructs the system and user prompts for claim
// verification. The system prompt pins today's date and the training cutoff
// so the model abstains on post-cutoff claims instead of guessing.
func BuildVerifyPrompt(claimText string, sources []model.EvidenceSource, trainingCutoff string) (system, user string) {
	system = fmt.Sprintf(`You are a fact-checking model.

Today's date is %s.
Your general world knowledge comes from a model trained only on information available up to around %s.
You MUST treat any claim about events after that training window as potentially unknown.

Rules:
1. If the claim is clearly about events after your training window AND the evidence block below does not contain strong, specific support, you MUST abstain and mark the claim as "NEEDS_REVIEW". In that case:
   - verdict = "NEEDS_REVIEW"
   - confidence should reflect your uncertainty (for example 0.6-0.85, but never above 0.9)
   - flags.outdated_model = true
   - flags.future_event = true
   - The FIRST item in "reasons" MUST start with: "%s" followed by a short explanation.
2. If the claim is about recent events BUT the evidence clearly supports it, you may say "OK" but still mention any temporal uncertainty.
3. If the claim is not temporal, analyze it normally but never invent facts beyond the evidence.
4. ALWAYS base your reasoning on the EVIDENCE block when it is present.
5. When in doubt, prefer "NEEDS_REVIEW" (do not hallucinate).

Return ONLY valid JSON with the exact fields: verdict, confidence, reasons, spans, claims, flags.
Each entry of "claims" has fields: text, confidence, citations (1-based indices into the EVIDENCE block).
If you are missing information, prefer NEEDS_REVIEW over guessing.`,
		nowFunc().Format("2006-01-02"), trainingCutoff, TimeWindowMarker)

	user = fmt.Sprintf("CLAIM:\n%q\n\nEVIDENCE:\n%s", claimText, EvidenceBlock(sources))
	return system, user
}

// EvidenceBlock renders retrieved sources as a numbered prompt section. An
// empty slice renders an explicit no-evidence instruction rather than an
// empty string, so the model cannot mistake missing retrieval for license to
// answer from memory.
func EvidenceBlock(sources []model.EvidenceSource) string {
	if len(sources) == 0 {
		return "No external evidence could be retrieved for this claim. Do NOT guess: if the claim depends on events after your knowledge cutoff, you MUST abstain and mark it as NEEDS_REVIEW."
	}

	var b strings.Builder
	for i, s := range sources {
		title := s.Title
		if title == "" {
			title = "Untitled source"
		}
		domain := s.Domain
		if domain == "" {
			domain = "unknown-domain"
		}
		snippet := strings.Join(strings.Fields(s.Snippet), " ")

		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Source %d (%s - %s): %s", i+1, domain, title, snippet)
		if s.URL != "" {
			fmt.Fprintf(&b, " [%s]", s.URL)
		}
	}
	return b.String()
}

// BuildRouterPrompt constructs the zero-shot topic classification prompt.
// The model scores every candidate label so the caller can rank them.
func BuildRouterPrompt(text string, labels []model.TopicLabel) (system, user string) {
	system = `You are a zero-shot text classifier.
Score how well EACH candidate label describes the text, as a number between 0 and 1.
Return ONLY a JSON object mapping every candidate label to its score. No prose, no markdown.`

	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = string(l)
	}
	user = fmt.Sprintf("TEXT:\n%q\n\nCANDIDATE LABELS:\n%s", text, strings.Join(names, "\n"))
	return system, user
}
