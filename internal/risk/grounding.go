package risk

import (
	"github.com/verifact/verifact/internal/model"
)

// Grounding labels
const (
	GroundingWell          = "Well grounded"
	GroundingWeak          = "Weakly grounded"
	GroundingHallucination = "Potential hallucination"
)

// AnalyzeGrounding estimates how well a verdict is anchored in its evidence
// and writes the result into the proof flags. The score runs 0 (very well
// grounded) to 1 (strong suspicion of hallucination); 0.5 is neutral. It is
// independent of the risk score: risk measures how much a reader should
// double-check, grounding measures whether the model made things up.
func AnalyzeGrounding(sv *model.StructuredVerdict) {
	proof := &sv.Proof
	sources := proof.Sources
	count := len(sources)
	avgAuth, avgRec, highAuth := sourceStats(sources)

	score := 0.5

	// An abstain with no sources is unknown, not hallucinated
	if proof.Verdict == model.VerdictAbstain && count == 0 {
		score = 0.5
	} else {
		// Big red flag: high-confidence OK with almost no or weak evidence
		if proof.Verdict == model.VerdictOK && proof.Confidence >= 0.8 && count == 0 {
			score += 0.3
		}
		if proof.Verdict == model.VerdictOK && proof.Confidence >= 0.8 && count > 0 && avgAuth < 0.6 {
			score += 0.2
		}

		// Moderate flag: non-abstain, low confidence, weak sources
		if proof.Verdict != model.VerdictAbstain && proof.Confidence < 0.6 && (count == 0 || avgAuth < 0.6) {
			score += 0.2
		}

		// Positive signal: multiple high-authority sources
		if count >= 2 && avgAuth >= 0.75 && highAuth >= 2 {
			score -= 0.2
		}

		// Without a model the verdict rests on evidence heuristics alone
		if proof.Flags.NoModelAvailable {
			score += 0.1
		}

		// Stale evidence under a temporal claim leans toward suspicion
		if proof.Flags.IsTemporal && count > 0 {
			if avgRec < 0.6 {
				score += 0.1
			} else {
				score -= 0.05
			}
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	label := GroundingWeak
	hallucination := false
	switch {
	case score <= 0.33:
		label = GroundingWell
	case score >= 0.66:
		label = GroundingHallucination
		hallucination = true
	}

	proof.Flags.GroundingScore = score
	proof.Flags.GroundingLabel = label
	proof.Flags.Hallucination = hallucination
}
