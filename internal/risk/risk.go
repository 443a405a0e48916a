// Package risk scores finished verdicts for residual risk and grounding.
// Both assessors are pure: the same verdict and sources always produce the
// same score, so an assessment can be recomputed from a stored result
// without re-running retrieval or the model.
package risk

import (
	"regexp"
	"strings"

	"github.com/verifact/verifact/internal/model"
)

const baseRisk = 0.5

// neutral stands in for a source that was never scored
const neutralQuality = 0.5

// Assessor computes post-hoc risk assessments
type Assessor struct {
	strictMode bool
}

// NewAssessor creates an assessor. Strict mode biases every score upward.
func NewAssessor(strictMode bool) *Assessor {
	return &Assessor{strictMode: strictMode}
}

var (
	jobFieldRe  = regexp.MustCompile(`\b(data\s*scientist|data\s*science)\b`)
	jobSignalRe = regexp.MustCompile(`\b(demand|employment|job\s*market|hiring|growth|rising|shortage)\b`)
)

// Assess scores a structured verdict. Signals are additive from a 0.5 base;
// reasons are appended in evaluation order so the report reads as the audit
// trail of the score.
func (a *Assessor) Assess(sv model.StructuredVerdict, validation []model.ValidationResult) model.RiskAssessment {
	reasons := []string{}
	score := baseRisk

	proof := sv.Proof
	sources := proof.Sources

	textBlob := strings.ToLower(sv.Summary)
	if len(sv.Claims) > 0 {
		textBlob += " " + strings.ToLower(sv.Claims[0].Text)
	}
	looksJobMarket := jobFieldRe.MatchString(textBlob) && jobSignalRe.MatchString(textBlob)

	// Verdict + confidence shaping
	switch proof.Verdict {
	case model.VerdictAbstain:
		score += 0.1
		reasons = append(reasons, "Model abstained on this claim.")
	case model.VerdictNeedsReview:
		score += 0.1
		reasons = append(reasons, "Model requested human review.")
	}

	if proof.Confidence < 0.6 {
		score += 0.1
		reasons = append(reasons, "Low model confidence.")
	} else if proof.Confidence >= 0.85 && proof.Verdict == model.VerdictOK {
		score -= 0.05
		reasons = append(reasons, "High model confidence for an OK verdict.")
	}

	// Model availability flags
	if proof.Flags.OutdatedModel {
		score += 0.1
		reasons = append(reasons, "Model may be outdated for this claim.")
	}
	if proof.Flags.NoModelAvailable {
		score += 0.15
		reasons = append(reasons, "Model was unavailable; only evidence mode was used.")
	}

	// Evidence coverage
	count := len(sources)
	switch {
	case count == 0:
		score += 0.15
		reasons = append(reasons, "No external evidence sources available.")
	case count == 1:
		score += 0.05
		reasons = append(reasons, "Only one external source available.")
	case count >= 3:
		score -= 0.05
		reasons = append(reasons, "Multiple independent sources available.")
	}

	// Authority and recency
	avgAuth, avgRec, highAuth := sourceStats(sources)
	if count > 0 {
		if avgAuth < 0.6 {
			score += 0.15
			reasons = append(reasons, "Evidence is mostly from low or unknown authority sources.")
		} else if avgAuth >= 0.8 && highAuth >= 2 {
			score -= 0.1
			reasons = append(reasons, "Multiple high-authority sources support this claim.")
		}

		if proof.Flags.IsTemporal {
			if avgRec < 0.6 {
				score += 0.15
				reasons = append(reasons, "Time-sensitive claim, but evidence appears old or stale.")
			} else {
				reasons = append(reasons, "Time-sensitive claim with reasonably recent evidence.")
			}
		}

		// Job-market claims need live statistics, which neither an offline
		// model nor encyclopedic sources can provide
		if looksJobMarket && proof.Flags.OutdatedModel {
			reasons = append(reasons, "This is a job-market/demand claim. Current labour-market data may post-date the model, so it cannot reliably confirm present demand levels.")
		}
		if looksJobMarket && avgAuth < 0.7 {
			reasons = append(reasons, "Available sources mostly define the field or discuss general trends, but do not provide strong, up-to-date statistics about current demand across sectors.")
		}
	}

	// Reachability supplement: a verdict citing mostly dead links is riskier
	// than its source count suggests
	if dead, total := countDead(validation); total > 0 && dead*2 > total {
		score += 0.1
		reasons = append(reasons, "Most cited sources were unreachable when checked.")
	}

	if a.strictMode {
		score += 0.1
		reasons = append(reasons, "Strict risk mode is enabled (more conservative).")
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	return model.RiskAssessment{
		Score:   score,
		Label:   labelFor(score),
		Reasons: reasons,
	}
}

func labelFor(score float64) model.RiskLabel {
	switch {
	case score <= 0.33:
		return model.RiskLow
	case score >= 0.66:
		return model.RiskHigh
	default:
		return model.RiskMedium
	}
}

// sourceStats computes average authority/recency and the count of
// high-authority sources, treating unscored values as neutral
func sourceStats(sources []model.EvidenceSource) (avgAuth, avgRec float64, highAuth int) {
	if len(sources) == 0 {
		return 0, 0, 0
	}
	for _, src := range sources {
		auth := src.Authority
		if auth == 0 {
			auth = neutralQuality
		}
		rec := src.Recency
		if rec == 0 {
			rec = neutralQuality
		}
		avgAuth += auth
		avgRec += rec
		if strings.HasPrefix(strings.ToLower(src.AuthorityLabel), "high") {
			highAuth++
		}
	}
	n := float64(len(sources))
	return avgAuth / n, avgRec / n, highAuth
}

func countDead(validation []model.ValidationResult) (dead, total int) {
	for _, v := range validation {
		total++
		if !v.IsAccessible {
			dead++
		}
	}
	return dead, total
}
