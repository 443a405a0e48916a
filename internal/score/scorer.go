// Package score summarizes the evidence set behind a verdict into a 0-100
// quality index with per-dimension diagnostic signals.
package score

import (
	"fmt"
	"math"
	"sort"

	"github.com/verifact/verifact/internal/model"
)

// Scorer calculates the source quality index and generates signals
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate calculates the quality index and generates diagnostic signals
func (s *Scorer) Calculate(claims []model.VerdictClaim, sources []model.EvidenceSource, validation []model.ValidationResult) model.SourceQuality {
	var signals []model.QualitySignal

	// 1. Evidence Coverage (0-40 points)
	coverageScore, coverageSignal := s.calculateCoverage(claims, sources)
	signals = append(signals, coverageSignal)

	// 2. Authority Distribution (0-30 points)
	authorityScore, authoritySignal := s.calculateAuthority(sources)
	signals = append(signals, authoritySignal)

	// 3. Freshness (0-20 points)
	freshnessScore, freshnessSignal := s.calculateFreshness(sources, validation)
	signals = append(signals, freshnessSignal)

	// 4. Accessibility (0-10 points)
	accessScore, accessSignal := s.calculateAccessibility(validation)
	signals = append(signals, accessSignal)

	// 5. Dead Source Detection (penalty)
	deadDetected, deadSignal := s.detectDeadSources(validation)
	if deadDetected {
		signals = append(signals, deadSignal)
	}

	// Calculate total index
	totalScore := coverageScore + authorityScore + freshnessScore + accessScore

	// Apply dead source penalty
	if deadDetected {
		totalScore -= 10
		if totalScore < 0 {
			totalScore = 0
		}
	}

	// Determine confidence level
	confidence := s.determineConfidence(totalScore, len(sources), deadDetected)

	return model.SourceQuality{
		Index:      totalScore,
		Confidence: confidence,
		Signals:    signals,
	}
}

// calculateCoverage calculates evidence coverage score (0-40 points)
func (s *Scorer) calculateCoverage(claims []model.VerdictClaim, sources []model.EvidenceSource) (int, model.QualitySignal) {
	claimCount := len(claims)
	sourceCount := len(sources)

	if claimCount == 0 {
		return 0, model.QualitySignal{
			Type:        model.SignalEvidenceCoverage,
			Severity:    model.SeverityCritical,
			Description: "No claims extracted",
			Data: map[string]interface{}{
				"claims":  0,
				"sources": sourceCount,
			},
		}
	}

	ratio := float64(sourceCount) / float64(claimCount)
	score := int(math.Min(ratio*20, 40))

	severity := model.SeverityInfo
	if ratio < 1.0 {
		severity = model.SeverityCritical
	} else if ratio < 2.0 {
		severity = model.SeverityWarning
	}

	return score, model.QualitySignal{
		Type:        model.SignalEvidenceCoverage,
		Severity:    severity,
		Description: fmt.Sprintf("Source-to-claim ratio: %.2f", ratio),
		Data: map[string]interface{}{
			"claims":  claimCount,
			"sources": sourceCount,
			"ratio":   ratio,
			"score":   score,
			"formula": "min(source_count / claim_count * 20, 40)",
		},
	}
}

// calculateAuthority calculates authority distribution score (0-30 points)
func (s *Scorer) calculateAuthority(sources []model.EvidenceSource) (int, model.QualitySignal) {
	if len(sources) == 0 {
		return 0, model.QualitySignal{
			Type:        model.SignalAuthorityDistribution,
			Severity:    model.SeverityWarning,
			Description: "No sources retrieved",
			Data:        map[string]interface{}{"sources": 0},
		}
	}

	highCount := 0
	moderateCount := 0
	lowCount := 0

	for _, src := range sources {
		switch {
		case src.Authority >= 0.8:
			highCount++
		case src.Authority >= 0.6:
			moderateCount++
		default:
			lowCount++
		}
	}

	total := len(sources)
	weightedSum := float64(highCount*3 + moderateCount*2 + lowCount*1)
	maxPossible := float64(total * 3)
	score := int((weightedSum / maxPossible) * 30)

	severity := model.SeverityInfo
	if highCount == 0 {
		severity = model.SeverityWarning
	}

	return score, model.QualitySignal{
		Type:        model.SignalAuthorityDistribution,
		Severity:    severity,
		Description: fmt.Sprintf("Authority distribution: %d high, %d moderate, %d low", highCount, moderateCount, lowCount),
		Data: map[string]interface{}{
			"high":     highCount,
			"moderate": moderateCount,
			"low":      lowCount,
			"total":    total,
			"score":    score,
			"formula":  "(high*3 + moderate*2 + low*1) / (total*3) * 30",
		},
	}
}

// calculateFreshness calculates freshness score (0-20 points)
func (s *Scorer) calculateFreshness(sources []model.EvidenceSource, validation []model.ValidationResult) (int, model.QualitySignal) {
	var ages []int
	for _, v := range validation {
		if v.Age != nil {
			ages = append(ages, *v.Age)
		}
	}
	// Publish dates from the adapters fill in where Last-Modified was absent
	if len(ages) == 0 {
		for _, src := range sources {
			if src.AgeDays != nil {
				ages = append(ages, *src.AgeDays)
			}
		}
	}

	if len(ages) == 0 {
		return 10, model.QualitySignal{
			Type:        model.SignalFreshness,
			Severity:    model.SeverityInfo,
			Description: "No freshness data available (assuming moderate)",
			Data:        map[string]interface{}{"samples": 0, "score": 10},
		}
	}

	// Calculate median age
	sort.Ints(ages)
	medianAge := ages[len(ages)/2]
	medianAgeYears := float64(medianAge) / 365.0

	// Score: 20 points for fresh, decreasing by 5 points per year
	score := 20 - int(medianAgeYears*5)
	if score < 0 {
		score = 0
	}

	severity := model.SeverityInfo
	if medianAgeYears > 3 {
		severity = model.SeverityCritical
	} else if medianAgeYears > 1 {
		severity = model.SeverityWarning
	}

	return score, model.QualitySignal{
		Type:        model.SignalFreshness,
		Severity:    severity,
		Description: fmt.Sprintf("Median age: %.1f years", medianAgeYears),
		Data: map[string]interface{}{
			"median_age_days":  medianAge,
			"median_age_years": medianAgeYears,
			"samples":          len(ages),
			"score":            score,
			"formula":          "20 - min(median_age_years * 5, 20)",
		},
	}
}

// calculateAccessibility calculates accessibility score (0-10 points)
func (s *Scorer) calculateAccessibility(validation []model.ValidationResult) (int, model.QualitySignal) {
	if len(validation) == 0 {
		// Validation is optional; absence is not evidence of inaccessibility
		return 5, model.QualitySignal{
			Type:        model.SignalAccessibility,
			Severity:    model.SeverityInfo,
			Description: "Sources not validated (assuming moderate)",
			Data:        map[string]interface{}{"validated": 0, "score": 5},
		}
	}

	accessibleCount := 0
	for _, v := range validation {
		if v.IsAccessible {
			accessibleCount++
		}
	}

	ratio := float64(accessibleCount) / float64(len(validation))
	score := int(ratio * 10)

	severity := model.SeverityInfo
	if ratio < 0.5 {
		severity = model.SeverityCritical
	} else if ratio < 0.8 {
		severity = model.SeverityWarning
	}

	return score, model.QualitySignal{
		Type:        model.SignalAccessibility,
		Severity:    severity,
		Description: fmt.Sprintf("Accessibility: %d/%d (%.0f%%)", accessibleCount, len(validation), ratio*100),
		Data: map[string]interface{}{
			"accessible": accessibleCount,
			"total":      len(validation),
			"ratio":      ratio,
			"score":      score,
			"formula":    "(accessible_count / total) * 10",
		},
	}
}

// detectDeadSources detects when most cited sources are unreachable
func (s *Scorer) detectDeadSources(validation []model.ValidationResult) (bool, model.QualitySignal) {
	if len(validation) == 0 {
		return false, model.QualitySignal{}
	}

	deadCount := 0
	for _, v := range validation {
		if v.IsDead {
			deadCount++
		}
	}

	deadDetected := deadCount*2 > len(validation)

	if deadDetected {
		return true, model.QualitySignal{
			Type:        model.SignalDeadSources,
			Severity:    model.SeverityCritical,
			Description: fmt.Sprintf("Most cited sources are dead (%d/%d)", deadCount, len(validation)),
			Data: map[string]interface{}{
				"dead":    deadCount,
				"total":   len(validation),
				"penalty": 10,
			},
		}
	}

	return false, model.QualitySignal{}
}

// determineConfidence determines the confidence level based on the index
func (s *Scorer) determineConfidence(score int, sourceCount int, deadSources bool) string {
	if deadSources {
		return "low-medium"
	}

	if sourceCount < 3 {
		return "low"
	}

	if score >= 80 {
		return "high"
	} else if score >= 60 {
		return "medium"
	} else {
		return "low"
	}
}
