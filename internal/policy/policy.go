// Package policy derives an evidence-acquisition strategy from a router
// decision. Compute is a pure function: no I/O, no time, no randomness.
package policy

import "github.com/verifact/verifact/internal/model"

// Threshold constants are empirically chosen and tunable; they are not
// load-bearing precise values.
const (
	lowRouterConfidence  = 0.4
	trendConfidenceFloor = 0.55
)

// Compute maps a RouterDecision to a RoutingPolicy using a first-match-wins
// decision table.
func Compute(d model.RouterDecision) model.RoutingPolicy {
	p := model.RoutingPolicy{
		VerdictHint:      model.VerdictNeedsReview, // conservative default
		RouterCategory:   d.TopLabel,
		RouterConfidence: d.TopScore,
		RouterIsTemporal: d.IsTemporal,
	}
	if p.RouterCategory == "" {
		p.RouterCategory = model.LabelOther
	}

	// Very low router confidence: fall back to the plain temporal heuristic.
	if d.TopScore < lowRouterConfidence {
		p.EvidenceMode = temporalMode(d.IsTemporal)
		p.AbstainLean = temporalLean(d.IsTemporal)
		return p
	}

	switch {
	case isTrendOrNews(d.TopLabel) && (d.IsTemporal || d.TopScore >= trendConfidenceFloor):
		// Job market, finance, politics, breaking news: prefer live web.
		p.EvidenceMode = model.ModeWebFirst
		p.AbstainLean = model.LeanCautious

	case d.TopLabel == model.LabelPublicHealth:
		// Health claims mix offline and web but stay cautious.
		if d.IsTemporal {
			p.EvidenceMode = model.ModeWebFirst
		} else {
			p.EvidenceMode = model.ModeMixed
		}
		p.AbstainLean = model.LeanCautious

	case d.TopLabel == model.LabelEvergreen || d.TopLabel == model.LabelTechScience:
		// Timeless or technical facts: the encyclopedia is usually enough.
		p.EvidenceMode = model.ModeWikiFirst
		p.AbstainLean = temporalLean(d.IsTemporal)

	default:
		p.EvidenceMode = temporalMode(d.IsTemporal)
		p.AbstainLean = temporalLean(d.IsTemporal)
	}

	return p
}

func isTrendOrNews(label model.TopicLabel) bool {
	switch label {
	case model.LabelJobMarket, model.LabelFinancial, model.LabelPolitics, model.LabelBreakingNews:
		return true
	}
	return false
}

func temporalMode(isTemporal bool) model.EvidenceMode {
	if isTemporal {
		return model.ModeWebFirst
	}
	return model.ModeWikiFirst
}

func temporalLean(isTemporal bool) model.AbstainLean {
	if isTemporal {
		return model.LeanCautious
	}
	return model.LeanNormal
}
