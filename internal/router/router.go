package router

import (
	"context"
	"sort"
	"strings"

	"github.com/verifact/verifact/internal/model"
)

// Classifier scores a text against a closed label set. Implementations may
// be expensive to construct; the Router holds one instance for the session.
type Classifier interface {
	Classify(ctx context.Context, text string, labels []model.TopicLabel) ([]model.LabelScore, error)
}

// Router classifies a claim into a coarse topic plus a temporal flag.
// Route never returns an error: classifier failure degrades to the keyword
// path instead of propagating. Decisions are never cached per claim; the
// same text re-routed always produces a fresh decision.
type Router struct {
	classifier     Classifier // nil means keyword-only
	minClaimLength int
}

// New creates a Router. classifier may be nil.
func New(classifier Classifier, cfg model.RouterConfig) *Router {
	minLen := cfg.MinClaimLength
	if minLen <= 0 {
		minLen = 8
	}
	if !cfg.UseClassifier {
		classifier = nil
	}
	return &Router{
		classifier:     classifier,
		minClaimLength: minLen,
	}
}

// Route classifies claimText into a RouterDecision
func (r *Router) Route(ctx context.Context, claimText string) model.RouterDecision {
	text := strings.TrimSpace(claimText)
	if text == "" {
		return model.RouterDecision{
			TopLabel: model.LabelOther,
			TopScore: 0,
			Degraded: true,
		}
	}

	isTemporal := LooksTemporal(text)

	if r.classifier != nil && len(text) >= r.minClaimLength {
		if decision, ok := r.classify(ctx, text, isTemporal); ok {
			return decision
		}
	}

	label, score := classifyByKeywords(text)
	return model.RouterDecision{
		TopLabel:   label,
		TopScore:   score,
		Scores:     []model.LabelScore{{Label: label, Score: score}},
		IsTemporal: isTemporal,
		Degraded:   true,
	}
}

func (r *Router) classify(ctx context.Context, text string, isTemporal bool) (model.RouterDecision, bool) {
	scores, err := r.classifier.Classify(ctx, text, model.RouterLabels)
	if err != nil || len(scores) == 0 {
		return model.RouterDecision{}, false
	}

	sorted := make([]model.LabelScore, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	top := sorted[0]
	if !validLabel(top.Label) || top.Score < 0 || top.Score > 1 {
		return model.RouterDecision{}, false
	}

	return model.RouterDecision{
		TopLabel:   top.Label,
		TopScore:   top.Score,
		Scores:     sorted,
		IsTemporal: isTemporal,
	}, true
}

func validLabel(label model.TopicLabel) bool {
	for _, l := range model.RouterLabels {
		if l == label {
			return true
		}
	}
	return false
}
