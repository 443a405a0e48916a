package llm

import (
	"context"
	"fmt"

	"github.com/verifact/verifact/internal/model"
)

// ZeroShotClassifier scores topic labels against claim text using a
// Provider. It satisfies the router's Classifier interface; the router owns
// ranking, validation and the keyword fallback.
type ZeroShotClassifier struct {
	provider Provider
}

// NewZeroShotClassifier wraps a provider for label scoring
func NewZeroShotClassifier(provider Provider) *ZeroShotClassifier {
	return &ZeroShotClassifier{provider: provider}
}

// Classify asks the model to score each candidate label between 0 and 1
func (c *ZeroShotClassifier) Classify(ctx context.Context, text string, labels []model.TopicLabel) ([]model.LabelScore, error) {
	if c.provider == nil {
		return nil, fmt.Errorf("no model provider configured")
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("no candidate labels")
	}

	system, user := BuildRouterPrompt(text, labels)
	resp, err := c.provider.Classify(ctx, ClassifyRequest{
		System:    system,
		Prompt:    user,
		MaxTokens: 300,
	})
	if err != nil {
		return nil, fmt.Errorf("zero-shot classification: %w", err)
	}

	var raw map[string]float64
	if err := ExtractJSON(resp.Text, &raw); err != nil {
		return nil, fmt.Errorf("zero-shot classification: %w", err)
	}

	// Keep only the labels that were asked for; a label the model did not
	// score counts as zero rather than an error.
	scores := make([]model.LabelScore, 0, len(labels))
	seen := 0
	for _, label := range labels {
		score, ok := raw[string(label)]
		if ok {
			seen++
		}
		scores = append(scores, model.LabelScore{Label: label, Score: score})
	}
	if seen == 0 {
		return nil, fmt.Errorf("zero-shot classification: model scored none of the candidate labels")
	}

	return scores, nil
}
