package evidence

import (
	"regexp"
	"strings"

	"github.com/verifact/verifact/internal/model"
)

// The relevance filter is deliberately permissive and recall-biased: dropping
// a genuinely relevant hit is worse than keeping a weak one, since quality
// scoring and the synthesizer still discount weak evidence downstream.

// Multi-word domain phrases counted as single tokens so a phrase match weighs
// more than incidental word overlap.
var domainPhrases = []string{
	"data science",
	"data scientist",
	"job market",
	"skills gap",
	"labor market",
	"labour market",
	"machine learning",
	"public health",
	"climate change",
	"interest rate",
}

// Curated high-signal vocabulary: one shared token from this set is enough to
// retain a hit.
var strongTokens = map[string]bool{
	"data": true, "science": true, "scientist": true, "scientists": true,
	"job": true, "jobs": true, "employment": true, "unemployment": true,
	"career": true, "careers": true, "market": true, "demand": true,
	"salary": true, "salaries": true, "hiring": true,
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9\s]`)

// FilterByOverlap retains hits sharing at least two tokens with the claim, or
// at least one strong token. Hit order is preserved; non-matches are removed.
func FilterByOverlap(hits []model.EvidenceSource, claimText string) []model.EvidenceSource {
	qTokens := Tokenize(claimText)
	if len(qTokens) == 0 {
		return hits
	}

	kept := make([]model.EvidenceSource, 0, len(hits))
	for _, hit := range hits {
		hTokens := Tokenize(hit.Title + " " + hit.Snippet)

		overlap := 0
		strongOverlap := 0
		for t := range qTokens {
			if hTokens[t] {
				overlap++
				if strongTokens[t] {
					strongOverlap++
				}
			}
		}

		if overlap >= 2 || strongOverlap >= 1 {
			kept = append(kept, hit)
		}
	}
	return kept
}

// Tokenize lowercases text into alphanumeric tokens longer than two runes,
// folding known domain phrases into single tokens first.
func Tokenize(text string) map[string]bool {
	s := strings.ToLower(text)

	tokens := make(map[string]bool)
	for _, phrase := range domainPhrases {
		if strings.Contains(s, phrase) {
			tokens[strings.ReplaceAll(phrase, " ", "_")] = true
		}
	}

	s = nonAlnumRe.ReplaceAllString(s, " ")
	for _, w := range strings.Fields(s) {
		if len(w) > 2 {
			tokens[w] = true
		}
	}
	return tokens
}
