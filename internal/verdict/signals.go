package verdict

import "regexp"

// Claim-text signals used for confidence shaping. A claim that carries its
// own URLs, academic citations or multi-script text tends to be quoted
// material rather than a bare assertion, which the shaping pass treats as a
// mild confidence boost when the model itself is unsure.

var urlRe = regexp.MustCompile(`(?i)(https?://\S+)|(www\.\S+)|(\w+\.(com|org|edu|gov|net)\S*)`)

var citationRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)doi:\s*10\.\d{4,}`),
	regexp.MustCompile(`(?i)arxiv:\s*\d{4}\.\d{4,}`),
	regexp.MustCompile(`(?i)isbn[:\s]*[\d-]+`),
	regexp.MustCompile(`(?i)et\s+al\.`),
	regexp.MustCompile(`\(\s*\d{4}\s*\)`),
	regexp.MustCompile(`\[\d+\]`),
}

// Arabic, CJK, Devanagari, Cyrillic
var multiScriptRe = regexp.MustCompile(`[\x{0600}-\x{06FF}\x{4E00}-\x{9FFF}\x{0900}-\x{097F}\x{0400}-\x{04FF}]`)

// DetectURLs reports whether the text embeds a link
func DetectURLs(text string) bool {
	return urlRe.MatchString(text)
}

// DetectCitations reports whether the text carries an academic citation
// pattern (DOI, arXiv, ISBN, "et al.", a parenthesized year, or a [n] ref)
func DetectCitations(text string) bool {
	for _, re := range citationRes {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// DetectMultiScript reports whether the text mixes in a non-Latin script
func DetectMultiScript(text string) bool {
	return multiScriptRe.MatchString(text)
}

// shapeConfidence boosts a low model confidence using claim-text signals.
// Boosts apply only below 0.6 so a confident verdict is never inflated
// further, and the shaped value never exceeds 0.95.
func shapeConfidence(confidence float64, hasURLs, hasCitations, hasMultiScript bool) float64 {
	if confidence >= 0.6 {
		return confidence
	}
	shaped := confidence
	if hasURLs {
		shaped += 0.15
	}
	if hasCitations {
		shaped += 0.10
	}
	if hasMultiScript {
		shaped += 0.05
	}
	if shaped > 0.95 {
		shaped = 0.95
	}
	return shaped
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
