package normalize

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Query length caps for the common call sites. Third-party search APIs reject
// or silently truncate very long queries, so callers pick the cap that matches
// their target endpoint.
const (
	MaxSearchQueryLen  = 120
	MaxSummaryQueryLen = 220
	MaxClaimLen        = 320
)

// ErrUnusableQuery marks a query that must not be sent to any external
// adapter. Callers translate it into an empty-results contract, not a failure.
var ErrUnusableQuery = errors.New("query unusable after normalization")

// RawQuery is the structured form some callers pass instead of a plain
// string. The best available field is extracted in priority order.
type RawQuery struct {
	Text    string
	Summary string
	Claim   string
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	bulletRe     = regexp.MustCompile(`(\*\s*\*)|[\x{2022}•]|[*\-]{2,}`)
)

// ExtractText picks the best text field from a structured query
func ExtractText(q RawQuery) string {
	switch {
	case strings.TrimSpace(q.Text) != "":
		return q.Text
	case strings.TrimSpace(q.Summary) != "":
		return q.Summary
	default:
		return q.Claim
	}
}

// Normalize cleans a free-form query and truncates it to maxLen. It returns
// ErrUnusableQuery when the result contains no alphanumeric rune or literally
// encodes "[object Object]", the signature of a caller passing an
// unstringified object.
func Normalize(raw string, maxLen int) (string, error) {
	s := whitespaceRe.ReplaceAllString(strings.TrimSpace(raw), " ")

	if strings.Contains(s, "[object Object]") {
		return "", ErrUnusableQuery
	}
	if !hasAlphanumeric(s) {
		return "", ErrUnusableQuery
	}

	if maxLen > 0 && len(s) > maxLen {
		// Back off to a rune boundary so a multi-byte rune is never split.
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = strings.TrimSpace(s[:cut])
	}
	return s, nil
}

// CleanBullets strips markdown bullet noise from summarizer output before it
// is used as a search query
func CleanBullets(raw string) string {
	s := bulletRe.ReplaceAllString(raw, " ")
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

func hasAlphanumeric(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
