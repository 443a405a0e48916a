package router

import (
	"regexp"

	"github.com/verifact/verifact/internal/model"
)

// Degraded-path matcher: when the classifier is unavailable or the input is
// too short, a deterministic keyword pass assigns one of the same labels so
// downstream policy logic is exercised identically.

const (
	keywordMatchScore = 0.8
	keywordMissScore  = 0.4
)

type keywordRule struct {
	label model.TopicLabel
	re    *regexp.Regexp
}

// Ordered: first match wins. More specific domains come before broad ones.
var keywordRules = []keywordRule{
	{model.LabelJobMarket, regexp.MustCompile(`(?i)\b(job market|employment|unemployment|hiring|layoffs?|salar(y|ies)|labou?r market|workforce|careers?|skills gap)\b`)},
	{model.LabelFinancial, regexp.MustCompile(`(?i)\b(stock market|inflation|interest rates?|gdp|recession|economy|economic|earnings|crypto(currency)?|federal reserve)\b`)},
	{model.LabelPublicHealth, regexp.MustCompile(`(?i)\b(vaccine|pandemic|epidemic|outbreak|disease|public health|medic(al|ine)|virus|who recommends?)\b`)},
	{model.LabelPolitics, regexp.MustCompile(`(?i)\b(election|president|parliament|congress|senate|policy|legislation|government|minister|campaign)\b`)},
	{model.LabelBreakingNews, regexp.MustCompile(`(?i)\b(breaking|just (in|announced)|developing story|moments ago)\b`)},
	{model.LabelSports, regexp.MustCompile(`(?i)\b(championship|world cup|olympics|playoffs?|box office|album|premiere|tournament)\b`)},
	{model.LabelTechScience, regexp.MustCompile(`(?i)\b(software|algorithm|artificial intelligence|machine learning|quantum|spacecraft|physics|chemistry|biology|research(ers)?)\b`)},
	{model.LabelEvergreen, regexp.MustCompile(`(?i)\b(is (located|defined as)|capital of|was (born|founded|invented)|originated|consists of|means)\b`)},
}

// classifyByKeywords assigns a label with a fixed confidence: 0.8 on a rule
// match, else other_or_ambiguous at 0.4.
func classifyByKeywords(text string) (model.TopicLabel, float64) {
	for _, rule := range keywordRules {
		if rule.re.MatchString(text) {
			return rule.label, keywordMatchScore
		}
	}
	return model.LabelOther, keywordMissScore
}
