package model

// TopicLabel is a coarse routing category for a claim
type TopicLabel string

// Closed label set used by the topic router. Only the ordering by score and
// the top label matter downstream.
const (
	LabelJobMarket    TopicLabel = "job_market_or_employment"
	LabelFinancial    TopicLabel = "financial_markets_or_economy"
	LabelPublicHealth TopicLabel = "public_health_or_medicine"
	LabelPolitics     TopicLabel = "politics_or_elections_or_policy"
	LabelTechScience  TopicLabel = "technology_or_science"
	LabelSports       TopicLabel = "sports_or_entertainment"
	LabelEvergreen    TopicLabel = "evergreen_fact_or_definition"
	LabelBreakingNews TopicLabel = "breaking_news_or_recent_event"
	LabelOther        TopicLabel = "other_or_ambiguous"
)

// RouterLabels lists every label the router may assign, in canonical order
var RouterLabels = []TopicLabel{
	LabelJobMarket,
	LabelFinancial,
	LabelPublicHealth,
	LabelPolitics,
	LabelTechScience,
	LabelSports,
	LabelEvergreen,
	LabelBreakingNews,
	LabelOther,
}

// Claim is the immutable input of one verification run
type Claim struct {
	Text       string `json:"text"`                  // Raw claim text as submitted
	Normalized string `json:"normalized,omitempty"`  // Cleaned form used for retrieval
}

// LabelScore is one (label, score) pair from the classifier
type LabelScore struct {
	Label TopicLabel `json:"label"`
	Score float64    `json:"score"`
}

// RouterDecision is the router's classification of a claim.
// TopScore is always the maximum over Scores; when the classifier is
// unavailable the decision degrades to LabelOther with a sub-0.5 score and
// IsTemporal derived from the heuristic detector instead of being left unset.
type RouterDecision struct {
	TopLabel   TopicLabel   `json:"topLabel"`
	TopScore   float64      `json:"topScore"`
	Scores     []LabelScore `json:"scores,omitempty"`
	IsTemporal bool         `json:"isTemporal"`
	Degraded   bool         `json:"degraded,omitempty"` // Keyword fallback produced this decision
}
