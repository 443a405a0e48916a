package model

// EvidenceMode selects the acquisition strategy for a claim
type EvidenceMode string

const (
	ModeWikiFirst EvidenceMode = "wiki-first"
	ModeWebFirst  EvidenceMode = "web-first"
	ModeMixed     EvidenceMode = "mixed"
)

// AbstainLean is the abstention posture passed to the synthesizer
type AbstainLean string

const (
	LeanNormal   AbstainLean = "normal"
	LeanCautious AbstainLean = "cautious"
)

// RoutingPolicy is derived deterministically from a RouterDecision.
// It is a pure value: no side effects, no hidden state.
type RoutingPolicy struct {
	EvidenceMode     EvidenceMode `json:"evidenceMode"`
	AbstainLean      AbstainLean  `json:"abstainLean"`
	VerdictHint      Verdict      `json:"verdictHint"`
	RouterCategory   TopicLabel   `json:"routerCategory"`
	RouterConfidence float64      `json:"routerConfidence"`
	RouterIsTemporal bool         `json:"routerIsTemporal"`
}
