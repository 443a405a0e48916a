package model

// SignalType identifies a source-quality signal
type SignalType string

const (
	SignalEvidenceCoverage      SignalType = "evidence_coverage"
	SignalAuthorityDistribution SignalType = "authority_distribution"
	SignalFreshness             SignalType = "freshness"
	SignalAccessibility         SignalType = "accessibility"
	SignalDeadSources           SignalType = "dead_sources"
)

// Severity indicates how concerning a signal is
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// QualitySignal is one diagnostic observation about the evidence set
type QualitySignal struct {
	Type        SignalType             `json:"type"`
	Severity    Severity               `json:"severity"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// SourceQuality summarizes the evidence set behind a verdict on a 0-100
// index, with per-dimension signals. Purely descriptive: it never changes
// the verdict, only annotates the report.
type SourceQuality struct {
	Index      int             `json:"index"`
	Confidence string          `json:"confidence"`
	Signals    []QualitySignal `json:"signals"`
}
