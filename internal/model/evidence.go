package model

import "time"

// SourceType classifies where an evidence source came from
type SourceType string

const (
	SourceWiki          SourceType = "wiki"
	SourceWeb           SourceType = "web"
	SourceModelGrounded SourceType = "model-grounded"
	SourceFallback      SourceType = "fallback"
)

// EvidenceSource is one retrieved reference for a claim. Identity is the URL:
// two sources with the same URL are the same entity and are deduplicated,
// keeping the first-seen record.
type EvidenceSource struct {
	ID      int        `json:"id"`
	Title   string     `json:"title"`
	URL     string     `json:"url"`
	Domain  string     `json:"domain"`
	Snippet string     `json:"snippet,omitempty"`
	Type    SourceType `json:"sourceType"`

	// Publish metadata, when the adapter could determine it
	PublishDate string `json:"publishDate,omitempty"`
	AgeDays     *int   `json:"ageDays,omitempty"`

	// Quality annotations filled in by the scorer; zero until enriched
	Authority         float64 `json:"authority,omitempty"`
	AuthorityLabel    string  `json:"authorityLabel,omitempty"`
	AuthorityCategory string  `json:"authorityCategory,omitempty"`
	Recency           float64 `json:"recency,omitempty"`
	RecencyLabel      string  `json:"recencyLabel,omitempty"`
}

// ValidationResult records a reachability check of one evidence source
type ValidationResult struct {
	URL          string     `json:"url"`
	IsAccessible bool       `json:"is_accessible"`
	StatusCode   int        `json:"status_code,omitempty"`
	LastModified *time.Time `json:"last_modified,omitempty"`
	IsDead       bool       `json:"is_dead"` // 404, 410, or timeout
	RedirectURL  string     `json:"redirect_url,omitempty"`
	Error        string     `json:"error,omitempty"`

	// Staleness, derived from Last-Modified when the server sends it
	Age         *int `json:"age_days,omitempty"`
	IsStale     bool `json:"is_stale,omitempty"`      // older than 1 year
	IsVeryStale bool `json:"is_very_stale,omitempty"` // older than 3 years
}
