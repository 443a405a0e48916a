package evidence

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/verifact/verifact/internal/model"
)

// nowFunc is injectable for tests
var nowFunc = time.Now

type authorityEntry struct {
	Score    float64
	Category string
}

// Curated domain reputation table. Longest-suffix match wins when several
// entries could apply; unmapped .gov and .edu hosts get fixed scores; all
// other hosts get the generic web default.
var authorityTable = map[string]authorityEntry{
	// Government and official statistics
	"bls.gov":    {1.0, "GOVT"},
	"census.gov": {1.0, "GOVT"},
	"data.gov":   {0.95, "GOVT"},
	"europa.eu":  {0.95, "GOVT"},

	// Intergovernmental organizations
	"who.int":       {0.95, "IGO"},
	"un.org":        {0.95, "IGO"},
	"worldbank.org": {0.95, "IGO"},

	// Academic and research
	"harvard.edu":           {0.9, "EDU"},
	"mit.edu":               {0.9, "EDU"},
	"stanford.edu":          {0.9, "EDU"},
	"doi.org":               {0.9, "RESEARCH"},
	"pubmed.ncbi.nlm.nih.gov": {0.9, "RESEARCH"},
	"arxiv.org":             {0.85, "RESEARCH"},

	// Established news and media
	"reuters.com": {0.8, "NEWS"},
	"apnews.com":  {0.8, "NEWS"},
	"bbc.com":     {0.75, "NEWS"},
	"nytimes.com": {0.75, "NEWS"},

	// Industry and professional
	"linkedin.com":      {0.7, "INDUSTRY"},
	"stackoverflow.com": {0.7, "INDUSTRY"},
	"kaggle.com":        {0.7, "INDUSTRY"},

	// Reference and aggregators
	"ourworldindata.org": {0.75, "REFERENCE"},
	"wikipedia.org":      {0.65, "REFERENCE"},
}

const (
	defaultAuthority  = 0.4
	govAuthority      = 0.9
	eduAuthority      = 0.85
	neutralRecency    = 0.5
	recencyFloor      = 0.1
)

// ScoreAuthority returns the authority score and category for a URL's domain
func ScoreAuthority(rawURL string) (float64, string) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return 0.3, "UNKNOWN"
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")

	// Longest matching suffix wins
	var bestLen int
	var best authorityEntry
	found := false
	for domain, entry := range authorityTable {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			if len(domain) > bestLen {
				bestLen = len(domain)
				best = entry
				found = true
			}
		}
	}
	if found {
		return best.Score, best.Category
	}

	if strings.HasSuffix(host, ".gov") {
		return govAuthority, "GOVT"
	}
	if strings.HasSuffix(host, ".edu") {
		return eduAuthority, "EDU"
	}
	return defaultAuthority, "WEB"
}

// ScoreRecency maps days-since-publish onto [0,1] with a decay curve:
// fresh within 30 days, linear decay across three bands, asymptotic floor
// past three years. A missing publish date scores neutral 0.5 — unknown
// recency is not conflated with known-stale.
func ScoreRecency(publishDate string, claimDate time.Time) (float64, *int) {
	if publishDate == "" {
		return neutralRecency, nil
	}

	pub, err := dateparse.ParseAny(publishDate)
	if err != nil {
		return neutralRecency, nil
	}

	days := int(claimDate.Sub(pub).Hours() / 24)
	return recencyFromAge(days), &days
}

func recencyFromAge(days int) float64 {
	switch {
	case days < 0:
		return 1.0 // future date, likely a publisher error
	case days <= 30:
		return 1.0
	case days <= 180:
		return 0.9 - float64(days-30)*0.2/150
	case days <= 365:
		return 0.7 - float64(days-180)*0.2/185
	case days <= 1095:
		return 0.5 - float64(days-365)*0.2/730
	default:
		v := 0.3 - float64(days-1095)*0.2/1095
		if v < recencyFloor {
			return recencyFloor
		}
		return v
	}
}

// AuthorityLabel derives the display band for an authority score. The bands
// are a UI convenience; the numeric score stays authoritative for decisions.
func AuthorityLabel(score float64) string {
	switch {
	case score >= 0.8:
		return "High authority"
	case score >= 0.6:
		return "Medium authority"
	case score >= 0.4:
		return "Low authority"
	default:
		return "Very low authority"
	}
}

// RecencyLabel derives the display band for a recency score
func RecencyLabel(score float64) string {
	switch {
	case score >= 0.9:
		return "Recent"
	case score >= 0.7:
		return "Moderately recent"
	case score >= 0.5:
		return "Dated"
	case score >= 0.3:
		return "Old"
	default:
		return "Very old"
	}
}

// Enrich annotates sources with authority and recency scores. It is
// non-destructive and a pure function of URL + publish date: re-enriching an
// already enriched source yields identical scores.
func Enrich(sources []model.EvidenceSource) []model.EvidenceSource {
	now := nowFunc()
	out := make([]model.EvidenceSource, len(sources))
	for i, src := range sources {
		enriched := src

		enriched.Authority, enriched.AuthorityCategory = ScoreAuthority(src.URL)
		enriched.AuthorityLabel = AuthorityLabel(enriched.Authority)

		recency, ageDays := ScoreRecency(src.PublishDate, now)
		enriched.Recency = recency
		enriched.RecencyLabel = RecencyLabel(recency)
		if ageDays != nil {
			enriched.AgeDays = ageDays
		}

		out[i] = enriched
	}
	return out
}

// AverageAuthority returns the mean authority over sources, 0 when empty
func AverageAuthority(sources []model.EvidenceSource) float64 {
	return average(sources, func(s model.EvidenceSource) float64 {
		if s.Authority == 0 {
			return neutralRecency
		}
		return s.Authority
	})
}

// AverageRecency returns the mean recency over sources, 0 when empty
func AverageRecency(sources []model.EvidenceSource) float64 {
	return average(sources, func(s model.EvidenceSource) float64 {
		if s.Recency == 0 {
			return neutralRecency
		}
		return s.Recency
	})
}

func average(sources []model.EvidenceSource, field func(model.EvidenceSource) float64) float64 {
	if len(sources) == 0 {
		return 0
	}
	var sum float64
	for _, s := range sources {
		sum += field(s)
	}
	return sum / float64(len(sources))
}

// TableDomains returns the curated domains in deterministic order, for
// reports and diagnostics.
func TableDomains() []string {
	domains := make([]string, 0, len(authorityTable))
	for d := range authorityTable {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	return domains
}
