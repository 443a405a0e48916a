package evidence

import (
	"math"
	"testing"
	"time"

	"github.com/verifact/verifact/internal/model"
)

func TestScoreAuthority_Table(t *testing.T) {
	tests := []struct {
		url      string
		want     float64
		category string
	}{
		{"https://www.bls.gov/news.release/empsit.nr0.htm", 1.0, "GOVT"},
		{"https://who.int/data", 0.95, "IGO"},
		{"https://en.wikipedia.org/wiki/Data_science", 0.65, "REFERENCE"},
		{"https://pubmed.ncbi.nlm.nih.gov/12345", 0.9, "RESEARCH"},
		{"https://someagency.gov/report", 0.9, "GOVT"},
		{"https://cs.someuniversity.edu/paper", 0.85, "EDU"},
		{"https://random-blog.example.com/post", 0.4, "WEB"},
		{"not a url at all %%", 0.4, "WEB"},
	}
	for _, tt := range tests {
		score, category := ScoreAuthority(tt.url)
		if score != tt.want {
			t.Errorf("%s: expected score %v, got %v", tt.url, tt.want, score)
		}
		if category != tt.category {
			t.Errorf("%s: expected category %s, got %s", tt.url, tt.category, category)
		}
	}
}

func TestScoreAuthority_LongestSuffixWins(t *testing.T) {
	// pubmed.ncbi.nlm.nih.gov matches both the explicit table entry and the
	// generic .gov rule; the longer, more specific entry must win.
	score, category := ScoreAuthority("https://pubmed.ncbi.nlm.nih.gov/98765/")
	if score != 0.9 || category != "RESEARCH" {
		t.Errorf("expected (0.9, RESEARCH), got (%v, %s)", score, category)
	}
}

func TestScoreRecency_DecayCurve(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		ageDays int
		want    float64
	}{
		{0, 1.0},
		{30, 1.0},
		{105, 0.8},  // midpoint of the 30-180 band
		{180, 0.7},
		{365, 0.5},
		{730, 0.4},  // midpoint of the 1-3 year band
		{1095, 0.3},
		{10000, 0.1}, // asymptotic floor
	}
	for _, tt := range tests {
		pub := now.AddDate(0, 0, -tt.ageDays).Format(time.RFC3339)
		got, age := ScoreRecency(pub, now)
		if math.Abs(got-tt.want) > 0.011 {
			t.Errorf("age %d days: expected ~%v, got %v", tt.ageDays, tt.want, got)
		}
		if age == nil || *age != tt.ageDays {
			t.Errorf("age %d days: ageDays not computed correctly: %v", tt.ageDays, age)
		}
	}
}

func TestScoreRecency_MissingDateNeutral(t *testing.T) {
	got, age := ScoreRecency("", time.Now())
	if got != 0.5 {
		t.Errorf("missing publish date must score neutral 0.5, got %v", got)
	}
	if age != nil {
		t.Errorf("missing publish date must not report an age, got %v", *age)
	}
}

func TestScoreRecency_FutureDate(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	got, _ := ScoreRecency(now.AddDate(0, 1, 0).Format(time.RFC3339), now)
	if got != 1.0 {
		t.Errorf("future publish date should score 1.0, got %v", got)
	}
}

func TestLabels_Bands(t *testing.T) {
	if got := AuthorityLabel(0.85); got != "High authority" {
		t.Errorf("expected High authority, got %s", got)
	}
	if got := AuthorityLabel(0.3); got != "Very low authority" {
		t.Errorf("expected Very low authority, got %s", got)
	}
	if got := RecencyLabel(0.95); got != "Recent" {
		t.Errorf("expected Recent, got %s", got)
	}
	if got := RecencyLabel(0.2); got != "Very old" {
		t.Errorf("expected Very old, got %s", got)
	}
}

func TestEnrich_NonDestructiveAndIdempotent(t *testing.T) {
	restore := nowFunc
	nowFunc = func() time.Time { return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC) }
	defer func() { nowFunc = restore }()

	in := []model.EvidenceSource{
		{ID: 1, URL: "https://www.bls.gov/charts", PublishDate: "2026-07-20T00:00:00Z"},
		{ID: 2, URL: "https://random.example.com/post"},
	}

	first := Enrich(in)
	if in[0].Authority != 0 {
		t.Error("Enrich must not mutate its input")
	}
	if first[0].Authority != 1.0 || first[0].AuthorityLabel != "High authority" {
		t.Errorf("unexpected enrichment: %+v", first[0])
	}
	if first[0].Recency != 1.0 {
		t.Errorf("expected recency 1.0 for a 12-day-old source, got %v", first[0].Recency)
	}
	if first[1].Recency != 0.5 {
		t.Errorf("expected neutral recency for unknown date, got %v", first[1].Recency)
	}

	// Re-enriching enriched records yields identical scores: scoring is a
	// pure function of URL + publish date, not of prior enrichment state.
	second := Enrich(first)
	for i := range second {
		if second[i].Authority != first[i].Authority || second[i].Recency != first[i].Recency {
			t.Errorf("re-enrichment changed scores at %d: %+v vs %+v", i, second[i], first[i])
		}
	}
}

func TestAverages(t *testing.T) {
	sources := []model.EvidenceSource{
		{Authority: 0.9, Recency: 1.0},
		{Authority: 0.5, Recency: 0.2},
	}
	if got := AverageAuthority(sources); math.Abs(got-0.7) > 1e-9 {
		t.Errorf("expected 0.7, got %v", got)
	}
	if got := AverageRecency(sources); math.Abs(got-0.6) > 1e-9 {
		t.Errorf("expected 0.6, got %v", got)
	}
	if got := AverageAuthority(nil); got != 0 {
		t.Errorf("empty set should average 0, got %v", got)
	}
}
