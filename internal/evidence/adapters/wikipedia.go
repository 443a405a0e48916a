package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/verifact/verifact/internal/model"
	"github.com/verifact/verifact/internal/worker"
)

// WikipediaAdapter retrieves evidence via the MediaWiki search API, enriching
// each hit with the REST page summary when it can be fetched.
type WikipediaAdapter struct {
	baseURL    string
	httpClient *http.Client
	limiter    *worker.Limiter
	userAgent  string
}

// NewWikipediaAdapter creates a Wikipedia adapter against baseURL
// (e.g. https://en.wikipedia.org).
func NewWikipediaAdapter(baseURL string, timeout time.Duration, userAgent string, limiter *worker.Limiter) *WikipediaAdapter {
	if baseURL == "" {
		baseURL = "https://en.wikipedia.org"
	}
	return &WikipediaAdapter{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		userAgent:  userAgent,
	}
}

// Name returns the adapter name
func (a *WikipediaAdapter) Name() string { return "wikipedia" }

// Available reports whether the adapter is usable
func (a *WikipediaAdapter) Available() bool { return a.baseURL != "" }

type wikiSearchResponse struct {
	Query struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"search"`
	} `json:"query"`
}

type wikiSummaryResponse struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

// Search queries the MediaWiki search API and fetches a summary per hit.
// Summary failures degrade to the search snippet; they never fail the call.
func (a *WikipediaAdapter) Search(ctx context.Context, query string, limit int) ([]model.EvidenceSource, error) {
	if limit <= 0 {
		limit = 3
	}

	searchURL := fmt.Sprintf("%s/w/api.php?action=query&list=search&srsearch=%s&format=json&srlimit=%d",
		a.baseURL, url.QueryEscape(query), limit)

	var search wikiSearchResponse
	if err := a.getJSON(ctx, searchURL, &search); err != nil {
		return nil, fmt.Errorf("wikipedia search: %w", err)
	}

	hits := search.Query.Search
	if len(hits) > limit {
		hits = hits[:limit]
	}

	sources := make([]model.EvidenceSource, 0, len(hits))
	for _, hit := range hits {
		src := model.EvidenceSource{
			ID:      len(sources) + 1,
			Title:   hit.Title,
			URL:     a.pageURL(hit.Title),
			Domain:  a.domain(),
			Snippet: StripHTML(hit.Snippet),
			Type:    model.SourceWiki,
		}

		summaryURL := fmt.Sprintf("%s/api/rest_v1/page/summary/%s", a.baseURL, url.PathEscape(hit.Title))
		var summary wikiSummaryResponse
		if err := a.getJSON(ctx, summaryURL, &summary); err == nil {
			if summary.Title != "" {
				src.Title = summary.Title
			}
			if summary.Extract != "" {
				src.Snippet = summary.Extract
			}
			if summary.ContentURLs.Desktop.Page != "" {
				src.URL = summary.ContentURLs.Desktop.Page
			}
		}

		sources = append(sources, src)
	}

	return sources, nil
}

// SearchPageURL returns a live-search link for a query, used by the temporal
// fallback when no dedicated page exists yet.
func (a *WikipediaAdapter) SearchPageURL(query string) string {
	return fmt.Sprintf("%s/w/index.php?search=%s", a.baseURL, url.QueryEscape(query))
}

// Domain returns the adapter's host for source records
func (a *WikipediaAdapter) Domain() string { return a.domain() }

func (a *WikipediaAdapter) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx, rawURL); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if a.userAgent != "" {
		req.Header.Set("User-Agent", a.userAgent)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	return json.Unmarshal(body, out)
}

func (a *WikipediaAdapter) pageURL(title string) string {
	return fmt.Sprintf("%s/wiki/%s", a.baseURL, url.PathEscape(strings.ReplaceAll(title, " ", "_")))
}

func (a *WikipediaAdapter) domain() string {
	if parsed, err := url.Parse(a.baseURL); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return "en.wikipedia.org"
}
