package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/verifact/verifact/internal/model"
	"github.com/verifact/verifact/internal/worker"
)

const customSearchEndpoint = "https://www.googleapis.com/customsearch/v1"

// WebSearchAdapter retrieves evidence via the Google Custom Search JSON API.
// Without an API key and engine ID the adapter reports unavailable and
// returns empty results rather than erroring.
type WebSearchAdapter struct {
	apiKey     string
	engineID   string
	endpoint   string
	httpClient *http.Client
	limiter    *worker.Limiter
}

// NewWebSearchAdapter creates a web search adapter
func NewWebSearchAdapter(apiKey, engineID string, timeout time.Duration, limiter *worker.Limiter) *WebSearchAdapter {
	return &WebSearchAdapter{
		apiKey:     apiKey,
		engineID:   engineID,
		endpoint:   customSearchEndpoint,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
	}
}

// Name returns the adapter name
func (a *WebSearchAdapter) Name() string { return "websearch" }

// Available reports whether credentials are configured
func (a *WebSearchAdapter) Available() bool {
	return a.apiKey != "" && a.engineID != ""
}

type customSearchResponse struct {
	Items []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		DisplayLink string `json:"displayLink"`
		Snippet     string `json:"snippet"`
		Pagemap     struct {
			Metatags []map[string]string `json:"metatags"`
		} `json:"pagemap"`
	} `json:"items"`
}

// Search queries the Custom Search API
func (a *WebSearchAdapter) Search(ctx context.Context, query string, limit int) ([]model.EvidenceSource, error) {
	if !a.Available() {
		return nil, nil
	}
	if limit <= 0 {
		limit = 6
	}

	params := url.Values{}
	params.Set("key", a.apiKey)
	params.Set("cx", a.engineID)
	params.Set("q", query)
	searchURL := a.endpoint + "?" + params.Encode()

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx, searchURL); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("web search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("web search: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var data customSearchResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	sources := make([]model.EvidenceSource, 0, len(data.Items))
	for _, item := range data.Items {
		if len(sources) >= limit {
			break
		}

		src := model.EvidenceSource{
			ID:      len(sources) + 1,
			Title:   item.Title,
			URL:     item.Link,
			Domain:  item.DisplayLink,
			Snippet: item.Snippet,
			Type:    model.SourceWeb,
		}
		if src.Domain == "" {
			if parsed, err := url.Parse(item.Link); err == nil {
				src.Domain = parsed.Host
			}
		}

		if published := publishedTime(item.Pagemap.Metatags); published != "" {
			src.PublishDate = published
			if t, err := time.Parse(time.RFC3339, published); err == nil {
				age := int(time.Since(t).Hours() / 24)
				src.AgeDays = &age
			}
		}

		sources = append(sources, src)
	}

	return sources, nil
}

func publishedTime(metatags []map[string]string) string {
	for _, tags := range metatags {
		if v := tags["article:published_time"]; v != "" {
			return v
		}
	}
	return ""
}
