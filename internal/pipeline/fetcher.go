package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/verifact/verifact/internal/model"
	"github.com/verifact/verifact/internal/util"
)

const fetchMaxRetries = 3

// fetchSleepFunc allows tests to disable backoff sleeps
var fetchSleepFunc = time.Sleep

// Fetcher resolves the page a claim was selected on into a verification
// context. The fetched title is only ever a citation-of-last-resort input;
// a fetch failure falls back to a de-slugged URL path and never fails the run.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// NewFetcher creates a new Fetcher with the given configuration
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, httpProxy, httpsProxy, noProxy string) *Fetcher {
	if maxBytes <= 0 {
		maxBytes = 256 * 1024
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpProxy, httpsProxy, noProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// PageContext fetches the page at rawURL and builds a VerificationContext
// from it. The page title comes from the HTML <title> element, falling back
// to the last URL path segment when the fetch or parse fails.
func (f *Fetcher) PageContext(ctx context.Context, rawURL string) model.VerificationContext {
	vctx := model.VerificationContext{
		PageURL:   rawURL,
		PageTitle: titleFromURL(rawURL),
	}

	title, finalURL, err := f.fetchTitleWithRetry(ctx, rawURL)
	if err != nil {
		return vctx
	}

	if title != "" {
		vctx.PageTitle = title
	}
	if finalURL != "" {
		vctx.PageURL = finalURL
	}
	return vctx
}

// fetchTitleWithRetry retries transient failures with exponential backoff
func (f *Fetcher) fetchTitleWithRetry(ctx context.Context, rawURL string) (title, finalURL string, err error) {
	for attempt := 0; attempt < fetchMaxRetries; attempt++ {
		title, finalURL, err = f.fetchTitle(ctx, rawURL)
		if err == nil || !isRetryableFetchError(err) {
			return title, finalURL, err
		}
		if attempt < fetchMaxRetries-1 {
			fetchSleepFunc(time.Duration(1<<attempt) * time.Second)
		}
	}
	return title, finalURL, err
}

// fetchTitle retrieves the page and extracts its <title>
func (f *Fetcher) fetchTitle(ctx context.Context, rawURL string) (title, finalURL string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", "", fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	// Read body with size limit
	limitedReader := io.LimitReader(resp.Body, f.maxBytes)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return "", "", fmt.Errorf("read body: %w", err)
	}

	return extractTitle(string(body)), resp.Request.URL.String(), nil
}

// isRetryableFetchError reports whether a fetch failure is worth retrying
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	// 5xx and 429 statuses are transient
	if strings.Contains(msg, "unexpected status: 5") || strings.Contains(msg, "unexpected status: 429") {
		return true
	}

	// Network-level failures during the request itself
	if strings.HasPrefix(msg, "fetch: ") {
		for _, probe := range []string{"connection refused", "connection reset", "timeout"} {
			if strings.Contains(msg, probe) {
				return true
			}
		}
	}

	return false
}

// extractTitle finds the first <title> element in an HTML document
func extractTitle(doc string) string {
	node, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)

	return title
}

// titleFromURL derives a human-readable title from the URL path
func titleFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}

	// Extract last path segment
	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]

	// De-slugify: replace underscores and hyphens with spaces
	last = strings.ReplaceAll(last, "_", " ")
	last = strings.ReplaceAll(last, "-", " ")

	// Remove file extensions
	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}

	return last
}
