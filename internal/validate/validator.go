// Package validate checks the reachability of evidence sources. Validation
// is an annotation pass: it never removes a source, it only records whether
// the link answered and how stale it looks, for the risk assessor and the
// report to use.
package validate

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/verifact/verifact/internal/model"
	"github.com/verifact/verifact/internal/util"
)

const validateMaxRetries = 3

// validateSleepFunc is the sleep function used between retries (injectable for tests)
var validateSleepFunc = time.Sleep

// Validator validates evidence source links concurrently
type Validator struct {
	httpClient *http.Client
	maxWorkers int
	userAgent  string
	robots     *util.RobotsChecker
}

// NewValidator creates a new validator
func NewValidator(timeout time.Duration, maxWorkers int, userAgent, httpProxy, httpsProxy, noProxy string) *Validator {
	if maxWorkers <= 0 {
		maxWorkers = 10
	}

	proxyFunc := util.NewProxyFunc(httpProxy, httpsProxy, noProxy)

	return &Validator{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: proxyFunc,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		maxWorkers: maxWorkers,
		userAgent:  userAgent,
		robots:     util.NewRobotsChecker(util.NormalizeUserAgent(userAgent), timeout),
	}
}

// Validate checks all sources concurrently. Results are positionally aligned
// with the input slice.
func (v *Validator) Validate(ctx context.Context, sources []model.EvidenceSource) ([]model.ValidationResult, error) {
	if len(sources) == 0 {
		return []model.ValidationResult{}, nil
	}

	results := make([]model.ValidationResult, len(sources))
	var wg sync.WaitGroup

	// Create semaphore to limit concurrent requests
	semaphore := make(chan struct{}, v.maxWorkers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s model.EvidenceSource) {
			defer wg.Done()

			// Acquire semaphore
			select {
			case <-ctx.Done():
				results[idx] = model.ValidationResult{
					URL:          s.URL,
					IsAccessible: false,
					Error:        "context cancelled",
				}
				return
			case semaphore <- struct{}{}:
			}

			// Release semaphore when done
			defer func() { <-semaphore }()

			results[idx] = v.validateSingleWithRetry(ctx, s)
		}(i, src)
	}

	// Wait for all validations to complete
	wg.Wait()

	return results, nil
}

// validateSingle checks a single source link
func (v *Validator) validateSingle(ctx context.Context, source model.EvidenceSource) model.ValidationResult {
	result := model.ValidationResult{
		URL:          source.URL,
		IsAccessible: false,
	}

	if source.URL == "" {
		result.Error = "no URL"
		return result
	}

	// Pseudo-sources point at live searches, not documents; a HEAD check
	// would only measure the search engine
	if source.Type == model.SourceFallback {
		result.IsAccessible = true
		return result
	}

	if !v.robots.IsAllowed(ctx, source.URL) {
		result.Error = "disallowed by robots.txt"
		return result
	}

	// Create HEAD request
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, source.URL, nil)
	if err != nil {
		result.Error = fmt.Sprintf("create request: %v", err)
		result.IsDead = true
		return result
	}

	req.Header.Set("User-Agent", v.userAgent)

	// Execute request
	resp, err := v.httpClient.Do(req)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		result.IsDead = true
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode

	// Check if accessible
	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.IsAccessible = true
	} else if resp.StatusCode == 404 || resp.StatusCode == 410 {
		result.IsDead = true
	}

	// Check for redirects
	if resp.Request.URL.String() != source.URL {
		result.RedirectURL = resp.Request.URL.String()
	}

	// Parse Last-Modified header
	if lastModified := resp.Header.Get("Last-Modified"); lastModified != "" {
		if t, err := time.Parse(time.RFC1123, lastModified); err == nil {
			result.LastModified = &t

			// Calculate age in days
			ageDays := int(time.Since(t).Hours() / 24)
			result.Age = &ageDays

			// Determine staleness
			if ageDays > 365 {
				result.IsStale = true
			}
			if ageDays > 365*3 {
				result.IsVeryStale = true
			}
		}
	}

	return result
}

// validateSingleWithRetry retries transient failures with exponential backoff
func (v *Validator) validateSingleWithRetry(ctx context.Context, source model.EvidenceSource) model.ValidationResult {
	var result model.ValidationResult
	for attempt := 0; attempt < validateMaxRetries; attempt++ {
		result = v.validateSingle(ctx, source)
		if !isRetryableValidationResult(result) {
			return result
		}
		if attempt < validateMaxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			validateSleepFunc(backoff)
		}
	}
	return result
}

// isRetryableValidationResult returns true for results that indicate transient failures
func isRetryableValidationResult(result model.ValidationResult) bool {
	// Retry on 5xx server errors
	if result.StatusCode >= 500 && result.StatusCode < 600 {
		return true
	}
	// Retry on 429 rate limit
	if result.StatusCode == 429 {
		return true
	}
	// Retry on network errors (timeout, connection refused)
	if result.Error != "" {
		if isRetryableNetworkError(result.Error) {
			return true
		}
	}
	return false
}

// isRetryableNetworkError checks error strings for transient network failures
func isRetryableNetworkError(errMsg string) bool {
	s := strings.ToLower(errMsg)
	return strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset")
}
