package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/verifact/verifact/internal/model"
)

// Verifier defines the interface for verifying a single claim
type Verifier interface {
	Verify(ctx context.Context, claimText string, vctx model.VerificationContext) (*model.VerificationResult, error)
}

// VerifyJob represents a claim verification job
type VerifyJob struct {
	ClaimText string
	Verifier  Verifier
}

// Execute executes the verification job
func (j *VerifyJob) Execute(ctx context.Context) Result {
	result, err := j.Verifier.Verify(ctx, j.ClaimText, model.VerificationContext{})
	if err != nil {
		return &VerifyResult{
			ClaimText: j.ClaimText,
			Result:    nil,
			Error:     err,
		}
	}
	return &VerifyResult{
		ClaimText: j.ClaimText,
		Result:    result,
		Error:     nil,
	}
}

// VerifyResult represents the result of a verification job
type VerifyResult struct {
	ClaimText string
	Result    *model.VerificationResult
	Error     error
}

// GetError returns the error from the verification result
func (r *VerifyResult) GetError() error {
	return r.Error
}

// BatchProcessor processes multiple claims concurrently
type BatchProcessor struct {
	verifier    Verifier
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(verifier Verifier, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		verifier:    verifier,
		concurrency: concurrency,
	}
}

// ProcessClaims processes multiple claims concurrently
func (b *BatchProcessor) ProcessClaims(ctx context.Context, claims []string) []*VerifyResult {
	if len(claims) == 0 {
		return []*VerifyResult{}
	}

	// Create worker pool
	pool := NewPool(b.concurrency)
	pool.Start()

	// Submit jobs
	for _, claim := range claims {
		job := &VerifyJob{
			ClaimText: claim,
			Verifier:  b.verifier,
		}
		pool.Submit(job)
	}

	// Wait for all jobs to complete
	results := pool.Wait()

	// Convert to VerifyResults
	verifyResults := make([]*VerifyResult, len(results))
	for i, result := range results {
		verifyResults[i] = result.(*VerifyResult)
	}

	return verifyResults
}

// ProcessFile reads claims from a file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*VerifyResult, error) {
	claims, err := ReadClaimsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}

	return b.ProcessClaims(ctx, claims), nil
}

// ReadClaimsFromFile reads claims from a file (one per line)
func ReadClaimsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var claims []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Deduplicate claims
		if !seen[line] {
			seen[line] = true
			claims = append(claims, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return claims, nil
}
