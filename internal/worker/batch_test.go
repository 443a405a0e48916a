package worker

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/verifact/verifact/internal/model"
)

// MockVerifier implements Verifier interface
type MockVerifier struct {
	ShouldError bool
}

func (m *MockVerifier) Verify(ctx context.Context, claimText string, vctx model.VerificationContext) (*model.VerificationResult, error) {
	time.Sleep(10 * time.Millisecond) // Simulate work
	if m.ShouldError {
		return nil, errors.New("verify error")
	}
	return &model.VerificationResult{
		Claim: model.Claim{Text: claimText},
		Structured: model.StructuredVerdict{
			Proof: model.Proof{Verdict: model.VerdictOK, Confidence: 0.8},
		},
	}, nil
}

func TestBatchProcessor_ProcessClaims(t *testing.T) {
	verifier := &MockVerifier{}
	processor := NewBatchProcessor(verifier, 2)

	claims := []string{
		"Water boils at 100 degrees Celsius at sea level",
		"The Eiffel Tower is in Paris",
		"The Pacific is the largest ocean",
	}
	ctx := context.Background()

	results := processor.ProcessClaims(ctx, claims)

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}

	successCount := 0
	for _, res := range results {
		if res.Error == nil {
			successCount++
			if res.Result == nil {
				t.Error("expected result for successful verification")
			}
		} else {
			t.Errorf("unexpected error for %q: %v", res.ClaimText, res.Error)
		}
	}

	if successCount != 3 {
		t.Errorf("expected 3 successes, got %d", successCount)
	}
}

func TestBatchProcessor_ProcessClaims_Error(t *testing.T) {
	verifier := &MockVerifier{ShouldError: true}
	processor := NewBatchProcessor(verifier, 2)

	claims := []string{"The moon is made of cheese"}
	ctx := context.Background()

	results := processor.ProcessClaims(ctx, claims)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Result != nil {
		t.Error("expected nil result on error")
	}
}

func TestBatchProcessor_ProcessClaims_Empty(t *testing.T) {
	verifier := &MockVerifier{}
	processor := NewBatchProcessor(verifier, 2)

	results := processor.ProcessClaims(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestReadClaimsFromFile(t *testing.T) {
	content := `Water boils at 100 degrees Celsius at sea level
# comment
The Eiffel Tower is in Paris

The Pacific is the largest ocean   `

	tmpfile, err := os.CreateTemp("", "claims")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.Remove(tmpfile.Name())
	}()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	claims, err := ReadClaimsFromFile(tmpfile.Name())
	if err != nil {
		t.Fatalf("ReadClaimsFromFile failed: %v", err)
	}

	expected := []string{
		"Water boils at 100 degrees Celsius at sea level",
		"The Eiffel Tower is in Paris",
		"The Pacific is the largest ocean",
	}
	if len(claims) != len(expected) {
		t.Fatalf("expected %d claims, got %d", len(expected), len(claims))
	}

	for i, claim := range claims {
		if claim != expected[i] {
			t.Errorf("expected claim %q at index %d, got %q", expected[i], i, claim)
		}
	}
}

func TestReadClaimsFromFile_NonExistent(t *testing.T) {
	_, err := ReadClaimsFromFile("non_existent_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestVerifyResult_GetError(t *testing.T) {
	r1 := &VerifyResult{ClaimText: "the sky is blue", Error: nil}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("verification failed")
	r2 := &VerifyResult{ClaimText: "the sky is blue", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	content := "Claim one\nClaim two\n# comment\n\nClaim three\n"

	tmpfile, err := os.CreateTemp("", "batch_claims")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	verifier := &MockVerifier{}
	processor := NewBatchProcessor(verifier, 2)

	results, err := processor.ProcessFile(context.Background(), tmpfile.Name())
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	verifier := &MockVerifier{}
	processor := NewBatchProcessor(verifier, 2)

	_, err := processor.ProcessFile(context.Background(), "no_such_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile_Empty(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "empty_claims")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	verifier := &MockVerifier{}
	processor := NewBatchProcessor(verifier, 2)

	results, err := processor.ProcessFile(context.Background(), tmpfile.Name())
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results for empty file, got %d", len(results))
	}
}

func TestReadClaimsFromFile_Deduplication(t *testing.T) {
	content := `The Eiffel Tower is in Paris
The Eiffel Tower is in Paris`

	tmpfile, err := os.CreateTemp("", "claims_dedup")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.Remove(tmpfile.Name())
	}()

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	claims, err := ReadClaimsFromFile(tmpfile.Name())
	if err != nil {
		t.Fatalf("ReadClaimsFromFile failed: %v", err)
	}

	if len(claims) != 1 {
		t.Errorf("expected 1 claim after deduplication, got %d", len(claims))
	}
}
