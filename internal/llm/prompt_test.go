package llm

import (
	"strings"
	"testing"
	"time"

	"github.com/verifact/verifact/internal/model"
)

func TestBuildVerifyPrompt_BasicStructure(t *testing.T) {
	orig := nowFunc
	nowFunc = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }
	defer func() { nowFunc = orig }()

	sources := []model.EvidenceSource{
		{Title: "Unemployment", Domain: "bls.gov", Snippet: "rate was 4.1%", URL: "https://bls.gov/report"},
	}
	system, user := BuildVerifyPrompt("Unemployment fell last month", sources, "2024-06-30")

	if !strings.Contains(system, "2026-03-15") {
		t.Error("System prompt must pin today's date")
	}
	if !strings.Contains(system, "2024-06-30") {
		t.Error("System prompt must name the training cutoff")
	}
	if !strings.Contains(system, TimeWindowMarker) {
		t.Error("System prompt must demand the time-window marker")
	}
	if !strings.Contains(user, "Source 1 (bls.gov - Unemployment): rate was 4.1% [https://bls.gov/report]") {
		t.Errorf("Unexpected evidence block in user prompt:\n%s", user)
	}
	if !strings.Contains(user, `"Unemployment fell last month"`) {
		t.Error("User prompt must quote the claim")
	}
}

func TestEvidenceBlock_Empty(t *testing.T) {
	block := EvidenceBlock(nil)
	if !strings.Contains(block, "Do NOT guess") {
		t.Errorf("Empty evidence must instruct abstention, got: %s", block)
	}
}

func TestEvidenceBlock_FillsMissingFields(t *testing.T) {
	block := EvidenceBlock([]model.EvidenceSource{
		{Snippet: "some   spread\n\nout   text"},
	})
	if !strings.Contains(block, "Source 1 (unknown-domain - Untitled source): some spread out text") {
		t.Errorf("Unexpected block: %s", block)
	}
}

func TestBuildRouterPrompt_ListsAllLabels(t *testing.T) {
	_, user := BuildRouterPrompt("some claim", model.RouterLabels)
	for _, label := range model.RouterLabels {
		if !strings.Contains(user, string(label)) {
			t.Errorf("Router prompt missing label %s", label)
		}
	}
}
