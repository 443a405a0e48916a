package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/verifact/verifact/internal/model"
)

// Renderer renders verification results to JSON, Markdown, and stdout
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full result as indented JSON
func (r *Renderer) RenderJSON(result *model.VerificationResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// RenderMarkdown writes a human-readable report
func (r *Renderer) RenderMarkdown(result *model.VerificationResult, path string) error {
	var b strings.Builder

	b.WriteString("# Verification Report\n\n")
	b.WriteString(fmt.Sprintf("**Claim:** %s\n\n", result.Claim.Text))
	b.WriteString(fmt.Sprintf("**Checked:** %s\n\n", result.CheckedAt.Format("2006-01-02 15:04:05 UTC")))
	b.WriteString(fmt.Sprintf("**Mode:** %s\n\n", result.Mode))

	proof := result.Structured.Proof

	b.WriteString("## Verdict\n\n")
	b.WriteString(fmt.Sprintf("- **Verdict:** %s\n", proof.Verdict))
	b.WriteString(fmt.Sprintf("- **Confidence:** %.2f\n", proof.Confidence))
	if result.Structured.Risk != nil {
		b.WriteString(fmt.Sprintf("- **Risk:** %s (%.2f)\n", result.Structured.Risk.Label, result.Structured.Risk.Score))
	}
	if proof.Flags.GroundingLabel != "" {
		b.WriteString(fmt.Sprintf("- **Grounding:** %s (%.2f)\n", proof.Flags.GroundingLabel, proof.Flags.GroundingScore))
	}
	b.WriteString(fmt.Sprintf("- **Topic:** %s (%.2f)\n", result.Router.TopLabel, result.Router.TopScore))
	if result.Router.IsTemporal {
		b.WriteString("- **Temporal:** yes\n")
	}
	b.WriteString("\n")

	if result.Structured.Summary != "" {
		b.WriteString("## Summary\n\n")
		b.WriteString(result.Structured.Summary)
		b.WriteString("\n\n")
	}

	if len(proof.Reasons) > 0 {
		b.WriteString("## Reasons\n\n")
		for _, reason := range proof.Reasons {
			b.WriteString(fmt.Sprintf("- %s\n", reason))
		}
		b.WriteString("\n")
	}

	if len(result.Structured.Claims) > 0 {
		b.WriteString("## Claims\n\n")
		for _, claim := range result.Structured.Claims {
			b.WriteString(fmt.Sprintf("- %s (confidence %.2f, cites %s)\n", claim.Text, claim.Confidence, formatCitations(claim.Citations)))
		}
		b.WriteString("\n")
	}

	if len(proof.Sources) > 0 {
		b.WriteString("## Sources\n\n")
		b.WriteString("| # | Title | Domain | Authority | Recency |\n")
		b.WriteString("|---|-------|--------|-----------|--------|\n")
		for _, src := range proof.Sources {
			b.WriteString(fmt.Sprintf("| %d | [%s](%s) | %s | %s | %s |\n",
				src.ID, escapePipes(src.Title), src.URL, src.Domain, src.AuthorityLabel, src.RecencyLabel))
		}
		b.WriteString("\n")
	}

	if result.Structured.Risk != nil && len(result.Structured.Risk.Reasons) > 0 {
		b.WriteString("## Risk Factors\n\n")
		for _, reason := range result.Structured.Risk.Reasons {
			b.WriteString(fmt.Sprintf("- %s\n", reason))
		}
		b.WriteString("\n")
	}

	if result.Quality != nil {
		b.WriteString("## Source Quality\n\n")
		b.WriteString(fmt.Sprintf("- **Index:** %d/100\n", result.Quality.Index))
		b.WriteString(fmt.Sprintf("- **Confidence:** %s\n\n", result.Quality.Confidence))
		for _, signal := range result.Quality.Signals {
			b.WriteString(fmt.Sprintf("- [%s] %s: %s\n", signal.Severity, signal.Type, signal.Description))
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("*Generated by verifact. Verdicts are advisory and should not replace human judgment.*\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// RenderSummary prints a compact result to stdout
func (r *Renderer) RenderSummary(result *model.VerificationResult) {
	proof := result.Structured.Proof

	fmt.Printf("\nClaim:      %s\n", result.Claim.Text)
	fmt.Printf("Verdict:    %s (confidence %.2f)\n", proof.Verdict, proof.Confidence)
	if result.Structured.Risk != nil {
		fmt.Printf("Risk:       %s (%.2f)\n", result.Structured.Risk.Label, result.Structured.Risk.Score)
	}
	if proof.Flags.GroundingLabel != "" {
		fmt.Printf("Grounding:  %s\n", proof.Flags.GroundingLabel)
	}
	fmt.Printf("Topic:      %s", result.Router.TopLabel)
	if result.Router.IsTemporal {
		fmt.Printf(" (temporal)")
	}
	fmt.Println()
	fmt.Printf("Sources:    %d\n", len(proof.Sources))
	if result.Cached {
		fmt.Println("Cached:     yes")
	}

	if len(proof.Reasons) > 0 {
		fmt.Println("\nReasons:")
		for _, reason := range proof.Reasons {
			fmt.Printf("  - %s\n", reason)
		}
	}

	if len(proof.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, src := range proof.Sources {
			fmt.Printf("  [%d] %s (%s)\n", src.ID, src.Title, src.Domain)
		}
	}
}

func formatCitations(citations []int) string {
	if len(citations) == 0 {
		return "none"
	}
	parts := make([]string, len(citations))
	for i, c := range citations {
		parts[i] = fmt.Sprintf("%d", c)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
