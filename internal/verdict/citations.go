package verdict

import (
	"context"
	"net/url"
	"strings"

	"github.com/verifact/verifact/internal/model"
)

// BackupFetch retrieves last-resort evidence when a verdict arrives with no
// sources at all. Implementations must degrade to an empty slice, never fail.
type BackupFetch func(ctx context.Context, claimText string, limit int) []model.EvidenceSource

const backupFetchLimit = 4

// enforceCitations guarantees that every claim in a finalized verdict points
// at something. The chain, in order: keep the model's own citations when they
// are valid; otherwise cite the full source list; when there are no sources,
// fetch a last-resort batch; when even that is empty, cite the page the claim
// was selected on; and with no page context either, cite the claim's own
// text. The chain always bottoms out: an uncited claim never reaches the
// caller.
func enforceCitations(ctx context.Context, sv *model.StructuredVerdict, claimText string, vctx model.VerificationContext, fetch BackupFetch) {
	if len(sv.Proof.Sources) == 0 && fetch != nil {
		sv.Proof.Sources = fetch(ctx, claimText, backupFetchLimit)
	}
	if len(sv.Proof.Sources) == 0 {
		src, ok := pageContextSource(vctx)
		if !ok {
			src = claimContextSource(claimText, vctx)
		}
		sv.Proof.Sources = []model.EvidenceSource{src}
	}
	for i := range sv.Proof.Sources {
		sv.Proof.Sources[i].ID = i + 1
	}

	n := len(sv.Proof.Sources)

	allIndices := make([]int, n)
	for i := range allIndices {
		allIndices[i] = i + 1
	}

	for i := range sv.Claims {
		kept := sv.Claims[i].Citations[:0]
		for _, c := range sv.Claims[i].Citations {
			if c >= 1 && c <= n {
				kept = append(kept, c)
			}
		}
		if len(kept) == 0 {
			kept = allIndices
		}
		sv.Claims[i].Citations = kept
	}
}

// pageContextSource builds a citation-of-last-resort from the page the claim
// was selected on, quoting the selected text when the caller supplied it
func pageContextSource(vctx model.VerificationContext) (model.EvidenceSource, bool) {
	if vctx.PageURL == "" {
		return model.EvidenceSource{}, false
	}
	title := vctx.PageTitle
	if title == "" {
		title = "Page context"
	}
	domain := ""
	if u, err := url.Parse(vctx.PageURL); err == nil {
		domain = u.Hostname()
	}
	snippet := strings.TrimSpace(vctx.SelectedText)
	if snippet == "" {
		snippet = "The page this claim was selected on. No independent evidence could be retrieved."
	}
	return model.EvidenceSource{
		ID:      1,
		Title:   title,
		URL:     vctx.PageURL,
		Domain:  domain,
		Snippet: snippet,
		Type:    model.SourceFallback,
	}, true
}

// claimContextSource cites the claim's own text when there is no page context
// either
func claimContextSource(claimText string, vctx model.VerificationContext) model.EvidenceSource {
	text := strings.TrimSpace(vctx.SelectedText)
	if text == "" {
		text = claimText
	}
	return model.EvidenceSource{
		ID:      1,
		Title:   "Claim under review",
		Snippet: text,
		Type:    model.SourceFallback,
	}
}
