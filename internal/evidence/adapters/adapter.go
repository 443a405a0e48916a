// Package adapters contains the external evidence providers. Each adapter
// returns normalized source records; the pipeline depends only on this
// contract, never on a provider's wire format.
package adapters

import (
	"context"
	"strings"

	"golang.org/x/net/html"

	"github.com/verifact/verifact/internal/model"
)

// Adapter retrieves evidence sources for a query. Implementations are
// independently fault-tolerant: a failed or empty response is reported as an
// error or empty slice and must never panic or hang past its context.
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// Search retrieves up to limit sources for the query
	Search(ctx context.Context, query string, limit int) ([]model.EvidenceSource, error)

	// Available reports whether the adapter is configured and usable
	Available() bool
}

// StripHTML extracts plain text from an HTML fragment. Search APIs return
// snippets with highlight markup that must not leak into source records.
func StripHTML(fragment string) string {
	if !strings.ContainsRune(fragment, '<') {
		return strings.TrimSpace(fragment)
	}

	node, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)

	return strings.Join(strings.Fields(buf.String()), " ")
}
