package normalize

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultDedupeWindow is how long an identical normalized query suppresses
// repeats. Multiple UI triggers firing at once should produce one network
// round trip, not several.
const DefaultDedupeWindow = 5 * time.Second

// Deduper suppresses identical queries issued within a rolling window.
// The second caller short-circuits to "skipped" rather than erroring.
type Deduper struct {
	seen *gocache.Cache
}

// NewDeduper creates a deduper with the given rolling window
func NewDeduper(window time.Duration) *Deduper {
	if window <= 0 {
		window = DefaultDedupeWindow
	}
	return &Deduper{
		seen: gocache.New(window, window),
	}
}

// ShouldRun reports whether the query is new within the window and marks it
// as seen. Empty queries never run.
func (d *Deduper) ShouldRun(query string) bool {
	if query == "" {
		return false
	}
	if _, found := d.seen.Get(query); found {
		return false
	}
	d.seen.SetDefault(query, struct{}{})
	return true
}

// Forget removes a query from the window, allowing an immediate re-run
func (d *Deduper) Forget(query string) {
	d.seen.Delete(query)
}
