package catalog

import (
	"strings"

	"github.com/timmy/mygomeme/internal/domain"
)

// Strategy is a pure match function over a catalog and a query.
type Strategy struct {
	Name  string
	Match func(c *Catalog, query string) (domain.MemeEntry, bool)
}

// Exact matches a caption equal to the query.
func Exact(c *Catalog, query string) (domain.MemeEntry, bool) {
	return c.find(func(caption string) bool {
		return caption == query
	})
}

// Contains matches a caption that contains the query or is contained in it.
func Contains(c *Catalog, query string) (domain.MemeEntry, bool) {
	return c.find(func(caption string) bool {
		return strings.Contains(caption, query) || strings.Contains(query, caption)
	})
}

// CaptionInText matches a caption embedded in free text, e.g. a model answer
// wrapped in extra words. Contains already covers this case; it is kept as its
// own strategy so reconciliation logs can tell the two apart.
func CaptionInText(c *Catalog, text string) (domain.MemeEntry, bool) {
	return c.find(func(caption string) bool {
		return strings.Contains(text, caption)
	})
}

// LookupStrategies are used by the lookup endpoint.
var LookupStrategies = []Strategy{
	{Name: "exact", Match: Exact},
	{Name: "contains", Match: Contains},
}

// ReconcileStrategies map a raw model answer back onto the catalog.
var ReconcileStrategies = []Strategy{
	{Name: "exact", Match: Exact},
	{Name: "contains", Match: Contains},
	{Name: "caption_in_text", Match: CaptionInText},
}

// Match is the outcome of a successful strategy.
type Match struct {
	Entry    domain.MemeEntry
	Strategy string
}

// Run tries strategies in order and returns the first hit.
// An empty query never matches.
// Parameters:
//   - c: catalog snapshot to search.
//   - query: text to match.
//   - strategies: ordered strategies.
// Returns:
//   - Match: matched entry and strategy name.
//   - bool: false when no strategy matched.
func Run(c *Catalog, query string, strategies []Strategy) (Match, bool) {
	if query == "" {
		return Match{}, false
	}
	for _, s := range strategies {
		if entry, ok := s.Match(c, query); ok {
			return Match{Entry: entry, Strategy: s.Name}, true
		}
	}
	return Match{}, false
}

// FindBestMatch returns the best entry for query: exact equality first, then
// containment in either direction, first entry in catalog order winning.
func FindBestMatch(c *Catalog, query string) (domain.MemeEntry, bool) {
	m, ok := Run(c, query, LookupStrategies)
	return m.Entry, ok
}

// Reconcile maps a raw model answer onto a catalog entry.
func Reconcile(c *Catalog, text string) (Match, bool) {
	return Run(c, text, ReconcileStrategies)
}
