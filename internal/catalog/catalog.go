package catalog

import "github.com/timmy/mygomeme/internal/domain"

// Catalog is an ordered, immutable list of memes.
// Every entry has a non-empty caption; duplicates are kept and resolved by order.
type Catalog struct {
	entries []domain.MemeEntry
}

// New builds a catalog from listing items, dropping items without a caption
// and preserving the order of the survivors.
// Parameters:
//   - items: raw listing items in source order.
// Returns:
//   - *Catalog: catalog of captioned entries.
func New(items []domain.ListingItem) *Catalog {
	entries := make([]domain.MemeEntry, 0, len(items))
	for _, item := range items {
		if entry, ok := item.ToEntry(); ok {
			entries = append(entries, entry)
		}
	}
	return &Catalog{entries: entries}
}

// FromEntries builds a catalog from already mapped entries, such as a
// previously written asset. Entries with empty captions are dropped.
func FromEntries(entries []domain.MemeEntry) *Catalog {
	kept := make([]domain.MemeEntry, 0, len(entries))
	for _, e := range entries {
		if e.Caption != "" {
			kept = append(kept, e)
		}
	}
	return &Catalog{entries: kept}
}

// Empty returns a catalog with no entries.
func Empty() *Catalog {
	return &Catalog{}
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns a copy of the entries in catalog order.
func (c *Catalog) Entries() []domain.MemeEntry {
	if c == nil {
		return nil
	}
	out := make([]domain.MemeEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Captions returns every caption in catalog order.
func (c *Catalog) Captions() []string {
	if c == nil {
		return nil
	}
	captions := make([]string, len(c.entries))
	for i, e := range c.entries {
		captions[i] = e.Caption
	}
	return captions
}

// find returns the first entry satisfying pred.
func (c *Catalog) find(pred func(caption string) bool) (domain.MemeEntry, bool) {
	if c == nil {
		return domain.MemeEntry{}, false
	}
	for _, e := range c.entries {
		if pred(e.Caption) {
			return e, true
		}
	}
	return domain.MemeEntry{}, false
}
