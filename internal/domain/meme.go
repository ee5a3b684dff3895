package domain

// MemeEntry is a single meme in the catalog: the caption text used for matching
// and the image URL it resolves to.
// The JSON form mirrors the static asset written by the refresh step.
type MemeEntry struct {
	Caption  string `json:"alt"`
	ImageURL string `json:"url"`
}

// ListingItem is one raw item from the meme listing API.
type ListingItem struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// ToEntry maps a listing item onto a catalog entry.
// Parameters: none.
// Returns:
//   - MemeEntry: entry with the alt text as caption.
//   - bool: false when the item has no caption and must be dropped.
func (i ListingItem) ToEntry() (MemeEntry, bool) {
	if i.Alt == "" {
		return MemeEntry{}, false
	}
	return MemeEntry{Caption: i.Alt, ImageURL: i.URL}, true
}

// LookupResult is the payload of the lookup endpoint.
type LookupResult struct {
	Data []LookupImage `json:"data"`
}

// LookupImage is a single resolved image in a LookupResult.
type LookupImage struct {
	URL string `json:"url"`
}
