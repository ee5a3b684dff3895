package source

import (
	"context"

	"github.com/timmy/mygomeme/internal/domain"
)

// Source defines a provider of raw meme listing items.
type Source interface {
	// GetSourceID returns the unique identifier for this source.
	// Parameters: none.
	// Returns:
	//   - string: stable source identifier.
	GetSourceID() string

	// GetDisplayName returns a human-readable name for this source.
	// Parameters: none.
	// Returns:
	//   - string: display-friendly source name.
	GetDisplayName() string

	// Fetch returns every listing item the source knows about, in source order.
	// Parameters:
	//   - ctx: context for cancellation and deadlines.
	// Returns:
	//   - []domain.ListingItem: items, possibly including ones without a caption.
	//   - error: non-nil if fetching or decoding fails.
	Fetch(ctx context.Context) ([]domain.ListingItem, error)
}
