package mygoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/mygomeme/internal/domain"
)

const (
	SourceID   = "mygoapi"
	SourceName = "MyGO API"

	// DefaultListingURL lists every image known to the API.
	DefaultListingURL = "https://mygoapi.miyago9267.com/mygo/all_img"
)

// Adapter implements the Source interface for the MyGO image listing API.
type Adapter struct {
	client     *resty.Client
	listingURL string
}

// Config holds configuration for the listing adapter.
type Config struct {
	ListingURL string
	Timeout    time.Duration
}

// NewAdapter creates a new listing API adapter.
// Parameters:
//   - cfg: adapter configuration; empty fields fall back to defaults.
// Returns:
//   - *Adapter: initialized adapter.
func NewAdapter(cfg *Config) *Adapter {
	if cfg == nil {
		cfg = &Config{}
	}

	listingURL := cfg.ListingURL
	if listingURL == "" {
		listingURL = DefaultListingURL
	}

	client := resty.New()
	client.SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Adapter{
		client:     client,
		listingURL: listingURL,
	}
}

// GetSourceID returns the unique identifier for this source
func (a *Adapter) GetSourceID() string {
	return SourceID
}

// GetDisplayName returns a human-readable name for this source
func (a *Adapter) GetDisplayName() string {
	return SourceName
}

// listingResponse captures the urls field without committing to its shape.
type listingResponse struct {
	URLs json.RawMessage `json:"urls"`
}

// Fetch retrieves the full listing.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []domain.ListingItem: items in API order.
//   - error: wraps domain.ErrUpstreamListing on transport or status failures,
//     domain.ErrMalformedResponse when the body has no urls array.
func (a *Adapter) Fetch(ctx context.Context) ([]domain.ListingItem, error) {
	resp, err := a.client.R().
		SetContext(ctx).
		Get(a.listingURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamListing, err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d", domain.ErrUpstreamListing, resp.StatusCode())
	}

	return ParseListing(resp.Body())
}

// ParseListing decodes a listing body of the form {"urls": [{"url", "alt"}, ...]}.
// Parameters:
//   - body: raw response body.
// Returns:
//   - []domain.ListingItem: decoded items.
//   - error: wraps domain.ErrMalformedResponse for any other shape.
func ParseListing(body []byte) ([]domain.ListingItem, error) {
	var parsed listingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	raw := bytes.TrimSpace(parsed.URLs)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("%w: urls field missing or not an array", domain.ErrMalformedResponse)
	}

	var items []domain.ListingItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	return items, nil
}
