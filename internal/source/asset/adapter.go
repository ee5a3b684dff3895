package asset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/timmy/mygomeme/internal/domain"
)

const (
	SourceID = "asset"

	// DefaultPath is where the refresh step writes the catalog and the server serves it from.
	DefaultPath = "./public/memes.json"
)

// Adapter implements the Source interface over a previously written catalog asset.
type Adapter struct {
	path string
}

// NewAdapter creates a new asset adapter.
// Parameters:
//   - path: path of the memes.json asset; empty uses DefaultPath.
// Returns:
//   - *Adapter: initialized asset adapter.
func NewAdapter(path string) *Adapter {
	if path == "" {
		path = DefaultPath
	}
	return &Adapter{path: path}
}

// GetSourceID returns the unique identifier for this source.
func (a *Adapter) GetSourceID() string {
	return SourceID
}

// GetDisplayName returns a human-readable name for this source.
func (a *Adapter) GetDisplayName() string {
	return fmt.Sprintf("Asset (%s)", a.path)
}

// Path returns the asset file path.
func (a *Adapter) Path() string {
	return a.path
}

// Fetch reads the asset file.
// Parameters:
//   - ctx: unused for local reads.
// Returns:
//   - []domain.ListingItem: items in file order.
//   - error: non-nil if the file is missing or not a JSON array of {alt, url}.
func (a *Adapter) Fetch(ctx context.Context) ([]domain.ListingItem, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset: %w", err)
	}

	var entries []domain.MemeEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode asset %s: %w", a.path, err)
	}

	items := make([]domain.ListingItem, len(entries))
	for i, e := range entries {
		items[i] = domain.ListingItem{URL: e.ImageURL, Alt: e.Caption}
	}
	return items, nil
}

// Encode renders entries in the asset format: a two-space indented JSON array of {alt, url}.
// Parameters:
//   - entries: catalog entries in order.
// Returns:
//   - []byte: encoded asset.
//   - error: non-nil if encoding fails.
func Encode(entries []domain.MemeEntry) ([]byte, error) {
	if entries == nil {
		entries = []domain.MemeEntry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Write encodes entries and writes them to path, creating parent directories.
// Parameters:
//   - path: destination file.
//   - entries: catalog entries in order.
// Returns:
//   - []byte: the bytes written, for further publishing.
//   - error: non-nil if encoding or writing fails.
func Write(path string, entries []domain.MemeEntry) ([]byte, error) {
	data, err := Encode(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to encode asset: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create asset directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write asset: %w", err)
	}
	return data, nil
}
