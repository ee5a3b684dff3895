package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/timmy/mygomeme/internal/catalog"
	"github.com/timmy/mygomeme/internal/logger"
	"github.com/timmy/mygomeme/internal/source"
	"github.com/timmy/mygomeme/internal/source/asset"
	"github.com/timmy/mygomeme/internal/storage"
)

// RefreshService is the offline step that rewrites the static catalog asset.
type RefreshService struct {
	source    source.Source
	assetPath string
	storage   storage.ObjectStorage
	objectKey string
}

// RefreshConfig holds configuration for the refresh step.
type RefreshConfig struct {
	AssetPath string
	ObjectKey string // key used when publishing to storage
}

// RefreshStats reports the outcome of a refresh.
type RefreshStats struct {
	Fetched   int
	Saved     int
	AssetPath string
	PublicURL string // empty when not published
}

// NewRefreshService creates a new refresh service.
// Parameters:
//   - src: listing source.
//   - store: optional object storage to publish the asset to; may be nil.
//   - cfg: refresh configuration.
// Returns:
//   - *RefreshService: initialized service.
func NewRefreshService(src source.Source, store storage.ObjectStorage, cfg *RefreshConfig) *RefreshService {
	s := &RefreshService{
		source:    src,
		storage:   store,
		assetPath: asset.DefaultPath,
		objectKey: "memes.json",
	}
	if cfg != nil {
		if cfg.AssetPath != "" {
			s.assetPath = cfg.AssetPath
		}
		if cfg.ObjectKey != "" {
			s.objectKey = cfg.ObjectKey
		}
	}
	return s
}

// Run fetches the listing, writes the asset and optionally publishes it.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - *RefreshStats: counts and destinations.
//   - error: non-nil on any failure; the asset is left untouched if fetching fails.
func (s *RefreshService) Run(ctx context.Context) (*RefreshStats, error) {
	ctx = logger.SetComponent(ctx, "refresh")

	items, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch memes: %w", err)
	}

	cat := catalog.New(items)
	stats := &RefreshStats{
		Fetched:   len(items),
		Saved:     cat.Len(),
		AssetPath: s.assetPath,
	}

	data, err := asset.Write(s.assetPath, cat.Entries())
	if err != nil {
		return nil, err
	}
	logger.CtxInfo(ctx, "Saved %d memes to %s", stats.Saved, s.assetPath)

	if s.storage != nil {
		if err := s.storage.Upload(ctx, s.objectKey, bytes.NewReader(data), int64(len(data)), "application/json"); err != nil {
			return stats, fmt.Errorf("failed to publish asset: %w", err)
		}
		stats.PublicURL = s.storage.GetURL(s.objectKey)
		logger.CtxInfo(ctx, "Published asset to %s", stats.PublicURL)
	}

	return stats, nil
}
