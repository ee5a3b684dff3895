package service

import (
	"context"
	"fmt"
	"time"

	"github.com/timmy/mygomeme/internal/catalog"
	"github.com/timmy/mygomeme/internal/logger"
	"github.com/timmy/mygomeme/internal/metrics"
	"github.com/timmy/mygomeme/internal/source"
)

// CatalogService builds catalogs from sources and installs them in a store.
type CatalogService struct {
	store    *catalog.Store
	primary  source.Source
	fallback source.Source
	metrics  *metrics.Metrics
}

// NewCatalogService creates a new catalog service.
// Parameters:
//   - store: catalog holder shared with request handlers.
//   - primary: source used for every load, normally the listing API.
//   - fallback: source used when the first load fails, normally the local asset; may be nil.
//   - m: metrics sink; may be nil.
// Returns:
//   - *CatalogService: initialized service.
func NewCatalogService(store *catalog.Store, primary, fallback source.Source, m *metrics.Metrics) *CatalogService {
	return &CatalogService{
		store:    store,
		primary:  primary,
		fallback: fallback,
		metrics:  m,
	}
}

// Store returns the catalog holder.
func (s *CatalogService) Store() *catalog.Store {
	return s.store
}

// Build fetches src and builds a catalog without installing it.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - src: source to fetch.
// Returns:
//   - *catalog.Catalog: new catalog.
//   - error: non-nil if the fetch fails.
func Build(ctx context.Context, src source.Source) (*catalog.Catalog, error) {
	items, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s: %w", src.GetSourceID(), err)
	}
	return catalog.New(items), nil
}

// Load builds a catalog from src and swaps it in.
func (s *CatalogService) Load(ctx context.Context, src source.Source) (*catalog.Catalog, error) {
	start := time.Now()
	cat, err := Build(ctx, src)
	s.metrics.RecordCatalogLoad(src.GetSourceID(), cat.Len(), err)
	if err != nil {
		return nil, err
	}

	s.store.Replace(cat)
	logger.With(logger.Fields{
		logger.FieldSource:     src.GetSourceID(),
		logger.FieldCount:      cat.Len(),
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}).Info(ctx, "Loaded %d memes from %s", cat.Len(), src.GetDisplayName())
	return cat, nil
}

// Initialize performs the startup load. A failed primary load is logged and
// degrades to the fallback source, then to an empty catalog; it never fails.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - int: size of the catalog in effect afterwards.
func (s *CatalogService) Initialize(ctx context.Context) int {
	ctx = logger.SetComponent(ctx, "catalog")

	_, err := s.Load(ctx, s.primary)
	if err == nil {
		return s.store.Current().Len()
	}
	logger.FromContext(ctx).WithError(err).
		WithField(logger.FieldSource, s.primary.GetSourceID()).
		Error("Failed to load meme catalog")

	if s.fallback != nil {
		_, err := s.Load(ctx, s.fallback)
		if err == nil {
			logger.CtxWarn(ctx, "Serving stale catalog from %s", s.fallback.GetDisplayName())
			return s.store.Current().Len()
		}
		logger.FromContext(ctx).WithError(err).
			WithField(logger.FieldSource, s.fallback.GetSourceID()).
			Warn("Fallback catalog unavailable")
	}

	logger.CtxWarn(ctx, "Serving an empty meme catalog: all lookups will miss")
	return s.store.Current().Len()
}

// Run reloads the catalog from the primary source every interval until ctx
// is done. A failed cycle keeps the current catalog.
func (s *CatalogService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ctx = logger.SetComponent(ctx, "catalog")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Load(ctx, s.primary); err != nil {
				logger.FromContext(ctx).WithError(err).
					Warnf("Catalog refresh failed, keeping %d memes", s.store.Current().Len())
			}
		}
	}
}
