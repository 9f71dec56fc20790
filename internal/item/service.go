package item

import (
	"context"

	"github.com/osse101/zombie-showcase-server/internal/domain"
	"github.com/osse101/zombie-showcase-server/internal/logger"
	"github.com/osse101/zombie-showcase-server/internal/metrics"
	"github.com/osse101/zombie-showcase-server/internal/store"
)

// Fetcher retrieves the current item catalog from the upstream API.
type Fetcher interface {
	FetchItems(ctx context.Context) ([]*domain.Item, error)
}

// Service defines the interface for catalog item operations
type Service interface {
	// Get returns the item, or nil when it does not exist.
	Get(ctx context.Context, id string) (*domain.Item, error)
	List(ctx context.Context, opts store.FindOptions) ([]*domain.Item, error)
	Create(ctx context.Context, item *domain.Item) (*domain.Item, error)
	// Refresh replaces the cached catalog with the upstream snapshot.
	// Upstream failures leave the previous snapshot intact and are logged,
	// never returned, so a transient outage cannot fail the scheduled job.
	Refresh(ctx context.Context)
}

type service struct {
	items   store.Interface[domain.Item, *domain.Item]
	fetcher Fetcher
}

// NewService creates an item service.
func NewService(items store.Interface[domain.Item, *domain.Item], fetcher Fetcher) Service {
	return &service{
		items:   items,
		fetcher: fetcher,
	}
}

func (s *service) Get(ctx context.Context, id string) (*domain.Item, error) {
	return s.items.Get(ctx, id)
}

func (s *service) List(ctx context.Context, opts store.FindOptions) ([]*domain.Item, error) {
	return s.items.Find(ctx, opts)
}

func (s *service) Create(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	return s.items.Create(ctx, item)
}

func (s *service) Refresh(ctx context.Context) {
	log := logger.FromContext(ctx)
	log.Info("Item refresh started")

	if err := s.refresh(ctx); err != nil {
		metrics.RefreshRuns.WithLabelValues(domain.CollectionItems, metrics.OutcomeFailure).Inc()
		log.Error("Item refresh failed", "error", err)
		return
	}
	metrics.RefreshRuns.WithLabelValues(domain.CollectionItems, metrics.OutcomeSuccess).Inc()
}

// refresh is the snapshot replace: the fetch happens before the delete, so a
// failed fetch never empties the cached catalog. There is no transactional
// guarantee across the delete and the inserts.
func (s *service) refresh(ctx context.Context) error {
	items, err := s.fetcher.FetchItems(ctx)
	if err != nil {
		return err
	}

	if err := s.items.DeleteAll(ctx); err != nil {
		return err
	}
	if err := s.items.CreateMany(ctx, items); err != nil {
		return err
	}

	metrics.RefreshDocuments.WithLabelValues(domain.CollectionItems).Set(float64(len(items)))
	logger.FromContext(ctx).Info("Item refresh completed", "items", len(items))
	return nil
}
