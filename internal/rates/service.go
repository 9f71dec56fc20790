package rates

import (
	"context"

	"github.com/osse101/zombie-showcase-server/internal/domain"
	"github.com/osse101/zombie-showcase-server/internal/logger"
	"github.com/osse101/zombie-showcase-server/internal/metrics"
	"github.com/osse101/zombie-showcase-server/internal/store"
)

// Fetcher retrieves the current exchange-rate table from the upstream API.
type Fetcher interface {
	FetchRates(ctx context.Context) ([]*domain.CurrencyRate, error)
}

// Service defines the interface for currency rate operations
type Service interface {
	// Get returns the rate for a currency code, or nil when it is absent.
	// Rate documents are keyed by code.
	Get(ctx context.Context, code string) (*domain.CurrencyRate, error)
	List(ctx context.Context, opts store.FindOptions) ([]*domain.CurrencyRate, error)
	Create(ctx context.Context, rate *domain.CurrencyRate) (*domain.CurrencyRate, error)
	// Refresh replaces the cached rate table with the upstream snapshot.
	// Failures are logged, never returned.
	Refresh(ctx context.Context)
}

type service struct {
	rates   store.Interface[domain.CurrencyRate, *domain.CurrencyRate]
	fetcher Fetcher
}

// NewService creates a currency rate service.
func NewService(rates store.Interface[domain.CurrencyRate, *domain.CurrencyRate], fetcher Fetcher) Service {
	return &service{
		rates:   rates,
		fetcher: fetcher,
	}
}

func (s *service) Get(ctx context.Context, code string) (*domain.CurrencyRate, error) {
	return s.rates.Get(ctx, code)
}

func (s *service) List(ctx context.Context, opts store.FindOptions) ([]*domain.CurrencyRate, error) {
	return s.rates.Find(ctx, opts)
}

func (s *service) Create(ctx context.Context, rate *domain.CurrencyRate) (*domain.CurrencyRate, error) {
	return s.rates.Create(ctx, rate)
}

func (s *service) Refresh(ctx context.Context) {
	log := logger.FromContext(ctx)
	log.Info("Currency rate refresh started")

	if err := s.refresh(ctx); err != nil {
		metrics.RefreshRuns.WithLabelValues(domain.CollectionCurrencyRates, metrics.OutcomeFailure).Inc()
		log.Error("Currency rate refresh failed", "error", err)
		return
	}
	metrics.RefreshRuns.WithLabelValues(domain.CollectionCurrencyRates, metrics.OutcomeSuccess).Inc()
}

func (s *service) refresh(ctx context.Context) error {
	fetched, err := s.fetcher.FetchRates(ctx)
	if err != nil {
		return err
	}

	if err := s.rates.DeleteAll(ctx); err != nil {
		return err
	}
	if err := s.rates.CreateMany(ctx, fetched); err != nil {
		return err
	}

	metrics.RefreshDocuments.WithLabelValues(domain.CollectionCurrencyRates).Set(float64(len(fetched)))
	logger.FromContext(ctx).Info("Currency rate refresh completed", "rates", len(fetched))
	return nil
}
