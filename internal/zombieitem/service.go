package zombieitem

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"

	"github.com/osse101/zombie-showcase-server/internal/concurrency"
	"github.com/osse101/zombie-showcase-server/internal/domain"
	"github.com/osse101/zombie-showcase-server/internal/logger"
	"github.com/osse101/zombie-showcase-server/internal/store"
)

// priceSumCurrencies is the fixed target set of the aggregation, ordered
// output is by code regardless of this ordering.
var priceSumCurrencies = []string{"USD", "EUR"}

// Item cache sizing. Entries expire quickly so a catalog refresh cannot serve
// stale prices for long.
const (
	itemCacheSize = 256
	itemCacheTTL  = time.Minute
)

// Service defines the interface for zombie item assignment operations
type Service interface {
	// ListByOwner returns the owner's assignments enriched with their
	// resolved items. An unresolvable item reference yields a null item.
	ListByOwner(ctx context.Context, userID string) ([]*domain.EnrichedZombieItem, error)
	// Get returns one enriched assignment or ErrZombieItemNotFound.
	Get(ctx context.Context, id string) (*domain.EnrichedZombieItem, error)
	// Create validates the referenced item and zombie and enforces the
	// per-owner capacity limit before persisting.
	Create(ctx context.Context, assignment *domain.ZombieItem) (*domain.ZombieItem, error)
	// Delete removes an assignment or returns ErrZombieItemNotFound.
	Delete(ctx context.Context, id string) error
	// PriceSum computes the owner's total item price converted into each
	// target currency, sorted by currency code.
	PriceSum(ctx context.Context, userID string) ([]domain.CurrencySum, error)
}

type service struct {
	assignments store.Interface[domain.ZombieItem, *domain.ZombieItem]
	items       store.Interface[domain.Item, *domain.Item]
	zombies     store.Interface[domain.Zombie, *domain.Zombie]
	rates       store.Interface[domain.CurrencyRate, *domain.CurrencyRate]
	ownerLocks  *concurrency.KeyedLocks
	itemCache   *expirable.LRU[string, domain.Item]
}

// NewService creates a zombie item service.
func NewService(
	assignments store.Interface[domain.ZombieItem, *domain.ZombieItem],
	items store.Interface[domain.Item, *domain.Item],
	zombies store.Interface[domain.Zombie, *domain.Zombie],
	rates store.Interface[domain.CurrencyRate, *domain.CurrencyRate],
) Service {
	return &service{
		assignments: assignments,
		items:       items,
		zombies:     zombies,
		rates:       rates,
		ownerLocks:  concurrency.NewKeyedLocks(),
		itemCache:   expirable.NewLRU[string, domain.Item](itemCacheSize, nil, itemCacheTTL),
	}
}

func (s *service) ListByOwner(ctx context.Context, userID string) ([]*domain.EnrichedZombieItem, error) {
	owned, err := s.assignments.Find(ctx, store.FindOptions{
		Filters: []store.Filter{{Field: "userId", Op: store.OpEqual, Value: userID}},
	})
	if err != nil {
		return nil, err
	}

	// An owner holds at most 5 assignments, so resolving items one by one
	// stays cheap.
	enriched := make([]*domain.EnrichedZombieItem, len(owned))
	g, gctx := errgroup.WithContext(ctx)
	for i, assignment := range owned {
		g.Go(func() error {
			item, err := s.resolveItem(gctx, assignment.ItemID)
			if err != nil {
				return err
			}
			enriched[i] = &domain.EnrichedZombieItem{ZombieItem: *assignment, Item: item}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return enriched, nil
}

func (s *service) Get(ctx context.Context, id string) (*domain.EnrichedZombieItem, error) {
	assignment, err := s.assignments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, domain.ErrZombieItemNotFound
	}

	item, err := s.resolveItem(ctx, assignment.ItemID)
	if err != nil {
		return nil, err
	}
	return &domain.EnrichedZombieItem{ZombieItem: *assignment, Item: item}, nil
}

func (s *service) Create(ctx context.Context, assignment *domain.ZombieItem) (*domain.ZombieItem, error) {
	item, err := s.items.Get(ctx, assignment.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}

	zombie, err := s.zombies.Get(ctx, assignment.UserID)
	if err != nil {
		return nil, err
	}
	if zombie == nil {
		return nil, domain.ErrZombieNotFound
	}

	// The count check and the insert are not atomic in the store, so
	// concurrent creations for one owner are serialized here.
	release := s.ownerLocks.Acquire(assignment.UserID)
	defer release()

	existing, err := s.assignments.Find(ctx, store.FindOptions{
		Filters: []store.Filter{{Field: "userId", Op: store.OpEqual, Value: assignment.UserID}},
	})
	if err != nil {
		return nil, err
	}
	if len(existing) >= domain.MaxItemsPerZombie {
		return nil, domain.ErrTooManyItems
	}

	created, err := s.assignments.Create(ctx, assignment)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Zombie item assigned",
		"zombie_id", assignment.UserID,
		"item_id", assignment.ItemID,
		"owned", len(existing)+1)
	return created, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	assignment, err := s.assignments.Get(ctx, id)
	if err != nil {
		return err
	}
	if assignment == nil {
		return domain.ErrZombieItemNotFound
	}
	return s.assignments.Delete(ctx, id)
}

func (s *service) PriceSum(ctx context.Context, userID string) ([]domain.CurrencySum, error) {
	enriched, err := s.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, assignment := range enriched {
		// Unresolvable item references contribute nothing to the sum.
		if assignment.Item != nil {
			total += assignment.Item.Price
		}
	}

	sums := make([]domain.CurrencySum, 0, len(priceSumCurrencies))
	for _, code := range priceSumCurrencies {
		rate, err := s.rates.Get(ctx, code)
		if err != nil {
			return nil, err
		}
		if rate == nil {
			// A code missing from the cached table is silently absent
			// from the result.
			continue
		}
		sums = append(sums, domain.CurrencySum{
			Code:     rate.Code,
			SumValue: round2(total / rate.Bid),
		})
	}

	sort.Slice(sums, func(i, j int) bool { return sums[i].Code < sums[j].Code })
	return sums, nil
}

// resolveItem looks up an item by id through a short-lived LRU cache. Returns
// nil when the item does not exist.
func (s *service) resolveItem(ctx context.Context, itemID string) (*domain.Item, error) {
	if cached, ok := s.itemCache.Get(itemID); ok {
		return &cached, nil
	}

	item, err := s.items.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	s.itemCache.Add(itemID, *item)
	return item, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
