package zombieitem

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/zombie-showcase-server/internal/domain"
	"github.com/osse101/zombie-showcase-server/internal/store"
)

type fixture struct {
	svc         Service
	assignments *store.Memory[domain.ZombieItem, *domain.ZombieItem]
	items       *store.Memory[domain.Item, *domain.Item]
	zombies     *store.Memory[domain.Zombie, *domain.Zombie]
	rates       *store.Memory[domain.CurrencyRate, *domain.CurrencyRate]
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		assignments: store.NewMemory[domain.ZombieItem, *domain.ZombieItem](),
		items:       store.NewMemory[domain.Item, *domain.Item](),
		zombies:     store.NewMemory[domain.Zombie, *domain.Zombie](),
		rates:       store.NewMemory[domain.CurrencyRate, *domain.CurrencyRate](),
	}
	f.svc = NewService(f.assignments, f.items, f.zombies, f.rates)
	return f
}

func (f *fixture) seedZombie(t *testing.T, id string) {
	t.Helper()
	z := &domain.Zombie{Name: "Terribly Hungry Ted"}
	z.ID = id
	_, err := f.zombies.Create(context.Background(), z)
	require.NoError(t, err)
}

func (f *fixture) seedItem(t *testing.T, id, name string, price float64) {
	t.Helper()
	it := &domain.Item{Name: name, Price: price}
	it.ID = id
	_, err := f.items.Create(context.Background(), it)
	require.NoError(t, err)
}

func (f *fixture) seedRate(t *testing.T, code string, bid float64) {
	t.Helper()
	r := &domain.CurrencyRate{Currency: code, Code: code, Ask: bid + 0.1, Bid: bid}
	r.ID = code
	_, err := f.rates.Create(context.Background(), r)
	require.NoError(t, err)
}

func TestCreateValidatesReferences(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown item", func(t *testing.T) {
		f := newFixture(t)
		f.seedZombie(t, "zombie-1")

		_, err := f.svc.Create(ctx, &domain.ZombieItem{UserID: "zombie-1", ItemID: "nope"})
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})

	t.Run("unknown zombie", func(t *testing.T) {
		f := newFixture(t)
		f.seedItem(t, "item-1", "Chocolate", 100)

		_, err := f.svc.Create(ctx, &domain.ZombieItem{UserID: "nope", ItemID: "item-1"})
		assert.ErrorIs(t, err, domain.ErrZombieNotFound)
	})

	t.Run("valid references", func(t *testing.T) {
		f := newFixture(t)
		f.seedZombie(t, "zombie-1")
		f.seedItem(t, "item-1", "Chocolate", 100)

		created, err := f.svc.Create(ctx, &domain.ZombieItem{UserID: "zombie-1", ItemID: "item-1"})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "zombie-1", created.UserID)
		assert.Equal(t, "item-1", created.ItemID)
	})
}

func TestCreateEnforcesCapacity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedZombie(t, "zombie-1")
	f.seedItem(t, "item-1", "Chocolate", 100)

	for i := 0; i < domain.MaxItemsPerZombie; i++ {
		_, err := f.svc.Create(ctx, &domain.ZombieItem{UserID: "zombie-1", ItemID: "item-1"})
		require.NoError(t, err, "assignment %d should fit", i+1)
	}

	_, err := f.svc.Create(ctx, &domain.ZombieItem{UserID: "zombie-1", ItemID: "item-1"})
	assert.ErrorIs(t, err, domain.ErrTooManyItems)

	// Another owner is unaffected.
	f.seedZombie(t, "zombie-2")
	_, err = f.svc.Create(ctx, &domain.ZombieItem{UserID: "zombie-2", ItemID: "item-1"})
	assert.NoError(t, err)
}

func TestCreateCapacityHoldsUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedZombie(t, "zombie-1")
	f.seedItem(t, "item-1", "Chocolate", 100)

	const attempts = 20
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Create(ctx, &domain.ZombieItem{UserID: "zombie-1", ItemID: "item-1"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domain.ErrTooManyItems)
		}
	}
	assert.Equal(t, domain.MaxItemsPerZombie, succeeded)
	assert.Equal(t, domain.MaxItemsPerZombie, f.assignments.Len())
}

func TestListByOwnerEnrichesItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedZombie(t, "zombie-1")
	f.seedItem(t, "item-1", "Chocolate", 100)
	f.seedItem(t, "item-2", "Brain juice", 1000)

	_, err := f.svc.Create(ctx, &domain.ZombieItem{UserID: "zombie-1", ItemID: "item-1"})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, &domain.ZombieItem{UserID: "zombie-1", ItemID: "item-2"})
	require.NoError(t, err)

	enriched, err := f.svc.ListByOwner(ctx, "zombie-1")
	require.NoError(t, err)
	require.Len(t, enriched, 2)

	byItem := map[string]*domain.EnrichedZombieItem{}
	for _, e := range enriched {
		require.NotNil(t, e.Item)
		byItem[e.ItemID] = e
	}
	assert.Equal(t, "Chocolate", byItem["item-1"].Item.Name)
	assert.InDelta(t, 1000, byItem["item-2"].Item.Price, 1e-9)
}

func TestListByOwnerToleratesMissingItem(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// Assignment referencing an item that has since been refreshed away.
	_, err := f.assignments.Create(ctx, &domain.ZombieItem{UserID: "zombie-1", ItemID: "gone"})
	require.NoError(t, err)

	enriched, err := f.svc.ListByOwner(ctx, "zombie-1")
	require.NoError(t, err)
	require.Len(t, enriched, 1)
	assert.Nil(t, enriched[0].Item)
}

func TestListByOwnerEmpty(t *testing.T) {
	f := newFixture(t)

	enriched, err := f.svc.ListByOwner(context.Background(), "zombie-1")
	require.NoError(t, err)
	assert.Empty(t, enriched)
}

func TestGetReturnsNotFoundForUnknownAssignment(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrZombieItemNotFound)
}

func TestGetEnrichesAssignment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedZombie(t, "zombie-1")
	f.seedItem(t, "item-1", "Chocolate", 100)

	created, err := f.svc.Create(ctx, &domain.ZombieItem{UserID: "zombie-1", ItemID: "item-1"})
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Item)
	assert.Equal(t, "Chocolate", got.Item.Name)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedZombie(t, "zombie-1")
	f.seedItem(t, "item-1", "Chocolate", 100)

	created, err := f.svc.Create(ctx, &domain.ZombieItem{UserID: "zombie-1", ItemID: "item-1"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, created.ID), domain.ErrZombieItemNotFound)
}

func TestPriceSumConvertsAndSorts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedZombie(t, "zombie-1")
	f.seedItem(t, "item-1", "Chocolate", 100)
	f.seedItem(t, "item-2", "Brain juice", 1000)
	f.seedRate(t, "USD", 10.1)
	f.seedRate(t, "EUR", 20.1)

	_, err := f.svc.Create(ctx, &domain.ZombieItem{UserID: "zombie-1", ItemID: "item-1"})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, &domain.ZombieItem{UserID: "zombie-1", ItemID: "item-2"})
	require.NoError(t, err)

	sums, err := f.svc.PriceSum(ctx, "zombie-1")
	require.NoError(t, err)
	require.Len(t, sums, 2)

	// 1100 / 20.1 = 54.7263..., 1100 / 10.1 = 108.9108..., EUR sorts first.
	assert.Equal(t, "EUR", sums[0].Code)
	assert.InDelta(t, 54.73, sums[0].SumValue, 1e-9)
	assert.Equal(t, "USD", sums[1].Code)
	assert.InDelta(t, 108.91, sums[1].SumValue, 1e-9)
}

func TestPriceSumWithNoAssignments(t *testing.T) {
	f := newFixture(t)
	f.seedRate(t, "USD", 10.1)
	f.seedRate(t, "EUR", 20.1)

	sums, err := f.svc.PriceSum(context.Background(), "zombie-1")
	require.NoError(t, err)
	require.Len(t, sums, 2)
	for _, s := range sums {
		assert.Zero(t, s.SumValue)
	}
}

func TestPriceSumSkipsMissingRate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedZombie(t, "zombie-1")
	f.seedItem(t, "item-1", "Chocolate", 100)
	f.seedRate(t, "USD", 10.1)

	_, err := f.svc.Create(ctx, &domain.ZombieItem{UserID: "zombie-1", ItemID: "item-1"})
	require.NoError(t, err)

	sums, err := f.svc.PriceSum(ctx, "zombie-1")
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, "USD", sums[0].Code)
	assert.InDelta(t, 9.9, sums[0].SumValue, 1e-9)
}

func TestPriceSumIgnoresUnresolvableItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedRate(t, "USD", 10.1)
	f.seedRate(t, "EUR", 20.1)

	_, err := f.assignments.Create(ctx, &domain.ZombieItem{UserID: "zombie-1", ItemID: "gone"})
	require.NoError(t, err)

	sums, err := f.svc.PriceSum(ctx, "zombie-1")
	require.NoError(t, err)
	require.Len(t, sums, 2)
	for _, s := range sums {
		assert.Zero(t, s.SumValue)
	}
}

func TestResolveItemServesFromCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedZombie(t, "zombie-1")
	f.seedItem(t, "item-1", "Chocolate", 100)

	_, err := f.svc.Create(ctx, &domain.ZombieItem{UserID: "zombie-1", ItemID: "item-1"})
	require.NoError(t, err)

	// First read populates the cache.
	first, err := f.svc.ListByOwner(ctx, "zombie-1")
	require.NoError(t, err)
	require.NotNil(t, first[0].Item)

	// The backing item disappears, the cached copy still serves.
	require.NoError(t, f.items.Delete(ctx, "item-1"))
	second, err := f.svc.ListByOwner(ctx, "zombie-1")
	require.NoError(t, err)
	require.NotNil(t, second[0].Item)
	assert.Equal(t, "Chocolate", second[0].Item.Name)
}

func TestCreateManyOwnersIndependently(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedItem(t, "item-1", "Chocolate", 100)

	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("zombie-%d", i)
		f.seedZombie(t, id)
		for j := 0; j < domain.MaxItemsPerZombie; j++ {
			_, err := f.svc.Create(ctx, &domain.ZombieItem{UserID: id, ItemID: "item-1"})
			require.NoError(t, err)
		}
	}
	assert.Equal(t, 3*domain.MaxItemsPerZombie, f.assignments.Len())
}
