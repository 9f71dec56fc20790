package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/osse101/zombie-showcase-server/internal/domain"
)

// startMongo spins up a throwaway database for the duration of the test.
func startMongo(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	ctr, err := tcmongo.Run(ctx, "mongo:7")
	if err != nil {
		t.Skipf("could not start mongodb container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	return client.Database("zombie-showcase-test")
}

func TestStoreAgainstMongo(t *testing.T) {
	db := startMongo(t)
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		zombies := New[domain.Zombie, *domain.Zombie](db, "zombies")

		created, err := zombies.Create(ctx, &domain.Zombie{Name: "Terribly Hungry Ted"})
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())

		got, err := zombies.Get(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Terribly Hungry Ted", got.Name)

		missing, err := zombies.Get(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("create with existing id replaces", func(t *testing.T) {
		zombies := New[domain.Zombie, *domain.Zombie](db, "zombies_replace")

		z := &domain.Zombie{Name: "Terribly Hungry Ted"}
		z.ID = "zombie-1"
		_, err := zombies.Create(ctx, z)
		require.NoError(t, err)

		again := &domain.Zombie{Name: "Slightly Peckish Pete"}
		again.ID = "zombie-1"
		replaced, err := zombies.Create(ctx, again)
		require.NoError(t, err)
		assert.Equal(t, "Slightly Peckish Pete", replaced.Name)

		page, err := zombies.Find(ctx, FindOptions{})
		require.NoError(t, err)
		assert.Len(t, page, 1)
	})

	t.Run("update merges and rejects missing", func(t *testing.T) {
		zombies := New[domain.Zombie, *domain.Zombie](db, "zombies_update")

		created, err := zombies.Create(ctx, &domain.Zombie{Name: "Terribly Hungry Ted"})
		require.NoError(t, err)

		updated, err := zombies.Update(ctx, created.ID, map[string]any{"name": "Slightly Peckish Pete"})
		require.NoError(t, err)
		assert.Equal(t, "Slightly Peckish Pete", updated.Name)
		assert.WithinDuration(t, created.CreatedAt, updated.CreatedAt, time.Second)

		_, err = zombies.Update(ctx, "nope", map[string]any{"name": "whoever"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("find filters orders and paginates", func(t *testing.T) {
		assignments := New[domain.ZombieItem, *domain.ZombieItem](db, "assignments_find")

		for i := 0; i < 15; i++ {
			owner := "alice"
			if i%3 == 0 {
				owner = "bob"
			}
			_, err := assignments.Create(ctx, &domain.ZombieItem{UserID: owner, ItemID: "item"})
			require.NoError(t, err)
		}

		owned, err := assignments.Find(ctx, FindOptions{
			Filters: []Filter{{Field: "userId", Op: OpEqual, Value: "bob"}},
		})
		require.NoError(t, err)
		assert.Len(t, owned, 5)

		page, err := assignments.Find(ctx, FindOptions{})
		require.NoError(t, err)
		assert.Len(t, page, DefaultLimit)

		rest, err := assignments.Find(ctx, FindOptions{Limit: 10, Skip: 10})
		require.NoError(t, err)
		assert.Len(t, rest, 5)
	})

	t.Run("delete and delete all", func(t *testing.T) {
		items := New[domain.Item, *domain.Item](db, "items_delete")

		created, err := items.Create(ctx, &domain.Item{Name: "Chocolate", Price: 100})
		require.NoError(t, err)

		require.NoError(t, items.Delete(ctx, created.ID))
		require.NoError(t, items.Delete(ctx, created.ID))

		for i := 0; i < 3; i++ {
			_, err := items.Create(ctx, &domain.Item{Name: "Chocolate", Price: 100})
			require.NoError(t, err)
		}
		require.NoError(t, items.DeleteAll(ctx))

		all, err := items.Find(ctx, FindOptions{})
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("create many", func(t *testing.T) {
		items := New[domain.Item, *domain.Item](db, "items_batch")

		batch := make([]*domain.Item, 12)
		for i := range batch {
			batch[i] = &domain.Item{Name: "Chocolate", Price: float64(i)}
		}
		require.NoError(t, items.CreateMany(ctx, batch))

		all, err := items.Find(ctx, FindOptions{Limit: 20})
		require.NoError(t, err)
		assert.Len(t, all, 12)
	})
}
