package zombie

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/osse101/zombie-showcase-server/internal/domain"
	"github.com/osse101/zombie-showcase-server/internal/logger"
	"github.com/osse101/zombie-showcase-server/internal/store"
)

// Service defines the interface for zombie operations
type Service interface {
	Get(ctx context.Context, id string) (*domain.Zombie, error)
	List(ctx context.Context, opts store.FindOptions) ([]*domain.Zombie, error)
	Create(ctx context.Context, zombie *domain.Zombie) (*domain.Zombie, error)
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Zombie, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

type service struct {
	zombies     store.Interface[domain.Zombie, *domain.Zombie]
	assignments store.Interface[domain.ZombieItem, *domain.ZombieItem]
}

// NewService creates a zombie service. The assignments store is needed so
// deleting a zombie also removes its item assignments.
func NewService(
	zombies store.Interface[domain.Zombie, *domain.Zombie],
	assignments store.Interface[domain.ZombieItem, *domain.ZombieItem],
) Service {
	return &service{
		zombies:     zombies,
		assignments: assignments,
	}
}

// Get returns the zombie or ErrZombieNotFound.
func (s *service) Get(ctx context.Context, id string) (*domain.Zombie, error) {
	zombie, err := s.zombies.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if zombie == nil {
		return nil, domain.ErrZombieNotFound
	}
	return zombie, nil
}

func (s *service) List(ctx context.Context, opts store.FindOptions) ([]*domain.Zombie, error) {
	return s.zombies.Find(ctx, opts)
}

func (s *service) Create(ctx context.Context, zombie *domain.Zombie) (*domain.Zombie, error) {
	return s.zombies.Create(ctx, zombie)
}

// Update merges the supplied fields into an existing zombie. The zombie must
// exist.
func (s *service) Update(ctx context.Context, id string, fields map[string]any) (*domain.Zombie, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.zombies.Update(ctx, id, fields)
}

// Delete removes a zombie and every assignment that references it.
func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	owned, err := s.assignments.Find(ctx, store.FindOptions{
		Filters: []store.Filter{{Field: "userId", Op: store.OpEqual, Value: id}},
		Limit:   domain.MaxItemsPerZombie,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, assignment := range owned {
		g.Go(func() error {
			return s.assignments.Delete(gctx, assignment.ID)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("Zombie deleted", "zombie_id", id, "assignments_removed", len(owned))
	return s.zombies.Delete(ctx, id)
}

// DeleteAll clears the zombie collection and all assignments.
func (s *service) DeleteAll(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.assignments.DeleteAll(gctx) })
	g.Go(func() error { return s.zombies.DeleteAll(gctx) })
	return g.Wait()
}
