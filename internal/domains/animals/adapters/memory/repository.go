package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/domain"
	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/ports"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory animal persistence adapter.
type Repository struct {
	mu       sync.RWMutex
	animals  map[string]*domain.Animal
	order    []string
	tracking map[string][]domain.TrackingEntry
}

func NewRepository() *Repository {
	return &Repository{
		animals:  map[string]*domain.Animal{},
		tracking: map[string][]domain.TrackingEntry{},
	}
}

func (r *Repository) Create(_ context.Context, animal *domain.Animal) error {
	if animal == nil {
		return errors.New("animal is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.animals[animal.ID]; exists {
		return errors.New("animal id already exists")
	}
	r.animals[animal.ID] = animal.Clone()
	r.order = append(r.order, animal.ID)
	return nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	animal, ok := r.animals[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return animal.Clone(), nil
}

// GetForUpdate relies on the unit-of-work lock held by the caller.
func (r *Repository) GetForUpdate(ctx context.Context, id string) (*domain.Animal, error) {
	return r.GetByID(ctx, id)
}

func (r *Repository) Update(_ context.Context, animal *domain.Animal) error {
	if animal == nil {
		return errors.New("animal is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.animals[animal.ID]; !ok {
		return ports.ErrNotFound
	}
	r.animals[animal.ID] = animal.Clone()
	return nil
}

func (r *Repository) List(_ context.Context, filter ports.Filter, window projection.Window) ([]*domain.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := r.matching(filter)
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	page := projection.Apply(matched, window)
	list := make([]*domain.Animal, 0, len(page))
	for _, a := range page {
		list = append(list, a.Clone())
	}
	return list, nil
}

func (r *Repository) Count(_ context.Context, filter ports.Filter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matching(filter)), nil
}

func (r *Repository) AppendTracking(_ context.Context, entry domain.TrackingEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.animals[entry.AnimalID]; !ok {
		return ports.ErrNotFound
	}
	r.tracking[entry.AnimalID] = append(r.tracking[entry.AnimalID], entry)
	return nil
}

func (r *Repository) ListTracking(_ context.Context, animalID string) ([]domain.TrackingEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := r.tracking[animalID]
	return append([]domain.TrackingEntry{}, entries...), nil
}

// matching walks animals in insertion order; callers hold the lock.
func (r *Repository) matching(filter ports.Filter) []*domain.Animal {
	var out []*domain.Animal
	for _, id := range r.order {
		a := r.animals[id]
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.Location != nil && a.Location != *filter.Location {
			continue
		}
		if filter.Species != nil && a.Species != *filter.Species {
			continue
		}
		out = append(out, a)
	}
	return out
}
