package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/domain"
	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/ports"
	"github.com/Apurer/rescue-adoption-api/internal/shared/calendar"
)

var _ ports.ActivityRepository = (*ActivityRepository)(nil)

// ActivityRepository keeps volunteer activities in memory.
type ActivityRepository struct {
	mu         sync.RWMutex
	activities map[string]*domain.Activity
}

func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{activities: map[string]*domain.Activity{}}
}

func (r *ActivityRepository) Create(_ context.Context, activity *domain.Activity) error {
	if activity == nil {
		return errors.New("activity is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.activities[activity.ID]; exists {
		return errors.New("activity id already exists")
	}
	r.activities[activity.ID] = activity.Clone()
	return nil
}

func (r *ActivityRepository) GetByID(_ context.Context, id string) (*domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	activity, ok := r.activities[id]
	if !ok {
		return nil, ports.ErrActivityNotFound
	}
	return activity.Clone(), nil
}

// GetForUpdate relies on the unit-of-work lock held by the caller.
func (r *ActivityRepository) GetForUpdate(ctx context.Context, id string) (*domain.Activity, error) {
	return r.GetByID(ctx, id)
}

func (r *ActivityRepository) Update(_ context.Context, activity *domain.Activity) error {
	if activity == nil {
		return errors.New("activity is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.activities[activity.ID]; !ok {
		return ports.ErrActivityNotFound
	}
	r.activities[activity.ID] = activity.Clone()
	return nil
}

func (r *ActivityRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.activities[id]; !ok {
		return ports.ErrActivityNotFound
	}
	delete(r.activities, id)
	return nil
}

func (r *ActivityRepository) List(_ context.Context, filter ports.ActivityFilter) ([]*domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Activity, 0, len(r.activities))
	for _, activity := range r.activities {
		if filter.From != nil && calendar.BeforeDay(activity.Date, *filter.From) {
			continue
		}
		if filter.To != nil && calendar.AfterDay(activity.Date, *filter.To) {
			continue
		}
		if filter.Urgent != nil && activity.Urgent != *filter.Urgent {
			continue
		}
		out = append(out, activity.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.ID < b.ID
	})
	return out, nil
}
