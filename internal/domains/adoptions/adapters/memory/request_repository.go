package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/domain"
	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/ports"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

var _ ports.RequestRepository = (*RequestRepository)(nil)

// RequestRepository keeps adoption requests in memory and enforces the
// one-active-request-per-animal-and-adopter rule on write.
type RequestRepository struct {
	mu       sync.RWMutex
	requests map[string]*domain.AdoptionRequest
	order    []string
}

func NewRequestRepository() *RequestRepository {
	return &RequestRepository{requests: map[string]*domain.AdoptionRequest{}}
}

func (r *RequestRepository) Create(_ context.Context, request *domain.AdoptionRequest) error {
	if request == nil {
		return errors.New("adoption request is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.requests[request.ID]; exists {
		return errors.New("adoption request id already exists")
	}
	if request.Status.Active() && r.activeLocked(request.AnimalID, request.AdopterID, "") {
		return ports.ErrDuplicateActiveRequest
	}
	r.requests[request.ID] = request.Clone()
	r.order = append(r.order, request.ID)
	return nil
}

func (r *RequestRepository) GetByID(_ context.Context, id string) (*domain.AdoptionRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	request, ok := r.requests[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return request.Clone(), nil
}

// GetForUpdate relies on the unit-of-work lock held by the caller.
func (r *RequestRepository) GetForUpdate(ctx context.Context, id string) (*domain.AdoptionRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *RequestRepository) Update(_ context.Context, request *domain.AdoptionRequest) error {
	if request == nil {
		return errors.New("adoption request is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[request.ID]; !ok {
		return ports.ErrNotFound
	}
	if request.Status.Active() && r.activeLocked(request.AnimalID, request.AdopterID, request.ID) {
		return ports.ErrDuplicateActiveRequest
	}
	r.requests[request.ID] = request.Clone()
	return nil
}

func (r *RequestRepository) HasActive(_ context.Context, animalID, adopterID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeLocked(animalID, adopterID, ""), nil
}

func (r *RequestRepository) List(_ context.Context, filter ports.RequestFilter, window projection.Window) ([]*domain.AdoptionRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := r.matching(filter)
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].SubmittedAt.After(matched[j].SubmittedAt)
	})
	page := projection.Apply(matched, window)
	out := make([]*domain.AdoptionRequest, 0, len(page))
	for _, request := range page {
		out = append(out, request.Clone())
	}
	return out, nil
}

func (r *RequestRepository) Count(_ context.Context, filter ports.RequestFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matching(filter)), nil
}

func (r *RequestRepository) activeLocked(animalID, adopterID, exceptID string) bool {
	for id, request := range r.requests {
		if id == exceptID {
			continue
		}
		if request.AnimalID == animalID && request.AdopterID == adopterID && request.Status.Active() {
			return true
		}
	}
	return false
}

func (r *RequestRepository) matching(filter ports.RequestFilter) []*domain.AdoptionRequest {
	out := make([]*domain.AdoptionRequest, 0, len(r.order))
	for _, id := range r.order {
		request := r.requests[id]
		if filter.AnimalID != nil && request.AnimalID != *filter.AnimalID {
			continue
		}
		if filter.AdopterID != nil && request.AdopterID != *filter.AdopterID {
			continue
		}
		if filter.Status != nil && request.Status != *filter.Status {
			continue
		}
		out = append(out, request)
	}
	return out
}
