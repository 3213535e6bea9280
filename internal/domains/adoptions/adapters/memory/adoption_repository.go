package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/domain"
	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/ports"
)

var _ ports.AdoptionRepository = (*AdoptionRepository)(nil)

// AdoptionRepository keeps finalized adoptions in memory, at most one per request.
type AdoptionRepository struct {
	mu        sync.RWMutex
	adoptions map[string]domain.Adoption
	byRequest map[string]string
}

func NewAdoptionRepository() *AdoptionRepository {
	return &AdoptionRepository{
		adoptions: map[string]domain.Adoption{},
		byRequest: map[string]string{},
	}
}

func (r *AdoptionRepository) Create(_ context.Context, adoption *domain.Adoption) error {
	if adoption == nil {
		return errors.New("adoption is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byRequest[adoption.RequestID]; exists {
		return ports.ErrAdoptionExists
	}
	if _, exists := r.adoptions[adoption.ID]; exists {
		return errors.New("adoption id already exists")
	}
	r.adoptions[adoption.ID] = *adoption
	r.byRequest[adoption.RequestID] = adoption.ID
	return nil
}

func (r *AdoptionRepository) GetByID(_ context.Context, id string) (*domain.Adoption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	adoption, ok := r.adoptions[id]
	if !ok {
		return nil, ports.ErrAdoptionNotFound
	}
	return &adoption, nil
}

func (r *AdoptionRepository) GetByRequestID(_ context.Context, requestID string) (*domain.Adoption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byRequest[requestID]
	if !ok {
		return nil, ports.ErrAdoptionNotFound
	}
	adoption := r.adoptions[id]
	return &adoption, nil
}
