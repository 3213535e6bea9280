package ports

import (
	"context"
	"errors"

	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/domain"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

var (
	ErrNotFound               = errors.New("adoption request not found")
	ErrAdoptionNotFound       = errors.New("adoption not found")
	ErrDuplicateActiveRequest = errors.New("an active adoption request already exists for this animal and adopter")
	ErrAdoptionExists         = errors.New("an adoption already exists for this request")
)

// RequestFilter narrows request listings. Nil fields match everything.
type RequestFilter struct {
	AnimalID  *string
	AdopterID *string
	Status    *domain.RequestStatus
}

// RequestRepository persists adoption requests. Create fails with ErrDuplicateActiveRequest
// when another active request exists for the same animal and adopter.
type RequestRepository interface {
	Create(ctx context.Context, request *domain.AdoptionRequest) error
	GetByID(ctx context.Context, id string) (*domain.AdoptionRequest, error)
	GetForUpdate(ctx context.Context, id string) (*domain.AdoptionRequest, error)
	Update(ctx context.Context, request *domain.AdoptionRequest) error
	HasActive(ctx context.Context, animalID, adopterID string) (bool, error)
	List(ctx context.Context, filter RequestFilter, window projection.Window) ([]*domain.AdoptionRequest, error)
	Count(ctx context.Context, filter RequestFilter) (int, error)
}

// AdoptionRepository persists finalized adoptions. Create fails with ErrAdoptionExists
// when the request already has one.
type AdoptionRepository interface {
	Create(ctx context.Context, adoption *domain.Adoption) error
	GetByID(ctx context.Context, id string) (*domain.Adoption, error)
	// GetByRequestID returns ErrAdoptionNotFound when the request has not been finalized.
	GetByRequestID(ctx context.Context, requestID string) (*domain.Adoption, error)
}
