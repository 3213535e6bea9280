package ports

import (
	"context"

	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/application/types"
	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/domain"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

// Service exposes the adoption workflow use cases to adapters.
type Service interface {
	SubmitRequest(ctx context.Context, input types.SubmitRequestInput) (*domain.AdoptionRequest, error)
	EvaluateRequest(ctx context.Context, input types.EvaluateRequestInput) (*domain.AdoptionRequest, error)
	FinalizeAdoption(ctx context.Context, input types.FinalizeAdoptionInput) (*domain.Adoption, error)
	GetRequest(ctx context.Context, id string) (*domain.AdoptionRequest, error)
	ListRequests(ctx context.Context, input types.ListRequestsInput) (projection.Page[*domain.AdoptionRequest], error)
	GetAdoption(ctx context.Context, id string) (*domain.Adoption, error)
	GetAdoptionByRequest(ctx context.Context, requestID string) (*domain.Adoption, error)
}
