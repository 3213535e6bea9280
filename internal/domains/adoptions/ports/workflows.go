package ports

import (
	"context"

	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/application/types"
	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/domain"
)

// FinalizationOrchestrator runs adoption finalization, durably when a workflow engine is configured.
type FinalizationOrchestrator interface {
	FinalizeAdoption(ctx context.Context, input types.FinalizeAdoptionInput) (*domain.Adoption, error)
}
