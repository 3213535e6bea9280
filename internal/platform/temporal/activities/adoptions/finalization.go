package adoptions

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	adoptiontypes "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/application/types"
	adoptiondomain "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/domain"
	adoptionports "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/ports"
	"github.com/Apurer/rescue-adoption-api/internal/shared/failure"
)

// FinalizeAdoptionActivityName creates the adoption record and hands the animal over.
const FinalizeAdoptionActivityName = "adoptions.activities.FinalizeAdoption"

// FailureDetail carries a business failure across the workflow boundary.
type FailureDetail struct {
	Message string
	Fields  map[string]string
}

// Activities groups activities that operate on the adoptions bounded context.
type Activities struct {
	service adoptionports.Service
}

// NewActivities wires the adoption workflow engine into the Temporal activities bundle.
func NewActivities(service adoptionports.Service) *Activities {
	return &Activities{service: service}
}

// FinalizeAdoption runs the finalization unit of work. Business failures are returned as
// non-retryable application errors typed with their failure code; storage failures are
// left retryable.
func (a *Activities) FinalizeAdoption(ctx context.Context, input adoptiontypes.FinalizeAdoptionInput) (*adoptiondomain.Adoption, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("finalize adoption activity not initialized", "requestId", input.RequestID)
		return nil, errors.New("finalize adoption activity not initialized")
	}
	logger.Info("FinalizeAdoption activity started", "requestId", input.RequestID)
	adoption, err := a.service.FinalizeAdoption(ctx, input)
	if err != nil {
		f := failure.From(err)
		if f.Code == failure.CodeStorage {
			logger.Error("FinalizeAdoption activity failed", "requestId", input.RequestID, "error", err)
			return nil, err
		}
		logger.Warn("FinalizeAdoption activity rejected", "requestId", input.RequestID, "code", string(f.Code))
		return nil, temporal.NewNonRetryableApplicationError(f.Error(), string(f.Code), err, FailureDetail{Message: f.Message, Fields: f.Fields})
	}
	logger.Info("FinalizeAdoption activity completed", "requestId", input.RequestID, "adoptionId", adoption.ID)
	return adoption, nil
}
