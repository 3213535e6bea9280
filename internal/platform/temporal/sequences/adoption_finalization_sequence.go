package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	adoptiontypes "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/application/types"
	adoptiondomain "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/domain"
	adoptionactivities "github.com/Apurer/rescue-adoption-api/internal/platform/temporal/activities/adoptions"
)

// RunAdoptionFinalizationSequence executes the activity that finalizes an approved request.
func RunAdoptionFinalizationSequence(ctx workflow.Context, input adoptiontypes.FinalizeAdoptionInput) (*adoptiondomain.Adoption, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("adoption finalization sequence started", "requestId", input.RequestID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}

	var adoption adoptiondomain.Adoption
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), adoptionactivities.FinalizeAdoptionActivityName, input).Get(ctx, &adoption)
	if err != nil {
		logger.Error("adoption finalization sequence failed", "requestId", input.RequestID, "error", err)
		return nil, err
	}
	logger.Info("adoption finalization sequence completed", "requestId", input.RequestID, "adoptionId", adoption.ID)
	return &adoption, nil
}
