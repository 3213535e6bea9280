package adoptions

import (
	"fmt"

	"go.temporal.io/sdk/workflow"

	adoptiontypes "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/application/types"
	adoptiondomain "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/domain"
	"github.com/Apurer/rescue-adoption-api/internal/platform/temporal/sequences"
)

const (
	// FinalizationWorkflowName is the public identifier for registering the workflow.
	FinalizationWorkflowName = "adoptions.workflows.Finalization"
	// FinalizationTaskQueue is the queue consumed by the worker processing adoption workflows.
	FinalizationTaskQueue = "ADOPTION_FINALIZATION"
)

// FinalizationWorkflowInput captures the payload required to finalize an adoption.
type FinalizationWorkflowInput struct {
	Command adoptiontypes.FinalizeAdoptionInput
	TraceID string
}

// FinalizationWorkflowID is derived from the request so concurrent finalizations share one run.
func FinalizationWorkflowID(requestID string) string {
	return fmt.Sprintf("adoption-finalization-%s", requestID)
}

// FinalizationWorkflow orchestrates the activities needed to finalize an adoption.
func FinalizationWorkflow(ctx workflow.Context, input FinalizationWorkflowInput) (*adoptiondomain.Adoption, error) {
	logger := workflow.GetLogger(ctx)
	requestID := input.Command.RequestID
	logger.Info("FinalizationWorkflow started", withTraceID(input.TraceID, "requestId", requestID)...)
	adoption, err := sequences.RunAdoptionFinalizationSequence(ctx, input.Command)
	if err != nil {
		logger.Error("FinalizationWorkflow failed", withTraceID(input.TraceID, "requestId", requestID, "error", err)...)
		return nil, err
	}
	logger.Info("FinalizationWorkflow completed", withTraceID(input.TraceID, "requestId", requestID, "adoptionId", adoption.ID)...)
	return adoption, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
