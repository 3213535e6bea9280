package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/application/types"
	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/domain"
	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/ports"
	adoptionactivities "github.com/Apurer/rescue-adoption-api/internal/platform/temporal/activities/adoptions"
	adoptionworkflows "github.com/Apurer/rescue-adoption-api/internal/platform/temporal/workflows/adoptions"
	"github.com/Apurer/rescue-adoption-api/internal/shared/failure"
)

var (
	_ ports.FinalizationOrchestrator = (*TemporalFinalization)(nil)
	_ ports.FinalizationOrchestrator = (*InlineFinalization)(nil)
)

// TemporalFinalization runs adoption finalization as a Temporal workflow.
type TemporalFinalization struct {
	client    client.Client
	taskQueue string
}

// NewTemporalFinalization wires a Temporal client into the orchestrator.
func NewTemporalFinalization(c client.Client) *TemporalFinalization {
	return &TemporalFinalization{client: c, taskQueue: adoptionworkflows.FinalizationTaskQueue}
}

// FinalizeAdoption starts (or joins) the finalization workflow of the request and waits for its result.
func (o *TemporalFinalization) FinalizeAdoption(ctx context.Context, input types.FinalizeAdoptionInput) (*domain.Adoption, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal adoption finalization not configured")
	}
	workflowID := adoptionworkflows.FinalizationWorkflowID(input.RequestID)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		adoptionworkflows.FinalizationWorkflowName,
		adoptionworkflows.FinalizationWorkflowInput{Command: input, TraceID: workflowTraceComponent(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var adoption domain.Adoption
	if err := run.Get(ctx, &adoption); err != nil {
		return nil, FailureFromWorkflowError(err)
	}
	return &adoption, nil
}

// FailureFromWorkflowError restores the failure code a finalization activity attached to its error.
func FailureFromWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	code := failure.Code(appErr.Type())
	if code == "" || code == failure.CodeStorage {
		return err
	}
	var detail adoptionactivities.FailureDetail
	if appErr.HasDetails() {
		_ = appErr.Details(&detail)
	}
	f := &failure.Error{Code: code, Message: detail.Message, Fields: detail.Fields, Err: err}
	if f.Message == "" {
		f.Message = string(code)
	}
	return f
}

// InlineFinalization executes the service directly without Temporal, for tests and dev fallbacks.
type InlineFinalization struct {
	service ports.Service
}

// NewInlineFinalization wraps the adoption service for synchronous execution.
func NewInlineFinalization(service ports.Service) *InlineFinalization {
	return &InlineFinalization{service: service}
}

// FinalizeAdoption delegates to the application service without durable orchestration.
func (o *InlineFinalization) FinalizeAdoption(ctx context.Context, input types.FinalizeAdoptionInput) (*domain.Adoption, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline adoption finalization not configured")
	}
	return o.service.FinalizeAdoption(ctx, input)
}

func workflowTraceComponent(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	spanCtx := span.SpanContext()
	if spanCtx.IsValid() && spanCtx.TraceID().IsValid() {
		return spanCtx.TraceID().String()
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}
