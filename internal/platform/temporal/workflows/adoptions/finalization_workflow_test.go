package adoptions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	adoptiontypes "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/application/types"
	adoptiondomain "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/domain"
	adoptionactivities "github.com/Apurer/rescue-adoption-api/internal/platform/temporal/activities/adoptions"
	"github.com/Apurer/rescue-adoption-api/internal/shared/failure"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

type stubService struct {
	finalize func(adoptiontypes.FinalizeAdoptionInput) (*adoptiondomain.Adoption, error)
	calls    int
}

func (s *stubService) FinalizeAdoption(_ context.Context, input adoptiontypes.FinalizeAdoptionInput) (*adoptiondomain.Adoption, error) {
	s.calls++
	return s.finalize(input)
}

func (s *stubService) SubmitRequest(context.Context, adoptiontypes.SubmitRequestInput) (*adoptiondomain.AdoptionRequest, error) {
	return nil, errors.New("not used")
}

func (s *stubService) EvaluateRequest(context.Context, adoptiontypes.EvaluateRequestInput) (*adoptiondomain.AdoptionRequest, error) {
	return nil, errors.New("not used")
}

func (s *stubService) GetRequest(context.Context, string) (*adoptiondomain.AdoptionRequest, error) {
	return nil, errors.New("not used")
}

func (s *stubService) ListRequests(context.Context, adoptiontypes.ListRequestsInput) (projection.Page[*adoptiondomain.AdoptionRequest], error) {
	return projection.Page[*adoptiondomain.AdoptionRequest]{}, errors.New("not used")
}

func (s *stubService) GetAdoption(context.Context, string) (*adoptiondomain.Adoption, error) {
	return nil, errors.New("not used")
}

func (s *stubService) GetAdoptionByRequest(context.Context, string) (*adoptiondomain.Adoption, error) {
	return nil, errors.New("not used")
}

func runFinalization(t *testing.T, svc *stubService) (*adoptiondomain.Adoption, error) {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	acts := adoptionactivities.NewActivities(svc)
	env.RegisterActivityWithOptions(acts.FinalizeAdoption, activity.RegisterOptions{Name: adoptionactivities.FinalizeAdoptionActivityName})

	env.ExecuteWorkflow(FinalizationWorkflow, FinalizationWorkflowInput{
		Command: adoptiontypes.FinalizeAdoptionInput{RequestID: "req-1", CoordinatorID: "coord-1", FinalizedOn: "2025-01-10"},
	})
	require.True(t, env.IsWorkflowCompleted())
	if err := env.GetWorkflowError(); err != nil {
		return nil, err
	}
	var adoption adoptiondomain.Adoption
	require.NoError(t, env.GetWorkflowResult(&adoption))
	return &adoption, nil
}

func TestFinalizationWorkflow_ReturnsAdoption(t *testing.T) {
	svc := &stubService{finalize: func(in adoptiontypes.FinalizeAdoptionInput) (*adoptiondomain.Adoption, error) {
		return &adoptiondomain.Adoption{
			ID:          "adoption-1",
			RequestID:   in.RequestID,
			FinalizedOn: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		}, nil
	}}

	adoption, err := runFinalization(t, svc)
	require.NoError(t, err)
	assert.Equal(t, "adoption-1", adoption.ID)
	assert.Equal(t, "req-1", adoption.RequestID)
}

func TestFinalizationWorkflow_BusinessFailureIsNotRetried(t *testing.T) {
	svc := &stubService{finalize: func(adoptiontypes.FinalizeAdoptionInput) (*adoptiondomain.Adoption, error) {
		return nil, failure.New(failure.CodeAlreadyFinalized, "adoption request has already been finalized")
	}}

	_, err := runFinalization(t, svc)
	require.Error(t, err)
	assert.Equal(t, 1, svc.calls)

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, string(failure.CodeAlreadyFinalized), appErr.Type())
	assert.True(t, appErr.NonRetryable())

	var detail adoptionactivities.FailureDetail
	require.NoError(t, appErr.Details(&detail))
	assert.Equal(t, "adoption request has already been finalized", detail.Message)
}

func TestFinalizationWorkflowID(t *testing.T) {
	assert.Equal(t, "adoption-finalization-req-1", FinalizationWorkflowID("req-1"))
}
