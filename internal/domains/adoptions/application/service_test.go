package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/adapters/memory"
	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/application/types"
	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/domain"
	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/ports"
	animalmemory "github.com/Apurer/rescue-adoption-api/internal/domains/animals/adapters/memory"
	animalapp "github.com/Apurer/rescue-adoption-api/internal/domains/animals/application"
	animaltypes "github.com/Apurer/rescue-adoption-api/internal/domains/animals/application/types"
	animaldomain "github.com/Apurer/rescue-adoption-api/internal/domains/animals/domain"
	"github.com/Apurer/rescue-adoption-api/internal/platform/txn"
	"github.com/Apurer/rescue-adoption-api/internal/shared/failure"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

var fixedNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc         *Service
	animals     *animalapp.Service
	animalRepo  *animalmemory.Repository
	requests    *memory.RequestRepository
	adoptions   *memory.AdoptionRepository
	idempotency *memory.IdempotencyStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	runner := txn.NewLocalRunner()
	clock := func() time.Time { return fixedNow }
	animalRepo := animalmemory.NewRepository()
	animals := animalapp.NewService(animalRepo, runner, animalapp.WithClock(clock), animalapp.WithIDGenerator(sequence("track")))
	f := &fixture{
		animals:     animals,
		animalRepo:  animalRepo,
		requests:    memory.NewRequestRepository(),
		adoptions:   memory.NewAdoptionRepository(),
		idempotency: memory.NewIdempotencyStore(),
	}
	f.svc = NewService(f.requests, f.adoptions, animals, runner,
		WithClock(clock),
		WithIDGenerator(sequence("id")),
		WithIdempotencyStore(f.idempotency),
	)
	return f
}

func sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func (f *fixture) availableAnimal(t *testing.T) *animaldomain.Animal {
	t.Helper()
	ctx := context.Background()
	a, err := f.animals.RegisterAnimal(ctx, animaltypes.RegisterAnimalInput{Species: "dog", Name: "Rex"})
	require.NoError(t, err)
	_, err = f.animals.Transition(ctx, animaltypes.TransitionInput{AnimalID: a.ID, Status: "available", Location: "foster_home", ActorID: "staff-1"})
	require.NoError(t, err)
	return a
}

func submitInput(animalID, adopterID string) types.SubmitRequestInput {
	return types.SubmitRequestInput{
		AnimalID:         animalID,
		AdopterID:        adopterID,
		Motivation:       "home",
		HousingType:      "house",
		HasYard:          true,
		HouseholdMembers: 3,
		OtherPets:        1,
	}
}

func (f *fixture) approvedRequest(t *testing.T) *domain.AdoptionRequest {
	t.Helper()
	ctx := context.Background()
	animal := f.availableAnimal(t)
	request, err := f.svc.SubmitRequest(ctx, submitInput(animal.ID, "adopter-1"))
	require.NoError(t, err)
	approved, err := f.svc.EvaluateRequest(ctx, types.EvaluateRequestInput{RequestID: request.ID, ReviewerID: "staff-2", Decision: "approved"})
	require.NoError(t, err)
	return approved
}

func TestSubmitRequest_CreatesPendingThenRejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	animal := f.availableAnimal(t)

	request, err := f.svc.SubmitRequest(ctx, submitInput(animal.ID, "adopter-1"))
	require.NoError(t, err)
	assert.Equal(t, domain.RequestPendingReview, request.Status)
	assert.Equal(t, fixedNow, request.SubmittedAt)
	assert.Equal(t, "home", request.Motivation)
	assert.Equal(t, 3, request.Household.HouseholdMembers)

	_, err = f.svc.SubmitRequest(ctx, submitInput(animal.ID, "adopter-1"))
	require.ErrorIs(t, err, failure.ErrDuplicateRequest)

	_, err = f.svc.SubmitRequest(ctx, submitInput(animal.ID, "adopter-2"))
	require.NoError(t, err)

	total, err := f.requests.Count(ctx, ports.RequestFilter{AnimalID: &animal.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestSubmitRequest_CheckOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitRequest(ctx, submitInput("missing", "adopter-1"))
	require.ErrorIs(t, err, failure.ErrNotFound)

	intake, err := f.animals.RegisterAnimal(ctx, animaltypes.RegisterAnimalInput{Species: "cat", Name: "Miso"})
	require.NoError(t, err)

	invalid := submitInput(intake.ID, "adopter-1")
	invalid.Motivation = "  "
	invalid.HouseholdMembers = -1
	_, err = f.svc.SubmitRequest(ctx, invalid)
	require.ErrorIs(t, err, failure.ErrNotAvailable, "availability is reported before field validation")

	animal := f.availableAnimal(t)
	invalid.AnimalID = animal.ID
	invalid.OtherPets = -2
	_, err = f.svc.SubmitRequest(ctx, invalid)
	require.ErrorIs(t, err, failure.ErrValidation)
	fields := failure.From(err).Fields
	assert.Equal(t, "is required", fields["motivation"])
	assert.Contains(t, fields, "household_members")
	assert.Contains(t, fields, "other_pets")

	_, err = f.svc.SubmitRequest(ctx, submitInput(animal.ID, " "))
	require.ErrorIs(t, err, failure.ErrValidation)
	assert.Equal(t, "is required", failure.From(err).Fields["adopter_id"])

	_, err = f.svc.SubmitRequest(ctx, submitInput(animal.ID, "adopter-1"))
	require.NoError(t, err)
	blank := submitInput(animal.ID, "adopter-1")
	blank.Motivation = ""
	_, err = f.svc.SubmitRequest(ctx, blank)
	require.ErrorIs(t, err, failure.ErrDuplicateRequest, "an active duplicate is reported before field validation")
}

func TestSubmitRequest_IdempotentReplay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	animal := f.availableAnimal(t)

	input := submitInput(animal.ID, "adopter-1")
	input.IdempotencyKey = "key-1"
	first, err := f.svc.SubmitRequest(ctx, input)
	require.NoError(t, err)

	replayed, err := f.svc.SubmitRequest(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, first.ID, replayed.ID)

	changed := input
	changed.Motivation = "a different home"
	_, err = f.svc.SubmitRequest(ctx, changed)
	require.ErrorIs(t, err, failure.ErrIdempotencyConflict)

	total, err := f.requests.Count(ctx, ports.RequestFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestEvaluateRequest_ApproveMovesAnimalToInProcess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	animal := f.availableAnimal(t)
	request, err := f.svc.SubmitRequest(ctx, submitInput(animal.ID, "adopter-1"))
	require.NoError(t, err)

	approved, err := f.svc.EvaluateRequest(ctx, types.EvaluateRequestInput{
		RequestID:       request.ID,
		ReviewerID:      "staff-2",
		Decision:        "approved",
		ApprovalComment: "lovely family",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RequestApproved, approved.Status)
	assert.Equal(t, "staff-2", approved.ReviewerID)
	assert.Equal(t, "lovely family", approved.ApprovalComment)
	require.NotNil(t, approved.ReviewedAt)

	moved, err := f.animals.GetAnimal(ctx, animal.ID)
	require.NoError(t, err)
	assert.Equal(t, animaldomain.StatusInProcess, moved.Status)
	assert.Equal(t, animaldomain.LocationFosterHome, moved.Location)

	history, err := f.animals.History(ctx, animal.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "staff-2", history[1].ActorID)

	_, err = f.svc.EvaluateRequest(ctx, types.EvaluateRequestInput{RequestID: request.ID, ReviewerID: "staff-2", Decision: "rejected", RejectionReason: "late"})
	require.ErrorIs(t, err, failure.ErrInvalidState)
}

func TestEvaluateRequest_RejectLeavesAnimalUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	animal := f.availableAnimal(t)
	request, err := f.svc.SubmitRequest(ctx, submitInput(animal.ID, "adopter-1"))
	require.NoError(t, err)

	_, err = f.svc.EvaluateRequest(ctx, types.EvaluateRequestInput{RequestID: request.ID, ReviewerID: "staff-2", Decision: "rejected"})
	require.ErrorIs(t, err, failure.ErrValidation)
	assert.Equal(t, "is required", failure.From(err).Fields["rejection_reason"])

	rejected, err := f.svc.EvaluateRequest(ctx, types.EvaluateRequestInput{
		RequestID:       request.ID,
		ReviewerID:      "staff-2",
		Decision:        "rejected",
		RejectionReason: "no fenced yard",
		InternalNotes:   "suggest a cat",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RequestRejected, rejected.Status)
	assert.Equal(t, "suggest a cat", rejected.InternalNotes)

	unchanged, err := f.animals.GetAnimal(ctx, animal.ID)
	require.NoError(t, err)
	assert.Equal(t, animaldomain.StatusAvailable, unchanged.Status)

	_, err = f.svc.SubmitRequest(ctx, submitInput(animal.ID, "adopter-1"))
	require.NoError(t, err, "a rejected request no longer blocks a new one")
}

func TestEvaluateRequest_Failures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.EvaluateRequest(ctx, types.EvaluateRequestInput{RequestID: "missing", Decision: "maybe"})
	require.ErrorIs(t, err, failure.ErrValidation)
	assert.Contains(t, failure.From(err).Fields, "decision")

	_, err = f.svc.EvaluateRequest(ctx, types.EvaluateRequestInput{RequestID: "missing", Decision: "approved"})
	require.ErrorIs(t, err, failure.ErrNotFound)
}

func TestFinalizeAdoption_HandsAnimalOverOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	request := f.approvedRequest(t)

	adoption, err := f.svc.FinalizeAdoption(ctx, types.FinalizeAdoptionInput{
		RequestID:        request.ID,
		CoordinatorID:    "coord-1",
		FinalizedOn:      "2025-01-10",
		HandoverLocation: "shelter front desk",
	})
	require.NoError(t, err)
	assert.Equal(t, request.ID, adoption.RequestID)
	assert.Equal(t, request.AnimalID, adoption.AnimalID)
	assert.Equal(t, "adopter-1", adoption.AdopterID)
	assert.Equal(t, "2025-01-10", adoption.FinalizedOn.Format("2006-01-02"))

	animal, err := f.animals.GetAnimal(ctx, request.AnimalID)
	require.NoError(t, err)
	assert.Equal(t, animaldomain.StatusAdopted, animal.Status)
	assert.Equal(t, animaldomain.LocationAdopted, animal.Location)

	history, err := f.animals.History(ctx, request.AnimalID)
	require.NoError(t, err)
	last := history[len(history)-1]
	assert.Equal(t, fmt.Sprintf("Adoption %s finalized", adoption.ID), last.Comment)
	assert.Equal(t, "coord-1", last.ActorID)

	_, err = f.svc.FinalizeAdoption(ctx, types.FinalizeAdoptionInput{RequestID: request.ID, CoordinatorID: "coord-1", FinalizedOn: "2025-01-10"})
	require.ErrorIs(t, err, failure.ErrAlreadyFinalized)

	loaded, err := f.svc.GetAdoptionByRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, adoption.ID, loaded.ID)
}

func TestFinalizeAdoption_CheckOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.FinalizeAdoption(ctx, types.FinalizeAdoptionInput{RequestID: "missing", FinalizedOn: "2025-01-10"})
	require.ErrorIs(t, err, failure.ErrNotFound)

	animal := f.availableAnimal(t)
	pending, err := f.svc.SubmitRequest(ctx, submitInput(animal.ID, "adopter-9"))
	require.NoError(t, err)
	_, err = f.svc.FinalizeAdoption(ctx, types.FinalizeAdoptionInput{RequestID: pending.ID, CoordinatorID: "coord-1"})
	require.ErrorIs(t, err, failure.ErrInvalidState, "state is checked before the date")

	approved := f.approvedRequest(t)
	_, err = f.svc.FinalizeAdoption(ctx, types.FinalizeAdoptionInput{RequestID: approved.ID, CoordinatorID: "coord-1"})
	require.ErrorIs(t, err, failure.ErrValidation)
	assert.Equal(t, "is required", failure.From(err).Fields["finalized_on"])

	_, err = f.svc.FinalizeAdoption(ctx, types.FinalizeAdoptionInput{RequestID: approved.ID, CoordinatorID: "coord-1", FinalizedOn: "2025-01-16"})
	require.ErrorIs(t, err, failure.ErrValidation)
	assert.Equal(t, "cannot be in the future", failure.From(err).Fields["finalized_on"])

	_, err = f.svc.FinalizeAdoption(ctx, types.FinalizeAdoptionInput{RequestID: approved.ID, CoordinatorID: "coord-1", FinalizedOn: "15/01/2025"})
	require.ErrorIs(t, err, failure.ErrValidation)

	untouched, err := f.animals.GetAnimal(ctx, approved.AnimalID)
	require.NoError(t, err)
	assert.Equal(t, animaldomain.StatusInProcess, untouched.Status)

	_, err = f.svc.FinalizeAdoption(ctx, types.FinalizeAdoptionInput{RequestID: approved.ID, CoordinatorID: "coord-1", FinalizedOn: "2025-01-15"})
	require.NoError(t, err, "today is a valid finalization date")
}

func TestListRequests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	animal := f.availableAnimal(t)
	for _, adopter := range []string{"a", "b", "c"} {
		_, err := f.svc.SubmitRequest(ctx, submitInput(animal.ID, adopter))
		require.NoError(t, err)
	}

	page, err := f.svc.ListRequests(ctx, types.ListRequestsInput{AnimalID: animal.ID, Status: "pending_review", Window: projection.Window{Limit: 2}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Limit)

	_, err = f.svc.ListRequests(ctx, types.ListRequestsInput{Status: "Pending Review"})
	require.ErrorIs(t, err, failure.ErrValidation)
}

type failingRequests struct {
	ports.RequestRepository
}

func (failingRequests) GetByID(context.Context, string) (*domain.AdoptionRequest, error) {
	return nil, errors.New("connection reset by peer")
}

func TestStorageFailuresAreClassified(t *testing.T) {
	f := newFixture(t)
	svc := NewService(failingRequests{f.requests}, f.adoptions, f.animals, txn.NewLocalRunner())

	_, err := svc.GetRequest(context.Background(), "req-1")
	require.ErrorIs(t, err, failure.ErrStorage)
	assert.Equal(t, failure.GenericStorageMessage, failure.From(err).Message)
}
