package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/adapters/memory"
	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/application/types"
	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/domain"
	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/ports"
	"github.com/Apurer/rescue-adoption-api/internal/platform/txn"
	"github.com/Apurer/rescue-adoption-api/internal/shared/failure"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

var fixedNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

func newTestService(repo ports.Repository) *Service {
	seq := 0
	return NewService(repo, txn.NewLocalRunner(),
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
	)
}

func registerLuna(t *testing.T, svc *Service) *domain.Animal {
	t.Helper()
	animal, err := svc.RegisterAnimal(context.Background(), types.RegisterAnimalInput{
		Species:    "dog",
		Name:       "Luna",
		RescueDate: "2025-01-02",
		PhotoURLs:  []string{"https://photos.example.org/luna.jpg"},
		ActorID:    "staff-1",
	})
	require.NoError(t, err)
	return animal
}

func TestRegisterAnimal_StartsInEvaluationAtShelter(t *testing.T) {
	repo := memory.NewRepository()
	svc := newTestService(repo)

	animal := registerLuna(t, svc)

	require.Equal(t, domain.StatusInEvaluation, animal.Status)
	require.Equal(t, domain.LocationShelter, animal.Location)
	require.Equal(t, fixedNow, animal.CreatedAt)

	history, err := svc.History(context.Background(), animal.ID)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestRegisterAnimal_AggregatesFieldErrors(t *testing.T) {
	svc := newTestService(memory.NewRepository())

	_, err := svc.RegisterAnimal(context.Background(), types.RegisterAnimalInput{
		Species:    "parrot",
		Name:       "  ",
		RescueDate: "2025-02-01",
		PhotoURLs:  []string{"not a url"},
	})

	require.ErrorIs(t, err, failure.ErrValidation)
	fields := failure.From(err).Fields
	require.Contains(t, fields, "species")
	require.Contains(t, fields, "name")
	require.Equal(t, "rescue date cannot be in the future", fields["rescue_date"])
	require.Contains(t, fields, "photo_urls[0]")
}

func TestTransition_AppendsExactlyOneEntry(t *testing.T) {
	repo := memory.NewRepository()
	svc := newTestService(repo)
	animal := registerLuna(t, svc)

	result, err := svc.Transition(context.Background(), types.TransitionInput{
		AnimalID: animal.ID,
		Status:   "available",
		Location: "foster_home",
		ActorID:  "staff-1",
	})
	require.NoError(t, err)
	require.Equal(t, domain.StatusAvailable, result.Animal.Status)
	require.Equal(t, "Status set to Available; location set to Foster Home", result.Entry.Comment)

	_, err = svc.Transition(context.Background(), types.TransitionInput{
		AnimalID: animal.ID,
		Status:   "not_adoptable",
		Location: "veterinary_clinic",
		ActorID:  "vet-2",
		Comment:  "chronic condition",
	})
	require.NoError(t, err)

	history, err := svc.History(context.Background(), animal.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, domain.StatusInEvaluation, history[0].PreviousStatus)
	require.Equal(t, domain.StatusAvailable, history[1].PreviousStatus)
	require.Equal(t, domain.StatusNotAdoptable, history[1].NewStatus)
	require.Equal(t, "chronic condition", history[1].Comment)
	require.Equal(t, "vet-2", history[1].ActorID)
}

func TestTransition_PermissiveLattice(t *testing.T) {
	svc := newTestService(memory.NewRepository())
	animal := registerLuna(t, svc)
	ctx := context.Background()

	_, err := svc.Transition(ctx, types.TransitionInput{AnimalID: animal.ID, Status: "adopted", Location: "adopted"})
	require.NoError(t, err)
	_, err = svc.Transition(ctx, types.TransitionInput{AnimalID: animal.ID, Status: "in_evaluation", Location: "shelter"})
	require.NoError(t, err)
}

func TestTransition_Failures(t *testing.T) {
	svc := newTestService(memory.NewRepository())
	animal := registerLuna(t, svc)
	ctx := context.Background()

	_, err := svc.Transition(ctx, types.TransitionInput{AnimalID: animal.ID, Status: "In Process", Location: "shelter"})
	require.ErrorIs(t, err, failure.ErrInvalidStatus)

	_, err = svc.Transition(ctx, types.TransitionInput{AnimalID: animal.ID, Status: "available", Location: "garden"})
	require.ErrorIs(t, err, failure.ErrInvalidLocation)

	_, err = svc.Transition(ctx, types.TransitionInput{AnimalID: "missing", Status: "available", Location: "shelter"})
	require.ErrorIs(t, err, failure.ErrNotFound)

	history, err := svc.History(ctx, animal.ID)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestUpdateProfile_LeavesStatusAlone(t *testing.T) {
	svc := newTestService(memory.NewRepository())
	animal := registerLuna(t, svc)

	name := "Luna Belle"
	personality := "calm, loves kids"
	updated, err := svc.UpdateProfile(context.Background(), types.UpdateProfileInput{
		AnimalID:    animal.ID,
		Name:        &name,
		Personality: &personality,
	})
	require.NoError(t, err)
	require.Equal(t, "Luna Belle", updated.Name)
	require.Equal(t, "calm, loves kids", updated.Personality)
	require.Equal(t, domain.StatusInEvaluation, updated.Status)
	require.Equal(t, "https://photos.example.org/luna.jpg", updated.PhotoURLs[0])
}

func TestUpdateProfile_BlankNameRejected(t *testing.T) {
	svc := newTestService(memory.NewRepository())
	animal := registerLuna(t, svc)

	blank := ""
	_, err := svc.UpdateProfile(context.Background(), types.UpdateProfileInput{AnimalID: animal.ID, Name: &blank})
	require.ErrorIs(t, err, failure.ErrValidation)
	require.Equal(t, "is required", failure.From(err).Fields["name"])
}

func TestListAnimals_FiltersAndPages(t *testing.T) {
	svc := newTestService(memory.NewRepository())
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		a := registerLuna(t, svc)
		if i > 0 {
			_, err := svc.Transition(ctx, types.TransitionInput{AnimalID: a.ID, Status: "available", Location: "shelter"})
			require.NoError(t, err)
		}
	}

	page, err := svc.ListAnimals(ctx, types.ListAnimalsInput{Status: "available", Window: projection.Window{Limit: 1}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, 2, page.Total)

	count, err := svc.CountAnimals(ctx, types.ListAnimalsInput{Species: "dog"})
	require.NoError(t, err)
	require.Equal(t, 3, count)

	_, err = svc.ListAnimals(ctx, types.ListAnimalsInput{Status: "sold"})
	require.ErrorIs(t, err, failure.ErrValidation)
}

type failingRepo struct {
	ports.Repository
}

func (failingRepo) GetByID(context.Context, string) (*domain.Animal, error) {
	return nil, errors.New("dial tcp 10.0.0.7:5432: connection refused")
}

func TestGetAnimal_StorageFailureIsClassified(t *testing.T) {
	svc := newTestService(failingRepo{Repository: memory.NewRepository()})

	_, err := svc.GetAnimal(context.Background(), "a-1")

	require.ErrorIs(t, err, failure.ErrStorage)
	require.Equal(t, failure.GenericStorageMessage, failure.From(err).Message)
}
