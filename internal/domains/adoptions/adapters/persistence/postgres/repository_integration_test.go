//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/application"
	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/application/types"
	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/domain"
	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/ports"
	animalpg "github.com/Apurer/rescue-adoption-api/internal/domains/animals/adapters/persistence/postgres"
	animalapp "github.com/Apurer/rescue-adoption-api/internal/domains/animals/application"
	animaltypes "github.com/Apurer/rescue-adoption-api/internal/domains/animals/application/types"
	animaldomain "github.com/Apurer/rescue-adoption-api/internal/domains/animals/domain"
	"github.com/Apurer/rescue-adoption-api/internal/platform/migrations"
	platformpg "github.com/Apurer/rescue-adoption-api/internal/platform/postgres"
	"github.com/Apurer/rescue-adoption-api/internal/shared/failure"
)

func setupAdoptionsPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("rescue_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := platformpg.Connect(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}
	return db, cleanup
}

func TestRequestRepository_ActiveIndexRejectsDuplicate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupAdoptionsPostgresContainer(t)
	defer cleanup()

	repo := NewRequestRepository(db)
	ctx := context.Background()
	at := time.Now().UTC().Truncate(time.Microsecond)

	first := domain.NewRequest("3f1c0000-0000-4000-8000-000000000001", "a-1", "adopter-1", "home", domain.HouseholdProfile{HouseholdMembers: 2}, at)
	require.NoError(t, repo.Create(ctx, first))

	dup := domain.NewRequest("3f1c0000-0000-4000-8000-000000000002", "a-1", "adopter-1", "home", domain.HouseholdProfile{}, at)
	require.ErrorIs(t, repo.Create(ctx, dup), ports.ErrDuplicateActiveRequest)

	require.NoError(t, first.Reject("staff-1", "no yard", "", at))
	require.NoError(t, repo.Update(ctx, first))
	require.NoError(t, repo.Create(ctx, dup))

	active, err := repo.HasActive(ctx, "a-1", "adopter-1")
	require.NoError(t, err)
	assert.True(t, active)

	loaded, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestRejected, loaded.Status)
	assert.Equal(t, 2, loaded.Household.HouseholdMembers)
	require.NotNil(t, loaded.ReviewedAt)
}

func TestIdempotencyStore_SaveInsideTransaction(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupAdoptionsPostgresContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(db)
	runner := platformpg.NewTxRunner(db)
	ctx := context.Background()

	err := runner.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h1", RequestID: "r1"}); err != nil {
			return err
		}
		_, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h2", RequestID: "r2"})
		require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
		// the transaction is still usable after the conflict
		got, err := store.Get(ctx, "k1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "r1", got.RequestID)
		return nil
	})
	require.NoError(t, err)
}

func TestIdempotencyStore_ExpiredKeyIsReclaimed(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupAdoptionsPostgresContainer(t)
	defer cleanup()

	now := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	store := NewIdempotencyStore(db, WithIdempotencyTTL(time.Hour))
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h1", RequestID: "r1"})
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	got, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, got)

	saved, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h2", RequestID: "r2"})
	require.NoError(t, err)
	assert.Equal(t, "r2", saved.RequestID)
}

func TestAdoptionWorkflow_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupAdoptionsPostgresContainer(t)
	defer cleanup()

	ctx := context.Background()
	runner := platformpg.NewTxRunner(db)
	animals := animalapp.NewService(animalpg.NewRepository(db), runner)
	svc := application.NewService(NewRequestRepository(db), NewAdoptionRepository(db), animals, runner,
		application.WithIdempotencyStore(NewIdempotencyStore(db)))

	animal, err := animals.RegisterAnimal(ctx, animaltypes.RegisterAnimalInput{Species: "dog", Name: "Rex"})
	require.NoError(t, err)
	_, err = animals.Transition(ctx, animaltypes.TransitionInput{AnimalID: animal.ID, Status: "available", Location: "shelter", ActorID: "staff-1"})
	require.NoError(t, err)

	submit := types.SubmitRequestInput{AnimalID: animal.ID, AdopterID: "adopter-1", Motivation: "home", IdempotencyKey: "submit-1"}
	request, err := svc.SubmitRequest(ctx, submit)
	require.NoError(t, err)
	replayed, err := svc.SubmitRequest(ctx, submit)
	require.NoError(t, err)
	assert.Equal(t, request.ID, replayed.ID)

	submit.IdempotencyKey = ""
	_, err = svc.SubmitRequest(ctx, submit)
	require.ErrorIs(t, err, failure.ErrDuplicateRequest)

	_, err = svc.EvaluateRequest(ctx, types.EvaluateRequestInput{RequestID: request.ID, ReviewerID: "staff-2", Decision: "approved"})
	require.NoError(t, err)

	finalizedOn := time.Now().UTC().Format("2006-01-02")
	adoption, err := svc.FinalizeAdoption(ctx, types.FinalizeAdoptionInput{RequestID: request.ID, CoordinatorID: "coord-1", FinalizedOn: finalizedOn})
	require.NoError(t, err)

	_, err = svc.FinalizeAdoption(ctx, types.FinalizeAdoptionInput{RequestID: request.ID, CoordinatorID: "coord-1", FinalizedOn: finalizedOn})
	require.ErrorIs(t, err, failure.ErrAlreadyFinalized)

	adopted, err := animals.GetAnimal(ctx, animal.ID)
	require.NoError(t, err)
	assert.Equal(t, animaldomain.StatusAdopted, adopted.Status)
	assert.Equal(t, animaldomain.LocationAdopted, adopted.Location)

	history, err := animals.History(ctx, animal.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "Adoption "+adoption.ID+" finalized", history[2].Comment)
}
