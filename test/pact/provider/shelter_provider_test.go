//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	pacttest "github.com/Apurer/rescue-adoption-api/test/pact"

	rescueserver "github.com/Apurer/rescue-adoption-api/go"
	adoptionmemory "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/adapters/memory"
	adoptionworkflows "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/adapters/workflows"
	adoptionapp "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/application"
	animalmemory "github.com/Apurer/rescue-adoption-api/internal/domains/animals/adapters/memory"
	animalobs "github.com/Apurer/rescue-adoption-api/internal/domains/animals/adapters/observability"
	animalapp "github.com/Apurer/rescue-adoption-api/internal/domains/animals/application"
	animaldomain "github.com/Apurer/rescue-adoption-api/internal/domains/animals/domain"
	volmemory "github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/adapters/memory"
	volobs "github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/adapters/observability"
	volapp "github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/application"
	voldomain "github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/domain"
	"github.com/Apurer/rescue-adoption-api/internal/platform/txn"
	"github.com/Apurer/rescue-adoption-api/internal/shared/calendar"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestShelterProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateAnimalAvailable: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedAvailableAnimal(t)
			}
			return nil, nil
		},
		pacttest.StateAnimalMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			return nil, nil
		},
		pacttest.StateActivityHasSeats: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.reset(t)
			if setup {
				app.seedOpenActivity(t)
			}
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
	})
	require.NoError(t, err)
}

// contractProviderApp serves a fresh in-memory stack after every reset.
type contractProviderApp struct {
	handler    atomic.Value
	animals    *animalmemory.Repository
	activities *volmemory.ActivityRepository
	server     *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()
	app := &contractProviderApp{}
	app.reset(t)
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.handler.Load().(http.Handler).ServeHTTP(w, r)
	}))
	t.Cleanup(app.server.Close)
	return app
}

func (a *contractProviderApp) reset(t testing.TB) {
	t.Helper()
	runner := txn.NewLocalRunner()
	a.animals = animalmemory.NewRepository()
	a.activities = volmemory.NewActivityRepository()

	animals := animalobs.New(animalapp.NewService(a.animals, runner))
	adoptions := adoptionapp.NewService(adoptionmemory.NewRequestRepository(), adoptionmemory.NewAdoptionRepository(), animals, runner,
		adoptionapp.WithIdempotencyStore(adoptionmemory.NewIdempotencyStore()))
	volunteering := volobs.New(volapp.NewService(a.activities, volmemory.NewEnrollmentRepository(), runner))

	router := rescueserver.NewRouter(rescueserver.ApiHandleFunctions{
		AnimalAPI:       rescueserver.NewAnimalAPI(animals),
		AdoptionAPI:     rescueserver.NewAdoptionAPI(adoptions, adoptionworkflows.NewInlineFinalization(adoptions), nil),
		VolunteeringAPI: rescueserver.NewVolunteeringAPI(volunteering, nil),
	}, rescueserver.RouterOptions{})
	a.handler.Store(http.Handler(router))
}

func (a *contractProviderApp) seedAvailableAnimal(t testing.TB) {
	t.Helper()
	animal, err := animaldomain.NewAnimal(pacttest.AvailableAnimalID, animaldomain.SpeciesDog, pacttest.AnimalName, time.Now())
	require.NoError(t, err)
	animal.Status = animaldomain.StatusAvailable
	animal.Location = animaldomain.LocationShelter
	require.NoError(t, a.animals.Create(context.Background(), animal))
}

func (a *contractProviderApp) seedOpenActivity(t testing.TB) {
	t.Helper()
	start, err := calendar.ParseClock("09:00")
	require.NoError(t, err)
	end, err := calendar.ParseClock("12:00")
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, a.activities.Create(context.Background(), &voldomain.Activity{
		ID:                 pacttest.OpenActivityID,
		Title:              "Kennel cleaning",
		Date:               calendar.Day(now.AddDate(0, 0, 7), time.UTC),
		Start:              start,
		End:                end,
		Place:              "Main shelter",
		RequiredVolunteers: 3,
		CoordinatorID:      "coordinator-pact",
		CreatedAt:          now,
		UpdatedAt:          now,
	}))
}
