package ports

import (
	"context"

	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/application/types"
	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/domain"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

// Service exposes the animal lifecycle use cases to adapters.
type Service interface {
	RegisterAnimal(ctx context.Context, input types.RegisterAnimalInput) (*domain.Animal, error)
	UpdateProfile(ctx context.Context, input types.UpdateProfileInput) (*domain.Animal, error)
	Transition(ctx context.Context, input types.TransitionInput) (*types.TransitionResult, error)
	GetAnimal(ctx context.Context, id string) (*domain.Animal, error)
	// LockAnimal loads the animal and holds it until the caller's unit of work ends.
	LockAnimal(ctx context.Context, id string) (*domain.Animal, error)
	ListAnimals(ctx context.Context, input types.ListAnimalsInput) (projection.Page[*domain.Animal], error)
	CountAnimals(ctx context.Context, input types.ListAnimalsInput) (int, error)
	History(ctx context.Context, animalID string) ([]domain.TrackingEntry, error)
}
