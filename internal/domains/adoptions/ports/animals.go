package ports

import (
	"context"

	animaltypes "github.com/Apurer/rescue-adoption-api/internal/domains/animals/application/types"
	animaldomain "github.com/Apurer/rescue-adoption-api/internal/domains/animals/domain"
)

// AnimalLifecycle is the slice of the animal lifecycle manager the adoption workflow drives.
type AnimalLifecycle interface {
	GetAnimal(ctx context.Context, id string) (*animaldomain.Animal, error)
	LockAnimal(ctx context.Context, id string) (*animaldomain.Animal, error)
	Transition(ctx context.Context, input animaltypes.TransitionInput) (*animaltypes.TransitionResult, error)
}
