package ports

import (
	"context"
	"errors"

	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/domain"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

var ErrNotFound = errors.New("animal not found")

// Filter narrows animal listings. Nil fields match everything.
type Filter struct {
	Status   *domain.Status
	Location *domain.Location
	Species  *domain.Species
}

// Repository persists animals and their append-only tracking log.
// Implementations resolve the active unit of work from ctx.
type Repository interface {
	Create(ctx context.Context, animal *domain.Animal) error
	GetByID(ctx context.Context, id string) (*domain.Animal, error)
	// GetForUpdate loads the animal and locks it until the unit of work ends.
	GetForUpdate(ctx context.Context, id string) (*domain.Animal, error)
	Update(ctx context.Context, animal *domain.Animal) error
	List(ctx context.Context, filter Filter, window projection.Window) ([]*domain.Animal, error)
	Count(ctx context.Context, filter Filter) (int, error)
	AppendTracking(ctx context.Context, entry domain.TrackingEntry) error
	// ListTracking returns the entries of one animal, oldest first.
	ListTracking(ctx context.Context, animalID string) ([]domain.TrackingEntry, error)
}
