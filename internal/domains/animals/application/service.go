package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/application/types"
	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/domain"
	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/ports"
	"github.com/Apurer/rescue-adoption-api/internal/platform/txn"
	"github.com/Apurer/rescue-adoption-api/internal/shared/calendar"
	"github.com/Apurer/rescue-adoption-api/internal/shared/failure"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
	"github.com/Apurer/rescue-adoption-api/internal/shared/validation"
)

// Service is the animal lifecycle manager.
type Service struct {
	repo     ports.Repository
	tx       txn.Runner
	now      calendar.Clock
	location *time.Location
	newID    func() string
}

// Option customizes the service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now calendar.Clock) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the timezone calendar dates are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithIDGenerator overrides identifier generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewService wires the lifecycle manager with its dependencies.
func NewService(repo ports.Repository, tx txn.Runner, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		tx:       tx,
		now:      time.Now,
		location: time.UTC,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// RegisterAnimal records a rescued animal at intake.
func (s *Service) RegisterAnimal(ctx context.Context, input types.RegisterAnimalInput) (*domain.Animal, error) {
	fields := validation.Struct(input)
	rescueDate, dateErr := s.parseRescueDate(input.RescueDate)
	if dateErr != "" {
		fields = validation.Merge(fields, map[string]string{"rescue_date": dateErr})
	}
	if len(fields) > 0 {
		return nil, failure.Validation(fields)
	}

	now := s.clock()
	animal, err := domain.NewAnimal(s.newID(), domain.Species(strings.TrimSpace(input.Species)), input.Name, now)
	if err != nil {
		return nil, mapError(err)
	}
	animal.Breed = strings.TrimSpace(input.Breed)
	animal.Sex = strings.TrimSpace(input.Sex)
	animal.Size = strings.TrimSpace(input.Size)
	animal.Color = strings.TrimSpace(input.Color)
	animal.AgeEstimate = strings.TrimSpace(input.AgeEstimate)
	animal.RescueDate = rescueDate
	animal.RescuePlace = strings.TrimSpace(input.RescuePlace)
	animal.RescueCondition = input.RescueCondition
	animal.History = input.History
	animal.Personality = input.Personality
	animal.Compatibility = input.Compatibility
	animal.AdoptionRequirements = input.AdoptionRequirements
	animal.PhotoURLs = append([]string(nil), input.PhotoURLs...)

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, animal)
	})
	if err != nil {
		return nil, mapError(err)
	}
	return animal, nil
}

// UpdateProfile patches descriptive fields. Status and location are never touched here.
func (s *Service) UpdateProfile(ctx context.Context, input types.UpdateProfileInput) (*domain.Animal, error) {
	fields := validation.Struct(input)
	var rescueDate *time.Time
	if input.RescueDate != nil {
		var msg string
		rescueDate, msg = s.parseRescueDate(*input.RescueDate)
		if msg != "" {
			fields = validation.Merge(fields, map[string]string{"rescue_date": msg})
		}
	}
	if len(fields) > 0 {
		return nil, failure.Validation(fields)
	}

	var updated *domain.Animal
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		animal, err := s.repo.GetForUpdate(ctx, input.AnimalID)
		if err != nil {
			return err
		}
		if input.Name != nil {
			if err := animal.Rename(*input.Name); err != nil {
				return err
			}
		}
		setString(&animal.Breed, input.Breed)
		setString(&animal.Sex, input.Sex)
		setString(&animal.Size, input.Size)
		setString(&animal.Color, input.Color)
		setString(&animal.AgeEstimate, input.AgeEstimate)
		setString(&animal.RescuePlace, input.RescuePlace)
		setString(&animal.RescueCondition, input.RescueCondition)
		setString(&animal.History, input.History)
		setString(&animal.Personality, input.Personality)
		setString(&animal.Compatibility, input.Compatibility)
		setString(&animal.AdoptionRequirements, input.AdoptionRequirements)
		if input.RescueDate != nil {
			animal.RescueDate = rescueDate
		}
		if input.PhotoURLs != nil {
			animal.PhotoURLs = append([]string(nil), (*input.PhotoURLs)...)
		}
		animal.UpdatedAt = s.clock()
		if err := s.repo.Update(ctx, animal); err != nil {
			return err
		}
		updated = animal
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return updated, nil
}

// Transition moves an animal to a new status and location and appends exactly one
// tracking entry. Any enumerated status may follow any other. When ctx already carries
// a unit of work the transition joins it.
func (s *Service) Transition(ctx context.Context, input types.TransitionInput) (*types.TransitionResult, error) {
	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, mapError(err)
	}
	location, err := domain.ParseLocation(input.Location)
	if err != nil {
		return nil, mapError(err)
	}

	var result *types.TransitionResult
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		animal, err := s.repo.GetForUpdate(ctx, input.AnimalID)
		if err != nil {
			return err
		}
		entry, err := animal.MoveTo(status, location, strings.TrimSpace(input.ActorID), input.Comment, s.clock())
		if err != nil {
			return err
		}
		entry.ID = s.newID()
		if err := s.repo.Update(ctx, animal); err != nil {
			return err
		}
		if err := s.repo.AppendTracking(ctx, entry); err != nil {
			return err
		}
		result = &types.TransitionResult{Animal: animal, Entry: entry}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// GetAnimal loads one animal.
func (s *Service) GetAnimal(ctx context.Context, id string) (*domain.Animal, error) {
	animal, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return animal, nil
}

// LockAnimal loads an animal with its row lock. Outside a unit of work it behaves like GetAnimal.
func (s *Service) LockAnimal(ctx context.Context, id string) (*domain.Animal, error) {
	animal, err := s.repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return animal, nil
}

// ListAnimals returns one page of animals matching the filter.
func (s *Service) ListAnimals(ctx context.Context, input types.ListAnimalsInput) (projection.Page[*domain.Animal], error) {
	filter, err := buildFilter(input)
	if err != nil {
		return projection.Page[*domain.Animal]{}, err
	}
	window := input.Window.Normalize()
	items, err := s.repo.List(ctx, filter, window)
	if err != nil {
		return projection.Page[*domain.Animal]{}, mapError(err)
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return projection.Page[*domain.Animal]{}, mapError(err)
	}
	return projection.NewPage(items, total, window), nil
}

// CountAnimals counts animals matching the filter.
func (s *Service) CountAnimals(ctx context.Context, input types.ListAnimalsInput) (int, error) {
	filter, err := buildFilter(input)
	if err != nil {
		return 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return 0, mapError(err)
	}
	return total, nil
}

// History returns the tracking log of an animal, oldest first.
func (s *Service) History(ctx context.Context, animalID string) ([]domain.TrackingEntry, error) {
	if _, err := s.repo.GetByID(ctx, animalID); err != nil {
		return nil, mapError(err)
	}
	entries, err := s.repo.ListTracking(ctx, animalID)
	if err != nil {
		return nil, mapError(err)
	}
	return entries, nil
}

func (s *Service) clock() time.Time {
	return s.now().In(s.location)
}

func (s *Service) parseRescueDate(value string) (*time.Time, string) {
	if strings.TrimSpace(value) == "" {
		return nil, ""
	}
	d, err := calendar.ParseDate(value, s.location)
	if err != nil {
		return nil, err.Error()
	}
	if calendar.AfterDay(d, s.clock()) {
		return nil, "rescue date cannot be in the future"
	}
	return &d, ""
}

func buildFilter(input types.ListAnimalsInput) (ports.Filter, error) {
	var filter ports.Filter
	fields := map[string]string{}
	if v := strings.TrimSpace(input.Status); v != "" {
		status, err := domain.ParseStatus(v)
		if err != nil {
			fields["status"] = "unknown status"
		}
		filter.Status = &status
	}
	if v := strings.TrimSpace(input.Location); v != "" {
		location, err := domain.ParseLocation(v)
		if err != nil {
			fields["location"] = "unknown location"
		}
		filter.Location = &location
	}
	if v := strings.TrimSpace(input.Species); v != "" {
		species, err := domain.ParseSpecies(v)
		if err != nil {
			fields["species"] = "unknown species"
		}
		filter.Species = &species
	}
	if len(fields) > 0 {
		return ports.Filter{}, failure.Validation(fields)
	}
	return filter, nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

var _ ports.Service = (*Service)(nil)
