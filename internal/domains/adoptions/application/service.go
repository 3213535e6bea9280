package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/application/types"
	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/domain"
	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/ports"
	animaltypes "github.com/Apurer/rescue-adoption-api/internal/domains/animals/application/types"
	animaldomain "github.com/Apurer/rescue-adoption-api/internal/domains/animals/domain"
	"github.com/Apurer/rescue-adoption-api/internal/platform/txn"
	"github.com/Apurer/rescue-adoption-api/internal/shared/calendar"
	"github.com/Apurer/rescue-adoption-api/internal/shared/failure"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
	"github.com/Apurer/rescue-adoption-api/internal/shared/validation"
)

// Service is the adoption workflow engine. Every workflow operation runs as one unit of
// work and evaluates all of its checks before the first write.
type Service struct {
	requests    ports.RequestRepository
	adoptions   ports.AdoptionRepository
	animals     ports.AnimalLifecycle
	tx          txn.Runner
	idempotency ports.IdempotencyStore
	now         calendar.Clock
	location    *time.Location
	newID       func() string
}

// Option customizes the service.
type Option func(*Service)

// WithIdempotencyStore enables replay of submissions carrying an idempotency key.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// WithClock overrides the time source.
func WithClock(now calendar.Clock) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the timezone finalization dates are interpreted in.
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

// NewService wires the workflow engine. animals must share tx's unit of work so the
// animal transition commits or rolls back together with the request.
func NewService(requests ports.RequestRepository, adoptions ports.AdoptionRepository, animals ports.AnimalLifecycle, tx txn.Runner, opts ...Option) *Service {
	s := &Service{
		requests:  requests,
		adoptions: adoptions,
		animals:   animals,
		tx:        tx,
		now:       time.Now,
		location:  time.UTC,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// SubmitRequest opens a pending request for an available animal. Checks run in order:
// animal exists, idempotent replay, animal available, no active duplicate, field validation.
func (s *Service) SubmitRequest(ctx context.Context, input types.SubmitRequestInput) (*domain.AdoptionRequest, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	var fingerprint string
	if key != "" && s.idempotency != nil {
		fp, err := FingerprintSubmission(input)
		if err != nil {
			return nil, mapError(err)
		}
		fingerprint = fp
	}

	var result *domain.AdoptionRequest
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		animal, err := s.animals.LockAnimal(ctx, input.AnimalID)
		if err != nil {
			return err
		}
		if fingerprint != "" {
			replayed, err := s.replay(ctx, key, fingerprint)
			if err != nil {
				return err
			}
			if replayed != nil {
				result = replayed
				return nil
			}
		}
		if animal.Status != animaldomain.StatusAvailable {
			return failure.Newf(failure.CodeNotAvailable, "animal is %s and cannot receive adoption requests", animal.Status.DisplayName())
		}

		adopterID := strings.TrimSpace(input.AdopterID)
		if adopterID != "" {
			active, err := s.requests.HasActive(ctx, animal.ID, adopterID)
			if err != nil {
				return err
			}
			if active {
				return ports.ErrDuplicateActiveRequest
			}
		}

		fields := validation.Struct(input)
		if adopterID == "" {
			fields = validation.Merge(fields, map[string]string{"adopter_id": "is required"})
		}
		if len(fields) > 0 {
			return failure.Validation(fields)
		}

		request := domain.NewRequest(s.newID(), animal.ID, input.AdopterID, input.Motivation, domain.HouseholdProfile{
			HousingType:       strings.TrimSpace(input.HousingType),
			HasYard:           input.HasYard,
			HouseholdMembers:  input.HouseholdMembers,
			OtherPets:         input.OtherPets,
			Experience:        strings.TrimSpace(input.Experience),
			AvailabilityNotes: strings.TrimSpace(input.AvailabilityNotes),
		}, s.clock())
		if err := s.requests.Create(ctx, request); err != nil {
			return err
		}
		if fingerprint != "" {
			if _, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{Key: key, RequestHash: fingerprint, RequestID: request.ID}); err != nil {
				return err
			}
		}
		result = request
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func (s *Service) replay(ctx context.Context, key, fingerprint string) (*domain.AdoptionRequest, error) {
	existing, err := s.idempotency.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}
	if existing.RequestHash != fingerprint {
		return nil, ports.ErrIdempotencyConflict
	}
	return s.requests.GetByID(ctx, existing.RequestID)
}

// EvaluateRequest approves or rejects a pending request. Approval moves the animal to
// in_process at its current location; rejection leaves the animal untouched.
func (s *Service) EvaluateRequest(ctx context.Context, input types.EvaluateRequestInput) (*domain.AdoptionRequest, error) {
	decision, err := domain.ParseDecision(input.Decision)
	if err != nil {
		return nil, mapError(err)
	}

	var result *domain.AdoptionRequest
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		request, err := s.requests.GetForUpdate(ctx, input.RequestID)
		if err != nil {
			return err
		}
		now := s.clock()
		switch decision {
		case domain.DecisionRejected:
			if err := request.Reject(input.ReviewerID, input.RejectionReason, input.InternalNotes, now); err != nil {
				return err
			}
		case domain.DecisionApproved:
			if err := request.Approve(input.ReviewerID, input.ApprovalComment, now); err != nil {
				return err
			}
			animal, err := s.animals.LockAnimal(ctx, request.AnimalID)
			if err != nil {
				return err
			}
			if _, err := s.animals.Transition(ctx, animaltypes.TransitionInput{
				AnimalID: animal.ID,
				Status:   string(animaldomain.StatusInProcess),
				Location: string(animal.Location),
				ActorID:  strings.TrimSpace(input.ReviewerID),
			}); err != nil {
				return err
			}
		}
		if err := s.requests.Update(ctx, request); err != nil {
			return err
		}
		result = request
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// FinalizeAdoption turns an approved request into an adoption and hands the animal over.
func (s *Service) FinalizeAdoption(ctx context.Context, input types.FinalizeAdoptionInput) (*domain.Adoption, error) {
	var result *domain.Adoption
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		request, err := s.requests.GetForUpdate(ctx, input.RequestID)
		if err != nil {
			return err
		}
		if request.Status != domain.RequestApproved {
			return domain.ErrNotApproved
		}
		if _, err := s.adoptions.GetByRequestID(ctx, request.ID); err == nil {
			return ports.ErrAdoptionExists
		} else if !errors.Is(err, ports.ErrAdoptionNotFound) {
			return err
		}

		now := s.clock()
		finalizedOn, fields := s.validateFinalization(input, now)
		if len(fields) > 0 {
			return failure.Validation(fields)
		}

		if _, err := s.animals.LockAnimal(ctx, request.AnimalID); err != nil {
			return err
		}
		adoption, err := domain.NewAdoption(s.newID(), request, input.CoordinatorID, finalizedOn, now, input.Observations, input.HandoverLocation)
		if err != nil {
			return err
		}
		if err := s.adoptions.Create(ctx, adoption); err != nil {
			return err
		}
		if _, err := s.animals.Transition(ctx, animaltypes.TransitionInput{
			AnimalID: adoption.AnimalID,
			Status:   string(animaldomain.StatusAdopted),
			Location: string(animaldomain.LocationAdopted),
			ActorID:  adoption.CoordinatorID,
			Comment:  adoption.TrackingComment(),
		}); err != nil {
			return err
		}
		result = adoption
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func (s *Service) validateFinalization(input types.FinalizeAdoptionInput, now time.Time) (time.Time, map[string]string) {
	fields := map[string]string{}
	if strings.TrimSpace(input.CoordinatorID) == "" {
		fields["coordinator_id"] = "is required"
	}
	var finalizedOn time.Time
	switch raw := strings.TrimSpace(input.FinalizedOn); {
	case raw == "":
		fields["finalized_on"] = "is required"
	default:
		d, err := calendar.ParseDate(raw, s.location)
		if err != nil {
			fields["finalized_on"] = err.Error()
		} else if calendar.AfterDay(d, now) {
			fields["finalized_on"] = "cannot be in the future"
		} else {
			finalizedOn = d
		}
	}
	return finalizedOn, fields
}

// GetRequest loads one adoption request.
func (s *Service) GetRequest(ctx context.Context, id string) (*domain.AdoptionRequest, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return request, nil
}

// ListRequests returns one page of requests, newest first.
func (s *Service) ListRequests(ctx context.Context, input types.ListRequestsInput) (projection.Page[*domain.AdoptionRequest], error) {
	var filter ports.RequestFilter
	if v := strings.TrimSpace(input.AnimalID); v != "" {
		filter.AnimalID = &v
	}
	if v := strings.TrimSpace(input.AdopterID); v != "" {
		filter.AdopterID = &v
	}
	if v := strings.TrimSpace(input.Status); v != "" {
		status, err := domain.ParseRequestStatus(v)
		if err != nil {
			return projection.Page[*domain.AdoptionRequest]{}, mapError(err)
		}
		filter.Status = &status
	}
	window := input.Window.Normalize()
	items, err := s.requests.List(ctx, filter, window)
	if err != nil {
		return projection.Page[*domain.AdoptionRequest]{}, mapError(err)
	}
	total, err := s.requests.Count(ctx, filter)
	if err != nil {
		return projection.Page[*domain.AdoptionRequest]{}, mapError(err)
	}
	return projection.NewPage(items, total, window), nil
}

// GetAdoption loads one adoption.
func (s *Service) GetAdoption(ctx context.Context, id string) (*domain.Adoption, error) {
	adoption, err := s.adoptions.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return adoption, nil
}

// GetAdoptionByRequest loads the adoption created from a request.
func (s *Service) GetAdoptionByRequest(ctx context.Context, requestID string) (*domain.Adoption, error) {
	adoption, err := s.adoptions.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, mapError(err)
	}
	return adoption, nil
}

func (s *Service) clock() time.Time {
	return s.now().In(s.location)
}

var _ ports.Service = (*Service)(nil)
