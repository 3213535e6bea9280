package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/application/types"
	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/domain"
	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/ports"
	"github.com/Apurer/rescue-adoption-api/internal/shared/failure"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

const tracerName = "github.com/Apurer/rescue-adoption-api/internal/domains/animals/adapters/observability/service"

// Service decorates the animal lifecycle port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) RegisterAnimal(ctx context.Context, input types.RegisterAnimalInput) (*domain.Animal, error) {
	ctx, span := s.startSpan(ctx, "AnimalService.RegisterAnimal", attribute.String("animal.species", input.Species))
	defer span.End()

	s.logInfo(ctx, "registering animal", slog.String("animal.species", input.Species), slog.String("actor.id", input.ActorID))
	result, err := s.inner.RegisterAnimal(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register animal")
	}
	s.metrics.recordRegistered(ctx, result.Species)
	s.logInfo(ctx, "animal registered", slog.String("animal.id", result.ID))
	return result, nil
}

func (s *Service) UpdateProfile(ctx context.Context, input types.UpdateProfileInput) (*domain.Animal, error) {
	ctx, span := s.startSpan(ctx, "AnimalService.UpdateProfile", attribute.String("animal.id", input.AnimalID))
	defer span.End()

	result, err := s.inner.UpdateProfile(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update animal profile", slog.String("animal.id", input.AnimalID))
	}
	s.logInfo(ctx, "animal profile updated", slog.String("animal.id", result.ID))
	return result, nil
}

func (s *Service) Transition(ctx context.Context, input types.TransitionInput) (*types.TransitionResult, error) {
	ctx, span := s.startSpan(ctx, "AnimalService.Transition",
		attribute.String("animal.id", input.AnimalID),
		attribute.String("animal.status.target", input.Status),
		attribute.String("animal.location.target", input.Location))
	defer span.End()

	s.logInfo(ctx, "transitioning animal",
		slog.String("animal.id", input.AnimalID),
		slog.String("status", input.Status),
		slog.String("location", input.Location),
		slog.String("actor.id", input.ActorID))
	result, err := s.inner.Transition(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to transition animal", slog.String("animal.id", input.AnimalID))
	}
	s.metrics.recordTransition(ctx, result.Entry.PreviousStatus, result.Entry.NewStatus)
	s.logInfo(ctx, "animal transitioned",
		slog.String("animal.id", result.Animal.ID),
		slog.String("status.previous", string(result.Entry.PreviousStatus)),
		slog.String("status.new", string(result.Entry.NewStatus)))
	return result, nil
}

func (s *Service) GetAnimal(ctx context.Context, id string) (*domain.Animal, error) {
	ctx, span := s.startSpan(ctx, "AnimalService.GetAnimal", attribute.String("animal.id", id))
	defer span.End()

	result, err := s.inner.GetAnimal(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load animal", slog.String("animal.id", id))
	}
	return result, nil
}

func (s *Service) LockAnimal(ctx context.Context, id string) (*domain.Animal, error) {
	ctx, span := s.startSpan(ctx, "AnimalService.LockAnimal", attribute.String("animal.id", id))
	defer span.End()

	result, err := s.inner.LockAnimal(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to lock animal", slog.String("animal.id", id))
	}
	return result, nil
}

func (s *Service) ListAnimals(ctx context.Context, input types.ListAnimalsInput) (projection.Page[*domain.Animal], error) {
	ctx, span := s.startSpan(ctx, "AnimalService.ListAnimals")
	defer span.End()

	result, err := s.inner.ListAnimals(ctx, input)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list animals")
	}
	span.SetAttributes(attribute.Int("animal.result.count", len(result.Items)), attribute.Int("animal.result.total", result.Total))
	return result, nil
}

func (s *Service) CountAnimals(ctx context.Context, input types.ListAnimalsInput) (int, error) {
	ctx, span := s.startSpan(ctx, "AnimalService.CountAnimals")
	defer span.End()

	result, err := s.inner.CountAnimals(ctx, input)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to count animals")
	}
	return result, nil
}

func (s *Service) History(ctx context.Context, animalID string) ([]domain.TrackingEntry, error) {
	ctx, span := s.startSpan(ctx, "AnimalService.History", attribute.String("animal.id", animalID))
	defer span.End()

	result, err := s.inner.History(ctx, animalID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load animal history", slog.String("animal.id", animalID))
	}
	span.SetAttributes(attribute.Int("animal.tracking.count", len(result)))
	return result, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

// handleError logs storage failures with their cause at error level; business
// failures are expected outcomes and only warrant a warning.
func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	code := failure.CodeOf(err)
	attrs = append(attrs, slog.String("error.code", string(code)), slog.String("error", err.Error()))
	if code == failure.CodeStorage {
		if span != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		if s.logger != nil {
			s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
		}
		return err
	}
	if span != nil {
		span.SetAttributes(attribute.String("error.code", string(code)))
	}
	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
	}
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	animalsRegistered  metric.Int64Counter
	animalsTransitions metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registered, _ := m.Int64Counter("animals.registered", metric.WithDescription("Number of animals registered at intake"))
	transitions, _ := m.Int64Counter("animals.transitions", metric.WithDescription("Number of animal status/location transitions"))
	return serviceMetrics{
		animalsRegistered:  registered,
		animalsTransitions: transitions,
	}
}

func (m serviceMetrics) recordRegistered(ctx context.Context, species domain.Species) {
	addCounter(ctx, m.animalsRegistered, 1, attribute.String("animal.species", string(species)))
}

func (m serviceMetrics) recordTransition(ctx context.Context, from, to domain.Status) {
	addCounter(ctx, m.animalsTransitions, 1,
		attribute.String("animal.status.from", string(from)),
		attribute.String("animal.status.to", string(to)))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
