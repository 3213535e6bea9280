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

	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/application/types"
	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/domain"
	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/ports"
	"github.com/Apurer/rescue-adoption-api/internal/shared/failure"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

const tracerName = "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/adapters/observability/service"

// Service decorates the adoption workflow port with tracing, logging, and metrics.
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
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
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
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) SubmitRequest(ctx context.Context, input types.SubmitRequestInput) (*domain.AdoptionRequest, error) {
	ctx, span := s.tracer.Start(ctx, "AdoptionService.SubmitRequest", trace.WithAttributes(
		attribute.String("animal.id", input.AnimalID),
		attribute.Bool("idempotency.key_present", input.IdempotencyKey != "")))
	defer span.End()

	s.logger.LogAttrs(ctx, slog.LevelInfo, "submitting adoption request",
		slog.String("animal.id", input.AnimalID),
		slog.String("adopter.id", input.AdopterID))
	result, err := s.inner.SubmitRequest(ctx, input)
	if err != nil {
		s.metrics.recordOutcome(ctx, "submit", err)
		return nil, s.handleError(ctx, span, err, "failed to submit adoption request", slog.String("animal.id", input.AnimalID))
	}
	s.metrics.recordOutcome(ctx, "submit", nil)
	span.SetAttributes(attribute.String("adoption_request.id", result.ID))
	s.logger.LogAttrs(ctx, slog.LevelInfo, "adoption request submitted", slog.String("adoption_request.id", result.ID))
	return result, nil
}

func (s *Service) EvaluateRequest(ctx context.Context, input types.EvaluateRequestInput) (*domain.AdoptionRequest, error) {
	ctx, span := s.tracer.Start(ctx, "AdoptionService.EvaluateRequest", trace.WithAttributes(
		attribute.String("adoption_request.id", input.RequestID),
		attribute.String("adoption_request.decision", input.Decision)))
	defer span.End()

	s.logger.LogAttrs(ctx, slog.LevelInfo, "evaluating adoption request",
		slog.String("adoption_request.id", input.RequestID),
		slog.String("decision", input.Decision),
		slog.String("reviewer.id", input.ReviewerID))
	result, err := s.inner.EvaluateRequest(ctx, input)
	if err != nil {
		s.metrics.recordOutcome(ctx, "evaluate", err)
		return nil, s.handleError(ctx, span, err, "failed to evaluate adoption request", slog.String("adoption_request.id", input.RequestID))
	}
	s.metrics.recordOutcome(ctx, "evaluate", nil)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "adoption request evaluated",
		slog.String("adoption_request.id", result.ID),
		slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) FinalizeAdoption(ctx context.Context, input types.FinalizeAdoptionInput) (*domain.Adoption, error) {
	ctx, span := s.tracer.Start(ctx, "AdoptionService.FinalizeAdoption", trace.WithAttributes(
		attribute.String("adoption_request.id", input.RequestID)))
	defer span.End()

	s.logger.LogAttrs(ctx, slog.LevelInfo, "finalizing adoption",
		slog.String("adoption_request.id", input.RequestID),
		slog.String("coordinator.id", input.CoordinatorID))
	result, err := s.inner.FinalizeAdoption(ctx, input)
	if err != nil {
		s.metrics.recordOutcome(ctx, "finalize", err)
		return nil, s.handleError(ctx, span, err, "failed to finalize adoption", slog.String("adoption_request.id", input.RequestID))
	}
	s.metrics.recordOutcome(ctx, "finalize", nil)
	span.SetAttributes(attribute.String("adoption.id", result.ID))
	s.logger.LogAttrs(ctx, slog.LevelInfo, "adoption finalized",
		slog.String("adoption.id", result.ID),
		slog.String("animal.id", result.AnimalID))
	return result, nil
}

func (s *Service) GetRequest(ctx context.Context, id string) (*domain.AdoptionRequest, error) {
	ctx, span := s.tracer.Start(ctx, "AdoptionService.GetRequest", trace.WithAttributes(attribute.String("adoption_request.id", id)))
	defer span.End()

	result, err := s.inner.GetRequest(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load adoption request", slog.String("adoption_request.id", id))
	}
	return result, nil
}

func (s *Service) ListRequests(ctx context.Context, input types.ListRequestsInput) (projection.Page[*domain.AdoptionRequest], error) {
	ctx, span := s.tracer.Start(ctx, "AdoptionService.ListRequests")
	defer span.End()

	result, err := s.inner.ListRequests(ctx, input)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list adoption requests")
	}
	span.SetAttributes(attribute.Int("adoption_request.result.count", len(result.Items)))
	return result, nil
}

func (s *Service) GetAdoption(ctx context.Context, id string) (*domain.Adoption, error) {
	ctx, span := s.tracer.Start(ctx, "AdoptionService.GetAdoption", trace.WithAttributes(attribute.String("adoption.id", id)))
	defer span.End()

	result, err := s.inner.GetAdoption(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load adoption", slog.String("adoption.id", id))
	}
	return result, nil
}

func (s *Service) GetAdoptionByRequest(ctx context.Context, requestID string) (*domain.Adoption, error) {
	ctx, span := s.tracer.Start(ctx, "AdoptionService.GetAdoptionByRequest", trace.WithAttributes(attribute.String("adoption_request.id", requestID)))
	defer span.End()

	result, err := s.inner.GetAdoptionByRequest(ctx, requestID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load adoption by request", slog.String("adoption_request.id", requestID))
	}
	return result, nil
}

// handleError keeps storage failures at error level with the cause; business failures are warnings.
func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	code := failure.CodeOf(err)
	attrs = append(attrs, slog.String("error.code", string(code)), slog.String("error", err.Error()))
	span.SetAttributes(attribute.String("error.code", string(code)))
	if code == failure.CodeStorage {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
		return err
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
	return err
}

type serviceMetrics struct {
	operations metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	operations, _ := m.Int64Counter("adoptions.operations", metric.WithDescription("Adoption workflow operations by outcome"))
	return serviceMetrics{operations: operations}
}

func (m serviceMetrics) recordOutcome(ctx context.Context, operation string, err error) {
	if m.operations == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = string(failure.CodeOf(err))
	}
	m.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome)))
}

var _ ports.Service = (*Service)(nil)
