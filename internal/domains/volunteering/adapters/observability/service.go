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

	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/application/types"
	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/domain"
	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/ports"
	"github.com/Apurer/rescue-adoption-api/internal/shared/failure"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

const tracerName = "github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/adapters/observability/service"

// Service decorates the volunteer capacity port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

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

func (s *Service) CreateActivity(ctx context.Context, input types.CreateActivityInput) (*types.ActivityView, error) {
	ctx, span := s.tracer.Start(ctx, "VolunteerService.CreateActivity", trace.WithAttributes(attribute.String("activity.date", input.Date)))
	defer span.End()

	result, err := s.inner.CreateActivity(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create activity")
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "activity created",
		slog.String("activity.id", result.Activity.ID),
		slog.Int("activity.required_volunteers", result.Activity.RequiredVolunteers),
		slog.String("coordinator.id", input.CoordinatorID))
	return result, nil
}

func (s *Service) UpdateActivity(ctx context.Context, input types.UpdateActivityInput) (*types.ActivityView, error) {
	ctx, span := s.tracer.Start(ctx, "VolunteerService.UpdateActivity", trace.WithAttributes(attribute.String("activity.id", input.ActivityID)))
	defer span.End()

	result, err := s.inner.UpdateActivity(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update activity", slog.String("activity.id", input.ActivityID))
	}
	span.SetAttributes(attribute.Int("activity.available_seats", result.AvailableSeats))
	return result, nil
}

func (s *Service) GetActivity(ctx context.Context, id string) (*types.ActivityView, error) {
	ctx, span := s.tracer.Start(ctx, "VolunteerService.GetActivity", trace.WithAttributes(attribute.String("activity.id", id)))
	defer span.End()

	result, err := s.inner.GetActivity(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load activity", slog.String("activity.id", id))
	}
	return result, nil
}

func (s *Service) AvailableSeats(ctx context.Context, activityID string) (int, error) {
	ctx, span := s.tracer.Start(ctx, "VolunteerService.AvailableSeats", trace.WithAttributes(attribute.String("activity.id", activityID)))
	defer span.End()

	result, err := s.inner.AvailableSeats(ctx, activityID)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to compute available seats", slog.String("activity.id", activityID))
	}
	span.SetAttributes(attribute.Int("activity.available_seats", result))
	return result, nil
}

func (s *Service) ListAvailable(ctx context.Context, input types.ListAvailableInput) (projection.Page[*types.ActivityView], error) {
	ctx, span := s.tracer.Start(ctx, "VolunteerService.ListAvailable")
	defer span.End()

	result, err := s.inner.ListAvailable(ctx, input)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list available activities")
	}
	span.SetAttributes(attribute.Int("activity.result.count", len(result.Items)), attribute.Int("activity.result.total", result.Total))
	return result, nil
}

func (s *Service) DeleteActivity(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "VolunteerService.DeleteActivity", trace.WithAttributes(attribute.String("activity.id", id)))
	defer span.End()

	if err := s.inner.DeleteActivity(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete activity", slog.String("activity.id", id))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "activity deleted", slog.String("activity.id", id))
	return nil
}

func (s *Service) Enroll(ctx context.Context, input types.EnrollInput) (*domain.Enrollment, error) {
	ctx, span := s.tracer.Start(ctx, "VolunteerService.Enroll",
		trace.WithAttributes(attribute.String("activity.id", input.ActivityID), attribute.String("volunteer.id", input.VolunteerID)))
	defer span.End()

	result, err := s.inner.Enroll(ctx, input)
	if err != nil {
		s.metrics.recordRejected(ctx, failure.CodeOf(err))
		return nil, s.handleError(ctx, span, err, "failed to enroll volunteer",
			slog.String("activity.id", input.ActivityID), slog.String("volunteer.id", input.VolunteerID))
	}
	s.metrics.recordEnrolled(ctx)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "volunteer enrolled",
		slog.String("enrollment.id", result.ID),
		slog.String("activity.id", result.ActivityID),
		slog.String("volunteer.id", result.VolunteerID))
	return result, nil
}

func (s *Service) Cancel(ctx context.Context, input types.CancelInput) (*domain.Enrollment, error) {
	ctx, span := s.tracer.Start(ctx, "VolunteerService.Cancel", trace.WithAttributes(attribute.String("enrollment.id", input.EnrollmentID)))
	defer span.End()

	result, err := s.inner.Cancel(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to cancel enrollment",
			slog.String("enrollment.id", input.EnrollmentID), slog.String("volunteer.id", input.VolunteerID))
	}
	s.metrics.recordCancelled(ctx)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "enrollment cancelled",
		slog.String("enrollment.id", result.ID), slog.String("activity.id", result.ActivityID))
	return result, nil
}

func (s *Service) RecordAttendance(ctx context.Context, input types.AttendanceInput) (*domain.Enrollment, error) {
	ctx, span := s.tracer.Start(ctx, "VolunteerService.RecordAttendance", trace.WithAttributes(attribute.String("enrollment.id", input.EnrollmentID)))
	defer span.End()

	result, err := s.inner.RecordAttendance(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to record attendance", slog.String("enrollment.id", input.EnrollmentID))
	}
	return result, nil
}

func (s *Service) ListEnrollments(ctx context.Context, input types.ListEnrollmentsInput) (projection.Page[*domain.Enrollment], error) {
	ctx, span := s.tracer.Start(ctx, "VolunteerService.ListEnrollments")
	defer span.End()

	result, err := s.inner.ListEnrollments(ctx, input)
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to list enrollments")
	}
	span.SetAttributes(attribute.Int("enrollment.result.total", result.Total))
	return result, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	code := failure.CodeOf(err)
	attrs = append(attrs, slog.String("error.code", string(code)), slog.String("error", err.Error()))
	if code == failure.CodeStorage {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
		return err
	}
	span.SetAttributes(attribute.String("error.code", string(code)))
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
	return err
}

type serviceMetrics struct {
	enrolled  metric.Int64Counter
	rejected  metric.Int64Counter
	cancelled metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	enrolled, _ := m.Int64Counter("volunteering.enrollments.created", metric.WithDescription("Number of confirmed enrollments"))
	rejected, _ := m.Int64Counter("volunteering.enrollments.rejected", metric.WithDescription("Number of enrollment attempts refused, by failure code"))
	cancelled, _ := m.Int64Counter("volunteering.enrollments.cancelled", metric.WithDescription("Number of enrollments cancelled by volunteers"))
	return serviceMetrics{enrolled: enrolled, rejected: rejected, cancelled: cancelled}
}

func (m serviceMetrics) recordEnrolled(ctx context.Context) {
	if m.enrolled != nil {
		m.enrolled.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context, code failure.Code) {
	if m.rejected != nil {
		m.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("error.code", string(code))))
	}
}

func (m serviceMetrics) recordCancelled(ctx context.Context) {
	if m.cancelled != nil {
		m.cancelled.Add(ctx, 1)
	}
}

var _ ports.Service = (*Service)(nil)
