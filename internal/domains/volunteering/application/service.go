package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/application/types"
	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/domain"
	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/ports"
	"github.com/Apurer/rescue-adoption-api/internal/platform/txn"
	"github.com/Apurer/rescue-adoption-api/internal/shared/calendar"
	"github.com/Apurer/rescue-adoption-api/internal/shared/failure"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
	"github.com/Apurer/rescue-adoption-api/internal/shared/validation"
)

// Service is the volunteer capacity engine. Seats are never stored: every read derives
// them from the active enrollment count.
type Service struct {
	activities  ports.ActivityRepository
	enrollments ports.EnrollmentRepository
	tx          txn.Runner
	now         calendar.Clock
	location    *time.Location
	newID       func() string
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

// WithLocation sets the timezone activity dates are interpreted in.
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

// NewService wires the volunteering scheduler over its repositories and unit of work.
func NewService(activities ports.ActivityRepository, enrollments ports.EnrollmentRepository, tx txn.Runner, opts ...Option) *Service {
	s := &Service{
		activities:  activities,
		enrollments: enrollments,
		tx:          tx,
		now:         time.Now,
		location:    time.UTC,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateActivity schedules an activity. All field problems are reported together.
func (s *Service) CreateActivity(ctx context.Context, input types.CreateActivityInput) (*types.ActivityView, error) {
	now := s.clock()
	fields := validation.Struct(input)
	if strings.TrimSpace(input.CoordinatorID) == "" {
		fields = validation.Merge(fields, map[string]string{"coordinator_id": "is required"})
	}
	date, msg := s.parseActivityDate(input.Date, now)
	if msg != "" {
		fields = validation.Merge(fields, map[string]string{"date": msg})
	}
	start, end, msg := parseSchedule(input.StartTime, input.EndTime)
	if msg != "" {
		fields = validation.Merge(fields, map[string]string{"end_time": msg})
	}
	if len(fields) > 0 {
		return nil, failure.Validation(fields)
	}

	activity := &domain.Activity{
		ID:                 s.newID(),
		Title:              strings.TrimSpace(input.Title),
		Description:        strings.TrimSpace(input.Description),
		Date:               date,
		Start:              start,
		End:                end,
		Place:              strings.TrimSpace(input.Place),
		RequiredVolunteers: input.RequiredVolunteers,
		Requirements:       strings.TrimSpace(input.Requirements),
		Benefits:           strings.TrimSpace(input.Benefits),
		Urgent:             input.Urgent,
		CoordinatorID:      strings.TrimSpace(input.CoordinatorID),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := activity.Validate(); err != nil {
		return nil, mapError(err)
	}
	if err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.activities.Create(ctx, activity)
	}); err != nil {
		return nil, mapError(err)
	}
	return types.NewActivityView(activity, 0), nil
}

// UpdateActivity changes the fields present in input. Lowering the seat count below the
// active enrollments is a validation failure on required_volunteers.
func (s *Service) UpdateActivity(ctx context.Context, input types.UpdateActivityInput) (*types.ActivityView, error) {
	now := s.clock()
	fields := validation.Struct(input)
	var date time.Time
	if input.Date != nil {
		var msg string
		date, msg = s.parseActivityDate(*input.Date, now)
		if msg != "" {
			fields = validation.Merge(fields, map[string]string{"date": msg})
		}
	}
	if len(fields) > 0 {
		return nil, failure.Validation(fields)
	}

	var view *types.ActivityView
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		activity, err := s.activities.GetForUpdate(ctx, input.ActivityID)
		if err != nil {
			return err
		}
		counts, err := s.enrollments.CountActive(ctx, activity.ID)
		if err != nil {
			return err
		}
		active := counts[activity.ID]

		setString(&activity.Title, input.Title)
		setString(&activity.Description, input.Description)
		setString(&activity.Place, input.Place)
		setString(&activity.Requirements, input.Requirements)
		setString(&activity.Benefits, input.Benefits)
		if input.Date != nil {
			activity.Date = date
		}
		if input.StartTime != nil {
			activity.Start, _ = calendar.ParseClock(*input.StartTime)
		}
		if input.EndTime != nil {
			activity.End, _ = calendar.ParseClock(*input.EndTime)
		}
		if input.Urgent != nil {
			activity.Urgent = *input.Urgent
		}
		if input.RequiredVolunteers != nil {
			if err := activity.Resize(*input.RequiredVolunteers, active); err != nil {
				return err
			}
		}
		if err := activity.Validate(); err != nil {
			return err
		}
		activity.UpdatedAt = now
		if err := s.activities.Update(ctx, activity); err != nil {
			return err
		}
		view = types.NewActivityView(activity, active)
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return view, nil
}

// GetActivity loads an activity with its live seat count.
func (s *Service) GetActivity(ctx context.Context, id string) (*types.ActivityView, error) {
	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	counts, err := s.enrollments.CountActive(ctx, activity.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return types.NewActivityView(activity, counts[activity.ID]), nil
}

// AvailableSeats is required volunteers minus active enrollments.
func (s *Service) AvailableSeats(ctx context.Context, activityID string) (int, error) {
	view, err := s.GetActivity(ctx, activityID)
	if err != nil {
		return 0, err
	}
	return view.AvailableSeats, nil
}

// ListAvailable returns the activities dated today or later that still have seats.
// A From earlier than today is raised to today.
func (s *Service) ListAvailable(ctx context.Context, input types.ListAvailableInput) (projection.Page[*types.ActivityView], error) {
	today := calendar.Today(s.clock())
	from := today
	if input.From != nil {
		if d := s.day(*input.From); d.After(today) {
			from = d
		}
	}
	filter := ports.ActivityFilter{From: &from, Urgent: input.Urgent}
	if input.To != nil {
		to := s.day(*input.To)
		filter.To = &to
	}

	activities, err := s.activities.List(ctx, filter)
	if err != nil {
		return projection.Page[*types.ActivityView]{}, mapError(err)
	}
	ids := make([]string, 0, len(activities))
	for _, a := range activities {
		ids = append(ids, a.ID)
	}
	counts, err := s.enrollments.CountActive(ctx, ids...)
	if err != nil {
		return projection.Page[*types.ActivityView]{}, mapError(err)
	}

	open := make([]*types.ActivityView, 0, len(activities))
	for _, a := range activities {
		view := types.NewActivityView(a, counts[a.ID])
		if view.AvailableSeats > 0 {
			open = append(open, view)
		}
	}
	window := input.Window.Normalize()
	return projection.NewPage(projection.Apply(open, window), len(open), window), nil
}

// DeleteActivity removes an activity nobody ever enrolled in.
func (s *Service) DeleteActivity(ctx context.Context, id string) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		activity, err := s.activities.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		total, err := s.enrollments.Count(ctx, ports.EnrollmentFilter{ActivityID: &activity.ID})
		if err != nil {
			return err
		}
		if total > 0 {
			return ports.ErrActivityReferenced
		}
		return s.activities.Delete(ctx, activity.ID)
	})
	return mapError(err)
}

// Enroll takes a seat. Checks run in order: activity exists, activity not past, a seat is
// free, the volunteer holds no active seat already.
func (s *Service) Enroll(ctx context.Context, input types.EnrollInput) (*domain.Enrollment, error) {
	volunteerID := strings.TrimSpace(input.VolunteerID)
	if volunteerID == "" {
		return nil, failure.Field("volunteer_id", "is required")
	}

	var result *domain.Enrollment
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		activity, err := s.activities.GetForUpdate(ctx, input.ActivityID)
		if err != nil {
			return err
		}
		now := s.clock()
		if activity.IsPast(now) {
			return domain.ErrActivityInPast
		}
		counts, err := s.enrollments.CountActive(ctx, activity.ID)
		if err != nil {
			return err
		}
		if activity.AvailableSeats(counts[activity.ID]) <= 0 {
			return failure.New(failure.CodeNoSeats, "activity has no available seats")
		}
		enrolled, err := s.enrollments.HasActive(ctx, activity.ID, volunteerID)
		if err != nil {
			return err
		}
		if enrolled {
			return ports.ErrDuplicateActiveEnrollment
		}
		enrollment := domain.NewEnrollment(s.newID(), activity.ID, volunteerID, input.Comments, now)
		if err := s.enrollments.Create(ctx, enrollment); err != nil {
			return err
		}
		result = enrollment
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// Cancel releases the volunteer's own seat. Checks run in order: enrollment exists, caller
// owns it, activity not past, not cancelled yet.
func (s *Service) Cancel(ctx context.Context, input types.CancelInput) (*domain.Enrollment, error) {
	var result *domain.Enrollment
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		enrollment, err := s.enrollments.GetForUpdate(ctx, input.EnrollmentID)
		if err != nil {
			return err
		}
		if !enrollment.OwnedBy(input.VolunteerID) {
			return domain.ErrNotOwner
		}
		activity, err := s.activities.GetByID(ctx, enrollment.ActivityID)
		if err != nil {
			return err
		}
		now := s.clock()
		if activity.IsPast(now) {
			return domain.ErrActivityInPast
		}
		if err := enrollment.Cancel(now); err != nil {
			return err
		}
		if err := s.enrollments.Update(ctx, enrollment); err != nil {
			return err
		}
		result = enrollment
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// RecordAttendance marks a seat as attended. Attended seats keep counting as occupied.
func (s *Service) RecordAttendance(ctx context.Context, input types.AttendanceInput) (*domain.Enrollment, error) {
	if fields := validation.Struct(input); len(fields) > 0 {
		return nil, failure.Validation(fields)
	}
	var result *domain.Enrollment
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		enrollment, err := s.enrollments.GetForUpdate(ctx, input.EnrollmentID)
		if err != nil {
			return err
		}
		if err := enrollment.MarkAttended(input.Hours, input.Comments); err != nil {
			return err
		}
		if err := s.enrollments.Update(ctx, enrollment); err != nil {
			return err
		}
		result = enrollment
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// ListEnrollments returns one page of enrollments in enrollment order.
func (s *Service) ListEnrollments(ctx context.Context, input types.ListEnrollmentsInput) (projection.Page[*domain.Enrollment], error) {
	var filter ports.EnrollmentFilter
	if v := strings.TrimSpace(input.ActivityID); v != "" {
		filter.ActivityID = &v
	}
	if v := strings.TrimSpace(input.VolunteerID); v != "" {
		filter.VolunteerID = &v
	}
	if v := strings.TrimSpace(input.Status); v != "" {
		status, err := domain.ParseEnrollmentStatus(v)
		if err != nil {
			return projection.Page[*domain.Enrollment]{}, mapError(err)
		}
		filter.Status = &status
	}
	window := input.Window.Normalize()
	items, err := s.enrollments.List(ctx, filter, window)
	if err != nil {
		return projection.Page[*domain.Enrollment]{}, mapError(err)
	}
	total, err := s.enrollments.Count(ctx, filter)
	if err != nil {
		return projection.Page[*domain.Enrollment]{}, mapError(err)
	}
	return projection.NewPage(items, total, window), nil
}

func (s *Service) parseActivityDate(raw string, now time.Time) (time.Time, string) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, ""
	}
	d, err := calendar.ParseDate(raw, s.location)
	if err != nil {
		return time.Time{}, err.Error()
	}
	if calendar.BeforeDay(d, now) {
		return time.Time{}, "cannot be in the past"
	}
	return d, ""
}

// parseSchedule reports the end_time problem, if any. Malformed clocks are left to the
// struct tags.
func parseSchedule(startRaw, endRaw string) (calendar.TimeOfDay, calendar.TimeOfDay, string) {
	start, errStart := calendar.ParseClock(startRaw)
	end, errEnd := calendar.ParseClock(endRaw)
	if errStart != nil || errEnd != nil {
		return start, end, ""
	}
	if end <= start {
		return start, end, "must be after start_time"
	}
	return start, end, ""
}

func (s *Service) day(t time.Time) time.Time {
	return calendar.Day(t, s.location)
}

func (s *Service) clock() time.Time {
	return s.now().In(s.location)
}

func setString(dst *string, value *string) {
	if value != nil {
		*dst = strings.TrimSpace(*value)
	}
}

var _ ports.Service = (*Service)(nil)
