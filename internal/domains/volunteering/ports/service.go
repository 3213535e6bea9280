package ports

import (
	"context"

	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/application/types"
	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/domain"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

// Service exposes the volunteer capacity use cases to adapters.
type Service interface {
	CreateActivity(ctx context.Context, input types.CreateActivityInput) (*types.ActivityView, error)
	UpdateActivity(ctx context.Context, input types.UpdateActivityInput) (*types.ActivityView, error)
	GetActivity(ctx context.Context, id string) (*types.ActivityView, error)
	AvailableSeats(ctx context.Context, activityID string) (int, error)
	ListAvailable(ctx context.Context, input types.ListAvailableInput) (projection.Page[*types.ActivityView], error)
	DeleteActivity(ctx context.Context, id string) error
	Enroll(ctx context.Context, input types.EnrollInput) (*domain.Enrollment, error)
	Cancel(ctx context.Context, input types.CancelInput) (*domain.Enrollment, error)
	RecordAttendance(ctx context.Context, input types.AttendanceInput) (*domain.Enrollment, error)
	ListEnrollments(ctx context.Context, input types.ListEnrollmentsInput) (projection.Page[*domain.Enrollment], error)
}
