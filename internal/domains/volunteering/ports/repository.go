package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/domain"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

var (
	ErrActivityNotFound          = errors.New("volunteer activity not found")
	ErrEnrollmentNotFound        = errors.New("enrollment not found")
	ErrDuplicateActiveEnrollment = errors.New("volunteer is already enrolled in this activity")
	ErrActivityReferenced        = errors.New("activity has enrollments")
)

// ActivityFilter narrows activity listings. From and To bound the activity date inclusively.
type ActivityFilter struct {
	From   *time.Time
	To     *time.Time
	Urgent *bool
}

// ActivityRepository persists volunteer activities. Listings are ordered by date, then start time.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) error
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	// GetForUpdate holds the activity until the caller's unit of work ends, serializing
	// seat checks for it.
	GetForUpdate(ctx context.Context, id string) (*domain.Activity, error)
	Update(ctx context.Context, activity *domain.Activity) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ActivityFilter) ([]*domain.Activity, error)
}

// EnrollmentFilter narrows enrollment listings. Nil fields match everything.
type EnrollmentFilter struct {
	ActivityID  *string
	VolunteerID *string
	Status      *domain.EnrollmentStatus
}

// EnrollmentRepository persists enrollments. Create and Update fail with
// ErrDuplicateActiveEnrollment when the volunteer already holds an active seat in the activity.
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *domain.Enrollment) error
	GetByID(ctx context.Context, id string) (*domain.Enrollment, error)
	GetForUpdate(ctx context.Context, id string) (*domain.Enrollment, error)
	Update(ctx context.Context, enrollment *domain.Enrollment) error
	HasActive(ctx context.Context, activityID, volunteerID string) (bool, error)
	// CountActive returns the confirmed and attended enrollments per activity id.
	CountActive(ctx context.Context, activityIDs ...string) (map[string]int, error)
	List(ctx context.Context, filter EnrollmentFilter, window projection.Window) ([]*domain.Enrollment, error)
	Count(ctx context.Context, filter EnrollmentFilter) (int, error)
}
