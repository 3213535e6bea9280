package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/domain"
	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/ports"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

var _ ports.EnrollmentRepository = (*EnrollmentRepository)(nil)

// EnrollmentRepository keeps enrollments in memory and enforces the
// one-active-seat-per-volunteer rule on write.
type EnrollmentRepository struct {
	mu          sync.RWMutex
	enrollments map[string]*domain.Enrollment
	order       []string
}

func NewEnrollmentRepository() *EnrollmentRepository {
	return &EnrollmentRepository{enrollments: map[string]*domain.Enrollment{}}
}

func (r *EnrollmentRepository) Create(_ context.Context, enrollment *domain.Enrollment) error {
	if enrollment == nil {
		return errors.New("enrollment is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.enrollments[enrollment.ID]; exists {
		return errors.New("enrollment id already exists")
	}
	if enrollment.Status.Active() && r.activeLocked(enrollment.ActivityID, enrollment.VolunteerID, "") {
		return ports.ErrDuplicateActiveEnrollment
	}
	r.enrollments[enrollment.ID] = enrollment.Clone()
	r.order = append(r.order, enrollment.ID)
	return nil
}

func (r *EnrollmentRepository) GetByID(_ context.Context, id string) (*domain.Enrollment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	enrollment, ok := r.enrollments[id]
	if !ok {
		return nil, ports.ErrEnrollmentNotFound
	}
	return enrollment.Clone(), nil
}

// GetForUpdate relies on the unit-of-work lock held by the caller.
func (r *EnrollmentRepository) GetForUpdate(ctx context.Context, id string) (*domain.Enrollment, error) {
	return r.GetByID(ctx, id)
}

func (r *EnrollmentRepository) Update(_ context.Context, enrollment *domain.Enrollment) error {
	if enrollment == nil {
		return errors.New("enrollment is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.enrollments[enrollment.ID]; !ok {
		return ports.ErrEnrollmentNotFound
	}
	if enrollment.Status.Active() && r.activeLocked(enrollment.ActivityID, enrollment.VolunteerID, enrollment.ID) {
		return ports.ErrDuplicateActiveEnrollment
	}
	r.enrollments[enrollment.ID] = enrollment.Clone()
	return nil
}

func (r *EnrollmentRepository) HasActive(_ context.Context, activityID, volunteerID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeLocked(activityID, volunteerID, ""), nil
}

func (r *EnrollmentRepository) CountActive(_ context.Context, activityIDs ...string) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[string]int, len(activityIDs))
	wanted := make(map[string]struct{}, len(activityIDs))
	for _, id := range activityIDs {
		counts[id] = 0
		wanted[id] = struct{}{}
	}
	for _, enrollment := range r.enrollments {
		if _, ok := wanted[enrollment.ActivityID]; ok && enrollment.Status.Active() {
			counts[enrollment.ActivityID]++
		}
	}
	return counts, nil
}

func (r *EnrollmentRepository) List(_ context.Context, filter ports.EnrollmentFilter, window projection.Window) ([]*domain.Enrollment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := r.matching(filter)
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].EnrolledAt.Before(matched[j].EnrolledAt)
	})
	page := projection.Apply(matched, window)
	out := make([]*domain.Enrollment, 0, len(page))
	for _, enrollment := range page {
		out = append(out, enrollment.Clone())
	}
	return out, nil
}

func (r *EnrollmentRepository) Count(_ context.Context, filter ports.EnrollmentFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matching(filter)), nil
}

func (r *EnrollmentRepository) activeLocked(activityID, volunteerID, exceptID string) bool {
	for id, enrollment := range r.enrollments {
		if id == exceptID {
			continue
		}
		if enrollment.ActivityID == activityID && enrollment.VolunteerID == volunteerID && enrollment.Status.Active() {
			return true
		}
	}
	return false
}

func (r *EnrollmentRepository) matching(filter ports.EnrollmentFilter) []*domain.Enrollment {
	out := make([]*domain.Enrollment, 0, len(r.order))
	for _, id := range r.order {
		enrollment := r.enrollments[id]
		if filter.ActivityID != nil && enrollment.ActivityID != *filter.ActivityID {
			continue
		}
		if filter.VolunteerID != nil && enrollment.VolunteerID != *filter.VolunteerID {
			continue
		}
		if filter.Status != nil && enrollment.Status != *filter.Status {
			continue
		}
		out = append(out, enrollment)
	}
	return out
}
