package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/domain"
	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/ports"
	platformpg "github.com/Apurer/rescue-adoption-api/internal/platform/postgres"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

var _ ports.EnrollmentRepository = (*EnrollmentRepository)(nil)

// activeStatuses are the enrollment states covered by ux_enrollments_active.
var activeStatuses = []string{string(domain.EnrollmentConfirmed), string(domain.EnrollmentAttended)}

// EnrollmentRepository persists enrollments in PostgreSQL using GORM.
type EnrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

type enrollmentRecord struct {
	ID          string     `gorm:"primaryKey;column:id;size:36"`
	ActivityID  string     `gorm:"column:activity_id"`
	VolunteerID string     `gorm:"column:volunteer_id"`
	EnrolledAt  time.Time  `gorm:"column:enrolled_at"`
	Status      string     `gorm:"column:status"`
	Hours       *float64   `gorm:"column:hours"`
	Comments    string     `gorm:"column:comments"`
	CancelledAt *time.Time `gorm:"column:cancelled_at"`
}

func (enrollmentRecord) TableName() string { return "enrollments" }

// Create inserts an enrollment. The active-enrollment unique index turns a concurrent
// duplicate into ErrDuplicateActiveEnrollment.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if enrollment == nil {
		return errors.New("enrollment is nil")
	}
	record := toEnrollmentRecord(enrollment)
	if err := platformpg.Conn(ctx, r.db).Create(&record).Error; err != nil {
		if platformpg.IsUniqueViolation(err) {
			return ports.ErrDuplicateActiveEnrollment
		}
		return err
	}
	return nil
}

func (r *EnrollmentRepository) GetByID(ctx context.Context, id string) (*domain.Enrollment, error) {
	return r.get(platformpg.Conn(ctx, r.db), id)
}

func (r *EnrollmentRepository) GetForUpdate(ctx context.Context, id string) (*domain.Enrollment, error) {
	return r.get(platformpg.Conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *EnrollmentRepository) get(db *gorm.DB, id string) (*domain.Enrollment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record enrollmentRecord
	if err := db.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *domain.Enrollment) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if enrollment == nil {
		return errors.New("enrollment is nil")
	}
	record := toEnrollmentRecord(enrollment)
	result := platformpg.Conn(ctx, r.db).Model(&enrollmentRecord{}).
		Where("id = ?", record.ID).
		Select("*").Omit("id", "activity_id", "volunteer_id", "enrolled_at").
		Updates(&record)
	if result.Error != nil {
		if platformpg.IsUniqueViolation(result.Error) {
			return ports.ErrDuplicateActiveEnrollment
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrEnrollmentNotFound
	}
	return nil
}

func (r *EnrollmentRepository) HasActive(ctx context.Context, activityID, volunteerID string) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var total int64
	err := platformpg.Conn(ctx, r.db).Model(&enrollmentRecord{}).
		Where("activity_id = ? AND volunteer_id = ? AND status IN ?", activityID, volunteerID, activeStatuses).
		Count(&total).Error
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

// CountActive groups the active enrollments of the given activities in one query.
func (r *EnrollmentRepository) CountActive(ctx context.Context, activityIDs ...string) (map[string]int, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(activityIDs))
	if len(activityIDs) == 0 {
		return counts, nil
	}
	for _, id := range activityIDs {
		counts[id] = 0
	}
	var rows []struct {
		ActivityID string
		Total      int
	}
	err := platformpg.Conn(ctx, r.db).Model(&enrollmentRecord{}).
		Select("activity_id, COUNT(*) AS total").
		Where("activity_id IN ? AND status IN ?", activityIDs, activeStatuses).
		Group("activity_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ActivityID] = row.Total
	}
	return counts, nil
}

// List returns one window of enrollments in enrollment order.
func (r *EnrollmentRepository) List(ctx context.Context, filter ports.EnrollmentFilter, window projection.Window) ([]*domain.Enrollment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	window = window.Normalize()
	var records []enrollmentRecord
	err := applyEnrollmentFilter(platformpg.Conn(ctx, r.db), filter).
		Order("enrolled_at").Order("id").
		Limit(window.Limit).Offset(window.Offset).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Enrollment, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain())
	}
	return out, nil
}

func (r *EnrollmentRepository) Count(ctx context.Context, filter ports.EnrollmentFilter) (int, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var total int64
	if err := applyEnrollmentFilter(platformpg.Conn(ctx, r.db).Model(&enrollmentRecord{}), filter).Count(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

func (r *EnrollmentRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres enrollment repository not configured")
	}
	return nil
}

func applyEnrollmentFilter(db *gorm.DB, filter ports.EnrollmentFilter) *gorm.DB {
	if filter.ActivityID != nil {
		db = db.Where("activity_id = ?", *filter.ActivityID)
	}
	if filter.VolunteerID != nil {
		db = db.Where("volunteer_id = ?", *filter.VolunteerID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", string(*filter.Status))
	}
	return db
}

func toEnrollmentRecord(e *domain.Enrollment) enrollmentRecord {
	return enrollmentRecord{
		ID:          e.ID,
		ActivityID:  e.ActivityID,
		VolunteerID: e.VolunteerID,
		EnrolledAt:  e.EnrolledAt,
		Status:      string(e.Status),
		Hours:       e.Hours,
		Comments:    e.Comments,
		CancelledAt: e.CancelledAt,
	}
}

func (r enrollmentRecord) toDomain() *domain.Enrollment {
	return &domain.Enrollment{
		ID:          r.ID,
		ActivityID:  r.ActivityID,
		VolunteerID: r.VolunteerID,
		EnrolledAt:  r.EnrolledAt,
		Status:      domain.EnrollmentStatus(r.Status),
		Hours:       r.Hours,
		Comments:    r.Comments,
		CancelledAt: r.CancelledAt,
	}
}
