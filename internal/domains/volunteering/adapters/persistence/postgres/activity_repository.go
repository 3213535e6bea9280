package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/domain"
	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/ports"
	platformpg "github.com/Apurer/rescue-adoption-api/internal/platform/postgres"
	"github.com/Apurer/rescue-adoption-api/internal/shared/calendar"
)

var _ ports.ActivityRepository = (*ActivityRepository)(nil)

// ActivityRepository persists volunteer activities in PostgreSQL using GORM.
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

type activityRecord struct {
	ID                 string         `gorm:"primaryKey;column:id;size:36"`
	Title              string         `gorm:"column:title"`
	Description        string         `gorm:"column:description"`
	Date               datatypes.Date `gorm:"column:date"`
	StartTime          string         `gorm:"column:start_time"`
	EndTime            string         `gorm:"column:end_time"`
	Place              string         `gorm:"column:place"`
	RequiredVolunteers int            `gorm:"column:required_volunteers"`
	Requirements       string         `gorm:"column:requirements"`
	Benefits           string         `gorm:"column:benefits"`
	Urgent             bool           `gorm:"column:urgent"`
	CoordinatorID      string         `gorm:"column:coordinator_id"`
	CreatedAt          time.Time      `gorm:"column:created_at"`
	UpdatedAt          time.Time      `gorm:"column:updated_at"`
}

func (activityRecord) TableName() string { return "volunteer_activities" }

func (r *ActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if activity == nil {
		return errors.New("activity is nil")
	}
	record := toActivityRecord(activity)
	return platformpg.Conn(ctx, r.db).Create(&record).Error
}

func (r *ActivityRepository) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	return r.get(platformpg.Conn(ctx, r.db), id)
}

// GetForUpdate locks the activity row so seat checks for it run one at a time.
func (r *ActivityRepository) GetForUpdate(ctx context.Context, id string) (*domain.Activity, error) {
	return r.get(platformpg.Conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *ActivityRepository) get(db *gorm.DB, id string) (*domain.Activity, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record activityRecord
	if err := db.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrActivityNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *ActivityRepository) Update(ctx context.Context, activity *domain.Activity) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if activity == nil {
		return errors.New("activity is nil")
	}
	record := toActivityRecord(activity)
	result := platformpg.Conn(ctx, r.db).Model(&activityRecord{}).
		Where("id = ?", record.ID).
		Select("*").Omit("id", "coordinator_id", "created_at").
		Updates(&record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrActivityNotFound
	}
	return nil
}

func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := platformpg.Conn(ctx, r.db).Delete(&activityRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrActivityNotFound
	}
	return nil
}

func (r *ActivityRepository) List(ctx context.Context, filter ports.ActivityFilter) ([]*domain.Activity, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	db := platformpg.Conn(ctx, r.db)
	if filter.From != nil {
		db = db.Where("date >= ?", filter.From.Format(calendar.DateLayout))
	}
	if filter.To != nil {
		db = db.Where("date <= ?", filter.To.Format(calendar.DateLayout))
	}
	if filter.Urgent != nil {
		db = db.Where("urgent = ?", *filter.Urgent)
	}
	var records []activityRecord
	if err := db.Order("date").Order("start_time").Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Activity, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain())
	}
	return out, nil
}

func (r *ActivityRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres activity repository not configured")
	}
	return nil
}

func toActivityRecord(a *domain.Activity) activityRecord {
	return activityRecord{
		ID:                 a.ID,
		Title:              a.Title,
		Description:        a.Description,
		Date:               datatypes.Date(calendar.Day(a.Date, time.UTC)),
		StartTime:          a.Start.String(),
		EndTime:            a.End.String(),
		Place:              a.Place,
		RequiredVolunteers: a.RequiredVolunteers,
		Requirements:       a.Requirements,
		Benefits:           a.Benefits,
		Urgent:             a.Urgent,
		CoordinatorID:      a.CoordinatorID,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// toDomain keeps the stored wall date; stored clock values were written by String.
func (r activityRecord) toDomain() *domain.Activity {
	start, _ := calendar.ParseClock(r.StartTime)
	end, _ := calendar.ParseClock(r.EndTime)
	return &domain.Activity{
		ID:                 r.ID,
		Title:              r.Title,
		Description:        r.Description,
		Date:               calendar.Day(time.Time(r.Date), time.UTC),
		Start:              start,
		End:                end,
		Place:              r.Place,
		RequiredVolunteers: r.RequiredVolunteers,
		Requirements:       r.Requirements,
		Benefits:           r.Benefits,
		Urgent:             r.Urgent,
		CoordinatorID:      r.CoordinatorID,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}
