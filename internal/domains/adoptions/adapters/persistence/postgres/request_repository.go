package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/domain"
	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/ports"
	platformpg "github.com/Apurer/rescue-adoption-api/internal/platform/postgres"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

var _ ports.RequestRepository = (*RequestRepository)(nil)

// activeStatuses are the request states covered by ux_adoption_requests_active.
var activeStatuses = []string{string(domain.RequestPendingReview), string(domain.RequestApproved)}

// RequestRepository persists adoption requests in PostgreSQL using GORM.
type RequestRepository struct {
	db *gorm.DB
}

// NewRequestRepository wires a PostgreSQL-backed request repository.
func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

type requestRecord struct {
	ID                string     `gorm:"primaryKey;column:id;size:36"`
	AnimalID          string     `gorm:"column:animal_id"`
	AdopterID         string     `gorm:"column:adopter_id"`
	SubmittedAt       time.Time  `gorm:"column:submitted_at"`
	Status            string     `gorm:"column:status"`
	Motivation        string     `gorm:"column:motivation"`
	HousingType       string     `gorm:"column:housing_type"`
	HasYard           bool       `gorm:"column:has_yard"`
	HouseholdMembers  int        `gorm:"column:household_members"`
	OtherPets         int        `gorm:"column:other_pets"`
	Experience        string     `gorm:"column:experience"`
	AvailabilityNotes string     `gorm:"column:availability_notes"`
	ReviewerID        string     `gorm:"column:reviewer_id"`
	ReviewedAt        *time.Time `gorm:"column:reviewed_at"`
	ApprovalComment   string     `gorm:"column:approval_comment"`
	RejectionReason   string     `gorm:"column:rejection_reason"`
	InternalNotes     string     `gorm:"column:internal_notes"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (requestRecord) TableName() string { return "adoption_requests" }

// Create inserts a request. The active-request unique index turns a concurrent duplicate
// into ErrDuplicateActiveRequest.
func (r *RequestRepository) Create(ctx context.Context, request *domain.AdoptionRequest) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if request == nil {
		return errors.New("adoption request is nil")
	}
	record := toRequestRecord(request)
	if err := platformpg.Conn(ctx, r.db).Create(&record).Error; err != nil {
		if platformpg.IsUniqueViolation(err) {
			return ports.ErrDuplicateActiveRequest
		}
		return err
	}
	return nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id string) (*domain.AdoptionRequest, error) {
	return r.get(platformpg.Conn(ctx, r.db), id)
}

// GetForUpdate fetches a request with a row lock held until the transaction ends.
func (r *RequestRepository) GetForUpdate(ctx context.Context, id string) (*domain.AdoptionRequest, error) {
	return r.get(platformpg.Conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *RequestRepository) get(db *gorm.DB, id string) (*domain.AdoptionRequest, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record requestRecord
	if err := db.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *RequestRepository) Update(ctx context.Context, request *domain.AdoptionRequest) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if request == nil {
		return errors.New("adoption request is nil")
	}
	record := toRequestRecord(request)
	result := platformpg.Conn(ctx, r.db).Model(&requestRecord{}).
		Where("id = ?", record.ID).
		Select("*").Omit("id", "animal_id", "adopter_id", "submitted_at").
		Updates(&record)
	if result.Error != nil {
		if platformpg.IsUniqueViolation(result.Error) {
			return ports.ErrDuplicateActiveRequest
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *RequestRepository) HasActive(ctx context.Context, animalID, adopterID string) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var total int64
	err := platformpg.Conn(ctx, r.db).Model(&requestRecord{}).
		Where("animal_id = ? AND adopter_id = ? AND status IN ?", animalID, adopterID, activeStatuses).
		Count(&total).Error
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

// List returns one window of requests, newest first.
func (r *RequestRepository) List(ctx context.Context, filter ports.RequestFilter, window projection.Window) ([]*domain.AdoptionRequest, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	window = window.Normalize()
	var records []requestRecord
	err := applyRequestFilter(platformpg.Conn(ctx, r.db), filter).
		Order("submitted_at DESC").Order("id").
		Limit(window.Limit).Offset(window.Offset).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	out := make([]*domain.AdoptionRequest, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain())
	}
	return out, nil
}

func (r *RequestRepository) Count(ctx context.Context, filter ports.RequestFilter) (int, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var total int64
	if err := applyRequestFilter(platformpg.Conn(ctx, r.db).Model(&requestRecord{}), filter).Count(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

func (r *RequestRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres adoption request repository not configured")
	}
	return nil
}

func applyRequestFilter(db *gorm.DB, filter ports.RequestFilter) *gorm.DB {
	if filter.AnimalID != nil {
		db = db.Where("animal_id = ?", *filter.AnimalID)
	}
	if filter.AdopterID != nil {
		db = db.Where("adopter_id = ?", *filter.AdopterID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", string(*filter.Status))
	}
	return db
}

func toRequestRecord(r *domain.AdoptionRequest) requestRecord {
	return requestRecord{
		ID:                r.ID,
		AnimalID:          r.AnimalID,
		AdopterID:         r.AdopterID,
		SubmittedAt:       r.SubmittedAt,
		Status:            string(r.Status),
		Motivation:        r.Motivation,
		HousingType:       r.Household.HousingType,
		HasYard:           r.Household.HasYard,
		HouseholdMembers:  r.Household.HouseholdMembers,
		OtherPets:         r.Household.OtherPets,
		Experience:        r.Household.Experience,
		AvailabilityNotes: r.Household.AvailabilityNotes,
		ReviewerID:        r.ReviewerID,
		ReviewedAt:        r.ReviewedAt,
		ApprovalComment:   r.ApprovalComment,
		RejectionReason:   r.RejectionReason,
		InternalNotes:     r.InternalNotes,
		UpdatedAt:         r.UpdatedAt,
	}
}

func (r requestRecord) toDomain() *domain.AdoptionRequest {
	return &domain.AdoptionRequest{
		ID:          r.ID,
		AnimalID:    r.AnimalID,
		AdopterID:   r.AdopterID,
		SubmittedAt: r.SubmittedAt,
		Status:      domain.RequestStatus(r.Status),
		Motivation:  r.Motivation,
		Household: domain.HouseholdProfile{
			HousingType:       r.HousingType,
			HasYard:           r.HasYard,
			HouseholdMembers:  r.HouseholdMembers,
			OtherPets:         r.OtherPets,
			Experience:        r.Experience,
			AvailabilityNotes: r.AvailabilityNotes,
		},
		ReviewerID:      r.ReviewerID,
		ReviewedAt:      r.ReviewedAt,
		ApprovalComment: r.ApprovalComment,
		RejectionReason: r.RejectionReason,
		InternalNotes:   r.InternalNotes,
		UpdatedAt:       r.UpdatedAt,
	}
}
