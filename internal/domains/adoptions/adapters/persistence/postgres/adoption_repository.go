package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/domain"
	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/ports"
	platformpg "github.com/Apurer/rescue-adoption-api/internal/platform/postgres"
)

var _ ports.AdoptionRepository = (*AdoptionRepository)(nil)

// AdoptionRepository persists finalized adoptions in PostgreSQL.
type AdoptionRepository struct {
	db *gorm.DB
}

// NewAdoptionRepository wires a PostgreSQL-backed adoption repository.
func NewAdoptionRepository(db *gorm.DB) *AdoptionRepository {
	return &AdoptionRepository{db: db}
}

type adoptionRecord struct {
	ID               string         `gorm:"primaryKey;column:id;size:36"`
	RequestID        string         `gorm:"column:request_id"`
	AnimalID         string         `gorm:"column:animal_id"`
	AdopterID        string         `gorm:"column:adopter_id"`
	CoordinatorID    string         `gorm:"column:coordinator_id"`
	FinalizedOn      datatypes.Date `gorm:"column:finalized_on"`
	Observations     string         `gorm:"column:observations"`
	HandoverLocation string         `gorm:"column:handover_location"`
	CreatedAt        time.Time      `gorm:"column:created_at"`
}

func (adoptionRecord) TableName() string { return "adoptions" }

// Create inserts an adoption. The unique index on request_id maps to ErrAdoptionExists.
func (r *AdoptionRepository) Create(ctx context.Context, adoption *domain.Adoption) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if adoption == nil {
		return errors.New("adoption is nil")
	}
	record := adoptionRecord{
		ID:               adoption.ID,
		RequestID:        adoption.RequestID,
		AnimalID:         adoption.AnimalID,
		AdopterID:        adoption.AdopterID,
		CoordinatorID:    adoption.CoordinatorID,
		FinalizedOn:      datatypes.Date(adoption.FinalizedOn),
		Observations:     adoption.Observations,
		HandoverLocation: adoption.HandoverLocation,
		CreatedAt:        adoption.CreatedAt,
	}
	if err := platformpg.Conn(ctx, r.db).Create(&record).Error; err != nil {
		if platformpg.IsUniqueViolation(err) {
			return ports.ErrAdoptionExists
		}
		return err
	}
	return nil
}

func (r *AdoptionRepository) GetByID(ctx context.Context, id string) (*domain.Adoption, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *AdoptionRepository) GetByRequestID(ctx context.Context, requestID string) (*domain.Adoption, error) {
	return r.first(ctx, "request_id = ?", requestID)
}

func (r *AdoptionRepository) first(ctx context.Context, query string, arg string) (*domain.Adoption, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record adoptionRecord
	if err := platformpg.Conn(ctx, r.db).First(&record, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrAdoptionNotFound
		}
		return nil, err
	}
	return &domain.Adoption{
		ID:               record.ID,
		RequestID:        record.RequestID,
		AnimalID:         record.AnimalID,
		AdopterID:        record.AdopterID,
		CoordinatorID:    record.CoordinatorID,
		FinalizedOn:      time.Time(record.FinalizedOn),
		Observations:     record.Observations,
		HandoverLocation: record.HandoverLocation,
		CreatedAt:        record.CreatedAt,
	}, nil
}

func (r *AdoptionRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres adoption repository not configured")
	}
	return nil
}
