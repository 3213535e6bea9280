package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/domain"
	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/ports"
	platformpg "github.com/Apurer/rescue-adoption-api/internal/platform/postgres"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists animals and their tracking log in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle
// and schema (see platform/migrations).
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type animalRecord struct {
	ID                   string          `gorm:"primaryKey;column:id;size:36"`
	Species              string          `gorm:"column:species"`
	Name                 string          `gorm:"column:name"`
	Breed                string          `gorm:"column:breed"`
	Sex                  string          `gorm:"column:sex"`
	Size                 string          `gorm:"column:size"`
	Color                string          `gorm:"column:color"`
	AgeEstimate          string          `gorm:"column:age_estimate"`
	RescueDate           *datatypes.Date `gorm:"column:rescue_date"`
	RescuePlace          string          `gorm:"column:rescue_place"`
	RescueCondition      string          `gorm:"column:rescue_condition"`
	History              string          `gorm:"column:history"`
	Personality          string          `gorm:"column:personality"`
	Compatibility        string          `gorm:"column:compatibility"`
	AdoptionRequirements string          `gorm:"column:adoption_requirements"`
	PhotoURLs            pq.StringArray  `gorm:"column:photo_urls;type:text[]"`
	Status               string          `gorm:"column:status"`
	Location             string          `gorm:"column:location"`
	CreatedAt            time.Time       `gorm:"column:created_at"`
	UpdatedAt            time.Time       `gorm:"column:updated_at"`
}

func (animalRecord) TableName() string { return "animals" }

type trackingRecord struct {
	ID               string    `gorm:"primaryKey;column:id;size:36"`
	Seq              int64     `gorm:"column:seq;autoIncrement"`
	AnimalID         string    `gorm:"column:animal_id"`
	PreviousStatus   string    `gorm:"column:previous_status"`
	NewStatus        string    `gorm:"column:new_status"`
	PreviousLocation string    `gorm:"column:previous_location"`
	NewLocation      string    `gorm:"column:new_location"`
	ActorID          string    `gorm:"column:actor_id"`
	Comment          string    `gorm:"column:comment"`
	RecordedAt       time.Time `gorm:"column:recorded_at"`
}

func (trackingRecord) TableName() string { return "animal_tracking" }

// Create inserts a new animal.
func (r *Repository) Create(ctx context.Context, animal *domain.Animal) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if animal == nil {
		return errors.New("animal is nil")
	}
	record := toRecord(animal)
	return platformpg.Conn(ctx, r.db).Create(&record).Error
}

// GetByID fetches an animal by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Animal, error) {
	return r.get(platformpg.Conn(ctx, r.db), id)
}

// GetForUpdate fetches an animal with a row lock held until the transaction ends.
func (r *Repository) GetForUpdate(ctx context.Context, id string) (*domain.Animal, error) {
	return r.get(platformpg.Conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *Repository) get(db *gorm.DB, id string) (*domain.Animal, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record animalRecord
	if err := db.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Update overwrites the stored animal.
func (r *Repository) Update(ctx context.Context, animal *domain.Animal) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if animal == nil {
		return errors.New("animal is nil")
	}
	record := toRecord(animal)
	result := platformpg.Conn(ctx, r.db).Model(&animalRecord{}).
		Where("id = ?", record.ID).
		Select("*").Omit("id", "created_at").
		Updates(&record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns one window of animals, newest first.
func (r *Repository) List(ctx context.Context, filter ports.Filter, window projection.Window) ([]*domain.Animal, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	window = window.Normalize()
	var records []animalRecord
	err := applyFilter(platformpg.Conn(ctx, r.db), filter).
		Order("created_at DESC").Order("id").
		Limit(window.Limit).Offset(window.Offset).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	animals := make([]*domain.Animal, 0, len(records))
	for i := range records {
		animals = append(animals, records[i].toDomain())
	}
	return animals, nil
}

// Count returns how many animals match the filter.
func (r *Repository) Count(ctx context.Context, filter ports.Filter) (int, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var total int64
	if err := applyFilter(platformpg.Conn(ctx, r.db).Model(&animalRecord{}), filter).Count(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

// AppendTracking inserts one audit entry.
func (r *Repository) AppendTracking(ctx context.Context, entry domain.TrackingEntry) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	record := trackingRecord{
		ID:               entry.ID,
		AnimalID:         entry.AnimalID,
		PreviousStatus:   string(entry.PreviousStatus),
		NewStatus:        string(entry.NewStatus),
		PreviousLocation: string(entry.PreviousLocation),
		NewLocation:      string(entry.NewLocation),
		ActorID:          entry.ActorID,
		Comment:          entry.Comment,
		RecordedAt:       entry.RecordedAt,
	}
	return platformpg.Conn(ctx, r.db).Create(&record).Error
}

// ListTracking returns the entries of one animal in insertion order.
func (r *Repository) ListTracking(ctx context.Context, animalID string) ([]domain.TrackingEntry, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []trackingRecord
	if err := platformpg.Conn(ctx, r.db).
		Where("animal_id = ?", animalID).
		Order("seq").
		Find(&records).Error; err != nil {
		return nil, err
	}
	entries := make([]domain.TrackingEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, domain.TrackingEntry{
			ID:               rec.ID,
			AnimalID:         rec.AnimalID,
			PreviousStatus:   domain.Status(rec.PreviousStatus),
			NewStatus:        domain.Status(rec.NewStatus),
			PreviousLocation: domain.Location(rec.PreviousLocation),
			NewLocation:      domain.Location(rec.NewLocation),
			ActorID:          rec.ActorID,
			Comment:          rec.Comment,
			RecordedAt:       rec.RecordedAt,
		})
	}
	return entries, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres animal repository not configured")
	}
	return nil
}

func applyFilter(db *gorm.DB, filter ports.Filter) *gorm.DB {
	if filter.Status != nil {
		db = db.Where("status = ?", string(*filter.Status))
	}
	if filter.Location != nil {
		db = db.Where("location = ?", string(*filter.Location))
	}
	if filter.Species != nil {
		db = db.Where("species = ?", string(*filter.Species))
	}
	return db
}

func toRecord(a *domain.Animal) animalRecord {
	rec := animalRecord{
		ID:                   a.ID,
		Species:              string(a.Species),
		Name:                 a.Name,
		Breed:                a.Breed,
		Sex:                  a.Sex,
		Size:                 a.Size,
		Color:                a.Color,
		AgeEstimate:          a.AgeEstimate,
		RescuePlace:          a.RescuePlace,
		RescueCondition:      a.RescueCondition,
		History:              a.History,
		Personality:          a.Personality,
		Compatibility:        a.Compatibility,
		AdoptionRequirements: a.AdoptionRequirements,
		PhotoURLs:            pq.StringArray(append([]string{}, a.PhotoURLs...)),
		Status:               string(a.Status),
		Location:             string(a.Location),
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
	if a.RescueDate != nil {
		d := datatypes.Date(*a.RescueDate)
		rec.RescueDate = &d
	}
	return rec
}

func (r animalRecord) toDomain() *domain.Animal {
	a := &domain.Animal{
		ID:                   r.ID,
		Species:              domain.Species(r.Species),
		Name:                 r.Name,
		Breed:                r.Breed,
		Sex:                  r.Sex,
		Size:                 r.Size,
		Color:                r.Color,
		AgeEstimate:          r.AgeEstimate,
		RescuePlace:          r.RescuePlace,
		RescueCondition:      r.RescueCondition,
		History:              r.History,
		Personality:          r.Personality,
		Compatibility:        r.Compatibility,
		AdoptionRequirements: r.AdoptionRequirements,
		PhotoURLs:            []string(r.PhotoURLs),
		Status:               domain.Status(r.Status),
		Location:             domain.Location(r.Location),
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
	if r.RescueDate != nil {
		d := time.Time(*r.RescueDate)
		a.RescueDate = &d
	}
	return a
}
