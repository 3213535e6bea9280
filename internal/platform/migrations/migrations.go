package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts, then the partial unique indexes
// that guard the active-request and active-enrollment invariants.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(
		&animalRecord{},
		&trackingRecord{},
		&adoptionRequestRecord{},
		&adoptionRecord{},
		&idempotencyRecord{},
		&activityRecord{},
		&enrollmentRecord{},
	); err != nil {
		return err
	}
	for _, stmt := range partialIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

var partialIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_adoption_requests_active
		ON adoption_requests (animal_id, adopter_id)
		WHERE status IN ('pending_review', 'approved')`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_enrollments_active
		ON enrollments (activity_id, volunteer_id)
		WHERE status IN ('confirmed', 'attended')`,
}

// Animal schema mirrors the animals Postgres adapter.
type animalRecord struct {
	ID                   string          `gorm:"primaryKey;column:id;size:36"`
	Species              string          `gorm:"column:species;type:varchar(16);index"`
	Name                 string          `gorm:"column:name"`
	Breed                string          `gorm:"column:breed"`
	Sex                  string          `gorm:"column:sex;type:varchar(16)"`
	Size                 string          `gorm:"column:size;type:varchar(16)"`
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
	Status               string          `gorm:"column:status;type:varchar(32);index"`
	Location             string          `gorm:"column:location;type:varchar(32);index"`
	CreatedAt            time.Time       `gorm:"column:created_at;index"`
	UpdatedAt            time.Time       `gorm:"column:updated_at"`
}

func (animalRecord) TableName() string { return "animals" }

// Tracking schema mirrors the animals Postgres adapter.
type trackingRecord struct {
	ID               string    `gorm:"primaryKey;column:id;size:36"`
	Seq              int64     `gorm:"column:seq;autoIncrement"`
	AnimalID         string    `gorm:"column:animal_id;size:36;index"`
	PreviousStatus   string    `gorm:"column:previous_status;type:varchar(32)"`
	NewStatus        string    `gorm:"column:new_status;type:varchar(32)"`
	PreviousLocation string    `gorm:"column:previous_location;type:varchar(32)"`
	NewLocation      string    `gorm:"column:new_location;type:varchar(32)"`
	ActorID          string    `gorm:"column:actor_id"`
	Comment          string    `gorm:"column:comment"`
	RecordedAt       time.Time `gorm:"column:recorded_at;index"`
}

func (trackingRecord) TableName() string { return "animal_tracking" }

// Adoption request schema mirrors the adoptions Postgres adapter.
type adoptionRequestRecord struct {
	ID                string     `gorm:"primaryKey;column:id;size:36"`
	AnimalID          string     `gorm:"column:animal_id;size:36;index"`
	AdopterID         string     `gorm:"column:adopter_id;index"`
	SubmittedAt       time.Time  `gorm:"column:submitted_at;index"`
	Status            string     `gorm:"column:status;type:varchar(32);index"`
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

func (adoptionRequestRecord) TableName() string { return "adoption_requests" }

// Adoption schema mirrors the adoptions Postgres adapter.
type adoptionRecord struct {
	ID               string         `gorm:"primaryKey;column:id;size:36"`
	RequestID        string         `gorm:"column:request_id;size:36;uniqueIndex"`
	AnimalID         string         `gorm:"column:animal_id;size:36;index"`
	AdopterID        string         `gorm:"column:adopter_id"`
	CoordinatorID    string         `gorm:"column:coordinator_id"`
	FinalizedOn      datatypes.Date `gorm:"column:finalized_on"`
	Observations     string         `gorm:"column:observations"`
	HandoverLocation string         `gorm:"column:handover_location"`
	CreatedAt        time.Time      `gorm:"column:created_at"`
}

func (adoptionRecord) TableName() string { return "adoptions" }

// Submission idempotency schema mirrors the adoptions Postgres idempotency store.
type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	RequestID   string    `gorm:"column:request_id;size:36"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "adoption_idempotency_keys" }

// Activity schema mirrors the volunteering Postgres adapter.
type activityRecord struct {
	ID                 string         `gorm:"primaryKey;column:id;size:36"`
	Title              string         `gorm:"column:title"`
	Description        string         `gorm:"column:description"`
	Date               datatypes.Date `gorm:"column:date;index"`
	StartTime          string         `gorm:"column:start_time;type:varchar(5)"`
	EndTime            string         `gorm:"column:end_time;type:varchar(5)"`
	Place              string         `gorm:"column:place"`
	RequiredVolunteers int            `gorm:"column:required_volunteers"`
	Requirements       string         `gorm:"column:requirements"`
	Benefits           string         `gorm:"column:benefits"`
	Urgent             bool           `gorm:"column:urgent;index"`
	CoordinatorID      string         `gorm:"column:coordinator_id"`
	CreatedAt          time.Time      `gorm:"column:created_at"`
	UpdatedAt          time.Time      `gorm:"column:updated_at"`
}

func (activityRecord) TableName() string { return "volunteer_activities" }

// Enrollment schema mirrors the volunteering Postgres adapter.
type enrollmentRecord struct {
	ID          string     `gorm:"primaryKey;column:id;size:36"`
	ActivityID  string     `gorm:"column:activity_id;size:36;index"`
	VolunteerID string     `gorm:"column:volunteer_id;index"`
	EnrolledAt  time.Time  `gorm:"column:enrolled_at"`
	Status      string     `gorm:"column:status;type:varchar(32);index"`
	Hours       *float64   `gorm:"column:hours"`
	Comments    string     `gorm:"column:comments"`
	CancelledAt *time.Time `gorm:"column:cancelled_at"`
}

func (enrollmentRecord) TableName() string { return "enrollments" }
