package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/ports"
	platformpg "github.com/Apurer/rescue-adoption-api/internal/platform/postgres"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// DefaultIdempotencyTTL bounds how long a stored key replays.
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore persists submission keys in PostgreSQL, inside the caller's transaction when there is one.
type IdempotencyStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// IdempotencyOption configures an IdempotencyStore.
type IdempotencyOption func(*IdempotencyStore)

// WithIdempotencyTTL overrides DefaultIdempotencyTTL. Non-positive values are ignored.
func WithIdempotencyTTL(ttl time.Duration) IdempotencyOption {
	return func(s *IdempotencyStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewIdempotencyStore wires a PostgreSQL-backed idempotency store.
func NewIdempotencyStore(db *gorm.DB, opts ...IdempotencyOption) *IdempotencyStore {
	s := &IdempotencyStore{db: db, ttl: DefaultIdempotencyTTL, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Get loads a live record by key, returning nil when absent or expired.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record idempotencyRecord
	if err := platformpg.Conn(ctx, s.db).First(&record, "key = ? AND created_at > ?", key, s.cutoff()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toPortRecord(&record), nil
}

// Save inserts the record; if the key already exists with the same hash and request it is returned,
// otherwise ErrIdempotencyConflict is returned with the stored record. ON CONFLICT DO NOTHING keeps
// an enclosing transaction usable when the key is taken.
func (s *IdempotencyStore) Save(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	conn := platformpg.Conn(ctx, s.db)
	if err := conn.Where("key = ? AND created_at <= ?", record.Key, s.cutoff()).Delete(&idempotencyRecord{}).Error; err != nil {
		return nil, err
	}
	now := s.now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	dbRecord := toDBRecord(record)
	result := conn.Clauses(clause.OnConflict{DoNothing: true}).Create(&dbRecord)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		return toPortRecord(&dbRecord), nil
	}
	existing, err := s.Get(ctx, record.Key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errors.New("idempotency key vanished after conflict")
	}
	if existing.RequestHash != record.RequestHash || existing.RequestID != record.RequestID {
		return existing, ports.ErrIdempotencyConflict
	}
	return existing, nil
}

func (s *IdempotencyStore) cutoff() time.Time {
	return s.now().UTC().Add(-s.ttl)
}

func (s *IdempotencyStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres idempotency store not configured")
	}
	return nil
}

type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	RequestID   string    `gorm:"column:request_id;size:36"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "adoption_idempotency_keys" }

func toDBRecord(rec ports.IdempotencyRecord) idempotencyRecord {
	return idempotencyRecord{
		Key:         rec.Key,
		RequestHash: rec.RequestHash,
		RequestID:   rec.RequestID,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}

func toPortRecord(rec *idempotencyRecord) *ports.IdempotencyRecord {
	if rec == nil {
		return nil
	}
	return &ports.IdempotencyRecord{
		Key:         rec.Key,
		RequestHash: rec.RequestHash,
		RequestID:   rec.RequestID,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}
