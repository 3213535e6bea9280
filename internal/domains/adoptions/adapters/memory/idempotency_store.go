package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/ports"
)

// DefaultIdempotencyTTL matches the Redis store so submission keys replay for the same window
// whichever backend is configured.
const DefaultIdempotencyTTL = 24 * time.Hour

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps submission keys in process. Records older than the TTL are treated
// as unknown and dropped on the next write.
type IdempotencyStore struct {
	mu      sync.Mutex
	records map[string]ports.IdempotencyRecord
	ttl     time.Duration
	now     func() time.Time
}

// IdempotencyOption configures an IdempotencyStore.
type IdempotencyOption func(*IdempotencyStore)

// WithTTL overrides DefaultIdempotencyTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) IdempotencyOption {
	return func(s *IdempotencyStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) IdempotencyOption {
	return func(s *IdempotencyStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewIdempotencyStore constructs an empty store with DefaultIdempotencyTTL.
func NewIdempotencyStore(opts ...IdempotencyOption) *IdempotencyStore {
	s := &IdempotencyStore{
		records: map[string]ports.IdempotencyRecord{},
		ttl:     DefaultIdempotencyTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Get returns the live record for key, or nil when unknown or expired.
func (s *IdempotencyStore) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.live(key)
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// Save claims key for record. A live record with a different hash or request id is a conflict;
// an expired one is replaced.
func (s *IdempotencyStore) Save(_ context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.live(record.Key); ok {
		if existing.RequestHash != record.RequestHash || existing.RequestID != record.RequestID {
			return &existing, ports.ErrIdempotencyConflict
		}
		return &existing, nil
	}

	s.prune()
	now := s.now()
	record.CreatedAt = now
	record.UpdatedAt = now
	s.records[record.Key] = record
	return &record, nil
}

func (s *IdempotencyStore) live(key string) (ports.IdempotencyRecord, bool) {
	record, ok := s.records[key]
	if !ok || s.expired(record) {
		return ports.IdempotencyRecord{}, false
	}
	return record, true
}

func (s *IdempotencyStore) expired(record ports.IdempotencyRecord) bool {
	return !s.now().Before(record.CreatedAt.Add(s.ttl))
}

func (s *IdempotencyStore) prune() {
	for key, record := range s.records {
		if s.expired(record) {
			delete(s.records, key)
		}
	}
}
