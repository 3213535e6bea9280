package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/ports"
)

const keyPrefix = "adoptions:idempotency:"

// DefaultTTL bounds how long a submission key can be replayed.
const DefaultTTL = 24 * time.Hour

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps submission keys in Redis with a TTL. Keys are claimed with SET NX,
// so the first writer wins across instances.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// Option configures an IdempotencyStore.
type Option func(*IdempotencyStore)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *IdempotencyStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// NewIdempotencyStore wires a Redis-backed store. The client lifecycle is managed by the caller.
func NewIdempotencyStore(client *redis.Client, opts ...Option) *IdempotencyStore {
	s := &IdempotencyStore{client: client, ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

type storedRecord struct {
	RequestHash string    `json:"requestHash"`
	RequestID   string    `json:"requestId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Get returns the record for key, or nil when unknown or expired.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var stored storedRecord
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, err
	}
	return &ports.IdempotencyRecord{
		Key:         key,
		RequestHash: stored.RequestHash,
		RequestID:   stored.RequestID,
		CreatedAt:   stored.CreatedAt,
		UpdatedAt:   stored.CreatedAt,
	}, nil
}

// Save claims the key. An existing key with the same hash and request is returned as is;
// anything else yields ErrIdempotencyConflict with the stored record.
func (s *IdempotencyStore) Save(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	payload, err := json.Marshal(storedRecord{RequestHash: record.RequestHash, RequestID: record.RequestID, CreatedAt: now})
	if err != nil {
		return nil, err
	}
	claimed, err := s.client.SetNX(ctx, keyPrefix+record.Key, payload, s.ttl).Result()
	if err != nil {
		return nil, err
	}
	if claimed {
		record.CreatedAt = now
		record.UpdatedAt = now
		return &record, nil
	}
	existing, err := s.Get(ctx, record.Key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, errors.New("idempotency key expired while saving")
	}
	if existing.RequestHash != record.RequestHash || existing.RequestID != record.RequestID {
		return existing, ports.ErrIdempotencyConflict
	}
	return existing, nil
}

func (s *IdempotencyStore) ensureClient() error {
	if s == nil || s.client == nil {
		return errors.New("redis idempotency store not configured")
	}
	return nil
}
