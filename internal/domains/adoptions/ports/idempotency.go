package ports

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyConflict indicates the same key was used with a different payload or target.
var ErrIdempotencyConflict = errors.New("idempotency conflict")

// IdempotencyRecord ties a client-supplied key to the request it created.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	RequestID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IdempotencyStore persists submission keys so retries replay the original request.
type IdempotencyStore interface {
	// Get returns the stored record for the key, or nil when unknown.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Save persists the record; if the key already exists with the same hash and request, the stored record is returned.
	// When the key exists but points to a different payload or request, ErrIdempotencyConflict is returned with the stored record.
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}
