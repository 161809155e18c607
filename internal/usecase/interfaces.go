package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/domain"
)

// EntryStore is the persistent table of entries. Each call is atomic on its
// own; nothing is transactional across calls.
type EntryStore interface {
	// List returns the entries matching filter in any order.
	List(ctx context.Context, filter domain.Filter) ([]domain.Entry, error)
	// Insert stores a new entry and returns it with its store-assigned ID.
	Insert(ctx context.Context, entry domain.NewEntry) (*domain.Entry, error)
	// UpdateFields writes the set fields of one entry. Unknown ids fail with domain.ErrEntryNotFound.
	UpdateFields(ctx context.Context, id string, fields domain.EntryFields) error
	// Delete removes one entry. Unknown ids fail with domain.ErrEntryNotFound.
	Delete(ctx context.Context, id string) error
}

// IDGenerator generates unique, lexically time-ordered IDs.
type IDGenerator interface {
	Generate() string
}

// MetricsRecorder receives reconciliation and mutation measurements.
type MetricsRecorder interface {
	ObserveReconcile(outcome string, updated, failed int, duration time.Duration, closing decimal.Decimal)
	ObserveMutation(operation, outcome string)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not complete, so it can be retried.
	Release(ctx context.Context, key string) error
}
