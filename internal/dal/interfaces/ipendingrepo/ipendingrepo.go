package ipendingrepo

import (
	"context"

	"github.com/corray333/backend-labs/storefront/internal/service/models/pending"
)

// IPendingRepository is the durable local queue of orders placed offline.
// Implementations return errors wrapping pending.ErrStorageUnavailable when storage fails.
type IPendingRepository interface {
	// Put inserts or overwrites the entry keyed by its idempotency key
	Put(ctx context.Context, order pending.PendingOrder) error

	// ListAll returns a snapshot of every queued entry in insertion order
	ListAll(ctx context.Context) ([]pending.PendingOrder, error)

	// Remove deletes the entry if present; removing an absent key is not an error
	Remove(ctx context.Context, idempotencyKey string) error
}
