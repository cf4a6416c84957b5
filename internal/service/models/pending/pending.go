package pending

import (
	"errors"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/google/uuid"
)

// ErrStorageUnavailable is returned by every queue operation when local storage cannot be used.
var ErrStorageUnavailable = errors.New("local order storage unavailable")

// PendingOrder is an order placed offline and not yet accepted by the backend.
// Entries are written once and only ever removed.
type PendingOrder struct {
	IdempotencyKey string      `json:"idempotency_key"`
	Order          order.Draft `json:"order"`
	QueuedAt       time.Time   `json:"queued_at"`
}

// New wraps draft under a fresh idempotency key.
func New(draft order.Draft, queuedAt time.Time) PendingOrder {
	return PendingOrder{
		IdempotencyKey: uuid.NewString(),
		Order:          draft,
		QueuedAt:       queuedAt,
	}
}

// Payload returns what is sent to the backend; the idempotency key stays local.
func (p PendingOrder) Payload() order.Draft {
	return p.Order
}
