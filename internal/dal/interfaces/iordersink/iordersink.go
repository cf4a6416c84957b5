package iordersink

import (
	"context"

	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
)

// IOrderSink accepts orders on the backend.
// Failures wrap order.ErrSubmitFailed; an expired deadline wraps order.ErrTimeout.
type IOrderSink interface {
	Insert(ctx context.Context, draft order.Draft) (order.Order, error)
}
