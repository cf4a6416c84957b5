package iorderrepo

import (
	"context"

	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/google/uuid"
)

// IOrderRepository is the backend store of accepted orders.
type IOrderRepository interface {
	Insert(ctx context.Context, draft order.Draft) (order.Order, error)
	// Query returns orders newest first; a zero Limit means no limit.
	Query(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (order.Order, error)
	// UpdateStatus moves the order from one status to another and returns
	// order.ErrInvalidStatusTransition if its current status is no longer from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to order.Status) error
}
