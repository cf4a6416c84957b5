package ordersvc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/google/uuid"
)

const maxPageSize = 100

// OrderService is a service for managing orders on the backend.
type OrderService struct {
	orderRepo iorderrepo.IOrderRepository
	now       func() time.Time
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if s.orderRepo == nil {
		panic("ordersvc: order repository is required")
	}

	return s
}

// WithOrderRepository sets the order repository for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(repo iorderrepo.IOrderRepository) option {
	return func(s *OrderService) {
		s.orderRepo = repo
	}
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *OrderService) {
		s.now = now
	}
}

// Insert validates and stores a new order. This is the remote order sink.
func (s *OrderService) Insert(ctx context.Context, draft order.Draft) (order.Order, error) {
	if draft.Status == "" {
		draft.Status = order.StatusNew
	}
	if err := draft.Validate(); err != nil {
		return order.Order{}, err
	}

	created, err := s.orderRepo.Insert(ctx, draft)
	if err != nil {
		return order.Order{}, err
	}

	slog.Info("Order accepted",
		"order_id", created.ID,
		"total_price", created.TotalPrice,
		"items", len(created.Items),
	)

	return created, nil
}

// List returns orders newest first.
func (s *OrderService) List(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error) {
	if filter.Status != "" {
		if _, err := order.ParseStatus(string(filter.Status)); err != nil {
			return nil, err
		}
	}
	if filter.Limit <= 0 || filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	orders, err := s.orderRepo.Query(ctx, filter)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		return []order.Order{}, nil
	}

	return orders, nil
}

// Get returns a single order.
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (order.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// UpdateStatus moves an order to next. Cancelled and Completed orders cannot be changed.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, next order.Status) (order.Order, error) {
	current, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return order.Order{}, err
	}

	if err := current.Status.CheckTransition(next); err != nil {
		return order.Order{}, err
	}
	if current.Status == next {
		return current, nil
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, current.Status, next); err != nil {
		return order.Order{}, fmt.Errorf("failed to update order status: %w", err)
	}

	slog.Info("Order status updated",
		"order_id", id,
		"from", current.Status,
		"to", next,
	)

	current.Status = next

	return current, nil
}

// Dashboard summarizes sales over all stored orders.
func (s *OrderService) Dashboard(ctx context.Context) (order.SalesStats, error) {
	orders, err := s.orderRepo.Query(ctx, order.QueryOrdersModel{})
	if err != nil {
		return order.SalesStats{}, err
	}

	return order.Summarize(orders, s.now()), nil
}
