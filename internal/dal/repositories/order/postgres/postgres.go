package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/storefront/internal/dal/postgres"
	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var columns = []string{
	"id",
	"created_at",
	"customer_name",
	"customer_contact",
	"customer_location",
	"items",
	"total_price",
	"status",
}

// OrderRepository implements the order repository for PostgreSQL.
type OrderRepository struct {
	client *postgres.Client
	sq     sq.StatementBuilderType
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(client *postgres.Client) *OrderRepository {
	return &OrderRepository{
		client: client,
		sq:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert stores a new order and returns it with its id and creation time.
func (r *OrderRepository) Insert(ctx context.Context, draft order.Draft) (order.Order, error) {
	items, err := json.Marshal(draft.Items)
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to encode order items: %w", err)
	}

	query, args, err := r.sq.Insert("orders").
		Columns(
			"customer_name",
			"customer_contact",
			"customer_location",
			"items",
			"total_price",
			"status",
		).
		Values(
			draft.CustomerName,
			draft.CustomerContact,
			draft.CustomerLocation,
			items,
			draft.TotalPrice,
			string(draft.Status),
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	created := order.Order{Draft: draft}
	if err := r.client.Pool().QueryRow(ctx, query, args...).Scan(&created.ID, &created.CreatedAt); err != nil {
		if postgres.IsConstraintViolation(err) {
			return order.Order{}, fmt.Errorf("%w: %v", order.ErrInvalidOrder, err)
		}

		return order.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	return created, nil
}

// Query returns orders newest first, optionally filtered by status.
func (r *OrderRepository) Query(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error) {
	builder := r.sq.Select(columns...).
		From("orders").
		OrderBy("created_at DESC")

	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": string(filter.Status)})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]order.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// GetByID returns one order or order.ErrNotFound.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (order.Order, error) {
	query, args, err := r.sq.Select(columns...).
		From("orders").
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to build select query: %w", err)
	}

	o, err := scanOrder(r.client.Pool().QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return order.Order{}, order.ErrNotFound
	}

	return o, err
}

// UpdateStatus changes the status only while it still equals from.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to order.Status) error {
	query, args, err := r.sq.Update("orders").
		Set("status", string(to)).
		Where(sq.Eq{"id": id.String(), "status": string(from)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.client.Pool().Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %s is no longer %s", order.ErrInvalidStatusTransition, id, from)
	}

	return nil
}

func scanOrder(row pgx.Row) (order.Order, error) {
	var (
		o      order.Order
		items  []byte
		status string
	)

	err := row.Scan(
		&o.ID,
		&o.CreatedAt,
		&o.CustomerName,
		&o.CustomerContact,
		&o.CustomerLocation,
		&items,
		&o.TotalPrice,
		&status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return order.Order{}, err
		}

		return order.Order{}, fmt.Errorf("failed to scan order: %w", err)
	}

	if err := json.Unmarshal(items, &o.Items); err != nil {
		return order.Order{}, fmt.Errorf("failed to decode order items: %w", err)
	}
	o.Status = order.Status(status)

	return o, nil
}
