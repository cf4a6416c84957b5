package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/backend-labs/storefront/internal/dal/sqlite"
	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/corray333/backend-labs/storefront/internal/service/models/pending"
)

const table = "pending_orders"

// PendingRepository implements the pending order queue for SQLite.
type PendingRepository struct {
	client *sqlite.Client
}

// NewPendingRepository creates a new pending order repository.
func NewPendingRepository(client *sqlite.Client) *PendingRepository {
	return &PendingRepository{
		client: client,
	}
}

// Put inserts the order or overwrites the entry with the same idempotency key.
func (r *PendingRepository) Put(ctx context.Context, po pending.PendingOrder) error {
	payload, err := json.Marshal(po.Order)
	if err != nil {
		return fmt.Errorf("failed to encode pending order: %w", err)
	}

	query, args, err := sq.Insert(table).
		Columns("idempotency_key", "payload", "queued_at").
		Values(po.IdempotencyKey, string(payload), po.QueuedAt.UTC().Format(time.RFC3339Nano)).
		Suffix("ON CONFLICT(idempotency_key) DO UPDATE SET payload = excluded.payload, queued_at = excluded.queued_at").
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.client.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert pending order: %w: %w", pending.ErrStorageUnavailable, err)
	}

	return nil
}

// ListAll returns every queued order in insertion order.
// Rows whose payload cannot be decoded are logged and skipped.
func (r *PendingRepository) ListAll(ctx context.Context) ([]pending.PendingOrder, error) {
	query, args, err := sq.Select("idempotency_key", "payload", "queued_at").
		From(table).
		OrderBy("seq ASC").
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending orders: %w: %w", pending.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	orders := make([]pending.PendingOrder, 0)
	for rows.Next() {
		var key, payload, queuedAt string
		if err := rows.Scan(&key, &payload, &queuedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pending order: %w: %w", pending.ErrStorageUnavailable, err)
		}

		var draft order.Draft
		if err := json.Unmarshal([]byte(payload), &draft); err != nil {
			slog.WarnContext(ctx, "Skipping undecodable pending order", "idempotency_key", key, "error", err)

			continue
		}

		ts, err := time.Parse(time.RFC3339Nano, queuedAt)
		if err != nil {
			slog.WarnContext(ctx, "Pending order has malformed queued_at", "idempotency_key", key, "error", err)
		}

		orders = append(orders, pending.PendingOrder{
			IdempotencyKey: key,
			Order:          draft,
			QueuedAt:       ts,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending orders: %w: %w", pending.ErrStorageUnavailable, err)
	}

	return orders, nil
}

// Remove deletes the entry with the given key. Absent keys are ignored.
func (r *PendingRepository) Remove(ctx context.Context, idempotencyKey string) error {
	query, args, err := sq.Delete(table).
		Where(sq.Eq{"idempotency_key": idempotencyKey}).
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := r.client.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete pending order: %w: %w", pending.ErrStorageUnavailable, err)
	}

	return nil
}
