// Package memory keeps the pending order queue in process memory.
// Entries do not survive a restart; it backs tests and the queue.driver=memory mode.
package memory

import (
	"context"
	"sync"

	"github.com/corray333/backend-labs/storefront/internal/service/models/pending"
)

type PendingRepository struct {
	mu      sync.Mutex
	entries map[string]pending.PendingOrder
	order   []string
}

func NewPendingRepository() *PendingRepository {
	return &PendingRepository{
		entries: make(map[string]pending.PendingOrder),
	}
}

func (r *PendingRepository) Put(_ context.Context, po pending.PendingOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[po.IdempotencyKey]; !ok {
		r.order = append(r.order, po.IdempotencyKey)
	}
	r.entries[po.IdempotencyKey] = po

	return nil
}

func (r *PendingRepository) ListAll(_ context.Context) ([]pending.PendingOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]pending.PendingOrder, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.entries[key])
	}

	return out, nil
}

func (r *PendingRepository) Remove(_ context.Context, idempotencyKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[idempotencyKey]; !ok {
		return nil
	}
	delete(r.entries, idempotencyKey)
	for i, key := range r.order {
		if key == idempotencyKey {
			r.order = append(r.order[:i], r.order[i+1:]...)

			break
		}
	}

	return nil
}
