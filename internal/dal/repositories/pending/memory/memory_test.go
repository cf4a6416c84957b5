package memory

import (
	"context"
	"testing"
	"time"

	"github.com/corray333/backend-labs/storefront/internal/service/models/order"
	"github.com/corray333/backend-labs/storefront/internal/service/models/pending"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPendingRepository()

	draft := order.NewDraft("Asha", "0712", "Kariakoo", []order.Item{{ID: 1, Name: "Pen", Price: 10, Quantity: 1}})
	a, b, c := pending.New(draft, time.Now()), pending.New(draft, time.Now()), pending.New(draft, time.Now())
	for _, po := range []pending.PendingOrder{a, b, c} {
		require.NoError(t, repo.Put(ctx, po))
	}
	require.NoError(t, repo.Put(ctx, b))

	got, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{a.IdempotencyKey, b.IdempotencyKey, c.IdempotencyKey},
		[]string{got[0].IdempotencyKey, got[1].IdempotencyKey, got[2].IdempotencyKey})

	require.NoError(t, repo.Remove(ctx, b.IdempotencyKey))
	require.NoError(t, repo.Remove(ctx, b.IdempotencyKey))

	got, err = repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
