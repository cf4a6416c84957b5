package syncorders

import (
	"context"
	"errors"
	"net/http"

	"github.com/corray333/backend-labs/storefront/internal/service/models/pending"
	"github.com/corray333/backend-labs/storefront/internal/worker/reconcile"
	"github.com/corray333/backend-labs/storefront/pkg/http/respond"
)

type reconciler interface {
	Reconcile(ctx context.Context) (reconcile.Report, error)
}

type queue interface {
	PendingOrders(ctx context.Context) ([]pending.PendingOrder, error)
}

type pendingResponse struct {
	Count  int                    `json:"count"`
	Orders []pending.PendingOrder `json:"orders"`
}

// SyncOrders runs one reconciliation cycle and reports its counts.
func SyncOrders(w http.ResponseWriter, r *http.Request, reconciler reconciler) {
	report, err := reconciler.Reconcile(r.Context())
	if err != nil {
		respond.Error(w, r, statusFor(err), err)

		return
	}

	respond.JSON(w, r, http.StatusOK, report)
}

// ListPending returns the orders waiting in the local queue.
func ListPending(w http.ResponseWriter, r *http.Request, queue queue) {
	orders, err := queue.PendingOrders(r.Context())
	if err != nil {
		respond.Error(w, r, statusFor(err), err)

		return
	}

	respond.JSON(w, r, http.StatusOK, pendingResponse{Count: len(orders), Orders: orders})
}

func statusFor(err error) int {
	if errors.Is(err, pending.ErrStorageUnavailable) {
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}
